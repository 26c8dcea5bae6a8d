// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/venicegeo/bf-planet-recipes/util"
	cli "gopkg.in/urfave/cli.v1"
)

func downloadsAction(c *cli.Context) error {
	logContext := &util.BasicLogContext{}
	cat, err := openCatalogFunc(logContext)
	if err != nil {
		return exitErr(err)
	}
	defer cat.Close()

	downloads, err := cat.List(c.String("kind"))
	if err != nil {
		return exitErr(err)
	}
	var total int64
	for _, d := range downloads {
		printer.Fprintf(c.App.Writer, "%v\t%v\t%v\t%d bytes\t%v\n", d.Kind, d.Ref, d.Path, d.Size, d.RecordedAt.Format("2006-01-02 15:04:05"))
		total += d.Size
	}
	printer.Fprintf(c.App.Writer, "%d files, %d bytes\n", len(downloads), total)
	return nil
}
