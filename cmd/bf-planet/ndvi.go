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
	"fmt"

	"github.com/venicegeo/bf-planet-recipes/ndvi"
	cli "gopkg.in/urfave/cli.v1"
)

func ndviAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one TIFF is required")
	}
	result, err := ndvi.ComputeFile(ndvi.Options{
		TIFFPath:     c.Args().First(),
		MetadataPath: c.String("metadata"),
		RedBand:      c.Int("red"),
		NIRBand:      c.Int("nir"),
		OutputPath:   c.String("out"),
	})
	if err != nil {
		return exitErr(err)
	}
	stats := result.Stats
	printer.Fprintf(c.App.Writer, "%d x %d pixels, %d valid, %d without data\n", result.Width, result.Height, stats.Valid, stats.Invalid)
	fmt.Fprintf(c.App.Writer, "min %.4f max %.4f mean %.4f\n", stats.Min, stats.Max, stats.Mean)
	return nil
}
