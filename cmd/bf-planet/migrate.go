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
	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/venicegeo/bf-planet-recipes/migrations"
	"github.com/venicegeo/bf-planet-recipes/util"
)

func migrateDatabaseAction(c *cli.Context) error {
	logContext := &util.BasicLogContext{}
	cat, err := openCatalogFunc(logContext)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(logContext, "Could not open database connection.", err).Error(), 1)
	}
	defer cat.Close()

	if err = goose.SetDialect("postgres"); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err = goose.Run("up", cat.DB(), "."); err != nil {
		return cli.NewExitError(util.LogSimpleErr(logContext, "Migration failed.", err).Error(), 1)
	}
	util.LogInfo(logContext, "Catalog schema is up to date.")
	return nil
}
