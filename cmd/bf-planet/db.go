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
	"errors"

	"github.com/venicegeo/bf-planet-recipes/catalog"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
)

var errNoDatabase = errors.New("no database configured; set DATABASE_URL")

// openCatalog connects to DATABASE_URL
func openCatalog(ctx util.LogContext) (*catalog.Catalog, error) {
	connStr := util.GetDatabaseURL()
	if connStr == "" {
		return nil, errNoDatabase
	}
	return catalog.Open(ctx, connStr)
}

var openCatalogFunc = openCatalog

// newPlanetContext builds a Context from the environment that records
// downloads in the catalog when a database is configured. The returned
// function releases the catalog.
func newPlanetContext() (*planet.Context, func()) {
	pc := planet.NewContextFromEnv()
	if util.GetDatabaseURL() == "" {
		return pc, func() {}
	}
	cat, err := openCatalogFunc(pc)
	if err != nil {
		util.LogAlert(pc, "Downloads will not be recorded: "+err.Error())
		return pc, func() {}
	}
	pc.Recorder = cat
	return pc, func() { cat.Close() }
}
