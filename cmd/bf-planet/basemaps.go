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
	"context"
	"fmt"

	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/basemaps"
	"github.com/venicegeo/bf-planet-recipes/util"
	cli "gopkg.in/urfave/cli.v1"
)

func basemapsMosaicsAction(c *cli.Context) error {
	pc, done := newPlanetContext()
	defer done()

	mosaics, err := basemaps.ListMosaics(context.Background(), pc, c.String("name-contains"))
	if err != nil {
		return exitErr(err)
	}
	for _, mosaic := range mosaics {
		fmt.Fprintf(c.App.Writer, "%v\t%v\t%v\t%v\n", mosaic.Name, mosaic.ID, mosaic.FirstAcquired, mosaic.LastAcquired)
	}
	return nil
}

func basemapsQuadsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one mosaic name is required")
	}
	bbox, err := aoi.ParseBBox(c.String("bbox"))
	if err != nil {
		return usageErr(c, fmt.Sprintf("Invalid bbox %q: %v", c.String("bbox"), err))
	}
	pc, done := newPlanetContext()
	defer done()

	mosaic, err := basemaps.GetMosaicByName(context.Background(), pc, c.Args().First())
	if err != nil {
		return exitErr(err)
	}
	quads, err := basemaps.GetQuads(context.Background(), pc, mosaic, bbox, c.Int("limit"))
	if err != nil {
		return exitErr(err)
	}
	util.LogInfo(pc, printer.Sprintf("Mosaic %v has %d quads in the area.", mosaic.Name, len(quads)))

	dir := c.String("download")
	if dir == "" {
		for _, quad := range quads {
			fmt.Fprintf(c.App.Writer, "%v\t%.1f\t%v\n", quad.ID, quad.PercentCovered, quad.Links.Download)
		}
		return nil
	}
	paths, err := basemaps.DownloadQuads(context.Background(), pc, quads, dir, util.GetDownloadParallelism())
	for _, path := range paths {
		fmt.Fprintln(c.App.Writer, path)
	}
	if err != nil {
		return exitErr(err)
	}
	return nil
}
