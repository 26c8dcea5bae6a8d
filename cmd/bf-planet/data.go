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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"
	"sync"
	"time"

	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
	"github.com/venicegeo/geojson-go/geojson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	cli "gopkg.in/urfave/cli.v1"
)

var printer = message.NewPrinter(language.English)

func exitErr(err error) error {
	return cli.NewExitError(err.Error(), 1)
}

func usageErr(c *cli.Context, problem string) error {
	return cli.NewExitError(fmt.Sprintf("%v\nUsage: %v %v %v", problem, c.App.Name, c.Command.FullName(), c.Command.ArgsUsage), 2)
}

// writeOutput writes data to path, or to the app's writer when path is empty
func writeOutput(c *cli.Context, path string, data []byte) error {
	if path == "" {
		_, err := c.App.Writer.Write(append(data, '\n'))
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// writeJSON encodes value and writes it like writeOutput
func writeJSON(c *cli.Context, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return exitErr(err)
	}
	if err = writeOutput(c, path, data); err != nil {
		return exitErr(err)
	}
	return nil
}

func loadGeoJSON(path string) (interface{}, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return geojson.Parse(data)
}

func loadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	parsed, err := loadGeoJSON(path)
	if err != nil {
		return nil, err
	}
	fc, ok := parsed.(*geojson.FeatureCollection)
	if !ok {
		return nil, fmt.Errorf("%v is not a feature collection", path)
	}
	return fc, nil
}

// loadAOI reads a geometry from a GeoJSON file. A feature collection
// yields its bounding polygon and a feature its geometry.
func loadAOI(path string) (interface{}, error) {
	parsed, err := loadGeoJSON(path)
	if err != nil {
		return nil, err
	}
	switch typed := parsed.(type) {
	case *geojson.FeatureCollection:
		return aoi.BoundingPolygon(typed)
	case *geojson.Feature:
		return typed.Geometry, nil
	case *geojson.Polygon, *geojson.MultiPolygon:
		return typed, nil
	}
	return nil, fmt.Errorf("%v holds a %T, not a polygon", path, parsed)
}

// parseDate accepts YYYY-MM-DD or RFC 3339
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func searchOptions(c *cli.Context) (planet.SearchOptions, error) {
	options := planet.SearchOptions{
		ItemTypes:   c.StringSlice("item-type"),
		AssetType:   c.String("asset-type"),
		MinCoverage: c.Float64("min-coverage"),
		Limit:       c.Int("limit"),
	}
	if len(options.ItemTypes) == 0 {
		options.ItemTypes = []string{planet.DefaultItemType}
	}
	if c.IsSet("cloud-cover") {
		options.CloudCover = planet.Float(c.Float64("cloud-cover"))
	}
	var err error
	switch {
	case c.String("aoi") != "":
		if options.AOI, err = loadAOI(c.String("aoi")); err != nil {
			return options, err
		}
	case c.String("bbox") != "":
		bbox, err := aoi.ParseBBox(c.String("bbox"))
		if err != nil {
			return options, fmt.Errorf("invalid bbox %v: %v", c.String("bbox"), err)
		}
		if options.AOI, err = aoi.FromBBox(bbox); err != nil {
			return options, err
		}
	}
	if start := c.String("start"); start != "" {
		if options.AcquiredDate, err = parseDate(start); err != nil {
			return options, fmt.Errorf("invalid start %v", start)
		}
	}
	if end := c.String("end"); end != "" {
		if options.MaxAcquiredDate, err = parseDate(end); err != nil {
			return options, fmt.Errorf("invalid end %v", end)
		}
	}
	return options, nil
}

func searchAction(c *cli.Context) error {
	options, err := searchOptions(c)
	if err != nil {
		return usageErr(c, err.Error())
	}
	pc, done := newPlanetContext()
	defer done()

	results, err := planet.GetScenes(context.Background(), options, pc)
	if err != nil {
		return exitErr(err)
	}
	featureCreators := make([]model.GeoJSONFeatureCreator, len(results))
	for i, result := range results {
		featureCreators[i] = result
	}
	fc, err := model.MultiSceneResult{FeatureCreators: featureCreators}.GeoJSONFeatureCollection()
	if err != nil {
		return exitErr(err)
	}
	util.LogInfo(pc, printer.Sprintf("Found %d scenes.", len(results)))
	return writeJSON(c, c.String("out"), fc)
}

// dateGroups groups a search result file when given, else the arguments
func dateGroups(c *cli.Context) ([]planet.DateGroup, []string, error) {
	if in := c.String("in"); in != "" {
		fc, err := loadFeatureCollection(in)
		if err != nil {
			return nil, nil, err
		}
		groups, ungrouped := planet.GroupFeaturesByDate(fc)
		return groups, ungrouped, nil
	}
	groups, ungrouped := planet.GroupByDate(c.Args())
	return groups, ungrouped, nil
}

func groupAction(c *cli.Context) error {
	if c.String("in") == "" && c.NArg() == 0 {
		return usageErr(c, "Scene IDs or --in are required")
	}
	groups, ungrouped, err := dateGroups(c)
	if err != nil {
		return exitErr(err)
	}
	for _, group := range groups {
		fmt.Fprintf(c.App.Writer, "%v\t%v\n", group.Date, strings.Join(group.IDs, " "))
	}
	if len(ungrouped) > 0 {
		fmt.Fprintf(c.App.Writer, "ungrouped\t%v\n", strings.Join(ungrouped, " "))
	}
	return nil
}

func metadataOptions(c *cli.Context, id string) planet.MetadataOptions {
	return planet.MetadataOptions{ID: id, ItemType: c.String("item-type"), AssetType: c.String("asset-type")}
}

func activateAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one scene ID is required")
	}
	pc, done := newPlanetContext()
	defer done()
	options := metadataOptions(c, c.Args().First())

	asset, err := planet.Activate(context.Background(), options, pc)
	if err == nil && c.Bool("wait") {
		asset, err = planet.WaitForAsset(context.Background(), options, pc)
	}
	if err != nil {
		return exitErr(err)
	}
	fmt.Fprintf(c.App.Writer, "%v\t%v\t%v\n", options.ID, options.AssetType, asset.Status)
	return nil
}

func downloadAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return usageErr(c, "At least one scene ID is required")
	}
	pc, done := newPlanetContext()
	defer done()

	var mutex sync.Mutex
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(util.GetDownloadParallelism())
	for _, id := range c.Args() {
		options := metadataOptions(c, id)
		group.Go(func() error {
			path, err := planet.DownloadAsset(ctx, options, c.String("dir"), pc)
			if err != nil {
				return err
			}
			mutex.Lock()
			fmt.Fprintln(c.App.Writer, path)
			mutex.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return exitErr(err)
	}
	return nil
}
