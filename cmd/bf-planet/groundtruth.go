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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/groundtruth"
	"github.com/venicegeo/bf-planet-recipes/util"
	"github.com/venicegeo/geojson-go/geojson"
	cli "gopkg.in/urfave/cli.v1"
)

// selectGroundTruth loads a shapefile in lon/lat and applies the attribute
// and area selections of the command
func selectGroundTruth(c *cli.Context) (*geojson.FeatureCollection, error) {
	if c.NArg() != 1 {
		return nil, errors.New("exactly one shapefile is required")
	}
	projection, err := groundtruth.ParseProjection(c.String("projection"))
	if err != nil {
		return nil, err
	}
	fc, err := groundtruth.Load(c.Args().First())
	if err != nil {
		return nil, err
	}
	if fc, err = groundtruth.Reproject(fc, projection); err != nil {
		return nil, err
	}
	if field := c.String("field"); field != "" {
		values := c.StringSlice("value")
		if len(values) == 0 {
			return nil, fmt.Errorf("--value is required with --field; %v has %v", field, strings.Join(groundtruth.AttributeValues(fc, field), ", "))
		}
		fc = groundtruth.FilterByAttribute(fc, field, values...)
	}
	if within := c.String("within"); within != "" {
		bbox, err := aoi.ParseBBox(within)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %v: %v", within, err)
		}
		index, err := groundtruth.NewIndex(fc)
		if err != nil {
			return nil, err
		}
		features, err := index.Intersecting(bbox)
		if err != nil {
			return nil, err
		}
		fc = geojson.NewFeatureCollection(features)
	}
	util.LogInfo(&util.BasicLogContext{}, printer.Sprintf("Selected %d ground truth features.", len(fc.Features)))
	return fc, nil
}

func groundTruthFilterAction(c *cli.Context) error {
	fc, err := selectGroundTruth(c)
	if err != nil {
		return exitErr(err)
	}
	out := c.String("out")
	switch {
	case out == "":
		return writeJSON(c, "", fc)
	case strings.EqualFold(filepath.Ext(out), ".shp"):
		err = groundtruth.WriteShapefile(fc, out)
	default:
		err = groundtruth.Write(fc, out)
	}
	if err != nil {
		return exitErr(err)
	}
	return nil
}

func groundTruthAOIAction(c *cli.Context) error {
	fc, err := selectGroundTruth(c)
	if err != nil {
		return exitErr(err)
	}
	polygon, err := aoi.BoundingPolygon(fc)
	if err != nil {
		return exitErr(err)
	}
	feature := geojson.NewFeature(polygon, "aoi", map[string]interface{}{"features": len(fc.Features)})
	feature.Bbox = feature.ForceBbox()
	return writeJSON(c, c.String("out"), feature)
}
