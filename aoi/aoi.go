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

// Package aoi builds areas of interest and measures how much of an AOI a
// scene footprint covers.
package aoi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/venicegeo/geojson-go/geojson"
)

// ErrNoFeatures is returned when an AOI is requested for an empty collection
var ErrNoFeatures = errors.New("no features to bound")

// ParseBBox parses "minx,miny,maxx,maxy" into a bounding box
func ParseBBox(input string) (geojson.BoundingBox, error) {
	bbox, err := geojson.NewBoundingBox(input)
	if err != nil {
		return nil, err
	}
	if err = bbox.Valid(); err != nil {
		return nil, err
	}
	return bbox, nil
}

// Extent returns the 2D corners of a bounding box of any dimension
func Extent(bbox geojson.BoundingBox) (minX, minY, maxX, maxY float64, err error) {
	n := len(bbox)
	if n < 4 || n%2 != 0 {
		return 0, 0, 0, 0, fmt.Errorf("bounding box has %d values", n)
	}
	half := n / 2
	return bbox[0], bbox[1], bbox[half], bbox[half+1], nil
}

// FromExtent returns the axis-aligned polygon for the given corners
func FromExtent(minX, minY, maxX, maxY float64) *geojson.Polygon {
	return geojson.NewPolygon([][][]float64{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

// FromBBox returns the axis-aligned polygon for a bounding box
func FromBBox(bbox geojson.BoundingBox) (*geojson.Polygon, error) {
	minX, minY, maxX, maxY, err := Extent(bbox)
	if err != nil {
		return nil, err
	}
	return FromExtent(minX, minY, maxX, maxY), nil
}

// BoundingPolygon returns the axis-aligned polygon enclosing every feature
// in the collection
func BoundingPolygon(fc *geojson.FeatureCollection) (*geojson.Polygon, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, ErrNoFeatures
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		fMinX, fMinY, fMaxX, fMaxY, err := Extent(feature.ForceBbox())
		if err != nil {
			return nil, fmt.Errorf("feature %v: %v", feature.IDStr(), err)
		}
		minX, minY = math.Min(minX, fMinX), math.Min(minY, fMinY)
		maxX, maxY = math.Max(maxX, fMaxX), math.Max(maxY, fMaxY)
	}
	if math.IsInf(minX, 1) {
		return nil, ErrNoFeatures
	}
	return FromExtent(minX, minY, maxX, maxY), nil
}

// Polygons returns the coordinates of every polygon in a Polygon or
// MultiPolygon geometry. Geometries decoded into generic maps are accepted too.
func Polygons(geometry interface{}) ([][][][]float64, error) {
	switch g := geometry.(type) {
	case *geojson.Polygon:
		return [][][][]float64{g.Coordinates}, nil
	case *geojson.MultiPolygon:
		return g.Coordinates, nil
	case *geojson.Feature:
		return Polygons(g.Geometry)
	case nil:
		return nil, errors.New("no geometry")
	}

	raw, err := json.Marshal(geometry)
	if err != nil {
		return nil, err
	}
	parsed, err := geojson.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch parsed.(type) {
	case *geojson.Polygon, *geojson.MultiPolygon, *geojson.Feature:
		return Polygons(parsed)
	}
	return nil, fmt.Errorf("expected a Polygon or MultiPolygon and got %T", parsed)
}
