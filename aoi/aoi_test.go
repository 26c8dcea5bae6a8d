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

package aoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func TestParseBBox(t *testing.T) {
	bbox, err := ParseBBox("-121.5,38.2,-121.3,38.4")
	assert.Nil(t, err)
	minX, minY, maxX, maxY, err := Extent(bbox)
	assert.Nil(t, err)
	assert.Equal(t, -121.5, minX)
	assert.Equal(t, 38.2, minY)
	assert.Equal(t, -121.3, maxX)
	assert.Equal(t, 38.4, maxY)
}

func TestParseBBox_Error(t *testing.T) {
	_, err := ParseBBox("not,a,bbox")
	assert.NotNil(t, err)
}

func TestExtent_Error(t *testing.T) {
	_, _, _, _, err := Extent(geojson.BoundingBox{1, 2, 3})
	assert.NotNil(t, err)
}

func TestFromExtent(t *testing.T) {
	polygon := FromExtent(0, 1, 2, 3)
	assert.Equal(t, [][][]float64{{{0, 1}, {2, 1}, {2, 3}, {0, 3}, {0, 1}}}, polygon.Coordinates)
}

func TestBoundingPolygon(t *testing.T) {
	// Mock
	fc := geojson.NewFeatureCollection([]*geojson.Feature{
		geojson.NewFeature(FromExtent(0, 0, 1, 1), "a", nil),
		geojson.NewFeature(FromExtent(2, -1, 3, 0.5), "b", nil),
		geojson.NewFeature(geojson.NewPoint([]float64{1.5, 4}), "c", nil),
	})

	// Tested code
	polygon, err := BoundingPolygon(fc)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, FromExtent(0, -1, 3, 4).Coordinates, polygon.Coordinates)
}

func TestBoundingPolygon_Empty(t *testing.T) {
	_, err := BoundingPolygon(geojson.NewFeatureCollection(nil))
	assert.Equal(t, ErrNoFeatures, err)
}

func TestPolygons_GenericMap(t *testing.T) {
	generic := map[string]interface{}{
		"type":        "Polygon",
		"coordinates": []interface{}{[]interface{}{[]interface{}{0.0, 0.0}, []interface{}{1.0, 0.0}, []interface{}{1.0, 1.0}, []interface{}{0.0, 0.0}}},
	}
	polygons, err := Polygons(generic)
	assert.Nil(t, err)
	assert.Len(t, polygons, 1)
	assert.Len(t, polygons[0][0], 4)
}

func TestPolygons_Unsupported(t *testing.T) {
	_, err := Polygons(geojson.NewPoint([]float64{1, 2}))
	assert.NotNil(t, err)
}

func TestCoverage_Contained(t *testing.T) {
	coverage, err := Coverage(FromExtent(-121.5, 38.2, -121.4, 38.3), FromExtent(-122, 38, -121, 39))
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, coverage, 0.001)
}

func TestCoverage_Disjoint(t *testing.T) {
	coverage, err := Coverage(FromExtent(-121.5, 38.2, -121.4, 38.3), FromExtent(10, 10, 11, 11))
	assert.Nil(t, err)
	assert.Equal(t, 0.0, coverage)
}

func TestCoverage_Half(t *testing.T) {
	coverage, err := Coverage(FromExtent(0, 0, 0.2, 0.2), FromExtent(0.1, -1, 1, 1))
	assert.Nil(t, err)
	assert.InDelta(t, 0.5, coverage, 0.05)
}

func TestCoverage_MultiPolygonFootprint(t *testing.T) {
	footprint := geojson.NewMultiPolygon([][][][]float64{
		FromExtent(0, 0, 0.1, 0.2).Coordinates,
		FromExtent(0.1, 0, 0.2, 0.2).Coordinates,
	})
	coverage, err := Coverage(FromExtent(0.01, 0.01, 0.19, 0.19), footprint)
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, coverage, 0.02)
}
