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

package groundtruth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func TestParseProjection(t *testing.T) {
	cases := map[string]Projection{
		"EPSG:4326":  {Kind: WGS84},
		"":           {Kind: WGS84},
		"epsg:3857":  {Kind: WebMercator},
		"EPSG:32633": {Kind: UTMZone, Zone: 33, North: true},
		"EPSG:32718": {Kind: UTMZone, Zone: 18, North: false},
		"utm:10n":    {Kind: UTMZone, Zone: 10, North: true},
		"UTM:56S":    {Kind: UTMZone, Zone: 56, North: false},
	}
	for code, expected := range cases {
		projection, err := ParseProjection(code)
		assert.Nil(t, err, code)
		assert.Equal(t, expected, projection, code)
	}

	for _, code := range []string{"EPSG:32661", "EPSG:32800", "UTM:0N", "UTM:33X", "EPSG:2056"} {
		_, err := ParseProjection(code)
		assert.True(t, errors.Is(err, ErrUnknownProjection), code)
	}
}

func TestProjection_String(t *testing.T) {
	assert.Equal(t, "EPSG:32633", Projection{Kind: UTMZone, Zone: 33, North: true}.String())
	assert.Equal(t, "EPSG:32705", Projection{Kind: UTMZone, Zone: 5}.String())
	assert.Equal(t, "EPSG:3857", Projection{Kind: WebMercator}.String())
	assert.Equal(t, "EPSG:4326", Projection{}.String())
}

func TestToLonLat_UTM(t *testing.T) {
	// the central meridian of zone 33 is 15E; the equator is at northing 0
	lon, lat, err := Projection{Kind: UTMZone, Zone: 33, North: true}.ToLonLat(500000, 0)
	assert.Nil(t, err)
	assert.InDelta(t, 15.0, lon, 1e-6)
	assert.InDelta(t, 0.0, lat, 1e-6)

	// southern hemisphere northings are offset by 10,000 km
	lon, lat, err = Projection{Kind: UTMZone, Zone: 33, North: false}.ToLonLat(500000, 10000000)
	assert.Nil(t, err)
	assert.InDelta(t, 15.0, lon, 1e-6)
	assert.InDelta(t, 0.0, lat, 1e-6)
}

func TestToLonLat_WebMercator(t *testing.T) {
	lon, lat, err := Projection{Kind: WebMercator}.ToLonLat(0, 0)
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, lon, 1e-9)
	assert.InDelta(t, 0.0, lat, 1e-9)

	lon, lat, err = Projection{Kind: WebMercator}.ToLonLat(webMercatorExtent/2, 0)
	assert.Nil(t, err)
	assert.InDelta(t, 90.0, lon, 1e-6)
	assert.InDelta(t, 0.0, lat, 1e-9)

	// 45 degrees north lies at 5,621,521.486 m in EPSG:3857
	_, lat, err = Projection{Kind: WebMercator}.ToLonLat(0, 5621521.486192066)
	assert.Nil(t, err)
	assert.InDelta(t, 45.0, lat, 1e-6)
}

func TestReproject(t *testing.T) {
	// Mock
	polygon := geojson.NewPolygon([][][]float64{{
		{0, 0}, {0, webMercatorExtent / 4}, {webMercatorExtent / 4, 0}, {0, 0},
	}})
	point := geojson.NewPoint([]float64{webMercatorExtent / 2, 0})
	fc := geojson.NewFeatureCollection([]*geojson.Feature{
		geojson.NewFeature(polygon, "field", map[string]interface{}{"crop": "corn"}),
		geojson.NewFeature(point, "well", nil),
	})

	// Tested code
	result, err := Reproject(fc, Projection{Kind: WebMercator})

	// Asserts
	assert.Nil(t, err)
	if assert.Len(t, result.Features, 2) {
		reprojected := result.Features[0].Geometry.(*geojson.Polygon)
		assert.InDelta(t, 45.0, reprojected.Coordinates[0][2][0], 1e-6)
		assert.Equal(t, "corn", result.Features[0].PropertyString("crop"))
		assert.InDelta(t, 90.0, result.Features[1].Geometry.(*geojson.Point).Coordinates[0], 1e-6)
	}
	// the input is left untouched
	assert.Equal(t, webMercatorExtent/4, polygon.Coordinates[0][2][0])
}

func TestReproject_WGS84PassThrough(t *testing.T) {
	// Mock
	line := geojson.NewLineString([][]float64{{-105.1, 40.0}, {-105.2, 40.1}})
	fc := geojson.NewFeatureCollection([]*geojson.Feature{geojson.NewFeature(line, "road", nil)})

	// Tested code
	result, err := Reproject(fc, Projection{Kind: WGS84})

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, line.Coordinates, result.Features[0].Geometry.(*geojson.LineString).Coordinates)
}
