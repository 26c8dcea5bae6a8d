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

package model

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

var mockPolygon = geojson.NewPolygon([][][]float64{{
	{30, 10}, {40, 40}, {20, 40}, {10, 20}, {30, 10},
}})

var mockBasicSceneResult = BasicSceneResult{
	AcquiredDate: time.Date(2017, 6, 23, 18, 0, 38, 0, time.UTC),
	CloudCover:   50.123,
	FileFormat:   GeoTIFF,
	Geometry:     mockPolygon,
	ID:           "20170623_180038_0f34",
	ItemType:     "PSScene",
	Resolution:   3.7,
	SensorName:   "0f34",
	Permissions:  []string{"assets.ortho_analytic_4b:download"},
}

var mockAssetMetadata = AssetMetadata{
	AssetType:     "ortho_analytic_4b",
	AssetURL:      url.URL{Scheme: "https", Host: "example.localhost", Path: "/asset.tif"},
	ActivationURL: url.URL{Scheme: "https", Host: "example.localhost", Path: "/activate"},
	ExpiresAt:     time.Unix(123, 0).UTC(),
	Permissions:   []string{"a", "b", "c"},
	Status:        "active",
	Type:          "image/tiff",
}

func assertFeatureContainsBasicSceneResult(t *testing.T, feature *geojson.Feature, result BasicSceneResult) {
	assert.Equal(t, result.ID, feature.IDStr())
	assert.Equal(t, result.ItemType, feature.PropertyString("itemType"))
	assert.Equal(t, result.SensorName, feature.PropertyString("sensorName"))
	assert.Equal(t, result.AcquiredDate.Format(PlanetTimeFormat), feature.PropertyString("acquiredDate"))
	assert.Equal(t, result.CloudCover, feature.PropertyFloat("cloudCover"))
	assert.Equal(t, result.Resolution, feature.PropertyFloat("resolution"))
	assert.Equal(t, string(result.FileFormat), feature.PropertyString("fileFormat"))
}

func TestBasicSceneResult_GeoJSONFeature_UnknownNumbers(t *testing.T) {
	// Mock
	result := mockBasicSceneResult
	result.CloudCover = -1
	result.Resolution = math.NaN()

	// Tested code
	feature, err := result.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	_, hasCloudCover := feature.Properties["cloudCover"]
	_, hasResolution := feature.Properties["resolution"]
	assert.False(t, hasCloudCover)
	assert.False(t, hasResolution)
	_, err = json.Marshal(feature)
	assert.Nil(t, err)
}

func TestBasicSceneResult_GeoJSONFeature(t *testing.T) {
	// Tested code
	feature, err := mockBasicSceneResult.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	assert.NotNil(t, feature)
	assertFeatureContainsBasicSceneResult(t, feature, mockBasicSceneResult)
	assert.Nil(t, feature.Bbox.Valid())
}

func TestBasicSceneResult_HasPermission(t *testing.T) {
	assert.True(t, mockBasicSceneResult.HasPermission("assets.ortho_analytic_4b:download"))
	assert.False(t, mockBasicSceneResult.HasPermission("assets.basic_analytic_4b:download"))
}

func TestSceneSearchResult_GeoJSONFeature_NoCoverage(t *testing.T) {
	// Mock
	result := SceneSearchResult{BasicSceneResult: mockBasicSceneResult}

	// Tested code
	feature, err := result.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	assertFeatureContainsBasicSceneResult(t, feature, mockBasicSceneResult)
	_, ok := feature.Properties["aoiCoverage"]
	assert.False(t, ok)
}

func TestSceneSearchResult_GeoJSONFeature_WithCoverage(t *testing.T) {
	// Mock
	result := SceneSearchResult{
		BasicSceneResult: mockBasicSceneResult,
		CoverageData:     &CoverageData{Fraction: 0.5},
	}

	// Tested code
	feature, err := result.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	assertFeatureContainsBasicSceneResult(t, feature, mockBasicSceneResult)
	assert.Equal(t, 0.5, feature.PropertyFloat("aoiCoverage"))
}

func TestActivatableSceneResult_GeoJSONFeature(t *testing.T) {
	// Mock
	result := ActivatableSceneResult{
		BasicSceneResult: mockBasicSceneResult,
		AssetMetadata:    mockAssetMetadata,
	}

	// Tested code
	feature, err := result.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	assertFeatureContainsBasicSceneResult(t, feature, mockBasicSceneResult)
	assert.Equal(t, mockAssetMetadata.AssetURL.String(), feature.PropertyString("location"))
	assert.Equal(t, "active", feature.PropertyString("status"))
	assert.Nil(t, feature.Bbox.Valid())
}

func TestMultiSceneResult_GeoJSONFeatureCollection(t *testing.T) {
	// Mock
	result := MultiSceneResult{
		FeatureCreators: []GeoJSONFeatureCreator{mockBasicSceneResult, mockBasicSceneResult, mockBasicSceneResult},
	}

	// Tested code
	fc, err := result.GeoJSONFeatureCollection()

	// Asserts
	assert.Nil(t, err)
	assert.NotNil(t, fc)
	assert.Len(t, fc.Features, 3)
	for _, feature := range fc.Features {
		assertFeatureContainsBasicSceneResult(t, feature, mockBasicSceneResult)
	}
}
