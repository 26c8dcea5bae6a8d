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
	"math"
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// BasicSceneResult holds the fields common to every scene result
type BasicSceneResult struct {
	ID           string
	ItemType     string
	Geometry     interface{}
	CloudCover   float64
	Resolution   float64
	AcquiredDate time.Time
	SensorName   string
	FileFormat   FileFormat
	Permissions  []string
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (br BasicSceneResult) GeoJSONFeature() (*geojson.Feature, error) {
	properties := map[string]interface{}{
		"itemType":     br.ItemType,
		"acquiredDate": br.AcquiredDate.Format(PlanetTimeFormat),
		"sensorName":   br.SensorName,
		"fileFormat":   string(br.FileFormat),
	}
	// unknown values are left out; JSON cannot carry NaN
	if known(br.CloudCover) && br.CloudCover >= 0 {
		properties["cloudCover"] = br.CloudCover
	}
	if known(br.Resolution) && br.Resolution > 0 {
		properties["resolution"] = br.Resolution
	}
	f := geojson.NewFeature(br.Geometry, br.ID, properties)
	f.Bbox = f.ForceBbox()
	return f, nil
}

func known(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// HasPermission reports whether the scene grants the given permission
func (br BasicSceneResult) HasPermission(permission string) bool {
	for _, p := range br.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// SceneSearchResult is a search hit: basic data plus an optional AOI coverage
type SceneSearchResult struct {
	BasicSceneResult
	*CoverageData
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (result SceneSearchResult) GeoJSONFeature() (*geojson.Feature, error) {
	feature, err := result.BasicSceneResult.GeoJSONFeature()
	if err != nil {
		return nil, err
	}

	if result.CoverageData != nil {
		if err = result.CoverageData.Apply(feature); err != nil {
			return nil, err
		}
	}

	return feature, nil
}

// ActivatableSceneResult is a scene together with the state of one of its assets
type ActivatableSceneResult struct {
	BasicSceneResult
	AssetMetadata
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (result ActivatableSceneResult) GeoJSONFeature() (*geojson.Feature, error) {
	feature, err := result.BasicSceneResult.GeoJSONFeature()
	if err != nil {
		return nil, err
	}

	if err = result.AssetMetadata.Apply(feature); err != nil {
		return nil, err
	}

	return feature, nil
}

// MultiSceneResult is a container type for bundling multiple results together,
// e.g. as results from a search endpoint
type MultiSceneResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (result MultiSceneResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	var err error
	features := make([]*geojson.Feature, len(result.FeatureCreators))
	for i, creator := range result.FeatureCreators {
		features[i], err = creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
	}

	return geojson.NewFeatureCollection(features), nil
}
