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

import "github.com/venicegeo/geojson-go/geojson"

// FileFormat is an enum type for recognized raster formats
type FileFormat string

// GeoTIFF corresponds to .TIF files with geospatial info
const GeoTIFF FileFormat = "geotiff"

// JPEG2000 corresponds to .JP2 files
const JPEG2000 FileFormat = "jpeg2000"

// FileFormatForItemType returns the raster format Planet delivers for an item type
func FileFormatForItemType(itemType string) FileFormat {
	if itemType == "Sentinel2L1C" {
		return JPEG2000
	}
	return GeoTIFF
}

// GeoJSONFeatureCreator is an interface for data that can convert itself to a GeoJSON feature
type GeoJSONFeatureCreator interface {
	GeoJSONFeature() (*geojson.Feature, error)
}

// GeoJSONFeatureCollectionCreator is an interface for data that can convert itself to a GeoJSON feature collection
type GeoJSONFeatureCollectionCreator interface {
	GeoJSONFeatureCollection() (*geojson.FeatureCollection, error)
}

// GeoJSONFeatureMixin is an interface for data that can be used to augment an existing GeoJSON feature
type GeoJSONFeatureMixin interface {
	Apply(*geojson.Feature) error
}
