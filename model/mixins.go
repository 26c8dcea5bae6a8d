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
	"net/url"
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// AssetMetadata is a mixin containing metadata for an activate-able
// asset retrieved from the Planet API
type AssetMetadata struct {
	AssetType     string
	AssetURL      url.URL
	ActivationURL url.URL
	ExpiresAt     time.Time
	Permissions   []string
	Status        string
	Type          string
}

// Apply implements the GeoJSONFeatureMixin interface
func (am AssetMetadata) Apply(feature *geojson.Feature) error {
	if !am.ExpiresAt.IsZero() {
		feature.Properties["expires_at"] = am.ExpiresAt.Format(PlanetTimeFormat)
	}
	if am.AssetURL.String() != "" {
		feature.Properties["location"] = am.AssetURL.String()
	}
	feature.Properties["asset_type"] = am.AssetType
	feature.Properties["permissions"] = am.Permissions
	feature.Properties["status"] = am.Status
	feature.Properties["type"] = am.Type
	return nil
}

// CoverageData is a mixin holding the fraction of an AOI covered by a scene footprint
type CoverageData struct {
	Fraction float64
}

// Apply implements the GeoJSONFeatureMixin interface
func (cd CoverageData) Apply(feature *geojson.Feature) error {
	feature.Properties["aoiCoverage"] = cd.Fraction
	return nil
}
