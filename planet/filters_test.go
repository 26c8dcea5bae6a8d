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

package planet

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/bf-planet-recipes/aoi"
)

func filterJSON(t *testing.T, filter Filter) map[string]interface{} {
	data, err := json.Marshal(filter)
	assert.Nil(t, err)
	result := map[string]interface{}{}
	assert.Nil(t, json.Unmarshal(data, &result))
	return result
}

func TestDateRangeFilter(t *testing.T) {
	// Tested code
	result := filterJSON(t, DateRangeFilter("acquired", time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), time.Time{}))

	// Asserts
	assert.Equal(t, "DateRangeFilter", result["type"])
	assert.Equal(t, "acquired", result["field_name"])
	assert.Equal(t, map[string]interface{}{"gte": "2023-08-01T00:00:00.000Z"}, result["config"])
}

func TestRangeFilter(t *testing.T) {
	// Tested code
	result := filterJSON(t, RangeFilter("cloud_cover", nil, Float(0)))

	// Asserts
	assert.Equal(t, map[string]interface{}{"lte": 0.0}, result["config"])
}

func TestLogicalFilters(t *testing.T) {
	// Tested code
	and := filterJSON(t, AndFilter())
	or := filterJSON(t, OrFilter(StringInFilter("item_type", "PSScene", "SkySatScene")))
	not := filterJSON(t, NotFilter(AssetFilter("basic_udm2")))

	// Asserts
	assert.Equal(t, []interface{}{}, and["config"])
	assert.NotContains(t, and, "field_name")
	orConfig := or["config"].([]interface{})
	if assert.Len(t, orConfig, 1) {
		child := orConfig[0].(map[string]interface{})
		assert.Equal(t, "StringInFilter", child["type"])
		assert.Equal(t, []interface{}{"PSScene", "SkySatScene"}, child["config"])
	}
	assert.Equal(t, "NotFilter", not["type"])
	notConfig, ok := not["config"].(map[string]interface{})
	if assert.True(t, ok, "NotFilter config is a single filter") {
		assert.Equal(t, "AssetFilter", notConfig["type"])
	}
}

func TestPermissionFilter(t *testing.T) {
	result := filterJSON(t, PermissionFilter())
	assert.Equal(t, []interface{}{"assets:download"}, result["config"])
}

func TestSearchFilter(t *testing.T) {
	// Mock
	options := SearchOptions{
		AOI:          aoi.FromExtent(-105.3, 39.9, -105.1, 40.1),
		AcquiredDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		CloudCover:   Float(25),
		AssetType:    "ortho_analytic_4b",
	}

	// Tested code
	result := filterJSON(t, searchFilter(options))

	// Asserts
	config := result["config"].([]interface{})
	types := []string{}
	for _, child := range config {
		types = append(types, child.(map[string]interface{})["type"].(string))
	}
	expected := []string{"GeometryFilter", "DateRangeFilter", "RangeFilter", "AssetFilter"}
	if !disablePermissionsCheck {
		expected = append(expected, "PermissionFilter")
	}
	assert.Equal(t, expected, types)
	geometry := config[0].(map[string]interface{})["config"].(map[string]interface{})
	assert.Equal(t, "Polygon", geometry["type"])
	cloud := config[2].(map[string]interface{})["config"].(map[string]interface{})
	assert.Equal(t, 0.25, cloud["lte"])
}

func TestSearchFilter_CloudFree(t *testing.T) {
	// Tested code
	result := filterJSON(t, searchFilter(SearchOptions{CloudCover: Float(0)}))

	// Asserts
	config := result["config"].([]interface{})
	if assert.Len(t, config, 1) {
		cloud := config[0].(map[string]interface{})
		assert.Equal(t, "RangeFilter", cloud["type"])
		assert.Equal(t, "cloud_cover", cloud["field_name"])
		assert.Equal(t, map[string]interface{}{"lte": 0.0}, cloud["config"])
	}
}

func TestSearchFilter_Empty(t *testing.T) {
	result := filterJSON(t, searchFilter(SearchOptions{}))
	assert.Equal(t, "AndFilter", result["type"])
	assert.Equal(t, []interface{}{}, result["config"])
}
