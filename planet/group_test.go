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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func TestDateKey(t *testing.T) {
	key, ok := DateKey("20230815_101112_12_2461")
	assert.True(t, ok)
	assert.Equal(t, "20230815", key)

	key, ok = DateKey("20230815")
	assert.True(t, ok)
	assert.Equal(t, "20230815", key)

	_, ok = DateKey("2023081")
	assert.False(t, ok)
	_, ok = DateKey("20231345_101112")
	assert.False(t, ok)
	_, ok = DateKey("202308151_101112")
	assert.False(t, ok)
	_, ok = DateKey("L15-0123E-1234N")
	assert.False(t, ok)
}

func TestGroupByDate(t *testing.T) {
	// Mock
	ids := []string{
		"20230816_101112_12_2461",
		"20230815_101113_12_2461",
		"not-a-scene",
		"20230815_101112_12_2461",
		"20230814_091112_0f34",
	}

	// Tested code
	groups, ungrouped := GroupByDate(ids)

	// Asserts
	assert.Equal(t, []DateGroup{
		{Date: "20230814", IDs: []string{"20230814_091112_0f34"}},
		{Date: "20230815", IDs: []string{"20230815_101112_12_2461", "20230815_101113_12_2461"}},
		{Date: "20230816", IDs: []string{"20230816_101112_12_2461"}},
	}, groups)
	assert.Equal(t, []string{"not-a-scene"}, ungrouped)
}

func TestGroupByDate_Partition(t *testing.T) {
	// Mock
	ids := []string{"20230815_a", "20230815_b", "20230901_c", "x", "20230901_d", "20230815_e"}

	// Tested code
	groups, ungrouped := GroupByDate(ids)

	// Asserts
	count := len(ungrouped)
	for _, group := range groups {
		for _, id := range group.IDs {
			key, _ := DateKey(id)
			assert.Equal(t, group.Date, key)
		}
		count += len(group.IDs)
	}
	assert.Equal(t, len(ids), count)
}

func TestGroupByDate_Empty(t *testing.T) {
	groups, ungrouped := GroupByDate(nil)
	assert.Empty(t, groups)
	assert.Empty(t, ungrouped)
}

func TestGroupFeaturesByDate(t *testing.T) {
	// Mock
	polygon := geojson.NewPolygon([][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	features := []*geojson.Feature{
		geojson.NewFeature(polygon, "b", map[string]interface{}{"acquired": "2023-08-15T23:59:59Z"}),
		geojson.NewFeature(polygon, "a", map[string]interface{}{"acquired": "2023-08-15T00:00:01.5Z"}),
		geojson.NewFeature(polygon, "c", map[string]interface{}{"acquired": "2023-08-16T00:00:00+02:00"}),
		geojson.NewFeature(polygon, "d", map[string]interface{}{}),
	}

	// Tested code
	groups, ungrouped := GroupFeaturesByDate(geojson.NewFeatureCollection(features))

	// Asserts
	assert.Equal(t, []DateGroup{
		{Date: "20230815", IDs: []string{"a", "b", "c"}},
	}, groups)
	assert.Equal(t, []string{"d"}, ungrouped)
}
