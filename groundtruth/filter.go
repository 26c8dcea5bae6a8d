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
	"fmt"
	"strconv"

	"github.com/venicegeo/geojson-go/geojson"
)

// FilterByAttribute returns the features whose attribute equals one of the
// values, e.g. the polygons of one crop class. Numeric attributes match
// their decimal form, so "3" matches 3.0.
func FilterByAttribute(fc *geojson.FeatureCollection, field string, values ...string) *geojson.FeatureCollection {
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}
	features := []*geojson.Feature{}
	for _, feature := range fc.Features {
		value, ok := feature.Properties[field]
		if !ok {
			continue
		}
		if wanted[attributeString(value)] {
			features = append(features, feature)
		}
	}
	return geojson.NewFeatureCollection(features)
}

// AttributeValues lists the distinct values of an attribute in first-seen order
func AttributeValues(fc *geojson.FeatureCollection, field string) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, feature := range fc.Features {
		value, ok := feature.Properties[field]
		if !ok {
			continue
		}
		s := attributeString(value)
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

func attributeString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
