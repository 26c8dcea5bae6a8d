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
	"sort"
	"time"

	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/geojson-go/geojson"
)

const dateKeyLayout = "20060102"

// DateGroup holds the IDs of the scenes acquired on one day
type DateGroup struct {
	// Date is the YYYYMMDD key shared by the IDs
	Date string
	IDs  []string
}

// DateKey returns the leading YYYYMMDD key of a scene ID such as
// "20230815_101112_12_2461"
func DateKey(id string) (string, bool) {
	if len(id) < len(dateKeyLayout) {
		return "", false
	}
	key := id[:len(dateKeyLayout)]
	if _, err := time.Parse(dateKeyLayout, key); err != nil {
		return "", false
	}
	if len(id) > len(dateKeyLayout) && id[len(dateKeyLayout)] >= '0' && id[len(dateKeyLayout)] <= '9' {
		return "", false
	}
	return key, true
}

// GroupByDate partitions scene IDs by date key. Groups are ordered by date
// and the IDs in each group are sorted. IDs without a date key are returned
// separately, in input order.
func GroupByDate(ids []string) ([]DateGroup, []string) {
	byDate := map[string][]string{}
	ungrouped := []string{}
	for _, id := range ids {
		key, ok := DateKey(id)
		if !ok {
			ungrouped = append(ungrouped, id)
			continue
		}
		byDate[key] = append(byDate[key], id)
	}
	return sortedGroups(byDate), ungrouped
}

// GroupFeaturesByDate groups features by the UTC day of their "acquired"
// property, as Planet returns it, or "acquiredDate", as search writes it
func GroupFeaturesByDate(fc *geojson.FeatureCollection) ([]DateGroup, []string) {
	byDate := map[string][]string{}
	ungrouped := []string{}
	for _, feature := range fc.Features {
		acquiredStr := feature.PropertyString("acquired")
		if acquiredStr == "" {
			acquiredStr = feature.PropertyString("acquiredDate")
		}
		acquired, err := model.ParsePlanetTime(acquiredStr)
		if err != nil {
			ungrouped = append(ungrouped, feature.IDStr())
			continue
		}
		key := acquired.UTC().Format(dateKeyLayout)
		byDate[key] = append(byDate[key], feature.IDStr())
	}
	return sortedGroups(byDate), ungrouped
}

func sortedGroups(byDate map[string][]string) []DateGroup {
	groups := make([]DateGroup, 0, len(byDate))
	for date, ids := range byDate {
		sort.Strings(ids)
		groups = append(groups, DateGroup{Date: date, IDs: ids})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups
}
