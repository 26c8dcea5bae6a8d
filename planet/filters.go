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

import "time"

// Filter is a node of a Data API search filter tree
type Filter struct {
	Type      string      `json:"type"`
	FieldName string      `json:"field_name,omitempty"`
	Config    interface{} `json:"config"`
}

type dateConfig struct {
	GTE string `json:"gte,omitempty"`
	LTE string `json:"lte,omitempty"`
	GT  string `json:"gt,omitempty"`
	LT  string `json:"lt,omitempty"`
}

type rangeConfig struct {
	GTE *float64 `json:"gte,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
	GT  *float64 `json:"gt,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
}

const planetFilterTimeLayout = "2006-01-02T15:04:05.000Z"

// AndFilter matches items matching every child
func AndFilter(filters ...Filter) Filter {
	return Filter{Type: "AndFilter", Config: nonNilFilters(filters)}
}

// OrFilter matches items matching any child
func OrFilter(filters ...Filter) Filter {
	return Filter{Type: "OrFilter", Config: nonNilFilters(filters)}
}

// NotFilter matches items not matching filter
func NotFilter(filter Filter) Filter {
	return Filter{Type: "NotFilter", Config: filter}
}

func nonNilFilters(filters []Filter) []Filter {
	if filters == nil {
		return []Filter{}
	}
	return filters
}

// GeometryFilter matches items whose footprint intersects the geometry
func GeometryFilter(geometry interface{}) Filter {
	return Filter{Type: "GeometryFilter", FieldName: "geometry", Config: geometry}
}

// DateRangeFilter matches items whose field lies in [gte, lte]; zero times are open ends
func DateRangeFilter(field string, gte, lte time.Time) Filter {
	dc := dateConfig{}
	if !gte.IsZero() {
		dc.GTE = gte.UTC().Format(planetFilterTimeLayout)
	}
	if !lte.IsZero() {
		dc.LTE = lte.UTC().Format(planetFilterTimeLayout)
	}
	return Filter{Type: "DateRangeFilter", FieldName: field, Config: dc}
}

// RangeFilter matches items whose numeric field lies in [gte, lte]; nil bounds are open ends
func RangeFilter(field string, gte, lte *float64) Filter {
	return Filter{Type: "RangeFilter", FieldName: field, Config: rangeConfig{GTE: gte, LTE: lte}}
}

// StringInFilter matches items whose field equals one of the values
func StringInFilter(field string, values ...string) Filter {
	return Filter{Type: "StringInFilter", FieldName: field, Config: values}
}

// PermissionFilter limits results to items the key may download
func PermissionFilter() Filter {
	return Filter{Type: "PermissionFilter", Config: []string{"assets:download"}}
}

// AssetFilter limits results to items that have every one of the asset types
func AssetFilter(assetTypes ...string) Filter {
	return Filter{Type: "AssetFilter", Config: assetTypes}
}

// Float returns a pointer to f, for RangeFilter bounds
func Float(f float64) *float64 {
	return &f
}

// searchFilter builds the quick-search filter for the options
func searchFilter(options SearchOptions) Filter {
	filters := []Filter{}
	if options.AOI != nil {
		filters = append(filters, GeometryFilter(options.AOI))
	}
	if !options.AcquiredDate.IsZero() || !options.MaxAcquiredDate.IsZero() {
		filters = append(filters, DateRangeFilter("acquired", options.AcquiredDate, options.MaxAcquiredDate))
	}
	if options.CloudCover != nil {
		filters = append(filters, RangeFilter("cloud_cover", nil, Float(*options.CloudCover/100.0)))
	}
	if options.AssetType != "" {
		filters = append(filters, AssetFilter(options.AssetType))
		if !disablePermissionsCheck {
			filters = append(filters, PermissionFilter())
		}
	}
	return AndFilter(filters...)
}
