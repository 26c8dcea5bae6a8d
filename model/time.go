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
	"fmt"
	"time"
)

// Planet.com's API endpoints return datetimes in more than one layout, so
// parsing tries each known layout in turn.

// PlanetTimeFormat is the layout used when writing times back out
const PlanetTimeFormat = "2006-01-02T15:04:05.999999Z07:00"

var planetTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePlanetTime is a drop-in replacement for time.Parse, but matching against multiple possible Planet time formats
func ParsePlanetTime(planetTime string) (time.Time, error) {
	for _, layout := range planetTimeLayouts {
		if output, err := time.Parse(layout, planetTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("Date could not be parsed by any expected time format: `%s`", planetTime)
}
