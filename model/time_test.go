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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePlanetTime(t *testing.T) {
	expected := time.Date(2017, 6, 23, 18, 0, 38, 0, time.UTC)
	for _, input := range []string{
		"2017-06-23T18:00:38Z",
		"2017-06-23T18:00:38.000000Z",
		"2017-06-23T18:00:38",
		"2017-06-23T18:00:38+00:00",
	} {
		parsed, err := ParsePlanetTime(input)
		assert.Nil(t, err, input)
		assert.True(t, expected.Equal(parsed), input)
	}
}

func TestParsePlanetTime_Error(t *testing.T) {
	_, err := ParsePlanetTime("23/06/2017")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "23/06/2017")
}
