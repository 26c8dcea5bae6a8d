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

package orders

import (
	"fmt"
	"io/ioutil"

	"github.com/venicegeo/bf-planet-recipes/planet"
	"gopkg.in/yaml.v3"
)

// CompositeByDate builds one order per date group that clips every scene of
// the day to aoi (when given) and composites them into a single image.
// Any extra tools run after the composite.
func CompositeByDate(groups []planet.DateGroup, itemType, bundle string, aoi interface{}, extra ...Tool) []Request {
	requests := make([]Request, 0, len(groups))
	for _, group := range groups {
		tools := []Tool{}
		if aoi != nil {
			tools = append(tools, ClipTool(aoi))
		}
		tools = append(tools, CompositeTool())
		tools = append(tools, extra...)
		name := fmt.Sprintf("composite-%v", group.Date)
		requests = append(requests, Request{
			Name: name,
			Products: []Product{{
				ItemIDs:       append([]string(nil), group.IDs...),
				ItemType:      itemType,
				ProductBundle: bundle,
			}},
			Tools:    tools,
			Delivery: ZipDelivery(name + ".zip"),
		})
	}
	return requests
}

// LoadRequest reads an order request from a YAML or JSON file
func LoadRequest(path string) (*Request, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var request Request
	if err = yaml.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	if err = request.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return &request, nil
}
