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

	"github.com/dhconnelly/rtreego"
	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/geojson-go/geojson"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	// rtreego rectangles never intersect along a shared edge, so every
	// extent is padded by this much
	padding = 1e-9
)

// indexedFeature wraps a feature for R-Tree indexing
type indexedFeature struct {
	feature *geojson.Feature
	rect    rtreego.Rect
}

func (f *indexedFeature) Bounds() rtreego.Rect {
	return f.rect
}

// Index answers bounding box queries over the features of a collection
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex indexes the bounding boxes of every feature with a geometry
func NewIndex(fc *geojson.FeatureCollection) (*Index, error) {
	items := make([]rtreego.Spatial, 0, len(fc.Features))
	for _, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		rect, err := rectFromBBox(feature.ForceBbox())
		if err != nil {
			return nil, fmt.Errorf("feature %v: %w", feature.IDStr(), err)
		}
		items = append(items, &indexedFeature{feature: feature, rect: rect})
	}
	return &Index{tree: rtreego.NewTree(dimensions, minChildren, maxChildren, items...)}, nil
}

func rectFromBBox(bbox geojson.BoundingBox) (rtreego.Rect, error) {
	minX, minY, maxX, maxY, err := aoi.Extent(bbox)
	if err != nil {
		return rtreego.Rect{}, err
	}
	return rtreego.NewRectFromPoints(
		rtreego.Point{minX - padding, minY - padding},
		rtreego.Point{maxX + padding, maxY + padding})
}

// Size returns the number of indexed features
func (i *Index) Size() int {
	return i.tree.Size()
}

// Intersecting returns the features whose bounding boxes intersect bbox
func (i *Index) Intersecting(bbox geojson.BoundingBox) ([]*geojson.Feature, error) {
	rect, err := rectFromBBox(bbox)
	if err != nil {
		return nil, err
	}
	results := i.tree.SearchIntersect(rect)
	features := make([]*geojson.Feature, 0, len(results))
	for _, result := range results {
		if item, ok := result.(*indexedFeature); ok {
			features = append(features, item.feature)
		}
	}
	return features, nil
}
