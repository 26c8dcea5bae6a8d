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

package aoi

import (
	"errors"
	"math"

	"github.com/golang/geo/s2"
)

// targetCells is roughly how many S2 cells an AOI is sampled with
const targetCells = 2048

// Region is a set of spherical polygons built from GeoJSON lon/lat rings.
// Only outer rings are used; holes are ignored.
type Region struct {
	loops []*s2.Loop
}

// NewRegion builds a Region from a Polygon or MultiPolygon geometry
func NewRegion(geometry interface{}) (*Region, error) {
	polygons, err := Polygons(geometry)
	if err != nil {
		return nil, err
	}
	region := &Region{}
	for _, rings := range polygons {
		if len(rings) == 0 {
			continue
		}
		if loop := loopFromRing(rings[0]); loop != nil {
			region.loops = append(region.loops, loop)
		}
	}
	if len(region.loops) == 0 {
		return nil, errors.New("geometry has no usable rings")
	}
	return region, nil
}

func loopFromRing(ring [][]float64) *s2.Loop {
	points := make([]s2.Point, 0, len(ring))
	for i, coord := range ring {
		if len(coord) < 2 {
			continue
		}
		// s2 loops are implicitly closed
		if i == len(ring)-1 && len(ring) > 1 && coord[0] == ring[0][0] && coord[1] == ring[0][1] {
			continue
		}
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(coord[1], coord[0])))
	}
	if len(points) < 3 {
		return nil
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop
}

// ContainsPoint reports whether p lies inside any loop of the region
func (r *Region) ContainsPoint(p s2.Point) bool {
	for _, loop := range r.loops {
		if loop.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// Area returns the region's area in steradians
func (r *Region) Area() float64 {
	var area float64
	for _, loop := range r.loops {
		area += loop.Area()
	}
	return area
}

func (r *Region) polygon() *s2.Polygon {
	return s2.PolygonFromLoops(r.loops)
}

// Coverage returns the fraction (0..1) of the AOI geometry that lies inside
// the footprint geometry, weighted by area on the sphere
func Coverage(aoiGeometry, footprintGeometry interface{}) (float64, error) {
	aoiRegion, err := NewRegion(aoiGeometry)
	if err != nil {
		return 0, err
	}
	footprint, err := NewRegion(footprintGeometry)
	if err != nil {
		return 0, err
	}
	return aoiRegion.CoveredBy(footprint), nil
}

// CoveredBy samples the region with S2 cells and returns the area-weighted
// share of them whose centers fall inside other
func (r *Region) CoveredBy(other *Region) float64 {
	level := samplingLevel(r.Area())
	coverer := &s2.RegionCoverer{MinLevel: level, MaxLevel: level, MaxCells: targetCells}
	cells := coverer.Covering(r.polygon())

	var total, covered float64
	for _, id := range cells {
		center := id.Point()
		if !r.ContainsPoint(center) {
			continue
		}
		area := s2.CellFromCellID(id).ApproxArea()
		total += area
		if other.ContainsPoint(center) {
			covered += area
		}
	}
	if total == 0 {
		// AOI smaller than a sampling cell
		for _, loop := range r.loops {
			if other.ContainsPoint(loop.Vertex(0)) {
				return 1
			}
		}
		return 0
	}
	return covered / total
}

func samplingLevel(area float64) int {
	if area <= 0 {
		return s2.MaxLevel
	}
	// a level-L cell has on average 4*pi/(6*4^L) steradians
	level := int(math.Ceil(math.Log(4*math.Pi*targetCells/(6*area)) / math.Log(4)))
	if level < 0 {
		return 0
	}
	if level > s2.MaxLevel {
		return s2.MaxLevel
	}
	return level
}
