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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	UTM "github.com/im7mortal/UTM"
	"github.com/venicegeo/geojson-go/geojson"
)

// ProjectionKind names a supported coordinate reference system family
type ProjectionKind int

// Supported source projections
const (
	WGS84 ProjectionKind = iota
	UTMZone
	WebMercator
)

// webMercatorExtent is the easting of the antimeridian in EPSG:3857 meters
const webMercatorExtent = 20037508.342789244

var webMercator = s2.NewMercatorProjection(webMercatorExtent)

// Projection identifies the coordinate system of a collection
type Projection struct {
	Kind ProjectionKind
	// Zone and North apply to UTMZone only
	Zone  int
	North bool
}

// ErrUnknownProjection is returned by ParseProjection for unsupported codes
var ErrUnknownProjection = errors.New("unknown projection")

// ParseProjection accepts "EPSG:4326", "EPSG:3857", UTM codes "EPSG:326zz"
// (north) and "EPSG:327zz" (south), or the short form "UTM:33N"
func ParseProjection(code string) (Projection, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	switch upper {
	case "", "EPSG:4326", "WGS84", "CRS:84":
		return Projection{Kind: WGS84}, nil
	case "EPSG:3857", "EPSG:900913":
		return Projection{Kind: WebMercator}, nil
	}
	if strings.HasPrefix(upper, "EPSG:32") && len(upper) == len("EPSG:32600") {
		zone, err := strconv.Atoi(upper[len("EPSG:326"):])
		hemisphere := upper[len("EPSG:32")]
		if err == nil && zone >= 1 && zone <= 60 && (hemisphere == '6' || hemisphere == '7') {
			return Projection{Kind: UTMZone, Zone: zone, North: hemisphere == '6'}, nil
		}
	}
	if strings.HasPrefix(upper, "UTM:") && len(upper) > len("UTM:") {
		body := upper[len("UTM:"):]
		hemisphere := body[len(body)-1]
		zone, err := strconv.Atoi(body[:len(body)-1])
		if err == nil && zone >= 1 && zone <= 60 && (hemisphere == 'N' || hemisphere == 'S') {
			return Projection{Kind: UTMZone, Zone: zone, North: hemisphere == 'N'}, nil
		}
	}
	return Projection{}, fmt.Errorf("%w: %q", ErrUnknownProjection, code)
}

func (p Projection) String() string {
	switch p.Kind {
	case UTMZone:
		if p.North {
			return fmt.Sprintf("EPSG:326%02d", p.Zone)
		}
		return fmt.Sprintf("EPSG:327%02d", p.Zone)
	case WebMercator:
		return "EPSG:3857"
	}
	return "EPSG:4326"
}

// ToLonLat converts one coordinate in the projection to WGS84 longitude and latitude
func (p Projection) ToLonLat(x, y float64) (float64, float64, error) {
	switch p.Kind {
	case UTMZone:
		lat, lon, err := UTM.ToLatLon(x, y, p.Zone, "", p.North)
		return lon, lat, err
	case WebMercator:
		ll := webMercator.ToLatLng(r2.Point{X: x, Y: y})
		return ll.Lng.Degrees(), ll.Lat.Degrees(), nil
	}
	return x, y, nil
}

// Reproject returns a copy of the collection with every coordinate
// converted from the projection to WGS84 longitude and latitude
func Reproject(fc *geojson.FeatureCollection, from Projection) (*geojson.FeatureCollection, error) {
	features := make([]*geojson.Feature, 0, len(fc.Features))
	for _, feature := range fc.Features {
		geometry, err := reprojectGeometry(feature.Geometry, from)
		if err != nil {
			return nil, fmt.Errorf("feature %v: %w", feature.IDStr(), err)
		}
		features = append(features, geojson.NewFeature(geometry, feature.IDStr(), copyProperties(feature.Properties)))
	}
	return geojson.NewFeatureCollection(features), nil
}

func copyProperties(properties map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		result[k] = v
	}
	return result
}

func reprojectGeometry(geometry interface{}, from Projection) (interface{}, error) {
	switch g := geometry.(type) {
	case nil:
		return nil, nil
	case *geojson.Point:
		coords, err := reprojectPositions([][]float64{g.Coordinates}, from)
		if err != nil {
			return nil, err
		}
		return geojson.NewPoint(coords[0]), nil
	case *geojson.MultiPoint:
		coords, err := reprojectPositions(g.Coordinates, from)
		if err != nil {
			return nil, err
		}
		return geojson.NewMultiPoint(coords), nil
	case *geojson.LineString:
		coords, err := reprojectPositions(g.Coordinates, from)
		if err != nil {
			return nil, err
		}
		return geojson.NewLineString(coords), nil
	case *geojson.MultiLineString:
		coords, err := reprojectRings(g.Coordinates, from)
		if err != nil {
			return nil, err
		}
		return geojson.NewMultiLineString(coords), nil
	case *geojson.Polygon:
		coords, err := reprojectRings(g.Coordinates, from)
		if err != nil {
			return nil, err
		}
		return geojson.NewPolygon(coords), nil
	case *geojson.MultiPolygon:
		result := make([][][][]float64, len(g.Coordinates))
		for i, polygon := range g.Coordinates {
			coords, err := reprojectRings(polygon, from)
			if err != nil {
				return nil, err
			}
			result[i] = coords
		}
		return geojson.NewMultiPolygon(result), nil
	}
	return nil, fmt.Errorf("cannot reproject a %T", geometry)
}

func reprojectRings(rings [][][]float64, from Projection) ([][][]float64, error) {
	result := make([][][]float64, len(rings))
	for i, ring := range rings {
		coords, err := reprojectPositions(ring, from)
		if err != nil {
			return nil, err
		}
		result[i] = coords
	}
	return result, nil
}

func reprojectPositions(positions [][]float64, from Projection) ([][]float64, error) {
	result := make([][]float64, len(positions))
	for i, position := range positions {
		if len(position) < 2 {
			return nil, fmt.Errorf("position %v has fewer than two values", position)
		}
		lon, lat, err := from.ToLonLat(position[0], position[1])
		if err != nil {
			return nil, err
		}
		result[i] = []float64{lon, lat}
	}
	return result, nil
}
