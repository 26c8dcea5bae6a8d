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

// Package groundtruth loads ground truth vector data, such as crop class
// polygons, and prepares it for use as an area of interest.
package groundtruth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/venicegeo/geojson-go/geojson"
)

// ErrUnsupportedShape is returned for shapefile geometries Load cannot
// convert to GeoJSON
var ErrUnsupportedShape = errors.New("unsupported shape type")

// Load reads a shapefile and its .dbf attributes into a feature collection.
// Features are numbered from 0 in file order; numeric attributes are
// returned as float64 and all others as strings.
func Load(path string) (*geojson.FeatureCollection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	fields := reader.Fields()
	features := []*geojson.Feature{}
	for reader.Next() {
		n, shape := reader.Shape()
		geometry, err := geometryFromShape(shape)
		if err != nil {
			return nil, fmt.Errorf("%v: shape %d: %w", path, n, err)
		}
		if geometry == nil {
			continue
		}
		properties := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			properties[field.String()] = attributeValue(field, reader.ReadAttribute(n, i))
		}
		features = append(features, geojson.NewFeature(geometry, strconv.Itoa(n), properties))
	}
	if err = reader.Err(); err != nil {
		return nil, err
	}
	return geojson.NewFeatureCollection(features), nil
}

func attributeValue(field shp.Field, raw string) interface{} {
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	switch field.Fieldtype {
	case 'N', 'F':
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

func geometryFromShape(shape shp.Shape) (interface{}, error) {
	switch s := shape.(type) {
	case *shp.Null:
		return nil, nil
	case *shp.Point:
		return geojson.NewPoint([]float64{s.X, s.Y}), nil
	case *shp.PointZ:
		return geojson.NewPoint([]float64{s.X, s.Y}), nil
	case *shp.MultiPoint:
		return geojson.NewMultiPoint(coordinates(s.Points)), nil
	case *shp.PolyLine:
		parts := splitParts(s.Parts, s.Points)
		if len(parts) == 1 {
			return geojson.NewLineString(parts[0]), nil
		}
		return geojson.NewMultiLineString(parts), nil
	case *shp.Polygon:
		return polygonGeometry(s.Parts, s.Points), nil
	case *shp.PolygonZ:
		return polygonGeometry(s.Parts, s.Points), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, shape)
}

func polygonGeometry(parts []int32, points []shp.Point) interface{} {
	polygons := assembleRings(splitParts(parts, points))
	if len(polygons) == 1 {
		return geojson.NewPolygon(polygons[0])
	}
	return geojson.NewMultiPolygon(polygons)
}

func coordinates(points []shp.Point) [][]float64 {
	result := make([][]float64, len(points))
	for i, p := range points {
		result[i] = []float64{p.X, p.Y}
	}
	return result
}

// splitParts cuts a flat point list at the part start offsets
func splitParts(parts []int32, points []shp.Point) [][][]float64 {
	result := make([][][]float64, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || end > int32(len(points)) {
			continue
		}
		result = append(result, coordinates(points[start:end]))
	}
	return result
}

// assembleRings groups shapefile rings into polygons. Outer rings are
// clockwise and each is followed by its counterclockwise holes.
func assembleRings(rings [][][]float64) [][][][]float64 {
	polygons := [][][][]float64{}
	for _, ring := range rings {
		if len(polygons) == 0 || signedArea(ring) < 0 {
			polygons = append(polygons, [][][]float64{ring})
			continue
		}
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)
	}
	return polygons
}

// signedArea is positive for counterclockwise rings
func signedArea(ring [][]float64) float64 {
	var sum float64
	for i := 0; i+1 < len(ring); i++ {
		sum += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return sum / 2
}

// Write saves a feature collection as GeoJSON
func Write(fc *geojson.FeatureCollection, path string) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// maximum width of a dbf character field
const maxStringField = 254

// maximum length of a dbf field name, leaving room for its NUL terminator
const maxFieldName = 10

// WriteShapefile saves the polygon and multipolygon features of a
// collection as a polygon shapefile. Every property becomes a character
// field. Dbf field names hold at most 10 bytes: longer property names are
// truncated, and names that would then collide get a numeric suffix, so
// "irrigation_a" and "irrigation_b" become "irrigation" and "irrigati_1".
func WriteShapefile(fc *geojson.FeatureCollection, path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".shp") {
		path += ".shp"
	}
	shapes := make([]*shp.Polygon, len(fc.Features))
	for i, feature := range fc.Features {
		var polygons [][][][]float64
		switch g := feature.Geometry.(type) {
		case *geojson.Polygon:
			polygons = [][][][]float64{g.Coordinates}
		case *geojson.MultiPolygon:
			polygons = g.Coordinates
		default:
			return fmt.Errorf("%w: feature %v has %T", ErrUnsupportedShape, feature.ID, feature.Geometry)
		}
		shapes[i] = shapefilePolygon(polygons)
	}

	names := propertyNames(fc)
	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return err
	}
	fields := make([]shp.Field, len(names))
	for i, name := range dbfFieldNames(names) {
		fields[i] = shp.StringField(name, maxStringField)
	}
	if err = writer.SetFields(fields); err != nil {
		writer.Close()
		return err
	}
	for i, shape := range shapes {
		row := int(writer.Write(shape))
		for j, name := range names {
			value, ok := fc.Features[i].Properties[name]
			if !ok || value == nil {
				continue
			}
			text := fmt.Sprint(value)
			if len(text) > maxStringField {
				text = text[:maxStringField]
			}
			if err = writer.WriteAttribute(row, j, text); err != nil {
				writer.Close()
				return err
			}
		}
	}
	return closeShapefile(writer, path)
}

// closeShapefile closes the writer and moves its attribute table to
// <base>.dbf, where readers look for it; go-shp writes it as <base>dbf
func closeShapefile(writer *shp.Writer, path string) error {
	writer.Close()
	base := path[:len(path)-len(".shp")]
	if _, err := os.Stat(base + "dbf"); err != nil {
		return nil
	}
	return os.Rename(base+"dbf", base+".dbf")
}

func propertyNames(fc *geojson.FeatureCollection) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, feature := range fc.Features {
		for name := range feature.Properties {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// dbfFieldNames shortens names to unique dbf field names, in order
func dbfFieldNames(names []string) []string {
	result := make([]string, len(names))
	taken := map[string]bool{}
	for i, name := range names {
		candidate := truncateName(name, maxFieldName)
		for n := 1; taken[strings.ToUpper(candidate)]; n++ {
			suffix := "_" + strconv.Itoa(n)
			candidate = truncateName(name, maxFieldName-len(suffix)) + suffix
		}
		taken[strings.ToUpper(candidate)] = true
		result[i] = candidate
	}
	return result
}

// truncateName cuts name to at most limit bytes without splitting a rune
func truncateName(name string, limit int) string {
	end := 0
	for end < len(name) {
		_, size := utf8.DecodeRuneInString(name[end:])
		if end+size > limit {
			break
		}
		end += size
	}
	return name[:end]
}

// shapefilePolygon flattens polygons into shapefile parts, with outer
// rings clockwise and holes counterclockwise
func shapefilePolygon(polygons [][][][]float64) *shp.Polygon {
	parts := [][]shp.Point{}
	for _, polygon := range polygons {
		for i, ring := range polygon {
			area := signedArea(ring)
			reverse := (i == 0 && area > 0) || (i > 0 && area < 0)
			points := make([]shp.Point, len(ring))
			for j, coordinate := range ring {
				k := j
				if reverse {
					k = len(ring) - 1 - j
				}
				if len(coordinate) >= 2 {
					points[k] = shp.Point{X: coordinate[0], Y: coordinate[1]}
				}
			}
			parts = append(parts, points)
		}
	}
	polygon := shp.Polygon(*shp.NewPolyLine(parts))
	return &polygon
}
