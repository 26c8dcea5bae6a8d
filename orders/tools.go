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
	"errors"
	"fmt"
)

// Tool is one server-side processing step. Exactly one field is set.
type Tool struct {
	Clip      *Clip      `json:"clip,omitempty" yaml:"clip,omitempty"`
	BandMath  *BandMath  `json:"bandmath,omitempty" yaml:"bandmath,omitempty"`
	Composite *Composite `json:"composite,omitempty" yaml:"composite,omitempty"`
	TOAR      *TOAR      `json:"toar,omitempty" yaml:"toar,omitempty"`
	Reproject *Reproject `json:"reproject,omitempty" yaml:"reproject,omitempty"`
	Tile      *Tile      `json:"tile,omitempty" yaml:"tile,omitempty"`
}

// Clip crops scenes to an AOI geometry
type Clip struct {
	AOI interface{} `json:"aoi" yaml:"aoi"`
}

// BandMath computes output bands from expressions over input bands b1..b15
type BandMath struct {
	B1        string `json:"b1,omitempty" yaml:"b1,omitempty"`
	B2        string `json:"b2,omitempty" yaml:"b2,omitempty"`
	B3        string `json:"b3,omitempty" yaml:"b3,omitempty"`
	B4        string `json:"b4,omitempty" yaml:"b4,omitempty"`
	B5        string `json:"b5,omitempty" yaml:"b5,omitempty"`
	B6        string `json:"b6,omitempty" yaml:"b6,omitempty"`
	B7        string `json:"b7,omitempty" yaml:"b7,omitempty"`
	B8        string `json:"b8,omitempty" yaml:"b8,omitempty"`
	B9        string `json:"b9,omitempty" yaml:"b9,omitempty"`
	B10       string `json:"b10,omitempty" yaml:"b10,omitempty"`
	B11       string `json:"b11,omitempty" yaml:"b11,omitempty"`
	B12       string `json:"b12,omitempty" yaml:"b12,omitempty"`
	B13       string `json:"b13,omitempty" yaml:"b13,omitempty"`
	B14       string `json:"b14,omitempty" yaml:"b14,omitempty"`
	B15       string `json:"b15,omitempty" yaml:"b15,omitempty"`
	PixelType string `json:"pixel_type,omitempty" yaml:"pixel_type,omitempty"`
}

// Composite merges the scenes of an order into one image
type Composite struct{}

// TOAR converts radiance to top of atmosphere reflectance
type TOAR struct {
	ScaleFactor int `json:"scale_factor,omitempty" yaml:"scale_factor,omitempty"`
}

// Reproject warps scenes into another coordinate system
type Reproject struct {
	Projection string  `json:"projection" yaml:"projection"`
	Resolution float64 `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Kernel     string  `json:"kernel,omitempty" yaml:"kernel,omitempty"`
}

// Tile cuts scenes into a regular grid of tiles
type Tile struct {
	TileSize     int     `json:"tile_size" yaml:"tile_size"`
	OriginX      float64 `json:"origin_x" yaml:"origin_x"`
	OriginY      float64 `json:"origin_y" yaml:"origin_y"`
	PixelSize    float64 `json:"pixel_size" yaml:"pixel_size"`
	NameTemplate string  `json:"name_template,omitempty" yaml:"name_template,omitempty"`
}

// Name returns the tool's key in the order JSON, or an error unless
// exactly one tool is set
func (t Tool) Name() (string, error) {
	names := []string{}
	if t.Clip != nil {
		names = append(names, "clip")
	}
	if t.BandMath != nil {
		names = append(names, "bandmath")
	}
	if t.Composite != nil {
		names = append(names, "composite")
	}
	if t.TOAR != nil {
		names = append(names, "toar")
	}
	if t.Reproject != nil {
		names = append(names, "reproject")
	}
	if t.Tile != nil {
		names = append(names, "tile")
	}
	switch len(names) {
	case 0:
		return "", errors.New("no tool set")
	case 1:
	default:
		return "", fmt.Errorf("several tools set: %v", names)
	}

	switch {
	case t.Clip != nil && t.Clip.AOI == nil:
		return "", errors.New("clip needs an aoi")
	case t.BandMath != nil && t.BandMath.B1 == "":
		return "", errors.New("bandmath needs at least b1")
	case t.Reproject != nil && t.Reproject.Projection == "":
		return "", errors.New("reproject needs a projection")
	case t.Tile != nil && (t.Tile.TileSize <= 0 || t.Tile.PixelSize <= 0):
		return "", errors.New("tile needs a positive tile_size and pixel_size")
	}
	return names[0], nil
}

// ClipTool clips to a GeoJSON polygon or multipolygon
func ClipTool(aoi interface{}) Tool {
	return Tool{Clip: &Clip{AOI: aoi}}
}

// NDVIBandMath computes NDVI from a 4-band blue, green, red, nir bundle
// into a single float32 band
func NDVIBandMath() Tool {
	return Tool{BandMath: &BandMath{B1: "(b4 - b3) / (b4 + b3)", PixelType: "32R"}}
}

// CompositeTool merges every scene of the order into one raster
func CompositeTool() Tool {
	return Tool{Composite: &Composite{}}
}

// TOARTool converts to reflectance scaled by scale (10000 when zero)
func TOARTool(scale int) Tool {
	if scale == 0 {
		scale = 10000
	}
	return Tool{TOAR: &TOAR{ScaleFactor: scale}}
}

// ReprojectTool warps into an EPSG code such as "EPSG:32613"
func ReprojectTool(projection string, resolution float64, kernel string) Tool {
	return Tool{Reproject: &Reproject{Projection: projection, Resolution: resolution, Kernel: kernel}}
}

// TileTool cuts into size x size pixel tiles on a grid anchored at origin
func TileTool(size int, originX, originY, pixelSize float64, nameTemplate string) Tool {
	return Tool{Tile: &Tile{TileSize: size, OriginX: originX, OriginY: originY, PixelSize: pixelSize, NameTemplate: nameTemplate}}
}
