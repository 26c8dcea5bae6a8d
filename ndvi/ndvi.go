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

package ndvi

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// Planet 4-band analytic assets are ordered blue, green, red, near infrared
const (
	DefaultRedBand = 3
	DefaultNIRBand = 4
)

// Compute returns (nir-red)/(nir+red) for every pixel. Pixels whose sum is
// zero are NaN.
func Compute(red, nir []float64) ([]float64, error) {
	if len(red) != len(nir) {
		return nil, fmt.Errorf("red band has %d samples but near infrared has %d", len(red), len(nir))
	}
	result := make([]float64, len(red))
	for i := range red {
		sum := nir[i] + red[i]
		if sum == 0 {
			result[i] = math.NaN()
			continue
		}
		result[i] = clamp((nir[i] - red[i]) / sum)
	}
	return result, nil
}

// clamp keeps values in [-1,1] when negative samples push a ratio past them
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Stats summarizes the valid (non-NaN) pixels of an NDVI band
type Stats struct {
	Min     float64
	Max     float64
	Mean    float64
	Valid   int
	Invalid int
}

// Summarize computes Stats; with no valid pixels Min, Max and Mean are NaN
func Summarize(values []float64) Stats {
	stats := Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			stats.Invalid++
			continue
		}
		if stats.Valid == 0 || v < stats.Min {
			stats.Min = v
		}
		if stats.Valid == 0 || v > stats.Max {
			stats.Max = v
		}
		sum += v
		stats.Valid++
	}
	if stats.Valid > 0 {
		stats.Mean = sum / float64(stats.Valid)
	}
	return stats
}

// ToUint16 maps an NDVI value in [-1,1] onto [1,65535]; NaN maps to 0
func ToUint16(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	return uint16(math.Round((clamp(v)+1)/2*65534)) + 1
}

// FromUint16 inverts ToUint16
func FromUint16(v uint16) float64 {
	if v == 0 {
		return math.NaN()
	}
	return float64(v-1)/65534*2 - 1
}

// EncodeTIFF writes NDVI values as a single band 16 bit TIFF, see ToUint16
func EncodeTIFF(w io.Writer, width, height int, values []float64) error {
	if len(values) != width*height {
		return fmt.Errorf("%d values do not fill a %dx%d image", len(values), width, height)
	}
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for i, v := range values {
		s := ToUint16(v)
		offset := (i/width)*img.Stride + (i%width)*2
		img.Pix[offset] = uint8(s >> 8)
		img.Pix[offset+1] = uint8(s)
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Options select the inputs of an NDVI computation from files
type Options struct {
	TIFFPath string
	// MetadataPath, when set, names the analytic XML whose reflectance
	// coefficients convert radiance to reflectance before the ratio
	MetadataPath string
	RedBand      int
	NIRBand      int
	OutputPath   string
}

// Result is a computed NDVI band
type Result struct {
	Width  int
	Height int
	Values []float64
	Stats  Stats
}

// ComputeFile computes NDVI from a multi-band TIFF and, if OutputPath is
// set, writes it as a TIFF
func ComputeFile(options Options) (*Result, error) {
	if options.RedBand == 0 {
		options.RedBand = DefaultRedBand
	}
	if options.NIRBand == 0 {
		options.NIRBand = DefaultNIRBand
	}
	raster, err := DecodeTIFFFile(options.TIFFPath)
	if err != nil {
		return nil, err
	}
	red, err := raster.Band(options.RedBand)
	if err != nil {
		return nil, err
	}
	nir, err := raster.Band(options.NIRBand)
	if err != nil {
		return nil, err
	}
	if options.MetadataPath != "" {
		coefficients, err := ParseReflectanceCoefficientsFile(options.MetadataPath)
		if err != nil {
			return nil, err
		}
		redCoefficient, redOK := coefficients[options.RedBand]
		nirCoefficient, nirOK := coefficients[options.NIRBand]
		if !redOK || !nirOK {
			return nil, errors.New("metadata lacks coefficients for the red or near infrared band")
		}
		red = Scale(red, redCoefficient)
		nir = Scale(nir, nirCoefficient)
	}

	values, err := Compute(red, nir)
	if err != nil {
		return nil, err
	}
	result := &Result{Width: raster.Width, Height: raster.Height, Values: values, Stats: Summarize(values)}

	if options.OutputPath != "" {
		if err = writeTIFF(options.OutputPath, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func writeTIFF(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = EncodeTIFF(file, result.Width, result.Height, result.Values); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
