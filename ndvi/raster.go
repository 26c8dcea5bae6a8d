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
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// ErrUnsupportedImage is returned for TIFF layouts DecodeTIFF cannot split into bands
var ErrUnsupportedImage = errors.New("unsupported TIFF pixel layout")

// Raster holds the bands of an image as float64 samples. Each band is
// Width*Height samples in row-major order.
type Raster struct {
	Width  int
	Height int
	Bands  [][]float64
}

// Band returns band n, counting from 1 as GDAL and Planet do
func (r *Raster) Band(n int) ([]float64, error) {
	if n < 1 || n > len(r.Bands) {
		return nil, fmt.Errorf("band %d out of range 1..%d", n, len(r.Bands))
	}
	return r.Bands[n-1], nil
}

// DecodeTIFFFile decodes the TIFF at path
func DecodeTIFFFile(path string) (*Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeTIFF(file)
}

// DecodeTIFF decodes a TIFF into one band per sample, in file order, with
// raw sample values. Multi-band analytic rasters (BlackIsZero with several
// samples per pixel, pixel or band interleaved, 8 to 64 bit integer or
// float) are read sample by sample; other layouts such as palette or
// bilevel images go through the image decoder.
func DecodeTIFF(r io.Reader) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raster, err := decodeSamples(data)
	if !errors.Is(err, errUnsupportedLayout) {
		return raster, err
	}
	return decodeImage(bytes.NewReader(data))
}

func decodeImage(r io.Reader) (*Raster, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	raster := &Raster{Width: bounds.Dx(), Height: bounds.Dy()}

	switch m := img.(type) {
	case *image.Gray:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 1, 1)
	case *image.Gray16:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 1, 2)
	case *image.RGBA:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 4, 1)
	case *image.NRGBA:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 4, 1)
	case *image.RGBA64:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 4, 2)
	case *image.NRGBA64:
		raster.Bands = splitSamples(m.Pix, m.Stride, raster.Width, raster.Height, 4, 2)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}
	return raster, nil
}

// splitSamples de-interleaves big-endian samples of the given byte width
func splitSamples(pix []byte, stride, width, height, bands, bytesPerSample int) [][]float64 {
	result := make([][]float64, bands)
	for b := range result {
		result[b] = make([]float64, width*height)
	}
	for y := 0; y < height; y++ {
		row := pix[y*stride:]
		for x := 0; x < width; x++ {
			for b := 0; b < bands; b++ {
				offset := (x*bands + b) * bytesPerSample
				var v uint32
				if bytesPerSample == 2 {
					v = uint32(row[offset])<<8 | uint32(row[offset+1])
				} else {
					v = uint32(row[offset])
				}
				result[b][y*width+x] = float64(v)
			}
		}
	}
	return result
}

// Scale multiplies every sample of a band by factor, e.g. a reflectance
// coefficient
func Scale(band []float64, factor float64) []float64 {
	result := make([]float64, len(band))
	for i, v := range band {
		result[i] = v * factor
	}
	return result
}
