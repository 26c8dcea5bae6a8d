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
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/image/tiff/lzw"
)

// TIFF tags read by the sample decoder
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPlanarConfig    = 284
	tagPredictor       = 317
	tagTileWidth       = 322
	tagTileLength      = 323
	tagTileOffsets     = 324
	tagTileByteCounts  = 325
	tagSampleFormat    = 339
)

const (
	compressionNone     = 1
	compressionLZW      = 5
	compressionDeflate  = 8
	compressionPackBits = 32773
	compressionDeflateZ = 32946

	photometricWhiteIsZero = 0
	photometricBlackIsZero = 1
	photometricRGB         = 2

	planarChunky = 1
	planarPlanar = 2

	predictorNone       = 1
	predictorHorizontal = 2

	sampleUint  = 1
	sampleInt   = 2
	sampleFloat = 3
)

// errUnsupportedLayout marks files the sample decoder leaves to the image decoder
var errUnsupportedLayout = errors.New("tiff layout not handled by the sample decoder")

type ifd struct {
	order binary.ByteOrder
	tags  map[uint16][]uint64
}

func (d ifd) first(tag uint16, fallback uint64) uint64 {
	if values := d.tags[tag]; len(values) > 0 {
		return values[0]
	}
	return fallback
}

// readIFD parses the header and first image file directory of a classic TIFF
func readIFD(data []byte) (ifd, error) {
	result := ifd{tags: map[uint16][]uint64{}}
	if len(data) < 8 {
		return result, errors.New("tiff: file too short")
	}
	switch string(data[0:4]) {
	case "II\x2A\x00":
		result.order = binary.LittleEndian
	case "MM\x00\x2A":
		result.order = binary.BigEndian
	default:
		return result, errUnsupportedLayout
	}
	offset := uint64(result.order.Uint32(data[4:8]))
	if offset+2 > uint64(len(data)) {
		return result, errors.New("tiff: directory offset out of range")
	}
	count := uint64(result.order.Uint16(data[offset:]))
	entries := offset + 2
	if entries+count*12 > uint64(len(data)) {
		return result, errors.New("tiff: directory out of range")
	}
	for i := uint64(0); i < count; i++ {
		entry := data[entries+i*12 : entries+i*12+12]
		tag := result.order.Uint16(entry[0:2])
		datatype := result.order.Uint16(entry[2:4])
		n := uint64(result.order.Uint32(entry[4:8]))

		var size uint64
		switch datatype {
		case 1: // BYTE
			size = 1
		case 3: // SHORT
			size = 2
		case 4: // LONG
			size = 4
		default:
			continue
		}
		raw := entry[8:12]
		if n*size > 4 {
			start := uint64(result.order.Uint32(entry[8:12]))
			if start+n*size > uint64(len(data)) {
				return result, fmt.Errorf("tiff: tag %d values out of range", tag)
			}
			raw = data[start : start+n*size]
		}
		values := make([]uint64, n)
		for j := range values {
			switch size {
			case 1:
				values[j] = uint64(raw[j])
			case 2:
				values[j] = uint64(result.order.Uint16(raw[j*2:]))
			case 4:
				values[j] = uint64(result.order.Uint32(raw[j*4:]))
			}
		}
		result.tags[tag] = values
	}
	return result, nil
}

// sampleLayout is the geometry of the stored samples
type sampleLayout struct {
	width, height   int
	samples         int
	bits            int
	format          uint64
	compression     uint64
	predictor       uint64
	planar          uint64
	tiled           bool
	chunkW, chunkH  int
	offsets, counts []uint64
}

func newSampleLayout(d ifd) (sampleLayout, error) {
	l := sampleLayout{
		width:       int(d.first(tagImageWidth, 0)),
		height:      int(d.first(tagImageLength, 0)),
		samples:     int(d.first(tagSamplesPerPixel, 1)),
		bits:        int(d.first(tagBitsPerSample, 1)),
		format:      d.first(tagSampleFormat, sampleUint),
		compression: d.first(tagCompression, compressionNone),
		predictor:   d.first(tagPredictor, predictorNone),
		planar:      d.first(tagPlanarConfig, planarChunky),
	}
	if l.width <= 0 || l.height <= 0 {
		return l, errors.New("tiff: missing image dimensions")
	}
	switch d.first(tagPhotometric, photometricBlackIsZero) {
	case photometricWhiteIsZero, photometricBlackIsZero, photometricRGB:
	default:
		return l, errUnsupportedLayout
	}
	for _, b := range d.tags[tagBitsPerSample] {
		if int(b) != l.bits {
			return l, errUnsupportedLayout
		}
	}
	switch l.bits {
	case 8, 16, 32:
	case 64:
		if l.format != sampleFloat {
			return l, errUnsupportedLayout
		}
	default:
		return l, errUnsupportedLayout
	}
	if l.format == sampleFloat && l.bits < 32 {
		return l, errUnsupportedLayout
	}
	if l.format != sampleUint && l.format != sampleInt && l.format != sampleFloat {
		return l, errUnsupportedLayout
	}
	if l.planar != planarChunky && l.planar != planarPlanar {
		return l, errUnsupportedLayout
	}
	if l.predictor != predictorNone && (l.predictor != predictorHorizontal || l.format == sampleFloat) {
		return l, errUnsupportedLayout
	}
	switch l.compression {
	case compressionNone, compressionLZW, compressionDeflate, compressionDeflateZ, compressionPackBits:
	default:
		return l, errUnsupportedLayout
	}

	if _, ok := d.tags[tagTileWidth]; ok {
		l.tiled = true
		l.chunkW = int(d.first(tagTileWidth, 0))
		l.chunkH = int(d.first(tagTileLength, 0))
		l.offsets = d.tags[tagTileOffsets]
		l.counts = d.tags[tagTileByteCounts]
	} else {
		l.chunkW = l.width
		l.chunkH = int(d.first(tagRowsPerStrip, uint64(l.height)))
		if l.chunkH > l.height {
			l.chunkH = l.height
		}
		l.offsets = d.tags[tagStripOffsets]
		l.counts = d.tags[tagStripByteCounts]
	}
	if l.chunkW <= 0 || l.chunkH <= 0 {
		return l, errors.New("tiff: invalid strip or tile size")
	}
	expected := l.across() * l.down()
	if l.planar == planarPlanar {
		expected *= l.samples
	}
	if len(l.offsets) < expected || len(l.counts) < expected {
		return l, fmt.Errorf("tiff: expected %d strips or tiles, found %d", expected, len(l.offsets))
	}
	return l, nil
}

func (l sampleLayout) across() int { return (l.width + l.chunkW - 1) / l.chunkW }
func (l sampleLayout) down() int { return (l.height + l.chunkH - 1) / l.chunkH }

// decodeSamples reads every sample of the first image in data into bands.
// Pixel-interleaved and band-interleaved files with any number of samples
// per pixel are supported, in strips or tiles.
func decodeSamples(data []byte) (*Raster, error) {
	d, err := readIFD(data)
	if err != nil {
		return nil, err
	}
	l, err := newSampleLayout(d)
	if err != nil {
		return nil, err
	}
	raster := &Raster{Width: l.width, Height: l.height, Bands: make([][]float64, l.samples)}
	for b := range raster.Bands {
		raster.Bands[b] = make([]float64, l.width*l.height)
	}

	planes, perChunk := 1, l.samples
	if l.planar == planarPlanar {
		planes, perChunk = l.samples, 1
	}
	for plane := 0; plane < planes; plane++ {
		for cy := 0; cy < l.down(); cy++ {
			rows := l.chunkH
			if !l.tiled && (cy+1)*l.chunkH > l.height {
				rows = l.height - cy*l.chunkH
			}
			for cx := 0; cx < l.across(); cx++ {
				index := plane*l.across()*l.down() + cy*l.across() + cx
				values, err := l.readChunk(data, d.order, index, rows, perChunk)
				if err != nil {
					return nil, err
				}
				for r := 0; r < rows; r++ {
					y := cy*l.chunkH + r
					if y >= l.height {
						break
					}
					for c := 0; c < l.chunkW; c++ {
						x := cx*l.chunkW + c
						if x >= l.width {
							break
						}
						for s := 0; s < perChunk; s++ {
							raster.Bands[plane+s][y*l.width+x] = values[(r*l.chunkW+c)*perChunk+s]
						}
					}
				}
			}
		}
	}
	return raster, nil
}

// readChunk decompresses one strip or tile and converts its samples
func (l sampleLayout) readChunk(data []byte, order binary.ByteOrder, index, rows, perPixel int) ([]float64, error) {
	start, count := l.offsets[index], l.counts[index]
	if start+count > uint64(len(data)) {
		return nil, fmt.Errorf("tiff: strip or tile %d out of range", index)
	}
	raw, err := decompress(l.compression, data[start:start+count])
	if err != nil {
		return nil, fmt.Errorf("tiff: strip or tile %d: %v", index, err)
	}
	bytesPer := l.bits / 8
	n := rows * l.chunkW * perPixel
	if len(raw) < n*bytesPer {
		return nil, fmt.Errorf("tiff: strip or tile %d holds %d bytes, need %d", index, len(raw), n*bytesPer)
	}

	ints := make([]uint64, n)
	for i := range ints {
		switch bytesPer {
		case 1:
			ints[i] = uint64(raw[i])
		case 2:
			ints[i] = uint64(order.Uint16(raw[i*2:]))
		case 4:
			ints[i] = uint64(order.Uint32(raw[i*4:]))
		case 8:
			ints[i] = order.Uint64(raw[i*8:])
		}
	}
	if l.predictor == predictorHorizontal {
		mask := uint64(1)<<uint(l.bits) - 1
		for r := 0; r < rows; r++ {
			row := ints[r*l.chunkW*perPixel : (r+1)*l.chunkW*perPixel]
			for i := perPixel; i < len(row); i++ {
				row[i] = (row[i] + row[i-perPixel]) & mask
			}
		}
	}

	values := make([]float64, n)
	for i, v := range ints {
		switch {
		case l.format == sampleFloat && l.bits == 32:
			values[i] = float64(math.Float32frombits(uint32(v)))
		case l.format == sampleFloat:
			values[i] = math.Float64frombits(v)
		case l.format == sampleInt:
			shift := uint(64 - l.bits)
			values[i] = float64(int64(v<<shift) >> shift)
		default:
			values[i] = float64(v)
		}
	}
	return values, nil
}

func decompress(compression uint64, data []byte) ([]byte, error) {
	switch compression {
	case compressionLZW:
		r := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
		defer r.Close()
		return io.ReadAll(r)
	case compressionDeflate, compressionDeflateZ:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case compressionPackBits:
		return unpackBits(data)
	}
	return data, nil
}

// unpackBits expands PackBits run-length encoded data
func unpackBits(data []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(data); {
		n := int(int8(data[i]))
		i++
		switch {
		case n >= 0:
			if i+n+1 > len(data) {
				return nil, errors.New("packbits: literal run out of range")
			}
			out = append(out, data[i:i+n+1]...)
			i += n + 1
		case n != -128:
			if i >= len(data) {
				return nil, errors.New("packbits: repeat run out of range")
			}
			out = append(out, bytes.Repeat(data[i:i+1], 1-n)...)
			i++
		}
	}
	return out, nil
}
