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
	"encoding/xml"
	"errors"
	"io"
	"os"
)

// ErrNoCoefficients is returned when metadata lists no reflectance coefficients
var ErrNoCoefficients = errors.New("no reflectance coefficients found")

type bandSpecificMetadata struct {
	BandNumber             int     `xml:"bandNumber"`
	ReflectanceCoefficient float64 `xml:"reflectanceCoefficient"`
}

// ParseReflectanceCoefficientsFile reads the analytic XML metadata at path
func ParseReflectanceCoefficientsFile(path string) (map[int]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseReflectanceCoefficients(file)
}

// ParseReflectanceCoefficients reads the per-band TOA reflectance
// coefficients of a Planet analytic XML metadata document, keyed by band
// number
func ParseReflectanceCoefficients(r io.Reader) (map[int]float64, error) {
	decoder := xml.NewDecoder(r)
	coefficients := map[int]float64{}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "bandSpecificMetadata" {
			continue
		}
		var band bandSpecificMetadata
		if err = decoder.DecodeElement(&band, &start); err != nil {
			return nil, err
		}
		if band.BandNumber > 0 && band.ReflectanceCoefficient != 0 {
			coefficients[band.BandNumber] = band.ReflectanceCoefficient
		}
	}
	if len(coefficients) == 0 {
		return nil, ErrNoCoefficients
	}
	return coefficients, nil
}
