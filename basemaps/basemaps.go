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

// Package basemaps lists and downloads quads of Planet Basemaps mosaics
package basemaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
	"github.com/venicegeo/geojson-go/geojson"
	"golang.org/x/sync/errgroup"
)

const mosaicsPath = "basemaps/v1/mosaics"

// ErrMosaicNotFound is returned when no mosaic has the requested name
var ErrMosaicNotFound = errors.New("mosaic not found")

// Mosaic is a basemap assembled from many scenes
type Mosaic struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	FirstAcquired    string    `json:"first_acquired,omitempty"`
	LastAcquired     string    `json:"last_acquired,omitempty"`
	Level            int       `json:"level,omitempty"`
	ProductType      string    `json:"product_type,omitempty"`
	CoordinateSystem string    `json:"coordinate_system,omitempty"`
	ItemTypes        []string  `json:"item_types,omitempty"`
	Bbox             []float64 `json:"bbox,omitempty"`
	Grid             struct {
		QuadSize   int     `json:"quad_size"`
		Resolution float64 `json:"resolution"`
	} `json:"grid"`
	Links struct {
		Self  string `json:"_self"`
		Quads string `json:"quads,omitempty"`
		Tiles string `json:"tiles,omitempty"`
	} `json:"_links"`
}

// Quad is one fixed-size tile of a mosaic
type Quad struct {
	ID             string    `json:"id"`
	Bbox           []float64 `json:"bbox"`
	PercentCovered float64   `json:"percent_covered"`
	Links          QuadLinks `json:"_links"`
}

// QuadLinks are the URLs of a quad
type QuadLinks struct {
	Self      string `json:"_self,omitempty"`
	Download  string `json:"download,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Items     string `json:"items,omitempty"`
}

// GeoJSONFeature renders the quad as its bounding polygon
func (q Quad) GeoJSONFeature() (*geojson.Feature, error) {
	if len(q.Bbox) != 4 {
		return nil, fmt.Errorf("quad %v has a bbox of %d values", q.ID, len(q.Bbox))
	}
	polygon := aoi.FromExtent(q.Bbox[0], q.Bbox[1], q.Bbox[2], q.Bbox[3])
	feature := geojson.NewFeature(polygon, q.ID, map[string]interface{}{
		"percent_covered": q.PercentCovered,
		"download":        q.Links.Download,
	})
	feature.Bbox = feature.ForceBbox()
	return feature, nil
}

type mosaicList struct {
	Mosaics []Mosaic `json:"mosaics"`
	Links   struct {
		Next string `json:"_next"`
	} `json:"_links"`
}

type quadPage struct {
	Items []Quad `json:"items"`
	Links struct {
		Next string `json:"_next"`
	} `json:"_links"`
}

// ListMosaics returns the mosaics the key can access, optionally only those
// whose name contains nameContains
func ListMosaics(ctx context.Context, pc *planet.Context, nameContains string) ([]Mosaic, error) {
	next := mosaicsPath
	if nameContains != "" {
		next += "?" + url.Values{"name__contains": {nameContains}}.Encode()
	}
	result := []Mosaic{}
	for next != "" {
		var page mosaicList
		if _, err := planet.Request(ctx, pc, planet.RequestInput{Method: "GET", URL: next, Description: "Failed to list mosaics"}, &page); err != nil {
			return nil, err
		}
		result = append(result, page.Mosaics...)
		if len(page.Mosaics) == 0 {
			break
		}
		next = page.Links.Next
	}
	return result, nil
}

// GetMosaicByName looks up a mosaic such as
// "global_monthly_2023_08_mosaic"
func GetMosaicByName(ctx context.Context, pc *planet.Context, name string) (*Mosaic, error) {
	var page mosaicList
	query := url.Values{"name__is": {name}}
	if _, err := planet.Request(ctx, pc, planet.RequestInput{
		Method:      "GET",
		URL:         mosaicsPath + "?" + query.Encode(),
		Description: "Failed to find mosaic " + name,
	}, &page); err != nil {
		return nil, err
	}
	for _, mosaic := range page.Mosaics {
		if mosaic.Name == name {
			return &mosaic, nil
		}
	}
	util.LogAlert(pc, fmt.Sprintf("No mosaic is named %v.", name))
	return nil, util.HTTPErr{Status: http.StatusNotFound, Message: fmt.Sprintf("%v: %v", ErrMosaicNotFound, name)}
}

// GetQuads lists the quads of a mosaic that intersect bbox, following
// result pages. A limit of 0 or less returns every quad.
func GetQuads(ctx context.Context, pc *planet.Context, mosaic *Mosaic, bbox geojson.BoundingBox, limit int) ([]Quad, error) {
	minX, minY, maxX, maxY, err := aoi.Extent(bbox)
	if err != nil {
		return nil, util.HTTPErr{Status: http.StatusBadRequest, Message: err.Error()}
	}
	extent := make([]string, 4)
	for i, value := range []float64{minX, minY, maxX, maxY} {
		extent[i] = strconv.FormatFloat(value, 'f', -1, 64)
	}
	query := url.Values{"bbox": {strings.Join(extent, ",")}, "minimal": {"true"}}
	next := fmt.Sprintf("%v/%v/quads?%v", mosaicsPath, url.PathEscape(mosaic.ID), query.Encode())

	result := []Quad{}
	for next != "" {
		var page quadPage
		if _, err := planet.Request(ctx, pc, planet.RequestInput{
			Method:      "GET",
			URL:         next,
			Description: "Failed to list quads of mosaic " + mosaic.Name,
		}, &page); err != nil {
			return nil, err
		}
		for _, quad := range page.Items {
			result = append(result, quad)
			if limit > 0 && len(result) >= limit {
				return result, nil
			}
		}
		if len(page.Items) == 0 {
			break
		}
		next = page.Links.Next
	}
	return result, nil
}

// DownloadQuads fetches quads into dir as <quad id>.tif, at most parallelism
// at a time. Quads without a download link are skipped.
func DownloadQuads(ctx context.Context, pc *planet.Context, quads []Quad, dir string, parallelism int) ([]string, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	var (
		mutex sync.Mutex
		paths []string
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)
	for _, quad := range quads {
		quad := quad
		if quad.Links.Download == "" {
			util.LogAlert(pc, fmt.Sprintf("Quad %v has no download link; is the mosaic downloadable with this key?", quad.ID))
			continue
		}
		group.Go(func() error {
			path, err := planet.Download(groupCtx, pc, planet.DownloadInput{
				URL:      quad.Links.Download,
				Dir:      dir,
				Filename: quad.ID + ".tif",
				Kind:     "quad",
				Ref:      quad.ID,
			})
			if err != nil {
				return err
			}
			mutex.Lock()
			paths = append(paths, path)
			mutex.Unlock()
			return nil
		})
	}
	err := group.Wait()
	return paths, err
}
