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

package planet

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/bf-planet-recipes/util"
)

// HandlerContext builds a Context for one broker request. A PL_API_KEY form value
// overrides the configured key.
func HandlerContext(base Context, r *http.Request) *Context {
	pc := NewContext(base.BasePlanetURL, base.PlanetKey)
	pc.PollInterval = base.PollInterval
	pc.Recorder = base.Recorder
	if key := r.FormValue("PL_API_KEY"); key != "" {
		pc.PlanetKey = key
		pc.client = newRestClient(key)
	}
	return pc
}

// DiscoverHandler is a handler for /planet/discover/{itemType}
// @Title planetDiscoverHandler
// @Description discovers scenes from Planet Labs
// @Accept  plain
// @Param   PL_API_KEY      query   string  false        "The API key; defaults to the configured key"
// @Param   bbox            query   string  false        "The bounding box, as a GeoJSON Bounding box (x1,y1,x2,y2)"
// @Param   cloudCover      query   string  false        "The maximum cloud cover, as a percentage (0-100)"
// @Param   acquiredDate    query   string  false        "The minimum (earliest) acquired date, as RFC 3339"
// @Param   maxAcquiredDate query   string  false        "The maximum acquired date, as RFC 3339"
// @Param   assetType       query   string  false        "The asset every result must offer"
// @Param   minCoverage     query   string  false        "The minimum share (0-1) of the bbox a scene must cover"
// @Param   limit           query   int     false        "The maximum number of scenes returned"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /planet/discover/{itemType} [get]
type DiscoverHandler struct {
	Context Context
}

// NewDiscoverHandler creates a new handler using configuration
// from environment variables
func NewDiscoverHandler() *DiscoverHandler {
	return &DiscoverHandler{Context: *NewContextFromEnv()}
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pc := HandlerContext(h.Context, r)
	options, message := discoverOptions(r)
	if message != "" {
		util.LogAlert(pc, message)
		util.HTTPError(r, w, pc, message, http.StatusBadRequest)
		return
	}

	results, err := GetScenes(r.Context(), options, pc)
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}

	featureCreators := make([]model.GeoJSONFeatureCreator, len(results))
	for i, result := range results {
		featureCreators[i] = result
	}
	featureCollection, err := model.MultiSceneResult{FeatureCreators: featureCreators}.GeoJSONFeatureCollection()
	if err != nil {
		message := fmt.Sprintf("Error converting to feature collection: %v", err)
		util.LogSimpleErr(pc, message, err)
		util.HTTPError(r, w, pc, message, http.StatusInternalServerError)
		return
	}
	util.HTTPJSON(r, w, pc, featureCollection)
}

// discoverOptions reads search options from the request, returning a
// message describing the first invalid value
func discoverOptions(r *http.Request) (SearchOptions, string) {
	var (
		options SearchOptions
		err     error
	)
	if itemType := mux.Vars(r)["itemType"]; itemType != "" {
		options.ItemTypes = []string{itemType}
	}
	options.AssetType = r.FormValue("assetType")
	if bboxStr := r.FormValue("bbox"); bboxStr != "" {
		bbox, err := aoi.ParseBBox(bboxStr)
		if err != nil {
			return options, fmt.Sprintf("The bbox value of %v is invalid", bboxStr)
		}
		polygon, err := aoi.FromBBox(bbox)
		if err != nil {
			return options, fmt.Sprintf("The bbox value of %v is invalid", bboxStr)
		}
		options.AOI = polygon
	}
	if cc := r.FormValue("cloudCover"); cc != "" {
		cloudCover, err := strconv.ParseFloat(cc, 64)
		if err != nil || cloudCover < 0 || cloudCover > 100 {
			return options, fmt.Sprintf("Cloud Cover value of %v is invalid.", cc)
		}
		options.CloudCover = &cloudCover
	}
	if ad := r.FormValue("acquiredDate"); ad != "" {
		if options.AcquiredDate, err = time.Parse(time.RFC3339, ad); err != nil {
			return options, fmt.Sprintf("Acquired date value of %v is invalid.", ad)
		}
	}
	if mad := r.FormValue("maxAcquiredDate"); mad != "" {
		if options.MaxAcquiredDate, err = time.Parse(time.RFC3339, mad); err != nil {
			return options, fmt.Sprintf("Acquired date value of %v is invalid.", mad)
		}
	}
	if mc := r.FormValue("minCoverage"); mc != "" {
		if options.MinCoverage, err = strconv.ParseFloat(mc, 64); err != nil || options.MinCoverage < 0 || options.MinCoverage > 1 {
			return options, fmt.Sprintf("Minimum coverage value of %v is invalid.", mc)
		}
	}
	if limit := r.FormValue("limit"); limit != "" {
		if options.Limit, err = strconv.Atoi(limit); err != nil || options.Limit < 0 {
			return options, fmt.Sprintf("Limit value of %v is invalid.", limit)
		}
	}
	return options, ""
}

// MetadataHandler is a handler for /planet/{itemType}/{id}
// @Title planetMetadataHandler
// @Description returns a scene and the state of one of its assets
// @Accept  plain
// @Param   PL_API_KEY      query   string  false        "The API key; defaults to the configured key"
// @Param   itemType        path    string  true         "The item type of the requested scene"
// @Param   id              path    string  true         "The ID of the requested scene"
// @Param   assetType       query   string  false        "The asset described; defaults to ortho_analytic_4b"
// @Success 200 {object}  geojson.Feature
// @Failure 400 {object}  string
// @Router /planet/{itemType}/{id} [get]
type MetadataHandler struct {
	Context Context
}

// NewMetadataHandler creates a new handler using configuration
// from environment variables
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{Context: *NewContextFromEnv()}
}

func (h MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pc := HandlerContext(h.Context, r)
	options, ok := metadataOptions(r)
	if !ok {
		message := "No scene ID found in URL"
		util.LogAlert(pc, message)
		util.HTTPError(r, w, pc, message, http.StatusNotFound)
		return
	}

	result, err := GetActivatableScene(r.Context(), options, pc)
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}
	feature, err := result.GeoJSONFeature()
	if err != nil {
		message := fmt.Sprintf("Error converting metadata to geojson: %v", err)
		util.LogSimpleErr(pc, message, err)
		util.HTTPError(r, w, pc, message, http.StatusInternalServerError)
		return
	}
	util.HTTPJSON(r, w, pc, feature)
}

func metadataOptions(r *http.Request) (MetadataOptions, bool) {
	vars := mux.Vars(r)
	options := MetadataOptions{ID: vars["id"], ItemType: vars["itemType"], AssetType: r.FormValue("assetType")}
	return options, options.ID != "" && options.ItemType != ""
}

// ActivateHandler is a handler for /planet/activate/{itemType}/{id}
// @Title planetActivateHandler
// @Description activates a scene's asset
// @Accept  plain
// @Param   PL_API_KEY      query   string  false        "The API key; defaults to the configured key"
// @Param   itemType        path    string  true         "The item type of the requested scene"
// @Param   id              path    string  true         "The ID of the requested scene"
// @Param   assetType       query   string  false        "The asset to activate; defaults to ortho_analytic_4b"
// @Success 202 {object}  string
// @Failure 400 {object}  string
// @Router /planet/activate/{itemType}/{id} [post]
type ActivateHandler struct {
	Context Context
}

// NewActivateHandler creates a new handler using configuration
// from environment variables
func NewActivateHandler() *ActivateHandler {
	return &ActivateHandler{Context: *NewContextFromEnv()}
}

func (h ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pc := HandlerContext(h.Context, r)
	options, ok := metadataOptions(r)
	if !ok {
		message := "No scene ID found in URL"
		util.LogAlert(pc, message)
		util.HTTPError(r, w, pc, message, http.StatusNotFound)
		return
	}

	asset, err := Activate(r.Context(), options, pc)
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(asset.Status))
}
