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

package basemaps

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
)

// QuadsHandler is a handler for /basemaps/{mosaic}/quads
// @Title basemapsQuadsHandler
// @Description lists the quads of a named mosaic within a bounding box
// @Accept  plain
// @Param   PL_API_KEY      query   string  false        "The API key; defaults to the configured key"
// @Param   mosaic          path    string  true         "The mosaic name"
// @Param   bbox            query   string  true         "The bounding box, as a GeoJSON Bounding box (x1,y1,x2,y2)"
// @Param   limit           query   int     false        "The maximum number of quads returned"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Failure 404 {object}  string
// @Router /basemaps/{mosaic}/quads [get]
type QuadsHandler struct {
	Context planet.Context
}

// NewQuadsHandler creates a new handler using configuration
// from environment variables
func NewQuadsHandler() *QuadsHandler {
	return &QuadsHandler{Context: *planet.NewContextFromEnv()}
}

// ServeHTTP implements the http.Handler interface for the QuadsHandler type
func (h QuadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pc := planet.HandlerContext(h.Context, r)
	bboxStr := r.FormValue("bbox")
	bbox, err := aoi.ParseBBox(bboxStr)
	if err != nil {
		message := fmt.Sprintf("The bbox value of %v is invalid", bboxStr)
		util.LogAlert(pc, message)
		util.HTTPError(r, w, pc, message, http.StatusBadRequest)
		return
	}
	limit := 0
	if limitStr := r.FormValue("limit"); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 0 {
			util.HTTPError(r, w, pc, fmt.Sprintf("The limit value of %v is invalid", limitStr), http.StatusBadRequest)
			return
		}
	}

	mosaic, err := GetMosaicByName(r.Context(), pc, mux.Vars(r)["mosaic"])
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}
	quads, err := GetQuads(r.Context(), pc, mosaic, bbox, limit)
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}

	featureCreators := make([]model.GeoJSONFeatureCreator, len(quads))
	for i, quad := range quads {
		featureCreators[i] = quad
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
