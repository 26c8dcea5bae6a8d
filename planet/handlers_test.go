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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func newTestRouter(fp *fakePlanet) *mux.Router {
	pc := *fp.context()
	router := mux.NewRouter()
	router.Handle("/planet/discover/{itemType}", DiscoverHandler{Context: pc})
	router.Handle("/planet/{itemType}/{id}", MetadataHandler{Context: pc})
	router.Handle("/planet/activate/{itemType}/{id}", ActivateHandler{Context: pc})
	return router
}

func serveTest(router http.Handler, method, target string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestDiscoverHandler(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	fp.pages = [][]map[string]interface{}{{
		mockSearchFeature("20230815_101112_12_2461", square(-1, -1, 2, 2), downloadable),
	}}
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "GET", "/planet/discover/PSScene?bbox=0,0,1,1&cloudCover=10&acquiredDate=2023-08-01T00:00:00Z")

	// Asserts
	assert.Equal(t, http.StatusOK, response.Code)
	parsed, err := geojson.Parse(response.Body.Bytes())
	assert.Nil(t, err)
	fc, ok := parsed.(*geojson.FeatureCollection)
	if assert.True(t, ok) && assert.Len(t, fc.Features, 1) {
		assert.Equal(t, "20230815_101112_12_2461", fc.Features[0].IDStr())
		assert.InDelta(t, 1.0, fc.Features[0].PropertyFloat("aoiCoverage"), 0.01)
	}
	assert.Contains(t, fp.searchBodies[0], `"item_types":["PSScene"]`)
}

func TestDiscoverHandler_CloudFree(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	fp.pages = [][]map[string]interface{}{{
		mockSearchFeature("20230815_101112_12_2461", square(-1, -1, 2, 2), downloadable),
	}}
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "GET", "/planet/discover/PSScene?cloudCover=0")

	// Asserts
	assert.Equal(t, http.StatusOK, response.Code)
	if assert.Len(t, fp.searchBodies, 1) {
		assert.Contains(t, fp.searchBodies[0], `"field_name":"cloud_cover","config":{"lte":0}`)
	}
}

func TestDiscoverHandler_BadInput(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	router := newTestRouter(fp)

	// Tested code
	badBbox := serveTest(router, "GET", "/planet/discover/PSScene?bbox=0,0,1")
	badCloud := serveTest(router, "GET", "/planet/discover/PSScene?cloudCover=101")
	badDate := serveTest(router, "GET", "/planet/discover/PSScene?acquiredDate=yesterday")
	badCoverage := serveTest(router, "GET", "/planet/discover/PSScene?minCoverage=2")

	// Asserts
	assert.Equal(t, http.StatusBadRequest, badBbox.Code)
	assert.Equal(t, http.StatusBadRequest, badCloud.Code)
	assert.Equal(t, http.StatusBadRequest, badDate.Code)
	assert.Equal(t, http.StatusBadRequest, badCoverage.Code)
	assert.Empty(t, fp.searchBodies)
}

func TestDiscoverHandler_Upstream401(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	fp.searchStatus = http.StatusUnauthorized
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "GET", "/planet/discover/PSScene?PL_API_KEY=other")

	// Asserts
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Contains(t, fp.lastAuthHeader, "Basic ")
}

func TestMetadataHandler(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	fp.assetStatus = AssetActive
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "GET", "/planet/PSScene/20230815_101112_12_2461")

	// Asserts
	assert.Equal(t, http.StatusOK, response.Code)
	parsed, err := geojson.Parse(response.Body.Bytes())
	assert.Nil(t, err)
	feature, ok := parsed.(*geojson.Feature)
	if assert.True(t, ok) {
		assert.Equal(t, AssetActive, feature.PropertyString("status"))
		assert.Equal(t, fp.server.URL+"/download", feature.PropertyString("location"))
		assert.Equal(t, DefaultAssetType, feature.PropertyString("asset_type"))
	}
}

func TestActivateHandler(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "POST", "/planet/activate/PSScene/20230815_101112_12_2461")

	// Asserts
	assert.Equal(t, http.StatusAccepted, response.Code)
	assert.Equal(t, AssetActivating, response.Body.String())
	assert.Equal(t, 1, fp.activations)
}

func TestActivateHandler_NotFound(t *testing.T) {
	// Mock
	fp := newFakePlanet(t)
	router := newTestRouter(fp)

	// Tested code
	response := serveTest(router, "POST", "/planet/activate/PSScene/missing")

	// Asserts
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, 0, fp.activations)
}
