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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakePlanet is a minimal Data API: two search pages and a single scene
// whose asset activates after a number of polls
type fakePlanet struct {
	sync.Mutex
	server         *httptest.Server
	pages          [][]map[string]interface{}
	searchBodies   []string
	assetStatus    string
	activeAfter    int
	assetPolls     int
	activations    int
	downloads      int
	downloadBody   string
	searchStatus   int
	lastAuthHeader string
}

func newFakePlanet(t *testing.T) *fakePlanet {
	fp := &fakePlanet{assetStatus: AssetInactive, downloadBody: "GeoTIFF bytes", searchStatus: http.StatusOK}
	fp.server = httptest.NewServer(http.HandlerFunc(fp.serve))
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakePlanet) context() *Context {
	pc := NewContext(fp.server.URL, "secret-key")
	pc.PollInterval = 5 * time.Millisecond
	return pc
}

func (fp *fakePlanet) serve(w http.ResponseWriter, r *http.Request) {
	fp.Lock()
	defer fp.Unlock()
	fp.lastAuthHeader = r.Header.Get("Authorization")
	switch {
	case r.URL.Path == "/data/v1/quick-search" && r.Method == "POST":
		body, _ := ioutil.ReadAll(r.Body)
		fp.searchBodies = append(fp.searchBodies, string(body))
		if fp.searchStatus != http.StatusOK {
			w.WriteHeader(fp.searchStatus)
			w.Write([]byte(`{"message": "Invalid API key"}`))
			return
		}
		fp.writePage(w, 0)
	case strings.HasPrefix(r.URL.Path, "/data/v1/searches/page/"):
		var page int
		fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/data/v1/searches/page/"), "%d", &page)
		fp.writePage(w, page)
	case r.URL.Path == "/data/v1/item-types/PSScene/items/20230815_101112_12_2461":
		w.Write([]byte(mockSceneJSON))
	case r.URL.Path == "/data/v1/item-types/PSScene/items/20230815_101112_12_2461/assets/":
		fp.assetPolls++
		if fp.assetStatus == AssetActivating && fp.assetPolls > fp.activeAfter {
			fp.assetStatus = AssetActive
		}
		fp.writeAssets(w)
	case r.URL.Path == "/activate" && r.Method == "POST":
		fp.activations++
		fp.assetStatus = AssetActivating
		w.WriteHeader(http.StatusAccepted)
	case r.URL.Path == "/download":
		fp.downloads++
		w.Header().Set("Content-Disposition", `attachment; filename="20230815_101112_12_2461_3B_AnalyticMS.tif"`)
		w.Write([]byte(fp.downloadBody))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "not found"}`))
	}
}

func (fp *fakePlanet) writePage(w http.ResponseWriter, page int) {
	links := map[string]interface{}{"_self": fp.server.URL + "/data/v1/searches/page/" + fmt.Sprint(page)}
	if page+1 < len(fp.pages) {
		links["_next"] = fp.server.URL + "/data/v1/searches/page/" + fmt.Sprint(page+1)
	}
	features := []map[string]interface{}{}
	if page < len(fp.pages) {
		features = fp.pages[page]
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"type":     "FeatureCollection",
		"_links":   links,
		"features": features,
	})
}

func (fp *fakePlanet) writeAssets(w http.ResponseWriter) {
	asset := map[string]interface{}{
		"_links":       map[string]interface{}{"_self": fp.server.URL + "/asset", "activate": fp.server.URL + "/activate", "type": fp.server.URL + "/type"},
		"_permissions": []string{"download"},
		"status":       fp.assetStatus,
		"type":         DefaultAssetType,
	}
	if fp.assetStatus == AssetActive {
		asset["location"] = fp.server.URL + "/download"
		asset["expires_at"] = "2023-08-16T10:11:12.123456"
	}
	json.NewEncoder(w).Encode(map[string]interface{}{DefaultAssetType: asset})
}

// square returns a GeoJSON polygon spanning [minX, maxX] x [minY, maxY]
func square(minX, minY, maxX, maxY float64) map[string]interface{} {
	return map[string]interface{}{
		"type": "Polygon",
		"coordinates": [][][]float64{{
			{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
		}},
	}
}

func mockSearchFeature(id string, geometry map[string]interface{}, permissions ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":     "Feature",
		"id":       id,
		"geometry": geometry,
		"properties": map[string]interface{}{
			"acquired":     id[0:4] + "-" + id[4:6] + "-" + id[6:8] + "T10:11:12.123456Z",
			"cloud_cover":  0.05,
			"gsd":          3.9,
			"item_type":    "PSScene",
			"satellite_id": "2461",
		},
		"_links":       map[string]interface{}{"_self": "self", "assets": "assets"},
		"_permissions": permissions,
	}
}

var downloadable = DownloadPermission(DefaultAssetType)

const mockSceneJSON = `{
	"type": "Feature",
	"id": "20230815_101112_12_2461",
	"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]},
	"properties": {
		"acquired": "2023-08-15T10:11:12.123456Z",
		"cloud_cover": 0.12,
		"gsd": 3.9,
		"item_type": "PSScene",
		"satellite_id": "2461"
	},
	"_permissions": ["assets.ortho_analytic_4b:download"]
}`
