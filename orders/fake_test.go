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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/venicegeo/bf-planet-recipes/planet"
)

// fakeOrders is a minimal Orders API. Each order walks through states, one
// per poll, and its results are served from /download/.
type fakeOrders struct {
	sync.Mutex
	server      *httptest.Server
	created     []string
	states      map[string][]string
	polls       map[string]int
	cancelled   []string
	results     []Result
	downloads   int
	listQueries []string
}

func newFakeOrders(t *testing.T) *fakeOrders {
	fo := &fakeOrders{states: map[string][]string{}, polls: map[string]int{}}
	fo.server = httptest.NewServer(http.HandlerFunc(fo.serve))
	t.Cleanup(fo.server.Close)
	fo.results = []Result{
		{Name: "order-1/PSScene/20230815_101112_12_2461_3B_AnalyticMS.tif", Location: fo.server.URL + "/download/scene", Delivery: "success"},
		{Name: "order-1/manifest.json", Location: fo.server.URL + "/download/manifest", Delivery: "success"},
		{Name: "order-1/PSScene/broken.tif", Location: fo.server.URL + "/download/broken", Delivery: "failed"},
		{Name: "order-1/PSScene/old.tif", Location: fo.server.URL + "/download/old", Delivery: "success", ExpiresAt: "2019-01-01T00:00:00.000Z"},
	}
	return fo
}

func (fo *fakeOrders) context() *planet.Context {
	pc := planet.NewContext(fo.server.URL, "secret-key")
	pc.PollInterval = 5 * time.Millisecond
	return pc
}

func (fo *fakeOrders) order(id string) Order {
	states := fo.states[id]
	state := StateSuccess
	if len(states) > 0 {
		index := fo.polls[id]
		if index >= len(states) {
			index = len(states) - 1
		}
		state = states[index]
	}
	order := Order{ID: id, Name: "order " + id, State: state}
	if state == StateFailed {
		order.LastMessage = "Bundle type does not match item type"
	}
	if state == StateSuccess || state == StatePartial {
		order.Links.Results = fo.results
	}
	return order
}

func (fo *fakeOrders) serve(w http.ResponseWriter, r *http.Request) {
	fo.Lock()
	defer fo.Unlock()
	const prefix = "/compute/ops/orders/v2"
	switch {
	case r.URL.Path == prefix && r.Method == "POST":
		body, _ := ioutil.ReadAll(r.Body)
		fo.created = append(fo.created, string(body))
		w.WriteHeader(http.StatusAccepted)
		writeJSON(w, Order{ID: "order-1", Name: "created", State: StateQueued})
	case r.URL.Path == prefix && r.Method == "GET":
		fo.listQueries = append(fo.listQueries, r.URL.RawQuery)
		page := orderList{}
		if r.URL.Query().Get("page") == "" {
			page.Orders = []Order{{ID: "order-3", State: StateRunning}, {ID: "order-2", State: StateSuccess}}
			page.Links.Next = fo.server.URL + prefix + "?page=2"
		} else {
			page.Orders = []Order{{ID: "order-1", State: StateFailed}}
		}
		writeJSON(w, page)
	case strings.HasPrefix(r.URL.Path, prefix+"/"):
		id := strings.TrimPrefix(r.URL.Path, prefix+"/")
		if id == "missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Order not found"}`))
			return
		}
		if r.Method == "PUT" {
			fo.cancelled = append(fo.cancelled, id)
			writeJSON(w, Order{ID: id, State: StateCancelled})
			return
		}
		order := fo.order(id)
		fo.polls[id]++
		writeJSON(w, order)
	case strings.HasPrefix(r.URL.Path, "/download/"):
		fo.downloads++
		name := strings.TrimPrefix(r.URL.Path, "/download/")
		w.Write([]byte(fmt.Sprintf("contents of %v", name)))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	bytes, _ := json.Marshal(value)
	w.Header().Set("Content-Type", "application/json")
	w.Write(bytes)
}
