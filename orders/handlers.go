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
	"net/http"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
)

// StatusHandler is a handler for /orders/{id}
// @Title ordersStatusHandler
// @Description returns the state and result links of a Planet order
// @Accept  plain
// @Param   PL_API_KEY      query   string  false        "The API key; defaults to the configured key"
// @Param   id              path    string  true         "The order ID"
// @Success 200 {object}  orders.Order
// @Failure 404 {object}  string
// @Router /orders/{id} [get]
type StatusHandler struct {
	Context planet.Context
}

// NewStatusHandler creates a new handler using configuration
// from environment variables
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{Context: *planet.NewContextFromEnv()}
}

// ServeHTTP implements the http.Handler interface for the StatusHandler type
func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pc := planet.HandlerContext(h.Context, r)
	id := mux.Vars(r)["id"]
	if id == "" {
		util.HTTPError(r, w, pc, "An order ID is required", http.StatusBadRequest)
		return
	}
	order, err := Get(r.Context(), pc, id)
	if err != nil {
		util.HTTPErrorFromErr(r, w, pc, err)
		return
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		util.HTTPError(r, w, pc, util.LogSimpleErr(pc, "Failed to encode order "+id, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(bytes)
}
