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

package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-planet-recipes/basemaps"
	"github.com/venicegeo/bf-planet-recipes/orders"
	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
	cli "gopkg.in/urfave/cli.v1"
)

func createRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.Handle("/planet/discover/{itemType}", planet.NewDiscoverHandler())
	router.Handle("/planet/{itemType}/{id}", planet.NewMetadataHandler())
	router.Handle("/planet/activate/{itemType}/{id}", planet.NewActivateHandler())
	router.Handle("/orders/{id}", orders.NewStatusHandler())
	router.Handle("/basemaps/{mosaic}/quads", basemaps.NewQuadsHandler())
	router.Handle("/metrics", util.MetricsHandler())
	return router
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})
	portStr := util.GetPortStr()
	util.LogInfo(logContext, "Starting bf-planet webserver on "+portStr)
	launchServerFunc(portStr, createRouter())
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
