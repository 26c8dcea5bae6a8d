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

package util

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bf_planet",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Requests sent to the Planet API",
	}, []string{"api", "method", "status"})

	pollAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bf_planet",
		Subsystem: "poll",
		Name:      "attempts_total",
		Help:      "Status polls of asset activations and orders",
	}, []string{"kind"})

	downloadedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bf_planet",
		Subsystem: "download",
		Name:      "bytes_total",
		Help:      "Bytes written to disk by downloads",
	}, []string{"kind"})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bf_planet",
		Subsystem: "download",
		Name:      "files_total",
		Help:      "Files downloaded, by outcome",
	}, []string{"kind", "outcome"})
)

// ObserveAPIRequest counts a request to one of the Planet APIs
func ObserveAPIRequest(api, method string, status int) {
	apiRequestsTotal.WithLabelValues(api, method, strconv.Itoa(status)).Inc()
}

// ObservePoll counts a status poll
func ObservePoll(kind string) {
	pollAttemptsTotal.WithLabelValues(kind).Inc()
}

// ObserveDownload counts a finished download; skipped downloads report zero bytes
func ObserveDownload(kind, outcome string, bytes int64) {
	downloadsTotal.WithLabelValues(kind, outcome).Inc()
	if bytes > 0 {
		downloadedBytesTotal.WithLabelValues(kind).Add(float64(bytes))
	}
}

// MetricsHandler exposes the metrics above
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
