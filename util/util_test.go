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
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestErrorLog(t *testing.T) {
	// Mock
	upstream := Error{LogMsg: "unexpected body", SimpleMsg: "Planet returned garbage", Response: "<html>", URL: "http://x", HTTPStatus: 200}
	local := Error{SimpleMsg: "no such file"}

	// Tested code
	upstreamErr := upstream.Log(&BasicLogContext{}, "search")
	localErr := local.Log(&BasicLogContext{}, "")

	// Asserts
	var httpErr HTTPErr
	if assert.True(t, errors.As(upstreamErr, &httpErr)) {
		assert.Equal(t, http.StatusBadGateway, httpErr.Status)
		assert.Equal(t, "Planet returned garbage", httpErr.Message)
	}
	assert.Equal(t, "no such file", localErr.Error())
}

func TestHTTPErrorFromErr(t *testing.T) {
	request := httptest.NewRequest("GET", "/planet/discover/PSScene", nil)

	notFound := httptest.NewRecorder()
	HTTPErrorFromErr(request, notFound, &BasicLogContext{}, LogSimpleErr(&BasicLogContext{}, "lookup", HTTPErr{Status: 404, Message: "gone"}))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Contains(t, notFound.Body.String(), "gone")

	internal := httptest.NewRecorder()
	HTTPErrorFromErr(request, internal, &BasicLogContext{}, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
}

func TestHTTPJSON(t *testing.T) {
	request := httptest.NewRequest("GET", "/planet/discover/PSScene", nil)

	ok := httptest.NewRecorder()
	HTTPJSON(request, ok, &BasicLogContext{}, map[string]float64{"coverage": 0.5})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "application/json", ok.Header().Get("Content-Type"))
	assert.Equal(t, `{"coverage":0.5}`, ok.Body.String())

	unencodable := httptest.NewRecorder()
	HTTPJSON(request, unencodable, &BasicLogContext{}, map[string]float64{"coverage": math.NaN()})
	assert.Equal(t, http.StatusInternalServerError, unencodable.Code)
}

func TestLogSimpleErr(t *testing.T) {
	cause := errors.New("connection refused")
	err := LogSimpleErr(&BasicLogContext{}, "Failed to reach Planet.", cause)
	assert.Equal(t, "Failed to reach Planet. connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, "only a message", LogSimpleErr(nil, "only a message", nil).Error())
}

func TestBasicLogContext(t *testing.T) {
	ctx := &BasicLogContext{}
	assert.Equal(t, AppName, ctx.AppName())
	first := ctx.SessionID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, ctx.SessionID())
	LogAudit(ctx, LogAuditInput{Actor: "test", Action: "audit", Actee: "log", Message: "audited", Severity: WARN})
	LogInfo(ctx, "info")
	LogAlert(ctx, "alert")
}

func TestObserveDownload(t *testing.T) {
	before := testutil.ToFloat64(downloadedBytesTotal.WithLabelValues("test"))
	ObserveDownload("test", "downloaded", 100)
	ObserveDownload("test", "skipped", 0)
	assert.Equal(t, before+100, testutil.ToFloat64(downloadedBytesTotal.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(downloadsTotal.WithLabelValues("test", "skipped")))
}

func TestMetricsHandler(t *testing.T) {
	ObservePoll("order")
	recorder := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bf_planet_poll_attempts_total")
}
