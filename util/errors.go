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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPErr is an error that maps onto an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (err HTTPErr) Error() string {
	return fmt.Sprintf("%d: %v", err.Status, err.Message)
}

// Error carries a detailed message for the log and a simple one for the user
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Log writes the detailed message (plus msgAdd) to the log and returns an
// error suitable for a user
func (err Error) Log(ctx LogContext, msgAdd string) error {
	logMsg := err.LogMsg
	if logMsg == "" {
		logMsg = err.SimpleMsg
	}
	if msgAdd != "" {
		logMsg = msgAdd + ": " + logMsg
	}
	l := logger(ctx)
	l.Error(logMsg, "url", err.URL, "status", err.HTTPStatus, "response", err.Response)
	if err.HTTPStatus != 0 {
		return HTTPErr{Status: http.StatusBadGateway, Message: err.SimpleMsg}
	}
	return fmt.Errorf("%v", err.SimpleMsg)
}

// HTTPError writes an error message and status to the response
func HTTPError(request *http.Request, writer http.ResponseWriter, ctx LogContext, message string, status int) {
	LogAudit(ctx, LogAuditInput{Actor: request.URL.String(), Action: request.Method + " response", Actee: request.RemoteAddr, Message: message, Severity: ERROR})
	http.Error(writer, message, status)
}

// HTTPErrorFromErr writes err to the response using its HTTPErr status
// when it carries one
func HTTPErrorFromErr(request *http.Request, writer http.ResponseWriter, ctx LogContext, err error) {
	var httpErr HTTPErr
	if errors.As(err, &httpErr) {
		HTTPError(request, writer, ctx, httpErr.Message, httpErr.Status)
		return
	}
	HTTPError(request, writer, ctx, err.Error(), http.StatusInternalServerError)
}

// HTTPJSON writes value as a JSON response, or a 500 when it cannot be encoded
func HTTPJSON(request *http.Request, writer http.ResponseWriter, ctx LogContext, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		message := fmt.Sprintf("Error encoding response: %v", err)
		LogSimpleErr(ctx, message, err)
		HTTPError(request, writer, ctx, message, http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.Write(data)
}
