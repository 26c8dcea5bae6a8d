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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevinburke/rest"
	"github.com/venicegeo/bf-planet-recipes/util"
)

const apiTimeout = 60 * time.Second

// RequestInput describes one call to the Planet API
type RequestInput struct {
	Method string
	// URL may be relative to the Context's base URL or absolute
	URL  string
	Body interface{}
	// Description names the operation in log and error messages,
	// e.g. "Failed to discover scenes from Planet API"
	Description string
}

// apiError is produced for any response with a status of 400 or above
type apiError struct {
	status     int
	statusText string
	body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%v: %v", e.statusText, e.message())
}

// message extracts the human readable part of a Planet error body
func (e *apiError) message() string {
	var payload struct {
		Message string `json:"message"`
		Field   map[string][]struct {
			Message string `json:"message"`
		} `json:"field"`
		General []struct {
			Message string `json:"message"`
		} `json:"general"`
	}
	if err := json.Unmarshal([]byte(e.body), &payload); err != nil {
		return strings.TrimSpace(e.body)
	}
	messages := []string{}
	if payload.Message != "" {
		messages = append(messages, payload.Message)
	}
	for _, general := range payload.General {
		messages = append(messages, general.Message)
	}
	for field, details := range payload.Field {
		for _, detail := range details {
			messages = append(messages, field+": "+detail.Message)
		}
	}
	return strings.Join(messages, "; ")
}

func parseAPIError(response *http.Response) error {
	body, _ := ioutil.ReadAll(io.LimitReader(response.Body, 64<<10))
	return &apiError{status: response.StatusCode, statusText: response.Status, body: string(body)}
}

// observingTransport counts every API round trip by API family and status
type observingTransport struct {
	next http.RoundTripper
}

func (t observingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	response, err := t.next.RoundTrip(request)
	status := 0
	if response != nil {
		status = response.StatusCode
	}
	util.ObserveAPIRequest(apiFamily(request.URL), request.Method, status)
	return response, err
}

// apiFamily returns "data", "compute", "basemaps", ... for a Planet URL
func apiFamily(u *url.URL) string {
	path := strings.TrimPrefix(u.Path, "/")
	if i := strings.Index(path, "/"); i > 0 {
		return path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

func newRestClient(key string) *rest.Client {
	client := rest.NewClient(key, "", "")
	client.Client = &http.Client{
		Timeout:   apiTimeout,
		Transport: observingTransport{next: http.DefaultTransport},
	}
	client.ErrorParser = parseAPIError
	return client
}

func (c *Context) restClient() *rest.Client {
	if c.client == nil {
		c.client = newRestClient(c.PlanetKey)
	}
	return c.client
}

// ResolveURL resolves a relative Planet URL against the base URL; absolute
// URLs are returned unchanged
func (c *Context) ResolveURL(inputURL string) (string, error) {
	parsedRelativeURL, err := url.Parse(inputURL)
	if err != nil {
		return "", util.LogSimpleErr(c, fmt.Sprintf("Failed to parse %v into a URL.", inputURL), err)
	}
	if parsedRelativeURL.IsAbs() {
		return parsedRelativeURL.String(), nil
	}
	baseURL, err := url.Parse(c.BasePlanetURL)
	if err != nil {
		return "", util.LogSimpleErr(c, fmt.Sprintf("Failed to parse %v into a URL.", c.BasePlanetURL), err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	return baseURL.ResolveReference(parsedRelativeURL).String(), nil
}

// Request performs a Planet API call and decodes the JSON response into out
// (which may be nil). It returns the raw response body. Upstream 4xx
// responses are returned as util.HTTPErr carrying the upstream status.
func Request(ctx context.Context, pc *Context, input RequestInput, out interface{}) ([]byte, error) {
	var (
		requestBody []byte
		err         error
		raw         json.RawMessage
	)
	inputURL, err := pc.ResolveURL(input.URL)
	if err != nil {
		return nil, err
	}
	if input.Body != nil {
		if requestBody, err = json.Marshal(input.Body); err != nil {
			return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to marshal request object %#v.", input.Body), err)
		}
	}
	message := "Requesting data from Planet Labs"
	if len(requestBody) > 0 {
		message += ": " + string(requestBody)
	}

	client := pc.restClient()
	var body io.Reader
	if requestBody != nil {
		body = bytes.NewReader(requestBody)
	}
	request, err := client.NewRequest(input.Method, inputURL, body)
	if err != nil {
		return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to make a new HTTP request for %v.", inputURL), err)
	}
	request = request.WithContext(ctx)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.SetBasicAuth(pc.PlanetKey, "")

	util.LogAudit(pc, util.LogAuditInput{Actor: "planet/Request", Action: input.Method, Actee: inputURL, Message: message, Severity: util.DEBUG})
	if err = client.Do(request, &raw); err != nil && !isEmptyBody(err) {
		return nil, classifyErr(pc, input, inputURL, err)
	}
	util.LogAudit(pc, util.LogAuditInput{Actor: inputURL, Action: input.Method + " response", Actee: "planet/Request", Message: "Receiving data from Planet API", Severity: util.DEBUG})

	if out != nil && len(raw) > 0 {
		if err = json.Unmarshal(raw, out); err != nil {
			plErr := util.Error{LogMsg: "Failed to Unmarshal response from Planet API request: " + err.Error(),
				SimpleMsg:  "Planet Labs returned an unexpected response for this request. See log for further details.",
				Response:   string(raw),
				URL:        inputURL,
				HTTPStatus: http.StatusOK}
			return raw, plErr.Log(pc, "")
		}
	}
	return raw, nil
}

// isEmptyBody reports whether a decode error only means the response had no
// body, as with 202 and 204 responses
func isEmptyBody(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Offset == 0
}

func classifyErr(pc *Context, input RequestInput, inputURL string, err error) error {
	description := input.Description
	if description == "" {
		description = "Failed to complete Planet API request"
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return util.LogSimpleErr(pc, fmt.Sprintf("%v (%v %v).", description, input.Method, inputURL), err)
	}
	switch {
	case apiErr.status >= 400 && apiErr.status < 500:
		message := fmt.Sprintf("%v: %v. ", description, apiErr.statusText)
		if detail := apiErr.message(); detail != "" {
			message += detail
		}
		util.LogAlert(pc, message)
		return util.HTTPErr{Status: apiErr.status, Message: message}
	default:
		return util.LogSimpleErr(pc, description+".", errors.New(apiErr.statusText))
	}
}
