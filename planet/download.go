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
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/venicegeo/bf-planet-recipes/util"
)

// DownloadInput describes one file to fetch
type DownloadInput struct {
	// URL may be relative to the Context's base URL or absolute
	URL string
	Dir string
	// Filename overrides the name from Content-Disposition or the URL path
	Filename string
	// Kind and Ref label the download for metrics and the Recorder,
	// e.g. "quad" and "L15-0123E-1234N"
	Kind string
	Ref  string
}

// Download streams a file into input.Dir and returns its path. The file is
// written under a ".part" name and renamed once complete. A non-empty file
// already at the target path is kept and not fetched again.
func Download(ctx context.Context, pc *Context, input DownloadInput) (string, error) {
	kind := input.Kind
	if kind == "" {
		kind = "file"
	}
	inputURL, err := pc.ResolveURL(input.URL)
	if err != nil {
		return "", err
	}
	if input.Filename != "" {
		target := filepath.Join(input.Dir, SanitizeFilename(input.Filename))
		if exists(target) {
			return skipDownload(pc, kind, target), nil
		}
	}

	request, err := http.NewRequest("GET", inputURL, nil)
	if err != nil {
		return "", util.LogSimpleErr(pc, fmt.Sprintf("Failed to make a new HTTP request for %v.", inputURL), err)
	}
	request = request.WithContext(ctx)
	if sameHost(inputURL, pc.BasePlanetURL) {
		request.SetBasicAuth(pc.PlanetKey, "")
	}
	util.LogAudit(pc, util.LogAuditInput{Actor: "planet/Download", Action: "GET", Actee: inputURL, Message: "Downloading " + kind, Severity: util.DEBUG})
	response, err := util.HTTPClient().Do(request)
	if err != nil {
		return "", util.LogSimpleErr(pc, fmt.Sprintf("Failed to download %v.", inputURL), err)
	}
	defer response.Body.Close()
	if response.StatusCode >= 400 {
		apiErr := parseAPIError(response)
		return "", classifyErr(pc, RequestInput{Method: "GET", Description: "Failed to download " + kind}, inputURL, apiErr)
	}

	filename := input.Filename
	if filename == "" {
		filename = responseFilename(response, inputURL)
	}
	target := filepath.Join(input.Dir, SanitizeFilename(filename))
	if exists(target) {
		return skipDownload(pc, kind, target), nil
	}

	size, err := writeAtomically(target, response.Body)
	if err != nil {
		util.ObserveDownload(kind, "failed", 0)
		return "", util.LogSimpleErr(pc, fmt.Sprintf("Failed to write %v.", target), err)
	}
	util.ObserveDownload(kind, "downloaded", size)
	util.LogInfo(pc, fmt.Sprintf("Downloaded %v (%d bytes).", target, size))

	if pc.Recorder != nil {
		if err = pc.Recorder.RecordDownload(kind, input.Ref, target, size); err != nil {
			util.LogAlert(pc, fmt.Sprintf("Failed to record download of %v: %v", target, err))
		}
	}
	return target, nil
}

func skipDownload(pc *Context, kind, target string) string {
	util.LogInfo(pc, fmt.Sprintf("%v already exists, skipping download.", target))
	util.ObserveDownload(kind, "skipped", 0)
	return target
}

func writeAtomically(target string, body io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}
	part, err := ioutil.TempFile(filepath.Dir(target), filepath.Base(target)+".*.part")
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(part, body)
	if closeErr := part.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(part.Name(), target)
	}
	if err != nil {
		os.Remove(part.Name())
		return 0, err
	}
	return size, nil
}

func exists(target string) bool {
	info, err := os.Stat(target)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func sameHost(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	return errA == nil && errB == nil && ua.Host == ub.Host
}

// responseFilename takes the name from Content-Disposition, falling back to
// the last element of the URL path
func responseFilename(response *http.Response, inputURL string) string {
	if disposition := response.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	if u, err := url.Parse(inputURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "download"
}

// SanitizeFilename reduces a name to a single safe path element
func SanitizeFilename(name string) string {
	name = strings.Replace(name, "\\", "/", -1)
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|' {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "download"
	}
	return name
}
