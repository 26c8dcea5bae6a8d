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
	"time"

	"github.com/kevinburke/rest"
	"github.com/venicegeo/bf-planet-recipes/util"
)

var disablePermissionsCheck bool

func init() {
	disablePermissionsCheck, _ = util.IsPlanetPermissionsDisabled()
	if disablePermissionsCheck {
		util.LogInfo(&util.BasicLogContext{}, "Disabling Planet Labs permissions check")
	}
}

// Recorder is told about every file a download writes
type Recorder interface {
	RecordDownload(kind, ref, path string, size int64) error
}

// Context is the context for a Planet Labs Operation
type Context struct {
	BasePlanetURL string
	PlanetKey     string
	PollInterval  time.Duration
	Recorder      Recorder
	sessionID     string
	client        *rest.Client
}

// NewContext creates a Context with its API client ready for concurrent use
func NewContext(baseURL, key string) *Context {
	c := &Context{BasePlanetURL: baseURL, PlanetKey: key, PollInterval: util.GetPollInterval()}
	c.client = newRestClient(key)
	return c
}

// NewContextFromEnv creates a Context from PL_API_URL and PL_API_KEY
func NewContextFromEnv() *Context {
	return NewContext(util.GetPlanetAPIURL(), util.GetPlanetAPIKey())
}

// AppName returns the application name
func (c *Context) AppName() string {
	return util.AppName
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

// PollingInterval is the delay between status checks of long running work
func (c *Context) PollingInterval() time.Duration {
	if c.PollInterval <= 0 {
		return util.GetPollInterval()
	}
	return c.PollInterval
}

// SearchOptions are the search options for a quick-search request
type SearchOptions struct {
	ItemTypes       []string
	AcquiredDate    time.Time
	MaxAcquiredDate time.Time
	AOI             interface{}
	CloudCover      *float64 // maximum percent; nil for no limit, 0 for cloud free
	AssetType       string
	MinCoverage     float64
	Limit           int
}

// MetadataOptions identify a single item and, optionally, one of its assets
type MetadataOptions struct {
	ID        string
	ItemType  string
	AssetType string
}

type searchResults struct {
	Links    searchLinks `json:"_links"`
	Features []feature   `json:"features"`
}

type searchLinks struct {
	Self string `json:"_self"`
	Next string `json:"_next"`
}

type feature struct {
	ID          string   `json:"id"`
	Links       Links    `json:"_links"`
	Permissions []string `json:"_permissions"`
}

type request struct {
	ItemTypes []string `json:"item_types"`
	Filter    Filter   `json:"filter"`
}

// Assets maps asset types (e.g. "ortho_analytic_4b") to their state
type Assets map[string]Asset

// Asset represents a single asset available for a scene
type Asset struct {
	Links       Links    `json:"_links"`
	Status      string   `json:"status"`
	Type        string   `json:"type"`
	Location    string   `json:"location,omitempty"`
	ExpiresAt   string   `json:"expires_at,omitempty"`
	Permissions []string `json:"_permissions,omitempty"`
	MD5Digest   string   `json:"md5_digest,omitempty"`
}

// Asset statuses
const (
	AssetInactive   = "inactive"
	AssetActivating = "activating"
	AssetActive     = "active"
)

// Links represents the links JSON structure.
type Links struct {
	Self     string `json:"_self"`
	Activate string `json:"activate"`
	Type     string `json:"type"`
	Assets   string `json:"assets,omitempty"`
}
