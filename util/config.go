// Copyright 2016, RadiantBlue Technologies, Inc.
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
	"os"
	"strconv"
	"time"
)

// Environment variables
const (
	PL_API_KEY                   = "PL_API_KEY"
	PL_API_URL                   = "PL_API_URL"
	PL_POLL_INTERVAL             = "PL_POLL_INTERVAL"
	PL_DOWNLOAD_PARALLELISM      = "PL_DOWNLOAD_PARALLELISM"
	PL_DISABLE_PERMISSIONS_CHECK = "PL_DISABLE_PERMISSIONS_CHECK"
	DATABASE_URL                 = "DATABASE_URL"
	PORT                         = "PORT"
	LOG_LEVEL                    = "LOG_LEVEL"
)

const (
	defaultPlanetAPIURL        = "https://api.planet.com/"
	defaultPollInterval        = 10 * time.Second
	minPollInterval            = time.Second
	defaultDownloadParallelism = 2
)

// GetPlanetAPIKey returns a string for the PL_API_KEY environment variable
func GetPlanetAPIKey() string {
	key, ok := os.LookupEnv(PL_API_KEY)
	if !ok || key == "" {
		LogAlert(&BasicLogContext{}, "Did not get a Planet API key from the environment. Requests will not be authorized.")
	}
	return key
}

// GetPlanetAPIURL returns a string for the PL_API_URL environment variable,
// falling back to the public Planet API
func GetPlanetAPIURL() string {
	planetBaseURL, ok := os.LookupEnv(PL_API_URL)
	if !ok || planetBaseURL == "" {
		return defaultPlanetAPIURL
	}
	return planetBaseURL
}

// GetPollInterval returns the delay between status polls of activations and orders
func GetPollInterval() time.Duration {
	interval, err := time.ParseDuration(os.Getenv(PL_POLL_INTERVAL))
	if err != nil {
		return defaultPollInterval
	}
	if interval < minPollInterval {
		LogAlert(&BasicLogContext{}, "Poll interval of "+interval.String()+" is too small. Using "+minPollInterval.String())
		return minPollInterval
	}
	return interval
}

// GetDownloadParallelism returns how many downloads may run at once
func GetDownloadParallelism() int {
	n, err := strconv.Atoi(os.Getenv(PL_DOWNLOAD_PARALLELISM))
	if err != nil || n < 1 {
		return defaultDownloadParallelism
	}
	return n
}

// IsPlanetPermissionsDisabled returns true if the
// PL_DISABLE_PERMISSIONS_CHECK is true
func IsPlanetPermissionsDisabled() (bool, error) {
	return strconv.ParseBool(os.Getenv(PL_DISABLE_PERMISSIONS_CHECK))
}

// GetDatabaseURL returns the catalog connection string, empty when the
// catalog is disabled
func GetDatabaseURL() string {
	return os.Getenv(DATABASE_URL)
}

// GetPortStr returns the listen address for the broker
func GetPortStr() string {
	if port, ok := os.LookupEnv(PORT); ok {
		return ":" + port
	}
	return ":8080"
}

// GetLogLevel returns the LOG_LEVEL environment variable, defaulting to info
func GetLogLevel() string {
	if level, ok := os.LookupEnv(LOG_LEVEL); ok {
		return level
	}
	return "info"
}
