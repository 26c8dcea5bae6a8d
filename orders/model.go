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

// Package orders submits and tracks Planet Orders API requests, including
// the server-side tools that clip, composite and transform scenes.
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/venicegeo/bf-planet-recipes/model"
)

// Order states
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateSuccess   = "success"
	StatePartial   = "partial"
	StateFailed    = "failed"
	StateCancelled = "cancelled"
)

// IsTerminal reports whether an order in this state will not change again
func IsTerminal(state string) bool {
	switch state {
	case StateSuccess, StatePartial, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Sentinel errors for orders that end without results
var (
	ErrOrderFailed    = errors.New("order failed")
	ErrOrderCancelled = errors.New("order cancelled")
	ErrInvalidRequest = errors.New("invalid order request")
)

// Request is the body of an order submission
type Request struct {
	Name     string    `json:"name" yaml:"name"`
	Products []Product `json:"products" yaml:"products"`
	Tools    []Tool    `json:"tools,omitempty" yaml:"tools,omitempty"`
	Delivery *Delivery `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	// OrderType is "partial" (the default) or "full"
	OrderType string `json:"order_type,omitempty" yaml:"order_type,omitempty"`
}

// Product names the items and bundle to deliver
type Product struct {
	ItemIDs       []string `json:"item_ids" yaml:"item_ids"`
	ItemType      string   `json:"item_type" yaml:"item_type"`
	ProductBundle string   `json:"product_bundle" yaml:"product_bundle"`
}

// Delivery controls how results are packaged
type Delivery struct {
	ArchiveType     string `json:"archive_type,omitempty" yaml:"archive_type,omitempty"`
	SingleArchive   bool   `json:"single_archive,omitempty" yaml:"single_archive,omitempty"`
	ArchiveFilename string `json:"archive_filename,omitempty" yaml:"archive_filename,omitempty"`
}

// ZipDelivery packages every result of an order in one zip archive
func ZipDelivery(filename string) *Delivery {
	return &Delivery{ArchiveType: "zip", SingleArchive: true, ArchiveFilename: filename}
}

// Validate checks the request before it is sent
func (r Request) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: no name", ErrInvalidRequest)
	}
	if len(r.Products) == 0 {
		return fmt.Errorf("%w: no products", ErrInvalidRequest)
	}
	for i, product := range r.Products {
		if len(product.ItemIDs) == 0 || product.ItemType == "" || product.ProductBundle == "" {
			return fmt.Errorf("%w: product %d needs item_ids, item_type and product_bundle", ErrInvalidRequest, i)
		}
	}
	for i, tool := range r.Tools {
		if _, err := tool.Name(); err != nil {
			return fmt.Errorf("%w: tool %d: %v", ErrInvalidRequest, i, err)
		}
	}
	return nil
}

// Order is the state of a submitted order
type Order struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	State        string    `json:"state"`
	CreatedOn    string    `json:"created_on,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	LastMessage  string    `json:"last_message,omitempty"`
	ErrorHints   []string  `json:"error_hints,omitempty"`
	Products     []Product `json:"products,omitempty"`
	Tools        []Tool    `json:"tools,omitempty"`
	Links        Links     `json:"_links"`
}

// Links holds the order's self link and, once it has run, its results
type Links struct {
	Self    string   `json:"_self"`
	Results []Result `json:"results,omitempty"`
}

// Result is one downloadable file of an order
type Result struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	ExpiresAt string `json:"expires_at,omitempty"`
	// Delivery is "success" or "failed"
	Delivery string `json:"delivery,omitempty"`
}

// Expired reports whether the result link has expired at the given time
func (r Result) Expired(now time.Time) bool {
	if r.ExpiresAt == "" {
		return false
	}
	expiresAt, err := model.ParsePlanetTime(r.ExpiresAt)
	return err == nil && !expiresAt.After(now)
}

// Downloadable reports whether the result can be fetched at the given time
func (r Result) Downloadable(now time.Time) bool {
	return r.Location != "" && (r.Delivery == "" || r.Delivery == "success") && !r.Expired(now)
}

type orderList struct {
	Links struct {
		Next string `json:"next"`
	} `json:"_links"`
	Orders []Order `json:"orders"`
}
