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
	"context"
	"fmt"
	"net/url"

	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
)

const ordersPath = "compute/ops/orders/v2"

// Create validates and submits an order request
func Create(ctx context.Context, pc *planet.Context, request Request) (*Order, error) {
	if err := request.Validate(); err != nil {
		return nil, util.HTTPErr{Status: 400, Message: err.Error()}
	}
	var order Order
	if _, err := planet.Request(ctx, pc, planet.RequestInput{
		Method:      "POST",
		URL:         ordersPath,
		Body:        request,
		Description: "Failed to create order",
	}, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		plErr := util.Error{SimpleMsg: "Planet Labs accepted an order but returned no ID.", HTTPStatus: 502}
		return nil, plErr.Log(pc, "")
	}
	util.LogAudit(pc, util.LogAuditInput{Actor: "orders/Create", Action: "create", Actee: order.ID, Message: fmt.Sprintf("Created order %v (%v)", order.Name, order.State), Severity: util.INFO})
	return &order, nil
}

// Get returns the current state of an order
func Get(ctx context.Context, pc *planet.Context, id string) (*Order, error) {
	var order Order
	if _, err := planet.Request(ctx, pc, planet.RequestInput{
		Method:      "GET",
		URL:         ordersPath + "/" + url.PathEscape(id),
		Description: "Failed to get order " + id,
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders, newest first, optionally restricted to one state.
// A limit of 0 or less returns every order.
func List(ctx context.Context, pc *planet.Context, state string, limit int) ([]Order, error) {
	next := ordersPath
	if state != "" {
		next += "?" + url.Values{"state": {state}}.Encode()
	}
	result := []Order{}
	for next != "" {
		var page orderList
		if _, err := planet.Request(ctx, pc, planet.RequestInput{
			Method:      "GET",
			URL:         next,
			Description: "Failed to list orders",
		}, &page); err != nil {
			return nil, err
		}
		for _, order := range page.Orders {
			result = append(result, order)
			if limit > 0 && len(result) >= limit {
				return result, nil
			}
		}
		if len(page.Orders) == 0 {
			break
		}
		next = page.Links.Next
	}
	return result, nil
}

// Cancel asks Planet to stop a queued or running order
func Cancel(ctx context.Context, pc *planet.Context, id string) (*Order, error) {
	var order Order
	if _, err := planet.Request(ctx, pc, planet.RequestInput{
		Method:      "PUT",
		URL:         ordersPath + "/" + url.PathEscape(id),
		Description: "Failed to cancel order " + id,
	}, &order); err != nil {
		return nil, err
	}
	util.LogAudit(pc, util.LogAuditInput{Actor: "orders/Cancel", Action: "cancel", Actee: id, Message: "Cancelled order " + id, Severity: util.NOTICE})
	return &order, nil
}
