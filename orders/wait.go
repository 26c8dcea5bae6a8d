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
	"time"

	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
	"golang.org/x/sync/errgroup"
)

// Wait polls an order until it reaches a terminal state. Failed and
// cancelled orders return ErrOrderFailed or ErrOrderCancelled along with the
// final order.
func Wait(ctx context.Context, pc *planet.Context, id string) (*Order, error) {
	ticker := time.NewTicker(pc.PollingInterval())
	defer ticker.Stop()
	lastState := ""
	for {
		util.ObservePoll("order")
		order, err := Get(ctx, pc, id)
		if err != nil {
			return nil, err
		}
		if order.State != lastState {
			util.LogInfo(pc, fmt.Sprintf("Order %v is %v.", id, order.State))
			lastState = order.State
		}
		switch order.State {
		case StateSuccess:
			return order, nil
		case StatePartial:
			util.LogAlert(pc, fmt.Sprintf("Order %v only partially succeeded: %v", id, order.LastMessage))
			return order, nil
		case StateFailed:
			return order, util.LogSimpleErr(pc, fmt.Sprintf("Order %v failed.", id), fmt.Errorf("%w: %v %v", ErrOrderFailed, order.LastMessage, order.ErrorHints))
		case StateCancelled:
			return order, util.LogSimpleErr(pc, fmt.Sprintf("Order %v was cancelled.", id), ErrOrderCancelled)
		}
		select {
		case <-ctx.Done():
			return order, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitAll waits for several orders at once. The first failure cancels the
// remaining waits.
func WaitAll(ctx context.Context, pc *planet.Context, ids []string) ([]*Order, error) {
	result := make([]*Order, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			order, err := Wait(groupCtx, pc, id)
			result[i] = order
			return err
		})
	}
	return result, group.Wait()
}
