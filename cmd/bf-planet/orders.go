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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/venicegeo/bf-planet-recipes/orders"
	"github.com/venicegeo/bf-planet-recipes/util"
	cli "gopkg.in/urfave/cli.v1"
)

func printOrder(c *cli.Context, order *orders.Order) {
	line := fmt.Sprintf("%v\t%v\t%v", order.ID, order.State, order.Name)
	if order.LastMessage != "" {
		line += "\t" + order.LastMessage
	}
	fmt.Fprintln(c.App.Writer, line)
}

func ordersCreateAction(c *cli.Context) error {
	if c.String("file") == "" {
		return usageErr(c, "--file is required")
	}
	request, err := orders.LoadRequest(c.String("file"))
	if err != nil {
		return exitErr(err)
	}
	pc, done := newPlanetContext()
	defer done()

	order, err := orders.Create(context.Background(), pc, *request)
	if err == nil && c.Bool("wait") {
		order, err = orders.Wait(context.Background(), pc, order.ID)
	}
	if err != nil {
		return exitErr(err)
	}
	printOrder(c, order)
	return nil
}

func ordersStatusAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one order ID is required")
	}
	pc, done := newPlanetContext()
	defer done()

	order, err := orders.Get(context.Background(), pc, c.Args().First())
	if err != nil {
		return exitErr(err)
	}
	bytes, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return exitErr(err)
	}
	return writeOutput(c, "", bytes)
}

func ordersWaitAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return usageErr(c, "At least one order ID is required")
	}
	pc, done := newPlanetContext()
	defer done()

	completed, err := orders.WaitAll(context.Background(), pc, c.Args())
	for _, order := range completed {
		if order != nil {
			printOrder(c, order)
		}
	}
	if err != nil {
		return exitErr(err)
	}
	return nil
}

func ordersDownloadAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one order ID is required")
	}
	pc, done := newPlanetContext()
	defer done()

	order, err := orders.Get(context.Background(), pc, c.Args().First())
	if err != nil {
		return exitErr(err)
	}
	if order.State != orders.StateSuccess && order.State != orders.StatePartial {
		return exitErr(fmt.Errorf("order %v is %v and has no results yet", order.ID, order.State))
	}
	paths, err := orders.DownloadResults(context.Background(), pc, order, c.String("dir"), util.GetDownloadParallelism())
	if err != nil {
		return exitErr(err)
	}
	if c.Bool("unzip") {
		if paths, err = orders.UnzipAll(paths, c.String("dir")); err != nil {
			return exitErr(err)
		}
	}
	for _, path := range paths {
		fmt.Fprintln(c.App.Writer, path)
	}
	return nil
}

func ordersListAction(c *cli.Context) error {
	pc, done := newPlanetContext()
	defer done()

	list, err := orders.List(context.Background(), pc, c.String("state"), c.Int("limit"))
	if err != nil {
		return exitErr(err)
	}
	for i := range list {
		printOrder(c, &list[i])
	}
	return nil
}

func ordersCancelAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErr(c, "Exactly one order ID is required")
	}
	pc, done := newPlanetContext()
	defer done()

	order, err := orders.Cancel(context.Background(), pc, c.Args().First())
	if err != nil {
		return exitErr(err)
	}
	printOrder(c, order)
	return nil
}

func ordersCompositeAction(c *cli.Context) error {
	if c.String("in") == "" && c.NArg() == 0 {
		return usageErr(c, "Scene IDs or --in are required")
	}
	groups, ungrouped, err := dateGroups(c)
	if err != nil {
		return exitErr(err)
	}
	if len(ungrouped) > 0 {
		util.LogAlert(&util.BasicLogContext{}, "Scenes without an acquisition date are left out: "+strings.Join(ungrouped, ", "))
	}
	var clip interface{}
	if c.String("aoi") != "" {
		if clip, err = loadAOI(c.String("aoi")); err != nil {
			return exitErr(err)
		}
	}
	extra := []orders.Tool{}
	if c.Bool("ndvi") {
		extra = append(extra, orders.NDVIBandMath())
	}
	requests := orders.CompositeByDate(groups, c.String("item-type"), c.String("bundle"), clip, extra...)

	if !c.Bool("submit") {
		bytes, err := json.MarshalIndent(requests, "", "  ")
		if err != nil {
			return exitErr(err)
		}
		return writeOutput(c, "", bytes)
	}
	pc, done := newPlanetContext()
	defer done()
	for _, request := range requests {
		order, err := orders.Create(context.Background(), pc, request)
		if err != nil {
			return exitErr(err)
		}
		printOrder(c, order)
	}
	return nil
}
