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
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

var version = "dev"

var itemTypeFlag = cli.StringFlag{Name: "item-type", Value: "PSScene", Usage: "Planet item type"}
var assetTypeFlag = cli.StringFlag{Name: "asset-type", Value: "ortho_analytic_4b", Usage: "Planet asset type"}
var dirFlag = cli.StringFlag{Name: "dir", Value: ".", Usage: "Directory to download into"}

var commands = cli.Commands{
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the bf-planet webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the CLI",
		Action:  versionAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update the download catalog schema",
		Action:  migrateDatabaseAction,
	},
	cli.Command{
		Name:  "search",
		Usage: "Search Planet scenes and print them as GeoJSON",
		Flags: []cli.Flag{
			cli.StringSliceFlag{Name: "item-type", Usage: "Planet item type (repeatable, default PSScene)"},
			cli.StringFlag{Name: "bbox", Usage: "Area of interest as minx,miny,maxx,maxy"},
			cli.StringFlag{Name: "aoi", Usage: "GeoJSON file whose geometry, or bounding polygon, is the area of interest"},
			cli.StringFlag{Name: "start", Usage: "Earliest acquisition, YYYY-MM-DD or RFC 3339"},
			cli.StringFlag{Name: "end", Usage: "Latest acquisition, YYYY-MM-DD or RFC 3339"},
			cli.Float64Flag{Name: "cloud-cover", Usage: "Maximum cloud cover in percent"},
			cli.StringFlag{Name: "asset-type", Usage: "Only scenes offering this asset"},
			cli.Float64Flag{Name: "min-coverage", Usage: "Minimum share (0-1) of the AOI a scene must cover"},
			cli.IntFlag{Name: "limit", Usage: "Maximum number of scenes"},
			cli.StringFlag{Name: "out", Usage: "GeoJSON file to write instead of standard output"},
		},
		Action: searchAction,
	},
	cli.Command{
		Name:      "group",
		Usage:     "Group scene IDs, or a search result file, by acquisition date",
		ArgsUsage: "[scene IDs...]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "in", Usage: "GeoJSON search result to group by its acquired dates"},
		},
		Action: groupAction,
	},
	cli.Command{
		Name:      "activate",
		Usage:     "Activate a scene asset",
		ArgsUsage: "<scene ID>",
		Flags: []cli.Flag{
			itemTypeFlag, assetTypeFlag,
			cli.BoolFlag{Name: "wait", Usage: "Wait until the asset is active"},
		},
		Action: activateAction,
	},
	cli.Command{
		Name:      "download",
		Usage:     "Activate and download scene assets",
		ArgsUsage: "<scene ID>...",
		Flags:     []cli.Flag{itemTypeFlag, assetTypeFlag, dirFlag},
		Action:    downloadAction,
	},
	cli.Command{
		Name:  "orders",
		Usage: "Create and track Planet orders",
		Subcommands: cli.Commands{
			cli.Command{
				Name:  "create",
				Usage: "Submit an order described by a YAML or JSON file",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "file", Usage: "Order request file"},
					cli.BoolFlag{Name: "wait", Usage: "Wait until the order completes"},
				},
				Action: ordersCreateAction,
			},
			cli.Command{
				Name:      "status",
				Usage:     "Print an order",
				ArgsUsage: "<order ID>",
				Action:    ordersStatusAction,
			},
			cli.Command{
				Name:      "wait",
				Usage:     "Wait for orders to complete",
				ArgsUsage: "<order ID>...",
				Action:    ordersWaitAction,
			},
			cli.Command{
				Name:      "download",
				Usage:     "Download the results of a completed order",
				ArgsUsage: "<order ID>",
				Flags: []cli.Flag{
					dirFlag,
					cli.BoolFlag{Name: "unzip", Usage: "Extract downloaded zip archives"},
				},
				Action: ordersDownloadAction,
			},
			cli.Command{
				Name:  "list",
				Usage: "List orders",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "state", Usage: "Only orders in this state"},
					cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum number of orders"},
				},
				Action: ordersListAction,
			},
			cli.Command{
				Name:      "cancel",
				Usage:     "Cancel a queued or running order",
				ArgsUsage: "<order ID>",
				Action:    ordersCancelAction,
			},
			cli.Command{
				Name:      "composite",
				Usage:     "Build one composite order per acquisition date",
				ArgsUsage: "[scene IDs...]",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "in", Usage: "GeoJSON search result supplying the scenes"},
					itemTypeFlag,
					cli.StringFlag{Name: "bundle", Value: "analytic_sr_udm2", Usage: "Product bundle"},
					cli.StringFlag{Name: "aoi", Usage: "GeoJSON file to clip to"},
					cli.BoolFlag{Name: "ndvi", Usage: "Add an NDVI band math step"},
					cli.BoolFlag{Name: "submit", Usage: "Submit the orders instead of printing them"},
				},
				Action: ordersCompositeAction,
			},
		},
	},
	cli.Command{
		Name:  "basemaps",
		Usage: "Find mosaics and download their quads",
		Subcommands: cli.Commands{
			cli.Command{
				Name:  "mosaics",
				Usage: "List mosaics",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "name-contains", Usage: "Only mosaics whose name contains this text"},
				},
				Action: basemapsMosaicsAction,
			},
			cli.Command{
				Name:      "quads",
				Usage:     "List, and optionally download, the quads of a mosaic in a bbox",
				ArgsUsage: "<mosaic name>",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "bbox", Usage: "Area as minx,miny,maxx,maxy"},
					cli.IntFlag{Name: "limit", Usage: "Maximum number of quads"},
					cli.StringFlag{Name: "download", Usage: "Directory to download the quads into"},
				},
				Action: basemapsQuadsAction,
			},
		},
	},
	cli.Command{
		Name:  "groundtruth",
		Usage: "Prepare ground truth shapefiles",
		Subcommands: cli.Commands{
			cli.Command{
				Name:      "filter",
				Usage:     "Keep the features whose attribute has one of the given values",
				ArgsUsage: "<shapefile>",
				Flags:     groundTruthFlags(cli.StringFlag{Name: "out", Usage: "Output .geojson or .shp file"}),
				Action:    groundTruthFilterAction,
			},
			cli.Command{
				Name:      "aoi",
				Usage:     "Write the bounding polygon of the selected features",
				ArgsUsage: "<shapefile>",
				Flags:     groundTruthFlags(cli.StringFlag{Name: "out", Usage: "Output GeoJSON file"}),
				Action:    groundTruthAOIAction,
			},
		},
	},
	cli.Command{
		Name:      "ndvi",
		Usage:     "Compute NDVI from a multi-band TIFF",
		ArgsUsage: "<tiff>",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "metadata", Usage: "Analytic XML with reflectance coefficients"},
			cli.IntFlag{Name: "red", Value: 3, Usage: "Red band number"},
			cli.IntFlag{Name: "nir", Value: 4, Usage: "Near infrared band number"},
			cli.StringFlag{Name: "out", Usage: "NDVI TIFF to write"},
		},
		Action: ndviAction,
	},
	cli.Command{
		Name:  "downloads",
		Usage: "List downloads recorded in the catalog",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "kind", Usage: "asset, order or quad"},
		},
		Action: downloadsAction,
	},
}

func groundTruthFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		cli.StringFlag{Name: "field", Usage: "Attribute to select on, e.g. the crop class"},
		cli.StringSliceFlag{Name: "value", Usage: "Accepted attribute value (repeatable)"},
		cli.StringFlag{Name: "projection", Value: "EPSG:4326", Usage: "Projection of the shapefile coordinates"},
		cli.StringFlag{Name: "within", Usage: "Only features intersecting minx,miny,maxx,maxy (in lon/lat)"},
	}, extra...)
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "bf-planet"
	app.Usage = "Search, order and download Planet imagery"
	app.Version = version
	app.Commands = commands
	return
}

func versionAction(c *cli.Context) {
	fmt.Fprintln(c.App.Writer, "bf-planet "+version)
}
