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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/venicegeo/bf-planet-recipes/aoi"
	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/bf-planet-recipes/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// DefaultAssetType is the 4-band surface asset used when none is named
const DefaultAssetType = "ortho_analytic_4b"

// DefaultItemType is the item type searched when none is named
const DefaultItemType = "PSScene"

const searchPageSize = 250

// DownloadPermission returns the permission a key needs to download an asset type
func DownloadPermission(assetType string) string {
	if assetType == "" {
		assetType = DefaultAssetType
	}
	return "assets." + assetType + ":download"
}

// GetScenes runs a quick search and returns the matching scenes, following
// result pages until they are exhausted or options.Limit is reached
func GetScenes(ctx context.Context, options SearchOptions, pc *Context) ([]model.SceneSearchResult, error) {
	itemTypes := options.ItemTypes
	if len(itemTypes) == 0 {
		itemTypes = []string{DefaultItemType}
	}
	req := request{ItemTypes: itemTypes, Filter: searchFilter(options)}
	input := RequestInput{
		Method:      "POST",
		URL:         fmt.Sprintf("data/v1/quick-search?_page_size=%d", searchPageSize),
		Body:        req,
		Description: "Failed to discover scenes from Planet API",
	}

	results := []model.SceneSearchResult{}
	for page := 1; ; page++ {
		body, err := Request(ctx, pc, input, nil)
		if err != nil {
			return nil, err
		}
		parsed, err := parseSearchResults(pc, body)
		if err != nil {
			return nil, err
		}
		for _, result := range parsed.results {
			keep, err := keepScene(&result, options)
			if err != nil {
				return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to compute AOI coverage for scene %v.", result.ID), err)
			}
			if !keep {
				continue
			}
			results = append(results, result)
			if options.Limit > 0 && len(results) >= options.Limit {
				return results, nil
			}
		}
		util.LogAudit(pc, util.LogAuditInput{Actor: "planet/GetScenes", Action: "page", Actee: input.URL,
			Message: fmt.Sprintf("Read page %d of search results, %d scenes kept so far", page, len(results)), Severity: util.DEBUG})
		if parsed.next == "" || len(parsed.results) == 0 {
			return results, nil
		}
		input = RequestInput{Method: "GET", URL: parsed.next, Description: input.Description}
	}
}

// keepScene drops scenes the key may not download and scenes covering
// too little of the AOI, recording the coverage on those it keeps
func keepScene(result *model.SceneSearchResult, options SearchOptions) (bool, error) {
	if !disablePermissionsCheck && !result.HasPermission(DownloadPermission(options.AssetType)) {
		return false, nil
	}
	if options.AOI == nil {
		return true, nil
	}
	fraction, err := aoi.Coverage(options.AOI, result.Geometry)
	if err != nil {
		return false, err
	}
	result.CoverageData = &model.CoverageData{Fraction: fraction}
	return fraction >= options.MinCoverage, nil
}

// GetMetadata returns the metadata for a single scene
func GetMetadata(ctx context.Context, options MetadataOptions, pc *Context) (*model.BasicSceneResult, error) {
	inputURL := "data/v1/item-types/" + options.ItemType + "/items/" + options.ID
	body, err := Request(ctx, pc, RequestInput{Method: "GET", URL: inputURL,
		Description: fmt.Sprintf("Failed to find metadata for scene %v", options.ID)}, nil)
	if err != nil {
		return nil, err
	}
	parsed, err := geojson.Parse(body)
	if err != nil {
		return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to parse GeoJSON.\n%v", string(body)), err)
	}
	geoFeature, ok := parsed.(*geojson.Feature)
	if !ok {
		plErr := util.Error{SimpleMsg: fmt.Sprintf("Expected a Feature and got %T", parsed), Response: string(body),
			URL: inputURL, HTTPStatus: http.StatusOK}
		return nil, plErr.Log(pc, "")
	}
	result, err := basicSceneResultFromFeature(geoFeature)
	if err != nil {
		return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to read metadata for scene %v.", options.ID), err)
	}
	var plFeature feature
	if err = json.Unmarshal(body, &plFeature); err != nil {
		return nil, util.LogSimpleErr(pc, fmt.Sprintf("Failed to read permissions of scene %v.", options.ID), err)
	}
	result.Permissions = plFeature.Permissions
	return result, nil
}

// GetAssets returns every asset of a scene, keyed by asset type
func GetAssets(ctx context.Context, options MetadataOptions, pc *Context) (Assets, error) {
	var assets Assets
	// Note: trailing `/` is needed here to avoid a redirect
	inputURL := "data/v1/item-types/" + options.ItemType + "/items/" + options.ID + "/assets/"
	if _, err := Request(ctx, pc, RequestInput{Method: "GET", URL: inputURL,
		Description: fmt.Sprintf("Failed to get asset information for scene %v", options.ID)}, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetAsset returns one asset of a scene, DefaultAssetType unless options name another
func GetAsset(ctx context.Context, options MetadataOptions, pc *Context) (Asset, error) {
	assets, err := GetAssets(ctx, options, pc)
	if err != nil {
		return Asset{}, err
	}
	assetType := assetTypeOf(options)
	asset, ok := assets[assetType]
	if !ok || asset.Links.Activate == "" {
		message := fmt.Sprintf("Scene %v has no %v asset available to this key.", options.ID, assetType)
		util.LogAlert(pc, message)
		return Asset{}, util.HTTPErr{Status: http.StatusNotFound, Message: message}
	}
	return asset, nil
}

func assetTypeOf(options MetadataOptions) string {
	if options.AssetType == "" {
		return DefaultAssetType
	}
	return options.AssetType
}

// GetActivatableScene returns the scene metadata together with the state of
// its asset
func GetActivatableScene(ctx context.Context, options MetadataOptions, pc *Context) (*model.ActivatableSceneResult, error) {
	basic, err := GetMetadata(ctx, options, pc)
	if err != nil {
		return nil, err
	}
	asset, err := GetAsset(ctx, options, pc)
	if err != nil {
		return nil, err
	}
	metadata, err := assetMetadataFromAsset(assetTypeOf(options), asset)
	if err != nil {
		plErr := util.Error{LogMsg: "Invalid asset from Planet API: " + err.Error(),
			SimpleMsg:  "Planet Labs returned invalid metadata for this scene's assets.",
			HTTPStatus: http.StatusOK}
		return nil, plErr.Log(pc, "")
	}
	return &model.ActivatableSceneResult{BasicSceneResult: *basic, AssetMetadata: *metadata}, nil
}

// Activate requests activation of a scene's asset. Assets that are already
// active or activating are left alone.
func Activate(ctx context.Context, options MetadataOptions, pc *Context) (Asset, error) {
	asset, err := GetAsset(ctx, options, pc)
	if err != nil {
		return asset, err
	}
	if asset.Status == AssetActive || asset.Status == AssetActivating {
		util.LogInfo(pc, fmt.Sprintf("Asset %v of scene %v is already %v.", assetTypeOf(options), options.ID, asset.Status))
		return asset, nil
	}
	if _, err = Request(ctx, pc, RequestInput{Method: "POST", URL: asset.Links.Activate,
		Description: fmt.Sprintf("Failed to activate scene %v", options.ID)}, nil); err != nil {
		return asset, err
	}
	util.LogAudit(pc, util.LogAuditInput{Actor: "planet/Activate", Action: "activate", Actee: options.ID,
		Message: fmt.Sprintf("Requested activation of %v", assetTypeOf(options)), Severity: util.INFO})
	asset.Status = AssetActivating
	return asset, nil
}

// WaitForAsset polls a scene's asset until it is active. Activation must have
// been requested already.
func WaitForAsset(ctx context.Context, options MetadataOptions, pc *Context) (Asset, error) {
	ticker := time.NewTicker(pc.PollingInterval())
	defer ticker.Stop()
	for {
		util.ObservePoll("asset")
		asset, err := GetAsset(ctx, options, pc)
		if err != nil {
			return asset, err
		}
		if asset.Status == AssetActive {
			return asset, nil
		}
		util.LogInfo(pc, fmt.Sprintf("Waiting for %v of scene %v (%v).", assetTypeOf(options), options.ID, asset.Status))
		select {
		case <-ctx.Done():
			return asset, ctx.Err()
		case <-ticker.C:
		}
	}
}

// DownloadAsset activates a scene's asset, waits for it and downloads it into
// dir. It returns the path of the downloaded file.
func DownloadAsset(ctx context.Context, options MetadataOptions, dir string, pc *Context) (string, error) {
	if _, err := Activate(ctx, options, pc); err != nil {
		return "", err
	}
	asset, err := WaitForAsset(ctx, options, pc)
	if err != nil {
		return "", err
	}
	if asset.Location == "" {
		plErr := util.Error{SimpleMsg: fmt.Sprintf("Active asset of scene %v has no location.", options.ID), HTTPStatus: http.StatusOK}
		return "", plErr.Log(pc, "")
	}
	return Download(ctx, pc, DownloadInput{
		URL:  asset.Location,
		Dir:  dir,
		Kind: "asset",
		Ref:  options.ID + "/" + assetTypeOf(options),
	})
}
