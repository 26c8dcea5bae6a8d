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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/venicegeo/bf-planet-recipes/model"
	"github.com/venicegeo/bf-planet-recipes/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// searchPage is one page of quick-search results
type searchPage struct {
	results []model.SceneSearchResult
	next    string
}

func parseSearchResults(context *Context, body []byte) (*searchPage, error) {
	planetFeatureCollection, err := planetRawBytesToFeatureCollection(context, body)
	if err != nil {
		return nil, err
	}
	var plResults searchResults
	if err = json.Unmarshal(body, &plResults); err != nil {
		return nil, util.LogSimpleErr(context, "Failed to read links and permissions from search results.", err)
	}
	if len(plResults.Features) != len(planetFeatureCollection.Features) {
		return nil, fmt.Errorf("search results contain %d features but %d permission entries",
			len(planetFeatureCollection.Features), len(plResults.Features))
	}

	page := &searchPage{next: plResults.Links.Next}
	for i, feature := range planetFeatureCollection.Features {
		result, err := planetSearchResultFromFeature(feature)
		if err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to read scene %v.", feature.IDStr()), err)
		}
		result.Permissions = append([]string{}, plResults.Features[i].Permissions...)
		page.results = append(page.results, *result)
	}

	return page, nil
}

func planetRawBytesToFeatureCollection(context util.LogContext, body []byte) (*geojson.FeatureCollection, error) {
	var (
		planetFeatureCollection *geojson.FeatureCollection
		geoJSONParsedData       interface{}
		ok                      bool
		err                     error
	)
	if geoJSONParsedData, err = geojson.Parse(body); err != nil {
		err = util.LogSimpleErr(context, fmt.Sprintf("Failed to parse GeoJSON.\n%v", string(body)), err)
		return nil, err
	}

	if planetFeatureCollection, ok = geoJSONParsedData.(*geojson.FeatureCollection); !ok {
		plErr := util.Error{SimpleMsg: fmt.Sprintf("Expected a FeatureCollection and got %T", geoJSONParsedData), Response: string(body)}
		err = plErr.Log(context, "")
		return nil, err
	}

	return planetFeatureCollection, nil
}

func planetSearchResultFromFeature(feature *geojson.Feature) (*model.SceneSearchResult, error) {
	basic, err := basicSceneResultFromFeature(feature)
	if err != nil {
		return nil, err
	}
	return &model.SceneSearchResult{BasicSceneResult: *basic}, nil
}

func basicSceneResultFromFeature(feature *geojson.Feature) (*model.BasicSceneResult, error) {
	acquiredDate, err := model.ParsePlanetTime(feature.PropertyString("acquired"))
	if err != nil {
		return nil, err
	}
	cloudCover := -1.0
	if cc, ok := finiteProperty(feature, "cloud_cover"); ok && cc >= 0 {
		cloudCover = cc * 100
	}
	resolution, _ := finiteProperty(feature, "gsd")
	itemType := feature.PropertyString("item_type")

	return &model.BasicSceneResult{
		AcquiredDate: acquiredDate,
		CloudCover:   cloudCover,
		FileFormat:   model.FileFormatForItemType(itemType),
		Geometry:     feature.Geometry,
		ID:           feature.IDStr(),
		ItemType:     itemType,
		Resolution:   resolution,
		SensorName:   feature.PropertyString("satellite_id"),
	}, nil
}

// finiteProperty returns a numeric property that is present and finite
func finiteProperty(feature *geojson.Feature, name string) (float64, bool) {
	v, ok := feature.Properties[name].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// assetMetadataFromAsset constructs an AssetMetadata from a Planet asset.
// Inactive assets have no location or expiry yet, so only active assets
// require them.
func assetMetadataFromAsset(assetType string, asset Asset) (*model.AssetMetadata, error) {
	activationURL, err := url.Parse(asset.Links.Activate)
	if activationURL == nil || activationURL.String() == "" {
		err = errors.New("No asset activation URL parsed")
	}
	if err != nil {
		return nil, err
	}
	result := &model.AssetMetadata{
		AssetType:     assetType,
		ActivationURL: *activationURL,
		Permissions:   append([]string{}, asset.Permissions...),
		Status:        asset.Status,
		Type:          asset.Type,
	}
	if asset.Status != AssetActive {
		return result, nil
	}

	assetURL, err := url.Parse(asset.Location)
	if assetURL == nil || assetURL.String() == "" {
		err = errors.New("No asset location URL parsed")
	}
	if err != nil {
		return nil, err
	}
	result.AssetURL = *assetURL
	if asset.ExpiresAt != "" {
		var expiresAt time.Time
		if expiresAt, err = model.ParsePlanetTime(asset.ExpiresAt); err != nil {
			return nil, err
		}
		result.ExpiresAt = expiresAt
	}
	return result, nil
}
