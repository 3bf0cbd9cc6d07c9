package core

import (
	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/types"
)

const (
	ErrFailedToFetchCollection  = "Failed to Fetch Collection"
	ErrFailedToFetchCollections = "Failed to Fetch Collections"
	ErrFailedToCountCollections = "Failed to Count Collections"
	ErrFailedToFetchAsset       = "Failed to Fetch Asset"
	ErrFailedToFetchAssets      = "Failed to Fetch Assets"
	ErrFailedToCountAssets      = "Failed to Count Assets"
)

// Response
// Collections
type Collection struct {
	Address         string   `json:"address" extensions:"x-order:0"`
	Name            string   `json:"name" extensions:"x-order:1"`
	Uri             string   `json:"uri" extensions:"x-order:2"`
	UpdateAuthority string   `json:"update_authority" extensions:"x-order:3"`
	Payer           string   `json:"payer" extensions:"x-order:4"`
	NumMinted       int64    `json:"num_minted" extensions:"x-order:5"`
	CurrentSize     int64    `json:"current_size" extensions:"x-order:6"`
	ExternalPlugins []string `json:"external_plugins" extensions:"x-order:7"`
	Slot            int64    `json:"slot" extensions:"x-order:8"`
	Signature       string   `json:"signature" extensions:"x-order:9"`
}

type CollectionsResponse struct {
	Collections []Collection              `json:"collections" extensions:"x-order:0"`
	Pagination  common.PaginationResponse `json:"pagination" extensions:"x-order:1"`
}

type CollectionResponse struct {
	Collection Collection `json:"collection"`
}

// Assets
type Asset struct {
	Address         string `json:"address" extensions:"x-order:0"`
	CollectionAddr  string `json:"collection_addr" extensions:"x-order:1"`
	CollectionName  string `json:"collection_name" extensions:"x-order:2"`
	Name            string `json:"name" extensions:"x-order:3"`
	Uri             string `json:"uri" extensions:"x-order:4"`
	Owner           string `json:"owner" extensions:"x-order:5"`
	Authority       string `json:"authority" extensions:"x-order:6"`
	UpdateAuthority string `json:"update_authority" extensions:"x-order:7"`
	Slot            int64  `json:"slot" extensions:"x-order:8"`
	Signature       string `json:"signature" extensions:"x-order:9"`
}

type AssetsResponse struct {
	Assets     []Asset                   `json:"assets" extensions:"x-order:0"`
	Pagination common.PaginationResponse `json:"pagination" extensions:"x-order:1"`
}

type AssetResponse struct {
	Asset Asset `json:"asset"`
}

func ToResponseCollection(col *types.CollectedCollection) Collection {
	plugins := []string(col.ExternalPlugins)
	if plugins == nil {
		plugins = []string{}
	}
	return Collection{
		Address:         col.Addr,
		Name:            col.Name,
		Uri:             col.Uri,
		UpdateAuthority: col.UpdateAuthority,
		Payer:           col.Payer,
		NumMinted:       col.NumMinted,
		CurrentSize:     col.CurrentSize,
		ExternalPlugins: plugins,
		Slot:            col.Slot,
		Signature:       col.Signature,
	}
}

func BatchToResponseCollections(cols []types.CollectedCollection) []Collection {
	collections := make([]Collection, 0, len(cols))
	for i := range cols {
		collections = append(collections, ToResponseCollection(&cols[i]))
	}
	return collections
}

func ToResponseAsset(collectionName string, asset *types.CollectedAsset) Asset {
	return Asset{
		Address:         asset.Addr,
		CollectionAddr:  asset.CollectionAddr,
		CollectionName:  collectionName,
		Name:            asset.Name,
		Uri:             asset.Uri,
		Owner:           asset.Owner,
		Authority:       asset.Authority,
		UpdateAuthority: asset.UpdateAuthority,
		Slot:            asset.Slot,
		Signature:       asset.Signature,
	}
}
