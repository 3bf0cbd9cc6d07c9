package asset

import "github.com/solcore-labs/corecollection/types"

type CacheData struct {
	Assets    []types.CollectedAsset
	Counters  []CollectionCounter
	Transfers []Transfer
}

// CollectionCounter is the collection's mint counters after an asset was created.
type CollectionCounter struct {
	Addr        string
	NumMinted   int64
	CurrentSize int64
}

type Transfer struct {
	Asset      string
	Collection string
	NewOwner   string
}
