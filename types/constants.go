package types

import "time"

// Indexer constants
const (
	// Cluster readiness check
	ClusterCheckInterval = 5 * time.Second

	// Scraper constants
	SignaturePageSize         = 100
	MaxScrapeErrCount         = 5
	ScrapeSpeedUpdateInterval = 10 * time.Second

	// Collector constants
	MaxInflightTxs       = 256
	CollectCheckInterval = 100 * time.Millisecond
)

// API constants
const (
	ResponseCacheExpiration = time.Second
	StatusCacheExpiration   = 250 * time.Millisecond
)
