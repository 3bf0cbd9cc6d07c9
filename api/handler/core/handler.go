package core

import (
	"github.com/gofiber/fiber/v2"

	apicache "github.com/solcore-labs/corecollection/api/cache"
	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/cache"
	"github.com/solcore-labs/corecollection/types"
)

type CoreHandler struct {
	*common.BaseHandler
	// collection names never change once created
	collectionNames *cache.TTLCache[string, string]
}

var _ common.HandlerRegistrar = (*CoreHandler)(nil)

func NewCoreHandler(base *common.BaseHandler) *CoreHandler {
	cfg := base.GetConfig()
	return &CoreHandler{
		BaseHandler:     base,
		collectionNames: cache.NewTTL[string, string](cfg.GetCacheSize(), cfg.GetCacheTTL()),
	}
}

func (h *CoreHandler) Register(router fiber.Router) {
	core := router.Group("/core/v1")
	responseCache := apicache.WithExpiration(types.ResponseCacheExpiration)

	// Collections routes
	collections := core.Group("/collections")
	collections.Get("/", responseCache, h.GetCollections)
	collections.Get("/by_name/:name", responseCache, h.GetCollectionsByName)
	collections.Get("/:collection_addr", responseCache, h.GetCollection)

	// Assets routes
	assets := core.Group("/assets")
	assets.Get("/by_collection/:collection_addr", responseCache, h.GetAssetsByCollection)
	assets.Get("/by_owner/:account", responseCache, h.GetAssetsByOwner)
	assets.Get("/:asset_addr", responseCache, h.GetAsset)
}
