package core

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/types"
)

// GetAssetsByCollection handles GET /core/v1/assets/by_collection/{collection_addr}
// @Summary Get assets by collection
// @Description Get indexed Core assets minted into a collection
// @Tags Core
// @Accept json
// @Produce json
// @Param collection_addr path string true "Collection address"
// @Param pagination.key query string false "Pagination key"
// @Param pagination.offset query int false "Pagination offset"
// @Param pagination.limit query int false "Pagination limit" default(100)
// @Param pagination.reverse query bool false "Reverse order default(true) if set to true, the results will be ordered in descending order"
// @Success 200 {object} AssetsResponse
// @Failure 400 {object} map[string]string
// @Router /indexer/core/v1/assets/by_collection/{collection_addr} [get]
func (h *CoreHandler) GetAssetsByCollection(c *fiber.Ctx) error {
	collectionAddr, err := common.GetCollectionAddrParam(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	pagination, err := common.ParsePagination(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return h.listAssets(c, pagination, func(db *gorm.DB) *gorm.DB {
		return db.Where("collection_addr = ?", collectionAddr)
	})
}

// GetAssetsByOwner handles GET /core/v1/assets/by_owner/{account}
// @Summary Get assets by owner
// @Description Get indexed Core assets currently owned by an account
// @Tags Core
// @Accept json
// @Produce json
// @Param account path string true "Owner address"
// @Param pagination.key query string false "Pagination key"
// @Param pagination.offset query int false "Pagination offset"
// @Param pagination.limit query int false "Pagination limit" default(100)
// @Param pagination.reverse query bool false "Reverse order default(true) if set to true, the results will be ordered in descending order"
// @Success 200 {object} AssetsResponse
// @Failure 400 {object} map[string]string
// @Router /indexer/core/v1/assets/by_owner/{account} [get]
func (h *CoreHandler) GetAssetsByOwner(c *fiber.Ctx) error {
	account, err := common.GetAccountParam(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	pagination, err := common.ParsePagination(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return h.listAssets(c, pagination, func(db *gorm.DB) *gorm.DB {
		return db.Where("owner = ?", account)
	})
}

// GetAsset handles GET /core/v1/assets/{asset_addr}
// @Summary Get asset by address
// @Description Get an indexed Core asset by its account address
// @Tags Core
// @Accept json
// @Produce json
// @Param asset_addr path string true "Asset address"
// @Success 200 {object} AssetResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /indexer/core/v1/assets/{asset_addr} [get]
func (h *CoreHandler) GetAsset(c *fiber.Ctx) error {
	addr, err := common.GetAssetAddrParam(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.QueryContext(c)
	defer cancel()
	db := h.GetDatabase().WithContext(ctx)
	var asset types.CollectedAsset
	if err := db.Where("addr = ?", addr).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, common.ErrNotFound)
		}
		return h.InternalError(ErrFailedToFetchAsset, err)
	}

	name, err := h.getCollectionName(db, asset.CollectionAddr)
	if err != nil {
		return h.InternalError(ErrFailedToFetchCollection, err)
	}

	return c.JSON(AssetResponse{Asset: ToResponseAsset(name, &asset)})
}

func (h *CoreHandler) listAssets(c *fiber.Ctx, pagination *common.Pagination, filter func(*gorm.DB) *gorm.DB) error {
	ctx, cancel := h.QueryContext(c)
	defer cancel()
	db := h.GetDatabase().WithContext(ctx)

	var total int64
	if err := filter(db.Model(&types.CollectedAsset{})).Count(&total).Error; err != nil {
		return h.InternalError(ErrFailedToCountAssets, err)
	}

	var assets []types.CollectedAsset
	query := pagination.ApplyBySlot(filter(db.Model(&types.CollectedAsset{})))
	if err := query.Find(&assets).Error; err != nil {
		return h.InternalError(ErrFailedToFetchAssets, err)
	}

	resp := AssetsResponse{Assets: make([]Asset, 0, len(assets))}
	for i := range assets {
		name, err := h.getCollectionName(db, assets[i].CollectionAddr)
		if err != nil {
			return h.InternalError(ErrFailedToFetchCollection, err)
		}
		resp.Assets = append(resp.Assets, ToResponseAsset(name, &assets[i]))
	}

	var last *common.SlotCursor
	if n := len(assets); n > 0 {
		last = &common.SlotCursor{Slot: assets[n-1].Slot, Addr: assets[n-1].Addr}
	}
	resp.Pagination = pagination.ToResponseWithLast(total, len(assets), last)

	return c.JSON(resp)
}

// getCollectionName resolves the name of an indexed collection. Assets whose
// collection is not indexed get an empty name.
func (h *CoreHandler) getCollectionName(db *gorm.DB, collectionAddr string) (string, error) {
	if collectionAddr == "" {
		return "", nil
	}
	if name, ok := h.collectionNames.Get(collectionAddr); ok {
		return name, nil
	}

	var collection types.CollectedCollection
	if err := db.Select("name").Where("addr = ?", collectionAddr).First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	h.collectionNames.Set(collectionAddr, collection.Name)
	return collection.Name, nil
}
