package core

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/types"
)

// GetCollections handles GET /core/v1/collections
// @Summary Get collections
// @Description Get indexed Core collections ordered by creation slot
// @Tags Core
// @Accept json
// @Produce json
// @Param pagination.key query string false "Pagination key"
// @Param pagination.offset query int false "Pagination offset"
// @Param pagination.limit query int false "Pagination limit" default(100)
// @Param pagination.reverse query bool false "Reverse order default(true) if set to true, the results will be ordered in descending order"
// @Success 200 {object} CollectionsResponse
// @Router /indexer/core/v1/collections [get]
func (h *CoreHandler) GetCollections(c *fiber.Ctx) error {
	pagination, err := common.ParsePagination(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return h.listCollections(c, pagination, func(db *gorm.DB) *gorm.DB { return db })
}

// GetCollectionsByName handles GET /core/v1/collections/by_name/{name}
// @Summary Get collections by name
// @Description Get indexed Core collections with the exact name
// @Tags Core
// @Accept json
// @Produce json
// @Param name path string true "Collection name"
// @Param pagination.key query string false "Pagination key"
// @Param pagination.offset query int false "Pagination offset"
// @Param pagination.limit query int false "Pagination limit" default(100)
// @Param pagination.reverse query bool false "Reverse order default(true) if set to true, the results will be ordered in descending order"
// @Success 200 {object} CollectionsResponse
// @Router /indexer/core/v1/collections/by_name/{name} [get]
func (h *CoreHandler) GetCollectionsByName(c *fiber.Ctx) error {
	name, err := common.GetNameParam(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	pagination, err := common.ParsePagination(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return h.listCollections(c, pagination, func(db *gorm.DB) *gorm.DB {
		return db.Where("name = ?", name)
	})
}

// GetCollection handles GET /core/v1/collections/{collection_addr}
// @Summary Get collection by address
// @Description Get an indexed Core collection by its account address
// @Tags Core
// @Accept json
// @Produce json
// @Param collection_addr path string true "Collection address"
// @Success 200 {object} CollectionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /indexer/core/v1/collections/{collection_addr} [get]
func (h *CoreHandler) GetCollection(c *fiber.Ctx) error {
	addr, err := common.GetCollectionAddrParam(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.QueryContext(c)
	defer cancel()

	var collection types.CollectedCollection
	if err := h.GetDatabase().WithContext(ctx).
		Where("addr = ?", addr).
		First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, common.ErrNotFound)
		}
		return h.InternalError(ErrFailedToFetchCollection, err)
	}

	return c.JSON(CollectionResponse{Collection: ToResponseCollection(&collection)})
}

func (h *CoreHandler) listCollections(c *fiber.Ctx, pagination *common.Pagination, filter func(*gorm.DB) *gorm.DB) error {
	ctx, cancel := h.QueryContext(c)
	defer cancel()
	db := h.GetDatabase().WithContext(ctx)

	var total int64
	if err := filter(db.Model(&types.CollectedCollection{})).Count(&total).Error; err != nil {
		return h.InternalError(ErrFailedToCountCollections, err)
	}

	var collections []types.CollectedCollection
	query := pagination.ApplyBySlot(filter(db.Model(&types.CollectedCollection{})))
	if err := query.Find(&collections).Error; err != nil {
		return h.InternalError(ErrFailedToFetchCollections, err)
	}

	var last *common.SlotCursor
	if n := len(collections); n > 0 {
		last = &common.SlotCursor{Slot: collections[n-1].Slot, Addr: collections[n-1].Addr}
	}

	return c.JSON(CollectionsResponse{
		Collections: BatchToResponseCollections(collections),
		Pagination:  pagination.ToResponseWithLast(total, len(collections), last),
	})
}
