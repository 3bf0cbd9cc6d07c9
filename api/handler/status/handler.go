package status

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcore-labs/corecollection/api/cache"
	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/types"
)

type StatusHandler struct {
	*common.BaseHandler
}

var _ common.HandlerRegistrar = (*StatusHandler)(nil)

func NewStatusHandler(base *common.BaseHandler) *StatusHandler {
	return &StatusHandler{BaseHandler: base}
}

func (h *StatusHandler) Register(router fiber.Router) {
	status := router.Group("/status")

	status.Get("/", cache.WithExpiration(types.StatusCacheExpiration), h.GetStatus)
}
