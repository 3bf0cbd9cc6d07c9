package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/solcore-labs/corecollection/api/handler/common"
	"github.com/solcore-labs/corecollection/api/handler/core"
	"github.com/solcore-labs/corecollection/api/handler/status"
	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/orm"
)

func Register(router fiber.Router, db *orm.Database, cfg *config.Config, logger *slog.Logger) {
	base := common.NewBaseHandler(db, cfg, logger)
	handlers := []common.HandlerRegistrar{
		status.NewStatusHandler(base),
		core.NewCoreHandler(base),
	}

	for _, handler := range handlers {
		handler.Register(router)
	}
}
