package common

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/sentry_integration"
)

const (
	ErrInvalidParams = "Invalid Params"
	ErrNotFound      = "Not Found"
)

type HandlerRegistrar interface {
	Register(router fiber.Router)
}

type BaseHandler struct {
	db     *orm.Database
	cfg    *config.Config
	logger *slog.Logger
}

func NewBaseHandler(db *orm.Database, cfg *config.Config, logger *slog.Logger) *BaseHandler {
	return &BaseHandler{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *BaseHandler) GetDatabase() *orm.Database { return h.db }
func (h *BaseHandler) GetConfig() *config.Config  { return h.cfg }
func (h *BaseHandler) GetLogger() *slog.Logger    { return h.logger }
func (h *BaseHandler) GetClusterConfig() *config.ClusterConfig {
	return h.cfg.GetClusterConfig()
}

func (h *BaseHandler) GetCluster() string {
	return h.cfg.GetCluster()
}

// QueryContext bounds the request's database work by QUERY_TIMEOUT.
func (h *BaseHandler) QueryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.cfg.GetQueryTimeout())
}

// InternalError logs err, counts it and returns a 500 carrying msg only.
func (h *BaseHandler) InternalError(msg string, err error) error {
	h.logger.Error(msg, slog.Any("error", err))
	h.TrackError("internal_error")
	sentry_integration.CaptureCurrentHubException(err, sentry.LevelError)
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// TrackError tracks errors in handlers
func (h *BaseHandler) TrackError(errorType string) {
	metrics.TrackError("api", errorType)
}
