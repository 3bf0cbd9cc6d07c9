package common

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcore-labs/corecollection/config"
)

func TestQueryContext(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.SetQueryTimeout(3 * time.Second)
	h := NewBaseHandler(nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var remaining time.Duration
	var hasDeadline bool
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		ctx, cancel := h.QueryContext(c)
		defer cancel()
		var deadline time.Time
		deadline, hasDeadline = ctx.Deadline()
		remaining = time.Until(deadline)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req, _ := http.NewRequest("GET", "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.True(t, hasDeadline)
	assert.Greater(t, remaining, 2*time.Second)
	assert.LessOrEqual(t, remaining, 3*time.Second)
}
