package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/solcore-labs/corecollection/api/cache"
	"github.com/solcore-labs/corecollection/metrics"
)

// metricsMiddleware records request counts, latency and response cache
// lookups per handler pattern.
func metricsMiddleware() fiber.Handler {
	httpMetrics := metrics.GetMetrics().HTTP

	return func(c *fiber.Ctx) error {
		start := time.Now()
		httpMetrics.RequestsInFlight.Inc()
		defer httpMetrics.RequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		method := c.Method()
		// fiber reuses the request buffers once the handler returns
		path := strings.Clone(c.Path())
		handler := metrics.GetHandlerPattern(path)
		elapsed := time.Since(start).Seconds()

		httpMetrics.RequestsTotal.WithLabelValues(method, handler, metrics.GetStatusClass(status)).Inc()
		httpMetrics.RequestDuration.WithLabelValues(method, handler).Observe(elapsed)
		if status >= fiber.StatusBadRequest {
			httpMetrics.ErrorsTotal.WithLabelValues(handler, metrics.GetStatusClass(status)).Inc()
		}
		if result := c.GetRespHeader(cache.HeaderName); result == "hit" || result == "miss" {
			httpMetrics.CacheLookups.WithLabelValues(handler, result).Inc()
		}
		if bucket := metrics.GetDurationBucket(elapsed); bucket != "" {
			httpMetrics.SlowRequests.WithLabelValues(method, path, bucket).Inc()
		}

		return err
	}
}
