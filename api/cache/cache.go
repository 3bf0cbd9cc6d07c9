package cache

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

// HeaderName is set by the middleware to "hit" or "miss".
const HeaderName = "X-Cache"

// Config holds cache configuration
type Config struct {
	// Expiration time for the cache, rounded up to whole seconds
	Expiration time.Duration
	// IncludeQueryParams determines if query parameters should be included in cache key
	IncludeQueryParams bool
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() Config {
	return Config{
		Expiration:         time.Second,
		IncludeQueryParams: true,
	}
}

// New creates a new cache middleware with the given configuration
func New(cfg Config) fiber.Handler {
	cacheConfig := cache.Config{
		Expiration:   roundExpiration(cfg.Expiration),
		CacheHeader:  HeaderName,
		KeyGenerator: pathKey,
	}
	if cfg.IncludeQueryParams {
		cacheConfig.KeyGenerator = pathAndQueryKey
	}

	return cache.New(cacheConfig)
}

// WithExpiration creates a cache middleware with custom expiration time
func WithExpiration(expiration time.Duration) fiber.Handler {
	cfg := DefaultConfig()
	cfg.Expiration = expiration
	return New(cfg)
}

// roundExpiration rounds up to the one second resolution of fiber's cache
// timestamps. Anything shorter would either never expire or never hit.
func roundExpiration(expiration time.Duration) time.Duration {
	if expiration <= time.Second {
		return time.Second
	}
	return (expiration + time.Second - 1).Truncate(time.Second)
}

func pathKey(c *fiber.Ctx) string {
	return c.Method() + ":" + c.Path()
}

// pathAndQueryKey uses the raw query string, so ?a=1&b=2 and ?b=2&a=1 are
// cached separately.
func pathAndQueryKey(c *fiber.Ctx) string {
	queryString := string(c.Request().URI().QueryString())
	if queryString != "" {
		return pathKey(c) + "?" + queryString
	}
	return pathKey(c)
}
