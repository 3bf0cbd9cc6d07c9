package api

import (
	"fmt"
	"html/template"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/solcore-labs/corecollection/api/docs"
	"github.com/solcore-labs/corecollection/api/handler"
	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/orm"
)

type Api struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *orm.Database
	app    *fiber.App
}

func New(cfg *config.Config, logger *slog.Logger, db *orm.Database) *Api {
	a := &Api{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	a.app = a.newApp()
	return a
}

// @title Core Collection API
// @version 1.0
// @description Read API over indexed Metaplex Core collections and assets
// @BasePath /

// @tag.name Core
// @tag.description Collection and asset related operations

// @tag.name App
// @tag.description Health and indexer status
func (a *Api) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Core Collection API",
		DisableStartupMessage: true,
		UnescapePath:          true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(metricsMiddleware())

	app.Get("/health", health)

	api := app.Group("/indexer")
	handler.Register(api, a.db, a.cfg, a.logger)

	// Swagger documentation
	swaggerConfig := swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
		TagsSorter: template.JS(`function(a, b) {
			const order = ["Core", "App"];
			return order.indexOf(a) - order.indexOf(b);
		}`),
	}

	app.Get("/swagger/*", swagger.New(swaggerConfig))

	return app
}

// App exposes the configured fiber app, used by tests.
func (a *Api) App() *fiber.App {
	return a.app
}

func (a *Api) Start() error {
	port := a.cfg.GetListenPort()

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", port)

	a.logger.Info("starting API server", slog.String("addr", fmt.Sprintf("http://localhost:%s", port)))

	return a.app.Listen(":" + port)
}

func (a *Api) Shutdown() error {
	return a.app.Shutdown()
}

// health handles GET /health
// @Summary Health check
// @Tags App
// @Success 200 "OK"
// @Router /health [get]
func health(c *fiber.Ctx) error {
	return c.SendString("OK")
}
