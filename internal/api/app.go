package api

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/terraincognita07/moodtune/internal/logging"
)

type AppConfig struct {
	BodyLimit   int
	CORSOrigins []string
}

// NewApp builds the fiber application with middleware and every route mounted.
func NewApp(handler *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "moodtune",
		DisableStartupMessage: true,
		StrictRouting:         false,
		UnescapePath:          true,
		BodyLimit:             cfg.BodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New())
	app.Use(AccessLog)
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	app.Use(compress.New())

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func corsConfig(origins []string) cors.Config {
	allowed := strings.Join(origins, ",")
	if strings.TrimSpace(allowed) == "" {
		allowed = "*"
	}
	return cors.Config{
		AllowOrigins: allowed,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apiError(c, fiberErr.Code, fiberErr.Message)
	}
	logging.Err(err).Str("path", c.Path()).Msg("unhandled request error")
	return apiError(c, fiber.StatusInternalServerError, "internal server error")
}
