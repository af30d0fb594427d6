package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// AppConfig parámetros del servidor fiber.
type AppConfig struct {
	Name        string
	Production  bool
	BodyLimitMB int
	// SwaggerFile se sirve en /docs si existe; vacío o inexistente desactiva la UI.
	SwaggerFile string
}

// NewApp construye la aplicación fiber con el manejo de errores, recover, access log,
// /health y, si hay especificación generada, Swagger UI. Las rutas se registran con Router.
func NewApp(cfg AppConfig, log zerolog.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 12
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    bodyLimit * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: NewErrorHandler(log, cfg.Production),
	})
	app.Use(recover.New())
	app.Use(AccessLog(log))

	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			// Swagger UI en local: http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "TESA Inventario API",
			}))
		} else {
			log.Debug().Str("file", cfg.SwaggerFile).Msg("sin especificación swagger, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}
