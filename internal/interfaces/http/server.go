package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/storefront-api/pkg/logger"
)

// NewApp crea la app Fiber con el manejador de errores y los middlewares comunes
// (request id, log de peticiones, recover). Las rutas se registran con Router.
func NewApp(name string, log *logger.Logger) *fiber.App {
	httpLog := log.Named("http")
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(httpLog),
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(httpLog))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}
