package webhook

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application serving the webhook surface.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	v1 := app.Group("/callflow")
	v1.Post("/webhook", h.HandleEvent)
	v1.Get("/status", h.HandleStatus)

	return app
}
