package handlers

import (
	"playlater/internal/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler registers the upgrade route. RequireAuth runs before the
// upgrade so the connection starts with the user and session already in
// locals; there is no in-band handshake.
func WebSocketHandler(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Middleware.RequireAuth(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
