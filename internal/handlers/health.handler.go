package handlers

import (
	"playlater/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		sqlOK, cacheOK := app.Database.Ping(c.UserContext())

		status := "healthy"
		if !sqlOK || !cacheOK {
			status = "degraded"
		}

		return c.JSON(fiber.Map{
			"status":   status,
			"message":  "playlater api is running",
			"version":  app.Config.GeneralVersion,
			"database": sqlOK,
			"cache":    cacheOK,
		})
	})
}
