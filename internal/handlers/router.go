package handlers

import (
	"strings"

	"playlater/internal/app"
	"playlater/internal/apperrors"
	"playlater/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

// queryValues returns every occurrence of key, with comma-separated
// occurrences split. ?status=a&status=b and ?status=a,b read the same.
func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		values = append(values, strings.Split(string(raw), ",")...)
	}
	return values
}

// idParam parses the :id path segment.
func idParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation(apperrors.FieldError{
			Field:   "id",
			Message: "id must be a valid uuid",
		})
	}
	return id, nil
}

func invalidBody() error {
	return apperrors.Validation(apperrors.FieldError{
		Field:   "body",
		Message: "invalid request body",
	})
}

func Router(router fiber.Router, app *app.App) error {
	HealthHandler(router, app)
	WebSocketHandler(router, app)

	api := router.Group("/api/v1")
	HealthHandler(api, app)
	NewAuthHandler(*app, api).Register()
	NewCollectionHandler(*app, api).Register()
	NewPlaythroughHandler(*app, api).Register()

	return nil
}
