package middleware

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-Id"

	// RequestIDLocalKey is the Fiber locals key for the request id.
	RequestIDLocalKey = "requestID"
)

// RequestID accepts a caller-supplied request id or generates one, echoes
// it on the response, and threads it through the Go context so controller
// logs and error bodies carry the same id.
func (m *Middleware) RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDHeader, requestID)
		c.Locals(RequestIDLocalKey, requestID)

		ctx := logger.ContextWithTraceID(c.UserContext(), requestID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetRequestID retrieves the request id stamped by RequestID.
func GetRequestID(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return requestID
	}
	return ""
}
