package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"playlater/internal/app"
	"playlater/internal/apperrors"
	"playlater/internal/handlers"
	"playlater/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

// errorResponse is the envelope every error renders through, no matter where
// it was raised.
type errorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Details   []apperrors.FieldError `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
	RequestID string                 `json:"request_id"`
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server")

	config := fiber.Config{
		ServerHeader: fmt.Sprintf(
			"APIServer/%s",
			app.Config.GeneralVersion,
		),
		AppName:                  "playlater_server",
		BodyLimit:                10 * 1024 * 1024,
		ReadBufferSize:           16384,
		WriteBufferSize:          16384,
		StreamRequestBody:        false,
		EnableSplittingOnParsers: true,
		EnableTrustedProxyCheck:  true,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             30 * time.Second,
		IdleTimeout:              120 * time.Second,
		DisableStartupMessage:    true,
		EnablePrintRoutes:        false,
		ErrorHandler:             newErrorHandler(),
	}

	if app.Config.Environment == "development" {
		log.Info("Enabling development mode")
		config.DisableStartupMessage = false
		config.EnablePrintRoutes = true
	}

	server := fiber.New(config)

	server.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CorsAllowOrigins,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-Id, Upgrade, Connection",
		AllowCredentials: true,
		MaxAge:           300,
		ExposeHeaders:    "Upgrade, X-Request-Id",
	}))

	server.Use(app.Middleware.RequestID())
	server.Use(fiberLogs.New())
	server.Use(compress.New())

	// Enhanced security headers
	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
		// CSP will be handled per-route basis for more flexibility
		ContentSecurityPolicy: "",
	}))

	fiberApp := &AppServer{
		FiberApp: server,
		log:      log,
	}

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to initialize handlers", err)
	}

	// Anything that falls through the router gets the uniform 404 body.
	server.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	return fiberApp, nil
}

// newErrorHandler renders every error through the same envelope. Typed errors
// carry their own status and field details, fiber errors keep their status
// with a kind derived from it, and anything else is a 500 with the cause
// logged but withheld from the response.
func newErrorHandler() fiber.ErrorHandler {
	log := logger.New("server").Function("errorHandler")

	return func(c *fiber.Ctx, err error) error {
		timestamp := time.Now().UTC().Format(time.RFC3339)
		requestID := middleware.GetRequestID(c)

		if appErr, ok := apperrors.As(err); ok {
			return c.Status(appErr.Status()).JSON(errorResponse{
				Error:     string(appErr.Kind),
				Message:   appErr.Message,
				Details:   appErr.Details,
				Timestamp: timestamp,
				RequestID: requestID,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorResponse{
				Error:     statusKind(fiberErr.Code),
				Message:   fiberErr.Message,
				Timestamp: timestamp,
				RequestID: requestID,
			})
		}

		log.Er("unhandled error", err, "method", c.Method(), "path", c.Path(), "requestID", requestID)

		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:     string(apperrors.KindInternal),
			Message:   "Internal server error",
			Timestamp: timestamp,
			RequestID: requestID,
		})
	}
}

// statusKind maps a bare HTTP status onto the error kind vocabulary. Statuses
// the API raises itself have fixed kinds; the rest fall back to the standard
// status text.
func statusKind(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(apperrors.KindNotFound)
	case fiber.StatusMethodNotAllowed:
		return string(apperrors.KindMethodNotAllowed)
	case fiber.StatusUnauthorized:
		return string(apperrors.KindAuthentication)
	case fiber.StatusInternalServerError:
		return string(apperrors.KindInternal)
	}

	text := http.StatusText(status)
	if text == "" {
		return string(apperrors.KindInternal)
	}
	return strings.ToLower(strings.ReplaceAll(text, " ", "_"))
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error(
			"Fatal error: invalid port",
			"port", port,
		)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
