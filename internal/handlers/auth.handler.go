package handlers

import (
	"time"

	"playlater/config"
	"playlater/internal/app"
	"playlater/internal/apperrors"
	"playlater/internal/constants"
	authController "playlater/internal/controllers/auth"
	"playlater/internal/handlers/middleware"
	"playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
	config         config.Config
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("authHandler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		config:         app.Config,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Get("/login", h.login)
	auth.Get("/callback", h.callback)
	auth.Post("/refresh", h.refresh)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Post("/logout", h.logout)
	protected.Get("/check", h.check)
}

// login starts the authorization-code flow. SPAs that open the provider
// window themselves pass redirect=false and get the URL as JSON instead of
// a 302.
func (h *AuthHandler) login(c *fiber.Ctx) error {
	redirect, err := h.authController.BeginLogin(c.UserContext())
	if err != nil {
		return err
	}

	if c.Query("redirect") == "false" {
		return c.JSON(redirect)
	}

	return c.Redirect(redirect.AuthorizationURL, fiber.StatusFound)
}

func (h *AuthHandler) callback(c *fiber.Ctx) error {
	req := authController.CallbackRequest{
		Code:      c.Query("code"),
		State:     c.Query("state"),
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	result, err := h.authController.HandleCallback(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Session)

	return c.Redirect(h.config.FrontendURL, fiber.StatusFound)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	session := middleware.GetSession(c)
	if user == nil || session == nil {
		return apperrors.Authentication()
	}

	if err := h.authController.Logout(c.UserContext(), user, session); err != nil {
		return err
	}

	h.clearSessionCookie(c)

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) check(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	session := middleware.GetSession(c)
	if user == nil || session == nil {
		return apperrors.Authentication()
	}

	return c.JSON(h.authController.Check(user, session))
}

// refresh extends the session behind the cookie. RequireAuth is not in
// front of it; the controller does its own validation so a session on the
// edge of expiry can still be refreshed.
func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	cookie := c.Cookies(constants.SessionCookieName)
	if cookie == "" {
		return apperrors.Authentication()
	}

	sessionID, err := uuid.Parse(cookie)
	if err != nil {
		return apperrors.Authentication()
	}

	result, err := h.authController.Refresh(c.UserContext(), sessionID)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Session)

	return c.JSON(fiber.Map{
		"message":    "Session refreshed",
		"expires_at": result.Session.ExpiresAt,
	})
}

// setSessionCookie writes the HTTP-only session cookie. Secure is off only
// in development so local non-TLS setups still work.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.ID.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.config.Environment != "development",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.config.Environment != "development",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
