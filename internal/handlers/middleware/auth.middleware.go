package middleware

import (
	"time"

	"playlater/internal/apperrors"
	"playlater/internal/constants"
	"playlater/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireAuth resolves the session cookie into a user and session, cache
// first with the session row as source of truth. Expired or deactivated
// sessions are cleaned up before the 401 so a dead cookie cannot keep
// stale rows and cache entries alive.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAuth")

		cookie := c.Cookies(constants.SessionCookieName)
		if cookie == "" {
			return apperrors.Authentication()
		}

		sessionID, err := uuid.Parse(cookie)
		if err != nil {
			log.Info("malformed session cookie")
			return apperrors.Authentication()
		}

		ctx := c.UserContext()
		session, err := m.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			log.Info("session not found", "sessionID", sessionID)
			return apperrors.Authentication()
		}

		if session.IsExpired(time.Now()) {
			if err := m.sessionRepo.Deactivate(ctx, session.ID); err != nil {
				log.Warn(
					"failed to deactivate expired session",
					"error", err.Error(),
					"sessionID", session.ID,
				)
			}
			return apperrors.Authentication()
		}

		user, err := m.userRepo.GetByID(ctx, session.UserID)
		if err != nil {
			log.Warn("session user missing", "sessionID", session.ID, "userID", session.UserID)
			return apperrors.Authentication()
		}

		c.Locals(constants.UserLocalKey, user)
		c.Locals(constants.SessionLocalKey, session)

		return c.Next()
	}
}

// GetUser extracts the authenticated user stored by RequireAuth.
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(constants.UserLocalKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSession extracts the session stored by RequireAuth.
func GetSession(c *fiber.Ctx) *models.Session {
	session, ok := c.Locals(constants.SessionLocalKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
