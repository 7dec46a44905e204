package authController

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"playlater/config"
	"playlater/internal/apperrors"
	"playlater/internal/constants"
	appContext "playlater/internal/context"
	"playlater/internal/database"
	"playlater/internal/events"
	. "playlater/internal/models"
	"playlater/internal/repositories"
	"playlater/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthController drives the Cognito authorization-code flow and the session
// lifecycle behind the session_id cookie. Provider tokens stay server-side;
// the only credential a client ever holds is the opaque session id.
type AuthController struct {
	cognitoService     *services.CognitoService
	transactionService *services.TransactionService
	userRepo           repositories.UserRepository
	sessionRepo        repositories.SessionRepository
	eventBus           *events.EventBus
	db                 database.DB
	config             config.Config
	log                logger.Logger
}

type AuthControllerInterface interface {
	BeginLogin(ctx context.Context) (*LoginRedirect, error)
	HandleCallback(ctx context.Context, req CallbackRequest) (*AuthResult, error)
	Logout(ctx context.Context, user *User, session *Session) error
	Check(user *User, session *Session) *CheckResponse
	Refresh(ctx context.Context, sessionID uuid.UUID) (*AuthResult, error)
}

// LoginRedirect is returned to the login handler, which either 302s to the
// authorization URL or hands it back as JSON for clients driving the
// redirect themselves.
type LoginRedirect struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// CallbackRequest carries the provider redirect parameters plus the client
// metadata stamped onto the new session.
type CallbackRequest struct {
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

// AuthResult is the outcome of a successful callback or refresh. The
// handler derives the cookie from Session and the body from User.
type AuthResult struct {
	User    *User
	Session *Session
}

type CheckResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          UserProfile `json:"user"`
	ExpiresAt     time.Time   `json:"expires_at"`
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		cognitoService:     services.Cognito,
		transactionService: services.Transaction,
		userRepo:           repos.User,
		sessionRepo:        repos.Session,
		eventBus:           eventBus,
		db:                 db,
		config:             config,
		log:                logger.New("authController"),
	}
}

// BeginLogin mints the state and nonce for a new authorization round trip
// and stores them TTL-bound so the callback can verify the redirect really
// started here.
func (c *AuthController) BeginLogin(ctx context.Context) (*LoginRedirect, error) {
	log := c.log.TraceFromContext(ctx).Function("BeginLogin")

	state, err := randomToken()
	if err != nil {
		return nil, log.Err("failed to generate state token", err)
	}

	nonce, err := randomToken()
	if err != nil {
		return nil, log.Err("failed to generate nonce", err)
	}

	if err := c.storeState(ctx, state, nonce); err != nil {
		return nil, err
	}

	authURL, err := c.cognitoService.GetAuthorizationURL(ctx, state, nonce)
	if err != nil {
		return nil, log.Err("failed to build authorization URL", err)
	}

	log.Info("login initiated", "state", state)
	return &LoginRedirect{AuthorizationURL: authURL, State: state}, nil
}

// HandleCallback completes the code exchange: state is consumed (one-time
// use), the ID token is validated against the stored nonce, the user is
// upserted and a session minted. User upsert and session create run in one
// transaction so a failed session insert never strands a half-logged-in
// user record.
func (c *AuthController) HandleCallback(
	ctx context.Context,
	req CallbackRequest,
) (*AuthResult, error) {
	log := c.log.TraceFromContext(ctx).Function("HandleCallback")

	var details []apperrors.FieldError
	if req.Code == "" {
		details = append(details, apperrors.FieldError{Field: "code", Message: "code is required"})
	}
	if req.State == "" {
		details = append(details, apperrors.FieldError{Field: "state", Message: "state is required"})
	}
	if len(details) > 0 {
		return nil, apperrors.Validation(details...)
	}

	nonce, err := c.consumeState(ctx, req.State)
	if err != nil {
		return nil, err
	}

	tokens, err := c.cognitoService.ExchangeCode(ctx, req.Code)
	if err != nil {
		log.Er("code exchange failed", err)
		return nil, apperrors.Authentication()
	}

	tokenInfo, err := c.cognitoService.ValidateIDToken(ctx, tokens.IDToken, nonce)
	if err != nil || !tokenInfo.Valid {
		log.Er("ID token validation failed", err)
		return nil, apperrors.Authentication()
	}

	var email *string
	if tokenInfo.Email != "" {
		email = &tokenInfo.Email
	}
	name := tokenInfo.Name
	if name == "" {
		name = tokenInfo.Username
	}

	var user *User
	var session *Session
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		txCtx := appContext.WithTransaction(ctx, tx)

		user, err = c.userRepo.FindOrCreateCognitoUser(txCtx, tokenInfo.UserID, email, name)
		if err != nil {
			return err
		}

		session, err = c.mintSession(txCtx, user.ID, tokens.RefreshToken, req)
		return err
	})
	if err != nil {
		log.Er("failed to establish session", err, "cognitoID", tokenInfo.UserID)
		return nil, apperrors.Internal("Failed to establish session")
	}

	log.Info("login completed", "userID", user.ID, "sessionID", session.ID)
	return &AuthResult{User: user, Session: session}, nil
}

// Logout revokes the refresh token at Cognito (best effort), deactivates
// the session and drops the cached user. A provider revocation failure
// never blocks the local logout.
func (c *AuthController) Logout(ctx context.Context, user *User, session *Session) error {
	log := c.log.TraceFromContext(ctx).Function("Logout")

	if session.RefreshToken != nil {
		if err := c.cognitoService.RevokeToken(ctx, *session.RefreshToken); err != nil {
			log.Warn("refresh token revocation failed", "error", err.Error(), "sessionID", session.ID)
		}
	}

	if err := c.sessionRepo.Deactivate(ctx, session.ID); err != nil {
		return log.Err("failed to deactivate session", err, "sessionID", session.ID)
	}

	if err := c.userRepo.ClearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache", "error", err.Error(), "userID", user.ID)
	}

	// Connected websocket clients on this session get dropped by the hubs.
	if err := c.eventBus.PublishActivity(user.ID, events.SESSION_REVOKED, map[string]any{
		"session_id": session.ID.String(),
	}); err != nil {
		log.Warn("failed to publish session revocation", "error", err.Error(), "sessionID", session.ID)
	}

	log.Info("logout completed", "userID", user.ID, "sessionID", session.ID)
	return nil
}

// Check reports the authenticated identity behind an already-validated
// session. RequireAuth did the resolution; this just shapes the response.
func (c *AuthController) Check(user *User, session *Session) *CheckResponse {
	return &CheckResponse{
		Authenticated: true,
		User:          user.ToProfile(),
		ExpiresAt:     session.ExpiresAt,
	}
}

// Refresh exchanges the stored refresh token for new provider tokens and
// extends the session's expiry. A provider refusal deactivates the session
// so the client falls back to a full login.
func (c *AuthController) Refresh(ctx context.Context, sessionID uuid.UUID) (*AuthResult, error) {
	log := c.log.TraceFromContext(ctx).Function("Refresh")

	session, err := c.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		log.Er("session lookup failed", err, "sessionID", sessionID)
		return nil, apperrors.Authentication()
	}

	if session.IsExpired(time.Now()) || session.RefreshToken == nil {
		_ = c.sessionRepo.Deactivate(ctx, session.ID)
		return nil, apperrors.Authentication()
	}

	tokens, err := c.cognitoService.RefreshTokens(ctx, *session.RefreshToken)
	if err != nil {
		log.Er("token refresh rejected", err, "sessionID", session.ID)
		if deactivateErr := c.sessionRepo.Deactivate(ctx, session.ID); deactivateErr != nil {
			log.Warn("failed to deactivate session after refresh rejection",
				"error", deactivateErr.Error(), "sessionID", session.ID)
		}
		return nil, apperrors.Authentication()
	}

	// Cognito omits refresh_token on the refresh grant; keep the stored one
	// unless the provider rotated it.
	if tokens.RefreshToken != "" {
		session.RefreshToken = &tokens.RefreshToken
	}
	session.ExpiresAt = time.Now().Add(c.sessionTTL())

	if err := c.sessionRepo.Update(ctx, session); err != nil {
		return nil, log.Err("failed to extend session", err, "sessionID", session.ID)
	}

	user, err := c.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		log.Er("user lookup failed after refresh", err, "userID", session.UserID)
		return nil, apperrors.Authentication()
	}

	log.Info("session refreshed", "userID", user.ID, "sessionID", session.ID)
	return &AuthResult{User: user, Session: session}, nil
}

func (c *AuthController) mintSession(
	ctx context.Context,
	userID uuid.UUID,
	refreshToken string,
	req CallbackRequest,
) (*Session, error) {
	log := c.log.Function("mintSession")

	metadata, err := json.Marshal(SessionMetadata{
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})
	if err != nil {
		return nil, log.Err("failed to marshal session metadata", err)
	}

	session := &Session{
		UserID:    userID,
		Active:    true,
		ExpiresAt: time.Now().Add(c.sessionTTL()),
		Metadata:  metadata,
	}
	if refreshToken != "" {
		session.RefreshToken = &refreshToken
	}

	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *AuthController) sessionTTL() time.Duration {
	return time.Duration(c.config.SessionTTLHours) * time.Hour
}

// storeState keeps the state→nonce binding alive just long enough for the
// user to come back from the hosted UI.
func (c *AuthController) storeState(ctx context.Context, state, nonce string) error {
	log := c.log.Function("storeState")

	err := database.NewCacheBuilder(c.db.Cache.General, state).
		WithHashPattern(constants.OAuthStateCacheKey).
		WithValue(nonce).
		WithTTL(constants.OAuthStateExpiry).
		WithContext(ctx).
		Set()
	if err != nil {
		return log.Err("failed to store oauth state", err)
	}
	return nil
}

// consumeState validates and deletes the state in one pass. A state that is
// missing, expired, or already used reads as a forged callback.
func (c *AuthController) consumeState(ctx context.Context, state string) (string, error) {
	log := c.log.Function("consumeState")

	var nonce string
	found, err := database.NewCacheBuilder(c.db.Cache.General, state).
		WithHashPattern(constants.OAuthStateCacheKey).
		WithContext(ctx).
		Get(&nonce)
	if err != nil {
		return "", log.Err("failed to look up oauth state", err)
	}
	if !found {
		log.Warn("unknown or expired oauth state", "state", state)
		return "", apperrors.Authentication()
	}

	err = database.NewCacheBuilder(c.db.Cache.General, state).
		WithHashPattern(constants.OAuthStateCacheKey).
		WithContext(ctx).
		Delete()
	if err != nil {
		log.Warn("failed to remove oauth state after use", "error", err.Error())
	}

	return nonce, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
