package constants

// Fiber locals keys. RequireAuth stores the resolved identity under these;
// handlers and the websocket upgrade read them back.
const (
	UserLocalKey    = "user"
	SessionLocalKey = "session"
)

// SessionCookieName is the HTTP-only cookie carrying the opaque session id,
// the only credential a browser ever holds.
const SessionCookieName = "session_id"
