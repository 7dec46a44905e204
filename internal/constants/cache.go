package constants

import "time"

// Cache key patterns, applied through CacheBuilder.WithHashPattern.
const (
	UserCacheKey        = "user:%s"         // User records by user id
	UserCognitoCacheKey = "user_cognito:%s" // Cognito sub to user id mapping
	SessionCacheKey     = "session:%s"      // Session look-aside copies by session id
	OAuthStateCacheKey  = "oauth_state:%s"  // Pending authorization-code states
)

const (
	UserCacheExpiry  = 7 * 24 * time.Hour
	OAuthStateExpiry = 10 * time.Minute
)
