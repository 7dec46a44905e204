package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is the durable login record behind the session cookie. The
// Valkey session cache is a look-aside copy keyed by ID with TTL equal to
// the remaining lifetime; this row stays the source of truth. The refresh
// token never leaves the server.
type Session struct {
	BaseUUIDModel
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"        json:"user_id"`
	User         User           `gorm:"foreignKey:UserID"               json:"-"`
	RefreshToken *string        `gorm:"type:text"                       json:"-"`
	Active       bool           `gorm:"type:bool;default:true;not null" json:"active"`
	ExpiresAt    time.Time      `gorm:"type:timestamptz;not null;index" json:"expires_at"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"                      json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session has passed its expiry or was
// deactivated. Expired sessions are indistinguishable from missing ones to
// the caller, but trigger cleanup as a side effect.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.Active || !now.Before(s.ExpiresAt)
}

// RemainingTTL is the cache TTL for the look-aside entry.
func (s *Session) RemainingTTL(now time.Time) time.Duration {
	if s.IsExpired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// SessionMetadata is the client info captured when the session is minted.
type SessionMetadata struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}
