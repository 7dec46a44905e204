package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		active    bool
		expiresAt time.Time
		expected  bool
	}{
		{name: "active with time remaining", active: true, expiresAt: now.Add(time.Hour), expected: false},
		{name: "active but past expiry", active: true, expiresAt: now.Add(-time.Hour), expected: true},
		{name: "expiry exactly now", active: true, expiresAt: now, expected: true},
		{name: "deactivated with time remaining", active: false, expiresAt: now.Add(time.Hour), expected: true},
		{name: "deactivated and past expiry", active: false, expiresAt: now.Add(-time.Hour), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &Session{Active: tt.active, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, session.IsExpired(now))
		})
	}
}

func TestSession_RemainingTTL(t *testing.T) {
	now := time.Now()

	t.Run("Remaining lifetime for a live session", func(t *testing.T) {
		session := &Session{Active: true, ExpiresAt: now.Add(30 * time.Minute)}
		assert.Equal(t, 30*time.Minute, session.RemainingTTL(now))
	})

	t.Run("Zero for an expired session", func(t *testing.T) {
		session := &Session{Active: true, ExpiresAt: now.Add(-time.Minute)}
		assert.Equal(t, time.Duration(0), session.RemainingTTL(now))
	})

	t.Run("Zero for a deactivated session", func(t *testing.T) {
		session := &Session{Active: false, ExpiresAt: now.Add(time.Hour)}
		assert.Equal(t, time.Duration(0), session.RemainingTTL(now))
	})
}
