package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestUser_UpdateFromClaims(t *testing.T) {
	t.Run("Updates email and name", func(t *testing.T) {
		user := &User{
			Name:  "Old Name",
			Email: strPtr("old@example.com"),
		}

		user.UpdateFromClaims(strPtr("new@example.com"), "New Name")

		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, "new@example.com", *user.Email)
		assert.NotNil(t, user.LastLoginAt)
		assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Minute)
	})

	t.Run("Keeps existing values when claims are empty", func(t *testing.T) {
		user := &User{
			Name:  "Existing Name",
			Email: strPtr("existing@example.com"),
		}

		user.UpdateFromClaims(nil, "")

		assert.Equal(t, "Existing Name", user.Name)
		assert.Equal(t, "existing@example.com", *user.Email)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("Ignores empty email pointer", func(t *testing.T) {
		user := &User{
			Email: strPtr("existing@example.com"),
		}

		user.UpdateFromClaims(strPtr(""), "Name")

		assert.Equal(t, "existing@example.com", *user.Email)
	})

	t.Run("Always stamps last login", func(t *testing.T) {
		user := &User{}
		assert.Nil(t, user.LastLoginAt)

		user.UpdateFromClaims(nil, "")

		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_ToProfile(t *testing.T) {
	lastLogin := time.Now().Add(-time.Hour)
	user := &User{
		Email:       strPtr("player@example.com"),
		Name:        "Player One",
		IsActive:    true,
		LastLoginAt: &lastLogin,
	}

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "player@example.com", *profile.Email)
	assert.Equal(t, "Player One", profile.Name)
	assert.True(t, profile.IsActive)
	assert.Equal(t, &lastLogin, profile.LastLoginAt)
}
