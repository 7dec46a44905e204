package models

import (
	"time"
)

type User struct {
	BaseUUIDModel
	CognitoID   string     `gorm:"column:cognito_id;type:text;uniqueIndex;not null" json:"-"`
	Email       *string    `gorm:"type:text;uniqueIndex"                            json:"email,omitempty"`
	Name        string     `gorm:"type:text"                                        json:"name"`
	IsActive    bool       `gorm:"type:bool;default:true"                           json:"is_active"`
	LastLoginAt *time.Time `gorm:"type:timestamptz"                                 json:"last_login_at,omitempty"`
}

// UserProfile is the public shape returned by auth endpoints.
type UserProfile struct {
	ID          string     `json:"id"`
	Email       *string    `json:"email,omitempty"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// UpdateFromClaims refreshes mutable profile fields from validated Cognito
// ID-token claims on each login.
func (u *User) UpdateFromClaims(email *string, name string) {
	now := time.Now()
	u.LastLoginAt = &now

	if email != nil && *email != "" {
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
}
