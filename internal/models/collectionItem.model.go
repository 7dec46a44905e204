package models

import (
	"time"

	"github.com/google/uuid"
)

type AcquisitionType string

const (
	AcquisitionPhysical     AcquisitionType = "PHYSICAL"
	AcquisitionDigital      AcquisitionType = "DIGITAL"
	AcquisitionSubscription AcquisitionType = "SUBSCRIPTION"
	AcquisitionBorrowed     AcquisitionType = "BORROWED"
	AcquisitionRental       AcquisitionType = "RENTAL"
)

// IsValid reports whether the string value is a known acquisition type.
// Unknown values are rejected at the request boundary, not deeper in.
func (a AcquisitionType) IsValid() bool {
	switch a {
	case AcquisitionPhysical, AcquisitionDigital, AcquisitionSubscription,
		AcquisitionBorrowed, AcquisitionRental:
		return true
	}
	return false
}

// CollectionItem records a user owning a game on one platform. game_id,
// platform, acquisition_type and acquired_at are immutable after creation;
// soft delete flips is_active, hard delete removes the row and SET NULLs the
// back-reference on dependent playthroughs.
type CollectionItem struct {
	BaseUUIDModel
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_game_platform" json:"user_id"`
	GameID          uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_game_platform" json:"game_id"`
	Game            Game            `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"              json:"-"`
	Platform        string          `gorm:"type:text;not null;index;uniqueIndex:uq_user_game_platform" json:"platform"`
	AcquisitionType AcquisitionType `gorm:"type:text;not null"                                         json:"acquisition_type"`
	AcquiredAt      *time.Time      `gorm:"type:timestamptz"                                           json:"acquired_at,omitempty"`
	Priority        *int            `json:"priority,omitempty"`
	IsActive        bool            `gorm:"type:bool;default:true;not null"                            json:"is_active"`
	Notes           *string         `gorm:"type:text"                                                  json:"notes,omitempty"`
	Playthroughs    []Playthrough   `gorm:"foreignKey:CollectionID"                                    json:"-"`
}

func (CollectionItem) TableName() string {
	return "user_game_collection"
}

// CollectionSnippet is the compact embed playthrough responses carry.
type CollectionSnippet struct {
	ID              string          `json:"id"`
	Platform        string          `json:"platform"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquiredAt      *time.Time      `json:"acquired_at,omitempty"`
	Priority        *int            `json:"priority,omitempty"`
	IsActive        bool            `json:"is_active"`
}

func (c *CollectionItem) ToSnippet() CollectionSnippet {
	return CollectionSnippet{
		ID:              c.ID.String(),
		Platform:        c.Platform,
		AcquisitionType: c.AcquisitionType,
		AcquiredAt:      c.AcquiredAt,
		Priority:        c.Priority,
		IsActive:        c.IsActive,
	}
}
