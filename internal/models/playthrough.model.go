package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaythroughStatus string

const (
	StatusPlanning  PlaythroughStatus = "PLANNING"
	StatusPlaying   PlaythroughStatus = "PLAYING"
	StatusCompleted PlaythroughStatus = "COMPLETED"
	StatusDropped   PlaythroughStatus = "DROPPED"
	StatusOnHold    PlaythroughStatus = "ON_HOLD"
	StatusMastered  PlaythroughStatus = "MASTERED"
)

func (s PlaythroughStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusPlaying, StatusCompleted, StatusDropped,
		StatusOnHold, StatusMastered:
		return true
	}
	return false
}

// IsCompletedOrBetter groups the states counted as finished by the stats
// aggregator and the completion-rate calculation.
func (s PlaythroughStatus) IsCompletedOrBetter() bool {
	return s == StatusCompleted || s == StatusMastered
}

// statusTransitions is the playthrough state machine. MASTERED is only
// reachable from COMPLETED; PLANNING must pass through PLAYING to finish.
var statusTransitions = map[PlaythroughStatus][]PlaythroughStatus{
	StatusPlanning:  {StatusPlaying},
	StatusPlaying:   {StatusCompleted, StatusDropped, StatusOnHold},
	StatusOnHold:    {StatusPlaying, StatusDropped},
	StatusDropped:   {StatusPlaying},
	StatusCompleted: {StatusMastered},
	StatusMastered:  {},
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target. Re-asserting the current status is a permitted no-op.
func (s PlaythroughStatus) CanTransitionTo(target PlaythroughStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type CompletionType string

const (
	CompletionCompleted CompletionType = "COMPLETED"
	CompletionMastered  CompletionType = "MASTERED"
	CompletionDropped   CompletionType = "DROPPED"
	CompletionOnHold    CompletionType = "ON_HOLD"
)

func (c CompletionType) IsValid() bool {
	switch c {
	case CompletionCompleted, CompletionMastered, CompletionDropped, CompletionOnHold:
		return true
	}
	return false
}

// Playthrough is one attempt at playing a game. A user may have any number
// of playthroughs per game (replays, NG+, other platforms). collection_id is
// optional: borrowed and unowned games are playable too.
type Playthrough struct {
	BaseUUIDModel
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index"                                    json:"user_id"`
	GameID          uuid.UUID         `gorm:"type:uuid;not null;index"                                    json:"game_id"`
	Game            Game              `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"               json:"-"`
	CollectionID    *uuid.UUID        `gorm:"type:uuid;index"                                             json:"collection_id,omitempty"`
	Collection      *CollectionItem   `gorm:"foreignKey:CollectionID;constraint:OnDelete:SET NULL"        json:"-"`
	Status          PlaythroughStatus `gorm:"type:text;not null;index"                                    json:"status"`
	Platform        string            `gorm:"type:text;not null;index"                                    json:"platform"`
	StartedAt       *time.Time        `gorm:"type:timestamptz"                                            json:"started_at,omitempty"`
	CompletedAt     *time.Time        `gorm:"type:timestamptz"                                            json:"completed_at,omitempty"`
	PlayTimeHours   *decimal.Decimal  `gorm:"type:decimal(8,2)"                                           json:"play_time_hours,omitempty"`
	PlaythroughType *string           `gorm:"type:text"                                                   json:"playthrough_type,omitempty"`
	Difficulty      *string           `gorm:"type:text"                                                   json:"difficulty,omitempty"`
	Rating          *int              `json:"rating,omitempty"`
	Notes           *string           `gorm:"type:text"                                                   json:"notes,omitempty"`
}

func (Playthrough) TableName() string {
	return "game_playthrough"
}

// PlaythroughSnippet is the compact embed collection responses carry.
type PlaythroughSnippet struct {
	ID            string            `json:"id"`
	Status        PlaythroughStatus `json:"status"`
	Platform      string            `json:"platform"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	PlayTimeHours *decimal.Decimal  `json:"play_time_hours,omitempty"`
	Rating        *int              `json:"rating,omitempty"`
}

func (p *Playthrough) ToSnippet() PlaythroughSnippet {
	return PlaythroughSnippet{
		ID:            p.ID.String(),
		Status:        p.Status,
		Platform:      p.Platform,
		StartedAt:     p.StartedAt,
		CompletedAt:   p.CompletedAt,
		PlayTimeHours: p.PlayTimeHours,
		Rating:        p.Rating,
	}
}
