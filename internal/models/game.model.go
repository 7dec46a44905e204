package models

import (
	"time"
)

// Game is shared metadata, never owned by a user. Rows are created on first
// reference or by a backfill job and updated only by metadata-refresh jobs.
type Game struct {
	BaseUUIDModel
	Title        string     `gorm:"type:text;not null;index"  json:"title"`
	Description  *string    `gorm:"type:text"                 json:"description,omitempty"`
	CoverImageID *string    `gorm:"type:text"                 json:"cover_image_id,omitempty"`
	ReleaseDate  *time.Time `gorm:"type:date"                 json:"release_date,omitempty"`
	IGDBID       *int       `gorm:"column:igdb_id;uniqueIndex" json:"igdb_id,omitempty"`
	HLTBID       *int       `gorm:"column:hltb_id;uniqueIndex" json:"hltb_id,omitempty"`
	SteamAppID   *int       `gorm:"uniqueIndex"               json:"steam_app_id,omitempty"`

	// Expected hours to beat, sourced from the completion-time provider.
	MainStory     *int `json:"main_story,omitempty"`
	MainExtra     *int `json:"main_extra,omitempty"`
	Completionist *int `json:"completionist,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

// GameSummary is the compact embed used by list endpoints.
type GameSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	CoverImageID  *string    `json:"cover_image_id,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	MainStory     *int       `json:"main_story,omitempty"`
	MainExtra     *int       `json:"main_extra,omitempty"`
	Completionist *int       `json:"completionist,omitempty"`
}

// GameDetail extends the summary with descriptive and external-id fields.
type GameDetail struct {
	GameSummary
	Description *string `json:"description,omitempty"`
	IGDBID      *int    `json:"igdb_id,omitempty"`
	HLTBID      *int    `json:"hltb_id,omitempty"`
	SteamAppID  *int    `json:"steam_app_id,omitempty"`
}

func (g *Game) ToSummary() GameSummary {
	return GameSummary{
		ID:            g.ID.String(),
		Title:         g.Title,
		CoverImageID:  g.CoverImageID,
		ReleaseDate:   g.ReleaseDate,
		MainStory:     g.MainStory,
		MainExtra:     g.MainExtra,
		Completionist: g.Completionist,
	}
}

func (g *Game) ToDetail() GameDetail {
	return GameDetail{
		GameSummary: g.ToSummary(),
		Description: g.Description,
		IGDBID:      g.IGDBID,
		HLTBID:      g.HLTBID,
		SteamAppID:  g.SteamAppID,
	}
}
