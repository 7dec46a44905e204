package seed

import (
	"time"

	"playlater/config"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func hoursPtr(h float64) *decimal.Decimal {
	d := decimal.NewFromFloat(h)
	return &d
}

func daysAgo(days int) *time.Time {
	t := time.Now().AddDate(0, 0, -days)
	return &t
}

// libraryEntry pairs an optional collection item with an optional playthrough
// for one game. A nil item seeds an uncollected playthrough; a playthrough in
// PLANNING seeds a backlog entry.
type libraryEntry struct {
	title       string
	item        *CollectionItem
	playthrough *Playthrough
}

// Seed loads a development user whose library touches every playthrough
// status, so list filters and the stats endpoints have data on a fresh
// database. It expects the game catalog to be initialized already.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	user := User{
		CognitoID: "local-dev-user",
		Email:     strPtr("dev@playlater.local"),
		Name:      "Dev User",
		IsActive:  true,
	}
	if err := db.Where("cognito_id = ?", user.CognitoID).FirstOrCreate(&user).Error; err != nil {
		return log.Err("failed to seed user", err)
	}

	var games []Game
	if err := db.Find(&games).Error; err != nil {
		return log.Err("failed to load game catalog", err)
	}
	gamesByTitle := make(map[string]Game, len(games))
	for _, game := range games {
		gamesByTitle[game.Title] = game
	}

	for _, entry := range getLibraryEntries() {
		game, ok := gamesByTitle[entry.title]
		if !ok {
			log.Warn("Game missing from catalog, skipping", "title", entry.title)
			continue
		}

		var collectionID *uuid.UUID
		if entry.item != nil {
			entry.item.UserID = user.ID
			entry.item.GameID = game.ID
			if err := db.Create(entry.item).Error; err != nil {
				return log.Err("failed to seed collection item", err, "title", entry.title)
			}
			collectionID = &entry.item.ID
		}

		if entry.playthrough != nil {
			entry.playthrough.UserID = user.ID
			entry.playthrough.GameID = game.ID
			entry.playthrough.CollectionID = collectionID
			if entry.playthrough.Platform == "" && entry.item != nil {
				entry.playthrough.Platform = entry.item.Platform
			}
			if err := db.Create(entry.playthrough).Error; err != nil {
				return log.Err("failed to seed playthrough", err, "title", entry.title)
			}
		}
	}

	log.Info("Development data seeded", "userID", user.ID)
	return nil
}

func getLibraryEntries() []libraryEntry {
	return []libraryEntry{
		{
			title: "Elden Ring",
			item: &CollectionItem{
				Platform:        "PS5",
				AcquisitionType: AcquisitionPhysical,
				AcquiredAt:      daysAgo(90),
				Priority:        intPtr(1),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status:        StatusPlaying,
				StartedAt:     daysAgo(30),
				PlayTimeHours: hoursPtr(42.5),
				Notes:         strPtr("Exploring Liurnia, no guides"),
			},
		},
		{
			title: "Hades",
			item: &CollectionItem{
				Platform:        "Switch",
				AcquisitionType: AcquisitionDigital,
				AcquiredAt:      daysAgo(150),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status:          StatusCompleted,
				StartedAt:       daysAgo(120),
				CompletedAt:     daysAgo(60),
				PlayTimeHours:   hoursPtr(23),
				PlaythroughType: strPtr("First Run"),
				Rating:          intPtr(9),
			},
		},
		{
			title: "Celeste",
			item: &CollectionItem{
				Platform:        "Switch",
				AcquisitionType: AcquisitionDigital,
				AcquiredAt:      daysAgo(400),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status:          StatusMastered,
				StartedAt:       daysAgo(200),
				CompletedAt:     daysAgo(150),
				PlayTimeHours:   hoursPtr(36.25),
				PlaythroughType: strPtr("100%"),
				Rating:          intPtr(10),
				Notes:           strPtr("All strawberries, B-sides done"),
			},
		},
		{
			title: "The Witcher 3: Wild Hunt",
			item: &CollectionItem{
				Platform:        "PC",
				AcquisitionType: AcquisitionDigital,
				AcquiredAt:      daysAgo(45),
				Priority:        intPtr(2),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status: StatusPlanning,
			},
		},
		{
			title: "Stardew Valley",
			item: &CollectionItem{
				Platform:        "PC",
				AcquisitionType: AcquisitionDigital,
				AcquiredAt:      daysAgo(300),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status:        StatusOnHold,
				StartedAt:     daysAgo(120),
				PlayTimeHours: hoursPtr(35),
				Notes:         strPtr("Year 2 spring, waiting for the co-op group"),
			},
		},
		{
			title: "Hollow Knight",
			item: &CollectionItem{
				Platform:        "PC",
				AcquisitionType: AcquisitionDigital,
				AcquiredAt:      daysAgo(200),
				Priority:        intPtr(3),
				IsActive:        true,
			},
			playthrough: &Playthrough{
				Status:        StatusDropped,
				StartedAt:     daysAgo(80),
				PlayTimeHours: hoursPtr(12),
				Rating:        intPtr(7),
				Difficulty:    strPtr("Hard"),
				Notes:         strPtr("Stuck at White Palace"),
			},
		},
		{
			// No collection item; played on a friend's account.
			title: "Portal 2",
			playthrough: &Playthrough{
				Status:        StatusCompleted,
				Platform:      "PC",
				StartedAt:     daysAgo(300),
				CompletedAt:   daysAgo(295),
				PlayTimeHours: hoursPtr(9.5),
				Rating:        intPtr(9),
			},
		},
	}
}
