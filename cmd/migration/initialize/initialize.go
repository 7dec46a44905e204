package initialize

import (
	"time"

	"playlater/config"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeGames(db, log); err != nil {
		return log.Err("failed to initialize games", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeGames loads the starter game catalog. Rows are keyed by IGDB id,
// so re-running is a no-op for games already present.
func initializeGames(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing game catalog")

	games := getGamesData()

	for _, game := range games {
		var existingGame Game
		if err := db.First(&existingGame, "igdb_id = ?", *game.IGDBID).Error; err == nil {
			log.Debug("Game already exists", "title", game.Title)
			continue
		}
		log.Info("Initializing game", "title", game.Title)
		if err := db.Create(&game).Error; err != nil {
			return log.Err(
				"failed to create game",
				err,
				"title",
				game.Title,
			)
		}
	}

	log.Info("Game catalog initialized", "count", len(games))
	return nil
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func getGamesData() []Game {
	return []Game{
		{
			Title:         "The Witcher 3: Wild Hunt",
			ReleaseDate:   date(2015, time.May, 19),
			IGDBID:        intPtr(1942),
			HLTBID:        intPtr(10270),
			SteamAppID:    intPtr(292030),
			CoverImageID:  strPtr("co1wyy"),
			MainStory:     intPtr(51),
			MainExtra:     intPtr(103),
			Completionist: intPtr(173),
		},
		{
			Title:         "Elden Ring",
			ReleaseDate:   date(2022, time.February, 25),
			IGDBID:        intPtr(119133),
			HLTBID:        intPtr(68151),
			SteamAppID:    intPtr(1245620),
			CoverImageID:  strPtr("co4jni"),
			MainStory:     intPtr(60),
			MainExtra:     intPtr(101),
			Completionist: intPtr(133),
		},
		{
			Title:         "Hades",
			Description:   strPtr("Rogue-like dungeon crawler where you defy the god of the dead as you hack and slash out of the Underworld."),
			ReleaseDate:   date(2020, time.September, 17),
			IGDBID:        intPtr(113112),
			HLTBID:        intPtr(58224),
			SteamAppID:    intPtr(1145360),
			CoverImageID:  strPtr("co39vc"),
			MainStory:     intPtr(21),
			MainExtra:     intPtr(44),
			Completionist: intPtr(96),
		},
		{
			Title:         "Hollow Knight",
			ReleaseDate:   date(2017, time.February, 24),
			IGDBID:        intPtr(14593),
			HLTBID:        intPtr(26286),
			SteamAppID:    intPtr(367520),
			CoverImageID:  strPtr("co1rgi"),
			MainStory:     intPtr(27),
			MainExtra:     intPtr(40),
			Completionist: intPtr(63),
		},
		{
			Title:         "Celeste",
			Description:   strPtr("Help Madeline survive her inner demons on her journey to the top of Celeste Mountain."),
			ReleaseDate:   date(2018, time.January, 25),
			IGDBID:        intPtr(26226),
			HLTBID:        intPtr(42328),
			SteamAppID:    intPtr(504230),
			CoverImageID:  strPtr("co3byy"),
			MainStory:     intPtr(8),
			MainExtra:     intPtr(12),
			Completionist: intPtr(37),
		},
		{
			Title:         "Stardew Valley",
			ReleaseDate:   date(2016, time.February, 26),
			IGDBID:        intPtr(17000),
			HLTBID:        intPtr(31088),
			SteamAppID:    intPtr(413150),
			CoverImageID:  strPtr("co64ac"),
			MainStory:     intPtr(53),
			MainExtra:     intPtr(96),
			Completionist: intPtr(156),
		},
		{
			Title:         "Portal 2",
			ReleaseDate:   date(2011, time.April, 19),
			IGDBID:        intPtr(72),
			HLTBID:        intPtr(7239),
			SteamAppID:    intPtr(620),
			CoverImageID:  strPtr("co1rs4"),
			MainStory:     intPtr(8),
			MainExtra:     intPtr(13),
			Completionist: intPtr(21),
		},
		{
			Title:         "Red Dead Redemption 2",
			ReleaseDate:   date(2018, time.October, 26),
			IGDBID:        intPtr(25076),
			HLTBID:        intPtr(27100),
			SteamAppID:    intPtr(1174180),
			CoverImageID:  strPtr("co1q1f"),
			MainStory:     intPtr(50),
			MainExtra:     intPtr(83),
			Completionist: intPtr(189),
		},
		{
			Title:         "The Legend of Zelda: Breath of the Wild",
			ReleaseDate:   date(2017, time.March, 3),
			IGDBID:        intPtr(7346),
			HLTBID:        intPtr(38019),
			CoverImageID:  strPtr("co3p2d"),
			MainStory:     intPtr(50),
			MainExtra:     intPtr(98),
			Completionist: intPtr(189),
		},
		{
			Title:         "God of War",
			Description:   strPtr("His vengeance against the gods of Olympus behind him, Kratos now lives in the realm of Norse deities and monsters."),
			ReleaseDate:   date(2018, time.April, 20),
			IGDBID:        intPtr(19560),
			HLTBID:        intPtr(51726),
			SteamAppID:    intPtr(1593500),
			CoverImageID:  strPtr("co1tmu"),
			MainStory:     intPtr(21),
			MainExtra:     intPtr(33),
			Completionist: intPtr(51),
		},
	}
}
