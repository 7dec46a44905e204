package database

import (
	logger "github.com/Bparsons0904/goLogger"
)

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	// Composite indexes for the user-scoped list paths and a trigram index
	// for case-insensitive title search.
	indexes := []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm",
		"CREATE INDEX IF NOT EXISTS idx_collection_user_active ON user_game_collection(user_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_collection_user_platform ON user_game_collection(user_id, platform)",
		"CREATE INDEX IF NOT EXISTS idx_playthrough_user_status ON game_playthrough(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_playthrough_user_platform ON game_playthrough(user_id, platform)",
		"CREATE INDEX IF NOT EXISTS idx_playthrough_completed_at ON game_playthrough(user_id, completed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_games_title_trgm ON games USING gin (title gin_trgm_ops)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
