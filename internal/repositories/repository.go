package repositories

import (
	"playlater/internal/database"
)

type Repository struct {
	User        UserRepository
	Game        GameRepository
	Collection  CollectionRepository
	Playthrough PlaythroughRepository
	Session     SessionRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:        NewUserRepository(db),
		Game:        NewGameRepository(db),
		Collection:  NewCollectionRepository(db),
		Playthrough: NewPlaythroughRepository(db),
		Session:     NewSessionRepository(db),
	}
}
