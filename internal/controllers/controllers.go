package controllers

import (
	"playlater/config"
	"playlater/internal/database"
	"playlater/internal/events"
	"playlater/internal/repositories"
	"playlater/internal/services"

	authController "playlater/internal/controllers/auth"
	collectionController "playlater/internal/controllers/collection"
	playthroughsController "playlater/internal/controllers/playthroughs"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	Collection   collectionController.CollectionControllerInterface
	Playthroughs playthroughsController.PlaythroughsControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:         authController.New(services, repos, eventBus, config, db),
		Collection:   collectionController.New(repos, eventBus, config),
		Playthroughs: playthroughsController.New(repos, eventBus, config),
	}
}
