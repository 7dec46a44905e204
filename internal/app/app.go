package app

import (
	"context"

	"playlater/config"
	"playlater/internal/controllers"
	"playlater/internal/database"
	"playlater/internal/events"
	"playlater/internal/handlers/middleware"
	"playlater/internal/jobs"
	"playlater/internal/repositories"
	"playlater/internal/services"
	"playlater/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	svcs, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, config, repos)
	ctrls := controllers.New(svcs, repos, eventBus, config, db)

	if err := jobs.RegisterAllJobs(svcs.Scheduler, config, repos, eventBus); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}
	if err := svcs.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    svcs,
		Repos:       repos,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Cognito,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Repos.User,
		a.Repos.Game,
		a.Repos.Collection,
		a.Repos.Playthrough,
		a.Repos.Session,
		a.Controllers.Auth,
		a.Controllers.Collection,
		a.Controllers.Playthroughs,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
