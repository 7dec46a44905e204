package middleware

import (
	"playlater/config"
	"playlater/internal/database"
	"playlater/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB          database.DB
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	Config      config.Config
	log         logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:          db,
		userRepo:    repos.User,
		sessionRepo: repos.Session,
		Config:      config,
		log:         log,
	}
}
