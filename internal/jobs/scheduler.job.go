package jobs

import (
	"playlater/config"
	"playlater/internal/events"
	"playlater/internal/repositories"
	"playlater/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// Import schedule constants
const (
	Hourly = services.Hourly
	Daily  = services.Daily
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	repos repositories.Repository,
	eventBus *events.EventBus,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	sessionCleanupJob := NewSessionCleanupJob(repos.Session, Hourly)
	if err := schedulerService.AddJob(sessionCleanupJob); err != nil {
		return log.Err("failed to register session cleanup job", err)
	}
	log.Info("Registered session cleanup job", "schedule", "hourly")

	metadataRefreshJob := NewMetadataRefreshJob(repos.Game, eventBus, Daily)
	if err := schedulerService.AddJob(metadataRefreshJob); err != nil {
		return log.Err("failed to register metadata refresh job", err)
	}
	log.Info("Registered metadata refresh job", "schedule", "daily")

	return nil
}
