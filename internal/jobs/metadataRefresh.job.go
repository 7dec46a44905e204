package jobs

import (
	"context"
	"time"

	"playlater/internal/events"
	"playlater/internal/repositories"
	"playlater/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	metadataRefreshHorizon   = 30 * 24 * time.Hour
	metadataRefreshBatchSize = 200
)

type MetadataRefreshJob struct {
	gameRepo repositories.GameRepository
	eventBus *events.EventBus
	log      logger.Logger
	schedule services.Schedule
}

func NewMetadataRefreshJob(
	gameRepo repositories.GameRepository,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *MetadataRefreshJob {
	log := logger.New("metadataRefreshJob")
	log.Info("Creating new metadata refresh job", "schedule", schedule)

	return &MetadataRefreshJob{
		gameRepo: gameRepo,
		eventBus: eventBus,
		log:      log,
		schedule: schedule,
	}
}

func (j *MetadataRefreshJob) Name() string {
	return "GameMetadataRefresh"
}

// Execute re-stamps one batch of games past the refresh horizon, oldest
// first. The stamp is the hook point for a provider lookup; until one is
// wired in it keeps the staleness queue moving and tells connected clients
// to refetch.
func (j *MetadataRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	horizon := time.Now().Add(-metadataRefreshHorizon)
	games, err := j.gameRepo.ListStaleMetadata(ctx, horizon, metadataRefreshBatchSize)
	if err != nil {
		return log.Err("failed to list stale games", err)
	}

	if len(games) == 0 {
		log.Info("No stale game metadata found")
		return nil
	}

	ids := make([]uuid.UUID, 0, len(games))
	for i := range games {
		ids = append(ids, games[i].ID)
	}

	if err := j.gameRepo.TouchMetadata(ctx, ids); err != nil {
		return log.Err("failed to refresh game metadata", err, "count", len(ids))
	}

	gameIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		gameIDs = append(gameIDs, id.String())
	}
	if err := j.eventBus.Publish(events.BROADCAST_CHANNEL, events.Event{
		Type: events.GAME_METADATA_REFRESHED,
		Data: map[string]any{
			"game_ids": gameIDs,
			"count":    len(gameIDs),
		},
	}); err != nil {
		log.Warn("failed to publish metadata refresh broadcast", "error", err.Error())
	}

	log.Info("Game metadata refresh completed", "count", len(ids))
	return nil
}

func (j *MetadataRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
