package jobs

import (
	"context"
	"time"

	"playlater/internal/repositories"
	"playlater/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type SessionCleanupJob struct {
	sessionRepo repositories.SessionRepository
	log         logger.Logger
	schedule    services.Schedule
}

func NewSessionCleanupJob(
	sessionRepo repositories.SessionRepository,
	schedule services.Schedule,
) *SessionCleanupJob {
	log := logger.New("sessionCleanupJob")
	log.Info("Creating new session cleanup job", "schedule", schedule)

	return &SessionCleanupJob{
		sessionRepo: sessionRepo,
		log:         log,
		schedule:    schedule,
	}
}

func (j *SessionCleanupJob) Name() string {
	return "ExpiredSessionCleanup"
}

// Execute deactivates sessions past their expiry. Auth already deactivates
// expired sessions it touches; the sweep catches the ones whose owner never
// came back.
func (j *SessionCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	swept, err := j.sessionRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		return log.Err("expired session sweep failed", err)
	}

	log.Info("Expired session sweep completed", "deactivated", swept)
	return nil
}

func (j *SessionCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
