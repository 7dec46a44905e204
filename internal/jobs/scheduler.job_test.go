package jobs

import (
	"testing"

	"playlater/config"
	"playlater/internal/repositories"
	"playlater/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestSessionCleanupJob_Name(t *testing.T) {
	job := &SessionCleanupJob{}
	assert.Equal(t, "ExpiredSessionCleanup", job.Name())
}

func TestMetadataRefreshJob_Name(t *testing.T) {
	job := &MetadataRefreshJob{}
	assert.Equal(t, "GameMetadataRefresh", job.Name())
}

func TestJobSchedules(t *testing.T) {
	cleanup := NewSessionCleanupJob(nil, Hourly)
	assert.Equal(t, services.Hourly, cleanup.Schedule())

	refresh := NewMetadataRefreshJob(nil, nil, Daily)
	assert.Equal(t, services.Daily, refresh.Schedule())
}

func TestRegisterAllJobs_SchedulerDisabled(t *testing.T) {
	schedulerService := services.NewSchedulerService()
	cfg := config.Config{SchedulerEnabled: false}

	err := RegisterAllJobs(schedulerService, cfg, repositories.Repository{}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, schedulerService.GetJobCount())
}

func TestRegisterAllJobs_RegistersEveryJob(t *testing.T) {
	// Registration only wires jobs into the scheduler; nothing executes
	// until Start is called.
	schedulerService := services.NewSchedulerService()
	cfg := config.Config{SchedulerEnabled: true}

	err := RegisterAllJobs(schedulerService, cfg, repositories.Repository{}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 2, schedulerService.GetJobCount())
	assert.False(t, schedulerService.IsRunning())
}
