package playthroughsController

import (
	"context"
	"errors"
	"testing"

	"playlater/internal/apperrors"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func statusPtr(s PlaythroughStatus) *PlaythroughStatus {
	return &s
}

func strPtr(s string) *string {
	return &s
}

func TestBulk_Validation(t *testing.T) {
	// Validation runs before any lookup, so a controller without
	// repositories is enough to exercise it.
	controller := &PlaythroughsController{log: logger.New("playthroughsController")}
	ids := []uuid.UUID{uuid.New()}

	tests := []struct {
		name   string
		req    BulkRequest
		fields []string
	}{
		{
			name:   "Unknown action",
			req:    BulkRequest{Action: "archive", PlaythroughIDs: ids},
			fields: []string{"action"},
		},
		{
			name:   "Update status without a status",
			req:    BulkRequest{Action: BulkUpdateStatus, PlaythroughIDs: ids},
			fields: []string{"status"},
		},
		{
			name: "Update status with an unknown status",
			req: BulkRequest{
				Action:         BulkUpdateStatus,
				PlaythroughIDs: ids,
				Status:         statusPtr("FINISHED"),
			},
			fields: []string{"status"},
		},
		{
			name:   "Update platform without a platform",
			req:    BulkRequest{Action: BulkUpdatePlatform, PlaythroughIDs: ids},
			fields: []string{"platform"},
		},
		{
			name: "Update platform with an empty platform",
			req: BulkRequest{
				Action:         BulkUpdatePlatform,
				PlaythroughIDs: ids,
				Platform:       strPtr(""),
			},
			fields: []string{"platform"},
		},
		{
			name:   "Add time without hours",
			req:    BulkRequest{Action: BulkAddTime, PlaythroughIDs: ids},
			fields: []string{"hours"},
		},
		{
			name: "Add time with non-positive hours",
			req: BulkRequest{
				Action:         BulkAddTime,
				PlaythroughIDs: ids,
				Hours:          decPtr("0"),
			},
			fields: []string{"hours"},
		},
		{
			name:   "Delete without ids",
			req:    BulkRequest{Action: BulkDelete},
			fields: []string{"playthrough_ids"},
		},
		{
			name:   "Everything wrong at once",
			req:    BulkRequest{Action: "archive"},
			fields: []string{"action", "playthrough_ids"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := controller.Bulk(context.Background(), uuid.New(), tt.req)

			assert.Nil(t, response)
			require.Error(t, err)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)

			fields := make([]string, 0, len(appErr.Details))
			for _, d := range appErr.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestBulkFailure(t *testing.T) {
	log := logger.New("playthroughsController")
	id := uuid.New()

	t.Run("Missing rows report not found", func(t *testing.T) {
		failure := bulkFailure(log, id, gorm.ErrRecordNotFound, "failed to update playthrough")

		require.NotNil(t, failure)
		assert.Equal(t, id, failure.ID)
		assert.Equal(t, "Playthrough not found", failure.Error)
	})

	t.Run("Other errors report the action message", func(t *testing.T) {
		failure := bulkFailure(log, id, errors.New("connection reset"), "failed to delete playthrough")

		require.NotNil(t, failure)
		assert.Equal(t, "failed to delete playthrough", failure.Error)
	})
}
