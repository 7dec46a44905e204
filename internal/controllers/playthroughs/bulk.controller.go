package playthroughsController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"playlater/internal/apperrors"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BulkAction string

const (
	BulkUpdateStatus   BulkAction = "update_status"
	BulkUpdatePlatform BulkAction = "update_platform"
	BulkAddTime        BulkAction = "add_time"
	BulkDelete         BulkAction = "delete"
)

type BulkRequest struct {
	Action         BulkAction         `json:"action"`
	PlaythroughIDs []uuid.UUID        `json:"playthrough_ids"`
	Status         *PlaythroughStatus `json:"status"`
	Platform       *string            `json:"platform"`
	Hours          *decimal.Decimal   `json:"hours"`
}

type BulkResultItem struct {
	ID            uuid.UUID          `json:"id"`
	Status        *PlaythroughStatus `json:"status,omitempty"`
	Platform      *string            `json:"platform,omitempty"`
	PlayTimeHours *decimal.Decimal   `json:"play_time_hours,omitempty"`
}

type BulkFailedItem struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

type BulkResponse struct {
	Success      bool             `json:"success"`
	UpdatedCount int              `json:"updated_count"`
	Items        []BulkResultItem `json:"items"`
	FailedCount  int              `json:"failed_count,omitempty"`
	FailedItems  []BulkFailedItem `json:"failed_items,omitempty"`
}

// Bulk applies one action to many playthroughs. Items succeed or fail
// independently; a failed id never rolls back the others.
func (c *PlaythroughsController) Bulk(
	ctx context.Context,
	userID uuid.UUID,
	req BulkRequest,
) (*BulkResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Bulk")

	var fields []apperrors.FieldError
	switch req.Action {
	case BulkUpdateStatus:
		if req.Status == nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "status",
				Message: "status is required for the update_status action",
			})
		} else if !req.Status.IsValid() {
			fields = append(fields, apperrors.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", *req.Status),
			})
		}
	case BulkUpdatePlatform:
		if req.Platform == nil || *req.Platform == "" {
			fields = append(fields, apperrors.FieldError{
				Field:   "platform",
				Message: "platform is required for the update_platform action",
			})
		}
	case BulkAddTime:
		if req.Hours == nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "hours",
				Message: "hours is required for the add_time action",
			})
		} else if !req.Hours.IsPositive() {
			fields = append(fields, apperrors.FieldError{
				Field:   "hours",
				Message: "hours must be positive",
			})
		}
	case BulkDelete:
	default:
		fields = append(fields, apperrors.FieldError{
			Field:   "action",
			Message: "action must be one of update_status, update_platform, add_time, delete",
		})
	}
	if len(req.PlaythroughIDs) == 0 {
		fields = append(fields, apperrors.FieldError{
			Field:   "playthrough_ids",
			Message: "at least one playthrough id is required",
		})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	log.Info("bulk playthrough operation",
		"action", string(req.Action), "count", len(req.PlaythroughIDs))

	response := &BulkResponse{Items: make([]BulkResultItem, 0, len(req.PlaythroughIDs))}
	for _, id := range req.PlaythroughIDs {
		item, failure := c.applyBulkAction(ctx, log, userID, id, req)
		if failure != nil {
			response.FailedItems = append(response.FailedItems, *failure)
			continue
		}
		response.Items = append(response.Items, *item)
		response.UpdatedCount++
	}

	response.FailedCount = len(response.FailedItems)
	response.Success = response.FailedCount == 0

	return response, nil
}

func (c *PlaythroughsController) applyBulkAction(
	ctx context.Context,
	log logger.Logger,
	userID, id uuid.UUID,
	req BulkRequest,
) (*BulkResultItem, *BulkFailedItem) {
	switch req.Action {
	case BulkUpdateStatus:
		return c.bulkUpdateStatus(ctx, log, userID, id, *req.Status)
	case BulkUpdatePlatform:
		if err := c.playthroughRepo.UpdatePlatform(ctx, userID, id, *req.Platform); err != nil {
			return nil, bulkFailure(log, id, err, "failed to update playthrough")
		}
		return &BulkResultItem{ID: id, Platform: req.Platform}, nil
	case BulkAddTime:
		return c.bulkAddTime(ctx, log, userID, id, *req.Hours)
	default:
		if err := c.playthroughRepo.Delete(ctx, userID, id); err != nil {
			return nil, bulkFailure(log, id, err, "failed to delete playthrough")
		}
		return &BulkResultItem{ID: id}, nil
	}
}

// bulkUpdateStatus runs the same transition rules as single updates. With no
// per-item payload to supply timestamps, entering PLAYING or a finished
// state stamps the missing one with now.
func (c *PlaythroughsController) bulkUpdateStatus(
	ctx context.Context,
	log logger.Logger,
	userID, id uuid.UUID,
	status PlaythroughStatus,
) (*BulkResultItem, *BulkFailedItem) {
	playthrough, err := c.playthroughRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, bulkFailure(log, id, err, "failed to update playthrough")
	}

	if !playthrough.Status.CanTransitionTo(status) {
		return nil, &BulkFailedItem{
			ID: id,
			Error: fmt.Sprintf(
				"Invalid status transition from %s to %s", playthrough.Status, status,
			),
		}
	}

	now := time.Now().UTC()
	playthrough.Status = status
	if status == StatusPlaying && playthrough.StartedAt == nil {
		playthrough.StartedAt = &now
	} else if status.IsCompletedOrBetter() && playthrough.CompletedAt == nil {
		playthrough.CompletedAt = &now
	}

	if err := c.playthroughRepo.Update(ctx, playthrough); err != nil {
		return nil, bulkFailure(log, id, err, "failed to update playthrough")
	}

	return &BulkResultItem{ID: id, Status: &playthrough.Status}, nil
}

func (c *PlaythroughsController) bulkAddTime(
	ctx context.Context,
	log logger.Logger,
	userID, id uuid.UUID,
	hours decimal.Decimal,
) (*BulkResultItem, *BulkFailedItem) {
	playthrough, err := c.playthroughRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, bulkFailure(log, id, err, "failed to update playthrough")
	}

	total := hours
	if playthrough.PlayTimeHours != nil {
		total = playthrough.PlayTimeHours.Add(hours)
	}
	playthrough.PlayTimeHours = &total

	if err := c.playthroughRepo.Update(ctx, playthrough); err != nil {
		return nil, bulkFailure(log, id, err, "failed to update playthrough")
	}

	return &BulkResultItem{ID: id, PlayTimeHours: &total}, nil
}

func bulkFailure(log logger.Logger, id uuid.UUID, err error, message string) *BulkFailedItem {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BulkFailedItem{ID: id, Error: "Playthrough not found"}
	}
	log.Er("bulk playthrough action failed", err, "id", id)
	return &BulkFailedItem{ID: id, Error: message}
}
