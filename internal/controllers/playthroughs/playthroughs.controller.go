package playthroughsController

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"playlater/config"
	"playlater/internal/apperrors"
	"playlater/internal/events"
	. "playlater/internal/models"
	"playlater/internal/repositories"
	"playlater/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type PlaythroughsController struct {
	playthroughRepo repositories.PlaythroughRepository
	collectionRepo  repositories.CollectionRepository
	gameRepo        repositories.GameRepository
	eventBus        *events.EventBus
	config          config.Config
	log             logger.Logger
}

type PlaythroughsControllerInterface interface {
	List(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Playthrough, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*PlaythroughDetail, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*Playthrough, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*DeleteResponse, error)
	Complete(ctx context.Context, userID, id uuid.UUID, req CompleteRequest) (*Playthrough, error)
	Bulk(ctx context.Context, userID uuid.UUID, req BulkRequest) (*BulkResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error)
	Backlog(ctx context.Context, userID uuid.UUID, rawPriority string) (*BacklogResponse, error)
	Playing(ctx context.Context, userID uuid.UUID, platform string) (*PlayingResponse, error)
	Completed(ctx context.Context, userID uuid.UUID, params CompletedParams) (*CompletedResponse, error)
}

// ListParams carries the raw query-string inputs for List. Values stay
// strings so every malformed field lands in one validation response instead
// of whichever strconv call fails first.
type ListParams struct {
	Statuses         []string
	Platforms        []string
	Difficulties     []string
	PlaythroughTypes []string
	RatingMin        string
	RatingMax        string
	PlayTimeMin      string
	PlayTimeMax      string
	StartedAfter     string
	StartedBefore    string
	CompletedAfter   string
	CompletedBefore  string
	UnplayedOnly     string
	Search           string
	SortBy           string
	SortOrder        string
	Limit            string
	Offset           string
}

type FiltersApplied struct {
	Statuses         []PlaythroughStatus `json:"status,omitempty"`
	Platforms        []string            `json:"platform,omitempty"`
	RatingMin        *int                `json:"rating_min,omitempty"`
	RatingMax        *int                `json:"rating_max,omitempty"`
	PlayTimeMin      *float64            `json:"play_time_min,omitempty"`
	PlayTimeMax      *float64            `json:"play_time_max,omitempty"`
	Difficulties     []string            `json:"difficulty,omitempty"`
	PlaythroughTypes []string            `json:"playthrough_type,omitempty"`
	StartedAfter     *time.Time          `json:"started_after,omitempty"`
	StartedBefore    *time.Time          `json:"started_before,omitempty"`
	CompletedAfter   *time.Time          `json:"completed_after,omitempty"`
	CompletedBefore  *time.Time          `json:"completed_before,omitempty"`
	UnplayedOnly     bool                `json:"unplayed_only,omitempty"`
	Search           string              `json:"search,omitempty"`
	SortBy           string              `json:"sort_by"`
	SortOrder        string              `json:"sort_order"`
}

// PlaythroughListItem embeds the game and collection context a list row
// needs, so clients render without follow-up requests.
type PlaythroughListItem struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Status          PlaythroughStatus  `json:"status"`
	Platform        string             `json:"platform"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	PlayTimeHours   *decimal.Decimal   `json:"play_time_hours,omitempty"`
	PlaythroughType *string            `json:"playthrough_type,omitempty"`
	Difficulty      *string            `json:"difficulty,omitempty"`
	Rating          *int               `json:"rating,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Game            GameSummary        `json:"game"`
	Collection      *CollectionSnippet `json:"collection,omitempty"`
}

type ListResponse struct {
	Items          []PlaythroughListItem `json:"items"`
	TotalCount     int64                 `json:"total_count"`
	Limit          int                   `json:"limit"`
	Offset         int                   `json:"offset"`
	FiltersApplied FiltersApplied        `json:"filters_applied"`
}

// PlaythroughDetail is the single-resource view: the embedded game carries
// the full detail fields instead of the list summary.
type PlaythroughDetail struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Status          PlaythroughStatus  `json:"status"`
	Platform        string             `json:"platform"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	PlayTimeHours   *decimal.Decimal   `json:"play_time_hours,omitempty"`
	PlaythroughType *string            `json:"playthrough_type,omitempty"`
	Difficulty      *string            `json:"difficulty,omitempty"`
	Rating          *int               `json:"rating,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Game            GameDetail         `json:"game"`
	Collection      *CollectionSnippet `json:"collection,omitempty"`
}

type CreateRequest struct {
	GameID          uuid.UUID         `json:"game_id"`
	CollectionID    *uuid.UUID        `json:"collection_id"`
	Status          PlaythroughStatus `json:"status"`
	Platform        string            `json:"platform"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	PlayTimeHours   *decimal.Decimal  `json:"play_time_hours"`
	PlaythroughType *string           `json:"playthrough_type"`
	Difficulty      *string           `json:"difficulty"`
	Rating          *int              `json:"rating"`
	Notes           *string           `json:"notes"`
}

// UpdateRequest accepts only the mutable fields. game_id and collection_id
// are parsed as well so an attempt to change one is rejected by name rather
// than silently dropped.
type UpdateRequest struct {
	Status          *PlaythroughStatus `json:"status"`
	Platform        *string            `json:"platform"`
	StartedAt       *time.Time         `json:"started_at"`
	CompletedAt     *time.Time         `json:"completed_at"`
	PlayTimeHours   *decimal.Decimal   `json:"play_time_hours"`
	PlaythroughType *string            `json:"playthrough_type"`
	Difficulty      *string            `json:"difficulty"`
	Rating          *int               `json:"rating"`
	Notes           *string            `json:"notes"`

	GameID       *uuid.UUID `json:"game_id"`
	CollectionID *uuid.UUID `json:"collection_id"`
}

type CompleteRequest struct {
	CompletionType     CompletionType   `json:"completion_type"`
	CompletedAt        *time.Time       `json:"completed_at"`
	FinalPlayTimeHours *decimal.Decimal `json:"final_play_time_hours"`
	Rating             *int             `json:"rating"`
	FinalNotes         *string          `json:"final_notes"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func New(
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) PlaythroughsControllerInterface {
	return &PlaythroughsController{
		playthroughRepo: repos.Playthrough,
		collectionRepo:  repos.Collection,
		gameRepo:        repos.Game,
		eventBus:        eventBus,
		config:          config,
		log:             logger.New("playthroughsController"),
	}
}

func (c *PlaythroughsController) List(
	ctx context.Context,
	userID uuid.UUID,
	params ListParams,
) (*ListResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("List")

	filter, applied, err := buildPlaythroughFilter(params)
	if err != nil {
		return nil, err
	}

	playthroughs, total, err := c.playthroughRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, log.Err("failed to list playthroughs", err, "userID", userID)
	}

	response := &ListResponse{
		Items:          make([]PlaythroughListItem, 0, len(playthroughs)),
		TotalCount:     total,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
		FiltersApplied: applied,
	}
	for i := range playthroughs {
		response.Items = append(response.Items, toListItem(&playthroughs[i]))
	}

	return response, nil
}

func (c *PlaythroughsController) Create(
	ctx context.Context,
	userID uuid.UUID,
	req CreateRequest,
) (*Playthrough, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	var fields []apperrors.FieldError
	if req.GameID == uuid.Nil {
		fields = append(fields, apperrors.FieldError{
			Field:   "game_id",
			Message: "game_id is required",
		})
	}
	req.Platform = strings.TrimSpace(req.Platform)
	if req.Platform == "" {
		fields = append(fields, apperrors.FieldError{
			Field:   "platform",
			Message: "platform is required",
		})
	}
	if req.Status == "" {
		req.Status = StatusPlanning
	} else if req.Status != StatusPlanning && req.Status != StatusPlaying {
		fields = append(fields, apperrors.FieldError{
			Field:   "status",
			Message: "status must be PLANNING or PLAYING when creating a playthrough",
		})
	}
	fields = append(fields, validatePlayFields(req.Rating, req.PlayTimeHours)...)
	if req.StartedAt != nil && req.CompletedAt != nil &&
		!req.CompletedAt.After(*req.StartedAt) {
		fields = append(fields, apperrors.FieldError{
			Field:   "completed_at",
			Message: "completed_at must be after started_at",
		})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	exists, err := c.gameRepo.Exists(ctx, req.GameID)
	if err != nil {
		return nil, log.Err("failed to check game", err, "gameID", req.GameID)
	}
	if !exists {
		return nil, apperrors.NotFound("Game")
	}

	if req.CollectionID != nil {
		item, err := c.collectionRepo.GetByID(ctx, userID, *req.CollectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("Collection item")
			}
			return nil, log.Err("failed to load collection item", err,
				"collectionID", *req.CollectionID)
		}
		if item.GameID != req.GameID {
			return nil, apperrors.Validation(apperrors.FieldError{
				Field:   "collection_id",
				Message: "collection item is for a different game",
			})
		}
	}

	playthrough := &Playthrough{
		UserID:          userID,
		GameID:          req.GameID,
		CollectionID:    req.CollectionID,
		Status:          req.Status,
		Platform:        req.Platform,
		StartedAt:       req.StartedAt,
		CompletedAt:     req.CompletedAt,
		PlayTimeHours:   req.PlayTimeHours,
		PlaythroughType: req.PlaythroughType,
		Difficulty:      req.Difficulty,
		Rating:          req.Rating,
		Notes:           req.Notes,
	}
	if err := c.playthroughRepo.Create(ctx, playthrough); err != nil {
		return nil, log.Err("failed to create playthrough", err,
			"userID", userID, "gameID", req.GameID)
	}

	log.Info("playthrough created",
		"id", playthrough.ID, "gameID", playthrough.GameID, "status", playthrough.Status)
	c.publishActivity(log, userID, events.PLAYTHROUGH_CREATED, map[string]any{
		"id":       playthrough.ID.String(),
		"game_id":  playthrough.GameID.String(),
		"status":   string(playthrough.Status),
		"platform": playthrough.Platform,
	})

	return playthrough, nil
}

func (c *PlaythroughsController) Get(
	ctx context.Context,
	userID, id uuid.UUID,
) (*PlaythroughDetail, error) {
	log := c.log.TraceFromContext(ctx).Function("Get")

	playthrough, err := c.playthroughRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Playthrough")
		}
		return nil, log.Err("failed to load playthrough", err, "id", id)
	}

	return toDetail(playthrough), nil
}

func (c *PlaythroughsController) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	req UpdateRequest,
) (*Playthrough, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	if fields := immutablePlaythroughFields(req); len(fields) > 0 {
		return nil, apperrors.ImmutableFields(fields...)
	}

	var fields []apperrors.FieldError
	if req.Status != nil && !req.Status.IsValid() {
		fields = append(fields, apperrors.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q", *req.Status),
		})
	}
	if req.Platform != nil && strings.TrimSpace(*req.Platform) == "" {
		fields = append(fields, apperrors.FieldError{
			Field:   "platform",
			Message: "platform must not be empty",
		})
	}
	fields = append(fields, validatePlayFields(req.Rating, req.PlayTimeHours)...)
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	playthrough, err := c.playthroughRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Playthrough")
		}
		return nil, log.Err("failed to load playthrough", err, "id", id)
	}

	previousStatus := playthrough.Status
	statusChanging := req.Status != nil && *req.Status != playthrough.Status
	if statusChanging {
		if !playthrough.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.InvalidTransition(
				string(playthrough.Status), string(*req.Status),
			)
		}
		if *req.Status == StatusCompleted &&
			req.CompletedAt == nil && playthrough.CompletedAt == nil {
			return nil, apperrors.Validation(apperrors.FieldError{
				Field:   "completed_at",
				Message: "completed_at is required when marking a playthrough completed",
			})
		}
	}

	if req.Status != nil {
		playthrough.Status = *req.Status
	}
	if req.Platform != nil {
		playthrough.Platform = strings.TrimSpace(*req.Platform)
	}
	if req.StartedAt != nil {
		playthrough.StartedAt = req.StartedAt
	}
	if req.CompletedAt != nil {
		playthrough.CompletedAt = req.CompletedAt
	}
	if req.PlayTimeHours != nil {
		playthrough.PlayTimeHours = req.PlayTimeHours
	}
	if req.PlaythroughType != nil {
		playthrough.PlaythroughType = req.PlaythroughType
	}
	if req.Difficulty != nil {
		playthrough.Difficulty = req.Difficulty
	}
	if req.Rating != nil {
		playthrough.Rating = req.Rating
	}
	if req.Notes != nil {
		playthrough.Notes = req.Notes
	}

	if statusChanging && *req.Status == StatusPlaying && playthrough.StartedAt == nil {
		now := time.Now().UTC()
		playthrough.StartedAt = &now
	}

	if playthrough.StartedAt != nil && playthrough.CompletedAt != nil &&
		!playthrough.CompletedAt.After(*playthrough.StartedAt) {
		return nil, apperrors.Validation(apperrors.FieldError{
			Field:   "completed_at",
			Message: "completed_at must be after started_at",
		})
	}

	if err := c.playthroughRepo.Update(ctx, playthrough); err != nil {
		return nil, log.Err("failed to update playthrough", err, "id", id)
	}

	if statusChanging {
		log.Info("playthrough status changed",
			"id", id, "from", previousStatus, "to", playthrough.Status)
		c.publishActivity(log, userID, events.PLAYTHROUGH_STATUS_CHANGED, map[string]any{
			"id":   id.String(),
			"from": string(previousStatus),
			"to":   string(playthrough.Status),
		})
	} else {
		c.publishActivity(log, userID, events.PLAYTHROUGH_UPDATED, map[string]any{
			"id": id.String(),
		})
	}

	return playthrough, nil
}

func (c *PlaythroughsController) Delete(
	ctx context.Context,
	userID, id uuid.UUID,
) (*DeleteResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	if err := c.playthroughRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Playthrough")
		}
		return nil, log.Err("failed to delete playthrough", err, "id", id)
	}

	log.Info("playthrough deleted", "id", id)
	c.publishActivity(log, userID, events.PLAYTHROUGH_DELETED, map[string]any{
		"id": id.String(),
	})

	return &DeleteResponse{Success: true, Message: "Playthrough deleted successfully"}, nil
}

func (c *PlaythroughsController) Complete(
	ctx context.Context,
	userID, id uuid.UUID,
	req CompleteRequest,
) (*Playthrough, error) {
	log := c.log.TraceFromContext(ctx).Function("Complete")

	var fields []apperrors.FieldError
	if req.CompletionType == "" {
		fields = append(fields, apperrors.FieldError{
			Field:   "completion_type",
			Message: "completion_type is required",
		})
	} else if !req.CompletionType.IsValid() {
		fields = append(fields, apperrors.FieldError{
			Field:   "completion_type",
			Message: "completion_type must be one of COMPLETED, MASTERED, DROPPED, ON_HOLD",
		})
	}
	fields = append(fields, validatePlayFields(req.Rating, req.FinalPlayTimeHours)...)
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	playthrough, err := c.playthroughRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Playthrough")
		}
		return nil, log.Err("failed to load playthrough", err, "id", id)
	}

	switch playthrough.Status {
	case StatusCompleted, StatusMastered, StatusDropped:
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Playthrough is already completed with status %s", playthrough.Status,
		))
	}

	target := PlaythroughStatus(req.CompletionType)
	if !playthrough.Status.CanTransitionTo(target) {
		return nil, apperrors.InvalidTransition(string(playthrough.Status), string(target))
	}

	previousStatus := playthrough.Status
	playthrough.Status = target

	// ON_HOLD records the final fields but is a pause, not an ending, so it
	// never stamps completed_at.
	if target != StatusOnHold {
		switch {
		case req.CompletedAt != nil:
			playthrough.CompletedAt = req.CompletedAt
		case playthrough.CompletedAt == nil:
			now := time.Now().UTC()
			playthrough.CompletedAt = &now
		}
	}
	if req.FinalPlayTimeHours != nil {
		playthrough.PlayTimeHours = req.FinalPlayTimeHours
	}
	if req.Rating != nil {
		playthrough.Rating = req.Rating
	}
	if req.FinalNotes != nil {
		playthrough.Notes = req.FinalNotes
	}

	if playthrough.StartedAt != nil && playthrough.CompletedAt != nil &&
		!playthrough.CompletedAt.After(*playthrough.StartedAt) {
		return nil, apperrors.Validation(apperrors.FieldError{
			Field:   "completed_at",
			Message: "completed_at must be after started_at",
		})
	}

	if err := c.playthroughRepo.Update(ctx, playthrough); err != nil {
		return nil, log.Err("failed to complete playthrough", err, "id", id)
	}

	log.Info("playthrough completed",
		"id", id, "from", previousStatus, "to", playthrough.Status)
	c.publishActivity(log, userID, events.PLAYTHROUGH_STATUS_CHANGED, map[string]any{
		"id":   id.String(),
		"from": string(previousStatus),
		"to":   string(playthrough.Status),
	})

	return playthrough, nil
}

// validatePlayFields covers the bounds shared by create, update, and
// complete payloads.
func validatePlayFields(rating *int, playTime *decimal.Decimal) []apperrors.FieldError {
	var fields []apperrors.FieldError
	if rating != nil && (*rating < 1 || *rating > 10) {
		fields = append(fields, apperrors.FieldError{
			Field:   "rating",
			Message: "rating must be between 1 and 10",
		})
	}
	if playTime != nil && playTime.IsNegative() {
		fields = append(fields, apperrors.FieldError{
			Field:   "play_time_hours",
			Message: "play_time_hours must not be negative",
		})
	}
	return fields
}

func immutablePlaythroughFields(req UpdateRequest) []string {
	var fields []string
	if req.GameID != nil {
		fields = append(fields, "game_id")
	}
	if req.CollectionID != nil {
		fields = append(fields, "collection_id")
	}
	return fields
}

func buildPlaythroughFilter(params ListParams) (repositories.PlaythroughFilter, FiltersApplied, error) {
	var fields []apperrors.FieldError

	filter := repositories.PlaythroughFilter{
		Platforms:        cleanValues(params.Platforms),
		Difficulties:     cleanValues(params.Difficulties),
		PlaythroughTypes: cleanValues(params.PlaythroughTypes),
		Search:           strings.TrimSpace(params.Search),
		SortBy:           "updated_at",
		SortOrder:        "desc",
		Limit:            defaultListLimit,
	}

	for _, raw := range cleanValues(params.Statuses) {
		status := PlaythroughStatus(raw)
		if !status.IsValid() {
			fields = append(fields, apperrors.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", raw),
			})
			continue
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	unplayedOnly := false
	if params.UnplayedOnly != "" {
		parsed, err := strconv.ParseBool(params.UnplayedOnly)
		if err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "unplayed_only",
				Message: "unplayed_only must be true or false",
			})
		} else {
			unplayedOnly = parsed
		}
	}

	if min, ok := parseIntParam(params.RatingMin, "rating_min", 1, 10, &fields); ok {
		filter.RatingMin = min
	}
	if max, ok := parseIntParam(params.RatingMax, "rating_max", 1, 10, &fields); ok {
		filter.RatingMax = max
	}
	if filter.RatingMin != nil && filter.RatingMax != nil &&
		*filter.RatingMin > *filter.RatingMax {
		fields = append(fields, apperrors.FieldError{
			Field:   "rating_min",
			Message: "rating_min must be <= rating_max",
		})
	}

	if params.PlayTimeMin != "" {
		v, err := strconv.ParseFloat(params.PlayTimeMin, 64)
		if err != nil || v < 0 {
			fields = append(fields, apperrors.FieldError{
				Field:   "play_time_min",
				Message: "play_time_min must be a non-negative number",
			})
		} else {
			filter.PlayTimeMin = &v
		}
	}
	if params.PlayTimeMax != "" {
		v, err := strconv.ParseFloat(params.PlayTimeMax, 64)
		if err != nil || v < 0 {
			fields = append(fields, apperrors.FieldError{
				Field:   "play_time_max",
				Message: "play_time_max must be a non-negative number",
			})
		} else {
			filter.PlayTimeMax = &v
		}
	}
	if filter.PlayTimeMin != nil && filter.PlayTimeMax != nil &&
		*filter.PlayTimeMin > *filter.PlayTimeMax {
		fields = append(fields, apperrors.FieldError{
			Field:   "play_time_min",
			Message: "play_time_min must be <= play_time_max",
		})
	}

	parseDateParam(params.StartedAfter, "started_after", false, &filter.StartedAfter, &fields)
	parseDateParam(params.StartedBefore, "started_before", true, &filter.StartedBefore, &fields)
	parseDateParam(params.CompletedAfter, "completed_after", false, &filter.CompletedAfter, &fields)
	parseDateParam(params.CompletedBefore, "completed_before", true, &filter.CompletedBefore, &fields)

	if params.SortBy != "" {
		if _, ok := repositories.PlaythroughSortColumns[params.SortBy]; !ok {
			fields = append(fields, apperrors.FieldError{
				Field:   "sort_by",
				Message: fmt.Sprintf("unsupported sort column %q", params.SortBy),
			})
		} else {
			filter.SortBy = params.SortBy
		}
	}
	if params.SortOrder != "" {
		order := strings.ToLower(params.SortOrder)
		if order != "asc" && order != "desc" {
			fields = append(fields, apperrors.FieldError{
				Field:   "sort_order",
				Message: "sort_order must be asc or desc",
			})
		} else {
			filter.SortOrder = order
		}
	}

	if params.Limit != "" {
		limit, err := strconv.Atoi(params.Limit)
		if err != nil || limit < 1 || limit > maxListLimit {
			fields = append(fields, apperrors.FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("limit must be an integer between 1 and %d", maxListLimit),
			})
		} else {
			filter.Limit = limit
		}
	}
	if params.Offset != "" {
		offset, err := strconv.Atoi(params.Offset)
		if err != nil || offset < 0 {
			fields = append(fields, apperrors.FieldError{
				Field:   "offset",
				Message: "offset must be a non-negative integer",
			})
		} else {
			filter.Offset = offset
		}
	}

	if len(fields) > 0 {
		return repositories.PlaythroughFilter{}, FiltersApplied{}, apperrors.Validation(fields...)
	}

	// unplayed_only narrows to the backlog. Combining it with a status
	// filter that names anything else cannot match, so it is rejected
	// before the query rather than returning a silently empty page.
	if unplayedOnly {
		for _, status := range filter.Statuses {
			if status != StatusPlanning {
				return repositories.PlaythroughFilter{}, FiltersApplied{},
					apperrors.ConflictingFilters(fmt.Sprintf(
						"unplayed_only cannot be combined with status=%s", status,
					))
			}
		}
		filter.Statuses = []PlaythroughStatus{StatusPlanning}
	}

	applied := FiltersApplied{
		Statuses:         filter.Statuses,
		Platforms:        filter.Platforms,
		RatingMin:        filter.RatingMin,
		RatingMax:        filter.RatingMax,
		PlayTimeMin:      filter.PlayTimeMin,
		PlayTimeMax:      filter.PlayTimeMax,
		Difficulties:     filter.Difficulties,
		PlaythroughTypes: filter.PlaythroughTypes,
		StartedAfter:     filter.StartedAfter,
		StartedBefore:    filter.StartedBefore,
		CompletedAfter:   filter.CompletedAfter,
		CompletedBefore:  filter.CompletedBefore,
		UnplayedOnly:     unplayedOnly,
		Search:           filter.Search,
		SortBy:           filter.SortBy,
		SortOrder:        filter.SortOrder,
	}

	return filter, applied, nil
}

func parseIntParam(
	raw, name string,
	lo, hi int,
	fields *[]apperrors.FieldError,
) (*int, bool) {
	if raw == "" {
		return nil, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		*fields = append(*fields, apperrors.FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi),
		})
		return nil, false
	}
	return &v, true
}

func parseDateParam(
	raw, name string,
	upperBound bool,
	dest **time.Time,
	fields *[]apperrors.FieldError,
) {
	if raw == "" {
		return
	}

	var (
		t   time.Time
		err error
	)
	if upperBound {
		t, err = utils.ParseBeforeBound(raw)
	} else {
		t, err = utils.ParseFlexibleTime(raw)
	}
	if err != nil {
		*fields = append(*fields, apperrors.FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be an RFC3339 timestamp or YYYY-MM-DD date", name),
		})
		return
	}
	*dest = &t
}

func toListItem(p *Playthrough) PlaythroughListItem {
	item := PlaythroughListItem{
		ID:              p.ID,
		UserID:          p.UserID,
		Status:          p.Status,
		Platform:        p.Platform,
		StartedAt:       p.StartedAt,
		CompletedAt:     p.CompletedAt,
		PlayTimeHours:   p.PlayTimeHours,
		PlaythroughType: p.PlaythroughType,
		Difficulty:      p.Difficulty,
		Rating:          p.Rating,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Game:            p.Game.ToSummary(),
	}
	if p.Collection != nil {
		snippet := p.Collection.ToSnippet()
		item.Collection = &snippet
	}
	return item
}

func toDetail(p *Playthrough) *PlaythroughDetail {
	detail := &PlaythroughDetail{
		ID:              p.ID,
		UserID:          p.UserID,
		Status:          p.Status,
		Platform:        p.Platform,
		StartedAt:       p.StartedAt,
		CompletedAt:     p.CompletedAt,
		PlayTimeHours:   p.PlayTimeHours,
		PlaythroughType: p.PlaythroughType,
		Difficulty:      p.Difficulty,
		Rating:          p.Rating,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Game:            p.Game.ToDetail(),
	}
	if p.Collection != nil {
		snippet := p.Collection.ToSnippet()
		detail.Collection = &snippet
	}
	return detail
}

// cleanValues trims each value and drops empties, so ?status=&status=PLAYING
// filters on PLAYING alone.
func cleanValues(values []string) []string {
	var cleaned []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func (c *PlaythroughsController) publishActivity(
	log logger.Logger,
	userID uuid.UUID,
	eventType events.MessageType,
	data map[string]any,
) {
	if err := c.eventBus.PublishActivity(userID, eventType, data); err != nil {
		log.Warn("failed to publish playthrough event", "type", string(eventType), "error", err)
	}
}
