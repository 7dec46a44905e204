package collectionController

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// Replacement-value estimates per copy, in USD.
var (
	digitalUnitValue  = decimal.RequireFromString("45.99")
	physicalUnitValue = decimal.RequireFromString("59.99")
)

type CollectionController struct {
	collectionRepo repositories.CollectionRepository
	gameRepo       repositories.GameRepository
	eventBus       *events.EventBus
	config         config.Config
	log            logger.Logger
}

type CollectionControllerInterface interface {
	List(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*CollectionItemExpanded, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*CollectionItemExpanded, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*CollectionItemExpanded, error)
	Delete(ctx context.Context, userID, id uuid.UUID, hard bool) (*DeleteResult, error)
	Bulk(ctx context.Context, userID uuid.UUID, req BulkRequest) (*BulkResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error)
}

// ListParams carries the raw query-string inputs for List. Values stay
// strings so every malformed field lands in one validation response instead
// of whichever strconv call fails first.
type ListParams struct {
	Platforms        []string
	AcquisitionTypes []string
	Priorities       []string
	IsActive         string
	AcquiredAfter    string
	AcquiredBefore   string
	Search           string
	SortBy           string
	SortOrder        string
	Limit            string
	Offset           string
}

// FiltersApplied echoes the filters a listing was produced with, after
// validation and defaulting.
type FiltersApplied struct {
	Platforms        []string          `json:"platform,omitempty"`
	AcquisitionTypes []AcquisitionType `json:"acquisition_type,omitempty"`
	Priorities       []int             `json:"priority,omitempty"`
	IsActive         *bool             `json:"is_active,omitempty"`
	AcquiredAfter    *time.Time        `json:"acquired_after,omitempty"`
	AcquiredBefore   *time.Time        `json:"acquired_before,omitempty"`
	Search           string            `json:"search,omitempty"`
	SortBy           string            `json:"sort_by"`
	SortOrder        string            `json:"sort_order"`
}

// CollectionItemExpanded is the full representation every read endpoint
// returns, with the game and playthrough history embedded.
type CollectionItemExpanded struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	Game            GameDetail           `json:"game"`
	Platform        string               `json:"platform"`
	AcquisitionType AcquisitionType      `json:"acquisition_type"`
	AcquiredAt      *time.Time           `json:"acquired_at,omitempty"`
	Priority        *int                 `json:"priority,omitempty"`
	IsActive        bool                 `json:"is_active"`
	Notes           *string              `json:"notes,omitempty"`
	Playthroughs    []PlaythroughSnippet `json:"playthroughs"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type ListResponse struct {
	Items          []CollectionItemExpanded `json:"items"`
	TotalCount     int64                    `json:"total_count"`
	Limit          int                      `json:"limit"`
	Offset         int                      `json:"offset"`
	FiltersApplied FiltersApplied           `json:"filters_applied"`
}

type CreateRequest struct {
	GameID          uuid.UUID       `json:"game_id"`
	Platform        string          `json:"platform"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquiredAt      *time.Time      `json:"acquired_at"`
	Priority        *int            `json:"priority"`
	Notes           *string         `json:"notes"`
}

// UpdateRequest accepts only the mutable fields. The identity fields are
// parsed as well so an attempt to change one is rejected by name rather
// than silently dropped.
type UpdateRequest struct {
	Priority *int    `json:"priority"`
	IsActive *bool   `json:"is_active"`
	Notes    *string `json:"notes"`

	GameID          *uuid.UUID       `json:"game_id"`
	Platform        *string          `json:"platform"`
	AcquisitionType *AcquisitionType `json:"acquisition_type"`
	AcquiredAt      *time.Time       `json:"acquired_at"`
}

type DeleteResult struct {
	Message  string    `json:"message"`
	ID       uuid.UUID `json:"id"`
	IsActive *bool     `json:"is_active,omitempty"`
}

type BulkAction string

const (
	BulkUpdatePriority BulkAction = "update_priority"
	BulkHide           BulkAction = "hide"
	BulkActivate       BulkAction = "activate"
)

type BulkRequest struct {
	Action        BulkAction  `json:"action"`
	CollectionIDs []uuid.UUID `json:"collection_ids"`
	Priority      *int        `json:"priority"`
}

type BulkItemResult struct {
	ID       uuid.UUID `json:"id"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Priority *int      `json:"priority,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
}

type BulkResponse struct {
	Success      bool             `json:"success"`
	UpdatedCount int              `json:"updated_count"`
	TotalCount   int              `json:"total_count"`
	Results      []BulkItemResult `json:"results"`
}

type ValueEstimate struct {
	Digital  decimal.Decimal `json:"digital"`
	Physical decimal.Decimal `json:"physical"`
	Currency string          `json:"currency"`
}

type RecentAdditionGame struct {
	Title        string  `json:"title"`
	CoverImageID *string `json:"cover_image_id,omitempty"`
}

type RecentAddition struct {
	Game       RecentAdditionGame `json:"game"`
	Platform   string             `json:"platform"`
	AcquiredAt time.Time          `json:"acquired_at"`
}

type StatsResponse struct {
	TotalGames        int              `json:"total_games"`
	ByPlatform        map[string]int   `json:"by_platform"`
	ByAcquisitionType map[string]int   `json:"by_acquisition_type"`
	ByPriority        map[string]int   `json:"by_priority"`
	ValueEstimate     *ValueEstimate   `json:"value_estimate"`
	RecentAdditions   []RecentAddition `json:"recent_additions"`
}

func New(
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) CollectionControllerInterface {
	return &CollectionController{
		collectionRepo: repos.Collection,
		gameRepo:       repos.Game,
		eventBus:       eventBus,
		config:         config,
		log:            logger.New("collectionController"),
	}
}

func (c *CollectionController) List(
	ctx context.Context,
	userID uuid.UUID,
	params ListParams,
) (*ListResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("List")

	filter, applied, err := buildCollectionFilter(params)
	if err != nil {
		return nil, err
	}

	items, total, err := c.collectionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, log.Err("failed to list collection items", err, "userID", userID)
	}

	response := &ListResponse{
		Items:          make([]CollectionItemExpanded, 0, len(items)),
		TotalCount:     total,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
		FiltersApplied: applied,
	}
	for i := range items {
		response.Items = append(response.Items, expandItem(&items[i]))
	}

	return response, nil
}

func (c *CollectionController) Create(
	ctx context.Context,
	userID uuid.UUID,
	req CreateRequest,
) (*CollectionItemExpanded, error) {
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
	if req.AcquisitionType == "" {
		fields = append(fields, apperrors.FieldError{
			Field:   "acquisition_type",
			Message: "acquisition_type is required",
		})
	} else if !req.AcquisitionType.IsValid() {
		fields = append(fields, apperrors.FieldError{
			Field:   "acquisition_type",
			Message: fmt.Sprintf("unknown acquisition type %q", req.AcquisitionType),
		})
	}
	if req.Priority != nil && (*req.Priority < 1 || *req.Priority > 5) {
		fields = append(fields, apperrors.FieldError{
			Field:   "priority",
			Message: "priority must be between 1 and 5",
		})
	}
	if req.AcquiredAt != nil && req.AcquiredAt.After(time.Now()) {
		fields = append(fields, apperrors.FieldError{
			Field:   "acquired_at",
			Message: "acquired_at must not be in the future",
		})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	game, err := c.gameRepo.GetByID(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Game")
		}
		return nil, log.Err("failed to load game", err, "gameID", req.GameID)
	}

	item := &CollectionItem{
		UserID:          userID,
		GameID:          req.GameID,
		Platform:        req.Platform,
		AcquisitionType: req.AcquisitionType,
		AcquiredAt:      req.AcquiredAt,
		Priority:        req.Priority,
		IsActive:        true,
		Notes:           req.Notes,
	}
	if err := c.collectionRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict(
				"Collection item already exists for this user, game, and platform",
			)
		}
		return nil, log.Err("failed to create collection item", err,
			"userID", userID, "gameID", req.GameID)
	}
	item.Game = *game

	log.Info("collection item created",
		"id", item.ID, "gameID", item.GameID, "platform", item.Platform)
	c.publishActivity(log, userID, events.COLLECTION_ITEM_CREATED, map[string]any{
		"id":       item.ID.String(),
		"game_id":  item.GameID.String(),
		"platform": item.Platform,
	})

	expanded := expandItem(item)
	return &expanded, nil
}

func (c *CollectionController) Get(
	ctx context.Context,
	userID, id uuid.UUID,
) (*CollectionItemExpanded, error) {
	log := c.log.TraceFromContext(ctx).Function("Get")

	item, err := c.collectionRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Collection item")
		}
		return nil, log.Err("failed to load collection item", err, "id", id)
	}

	expanded := expandItem(item)
	return &expanded, nil
}

func (c *CollectionController) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	req UpdateRequest,
) (*CollectionItemExpanded, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	if fields := immutableCollectionFields(req); len(fields) > 0 {
		return nil, apperrors.ImmutableFields(fields...)
	}
	if req.Priority != nil && (*req.Priority < 1 || *req.Priority > 5) {
		return nil, apperrors.Validation(apperrors.FieldError{
			Field:   "priority",
			Message: "priority must be between 1 and 5",
		})
	}

	item, err := c.collectionRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Collection item")
		}
		return nil, log.Err("failed to load collection item", err, "id", id)
	}

	changed := false
	if req.Priority != nil {
		item.Priority = req.Priority
		changed = true
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
		changed = true
	}
	if req.Notes != nil {
		item.Notes = req.Notes
		changed = true
	}

	if changed {
		if err := c.collectionRepo.Update(ctx, item); err != nil {
			return nil, log.Err("failed to update collection item", err, "id", id)
		}
		c.publishActivity(log, userID, events.COLLECTION_ITEM_UPDATED, map[string]any{
			"id":        item.ID.String(),
			"game_id":   item.GameID.String(),
			"platform":  item.Platform,
			"is_active": item.IsActive,
		})
	}

	expanded := expandItem(item)
	return &expanded, nil
}

func (c *CollectionController) Delete(
	ctx context.Context,
	userID, id uuid.UUID,
	hard bool,
) (*DeleteResult, error) {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	if hard {
		if err := c.collectionRepo.HardDelete(ctx, userID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("Collection item")
			}
			return nil, log.Err("failed to delete collection item", err, "id", id)
		}

		log.Info("collection item permanently deleted", "id", id)
		c.publishActivity(log, userID, events.COLLECTION_ITEM_DELETED, map[string]any{
			"id":   id.String(),
			"hard": true,
		})

		return &DeleteResult{Message: "Collection item permanently deleted", ID: id}, nil
	}

	if err := c.collectionRepo.SetActive(ctx, userID, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Collection item")
		}
		return nil, log.Err("failed to soft delete collection item", err, "id", id)
	}

	c.publishActivity(log, userID, events.COLLECTION_ITEM_DELETED, map[string]any{
		"id":   id.String(),
		"hard": false,
	})

	inactive := false
	return &DeleteResult{
		Message:  "Collection item soft deleted",
		ID:       id,
		IsActive: &inactive,
	}, nil
}

func (c *CollectionController) Bulk(
	ctx context.Context,
	userID uuid.UUID,
	req BulkRequest,
) (*BulkResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Bulk")

	var fields []apperrors.FieldError
	switch req.Action {
	case BulkUpdatePriority:
		if req.Priority == nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "priority",
				Message: "priority is required for the update_priority action",
			})
		} else if *req.Priority < 1 || *req.Priority > 5 {
			fields = append(fields, apperrors.FieldError{
				Field:   "priority",
				Message: "priority must be between 1 and 5",
			})
		}
	case BulkHide, BulkActivate:
	default:
		fields = append(fields, apperrors.FieldError{
			Field:   "action",
			Message: "action must be one of update_priority, hide, activate",
		})
	}
	if len(req.CollectionIDs) == 0 {
		fields = append(fields, apperrors.FieldError{
			Field:   "collection_ids",
			Message: "at least one collection id is required",
		})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	results := make([]BulkItemResult, 0, len(req.CollectionIDs))
	updated := 0
	for _, id := range req.CollectionIDs {
		result := BulkItemResult{ID: id}

		var err error
		switch req.Action {
		case BulkUpdatePriority:
			if err = c.collectionRepo.UpdatePriority(ctx, userID, id, req.Priority); err == nil {
				result.Priority = req.Priority
			}
		case BulkHide:
			if err = c.collectionRepo.SetActive(ctx, userID, id, false); err == nil {
				inactive := false
				result.IsActive = &inactive
			}
		case BulkActivate:
			if err = c.collectionRepo.SetActive(ctx, userID, id, true); err == nil {
				active := true
				result.IsActive = &active
			}
		}

		switch {
		case err == nil:
			result.Success = true
			updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			result.Error = "Collection item not found or not owned by user"
		default:
			log.Er("bulk collection action failed", err, "id", id, "action", string(req.Action))
			result.Error = "failed to update collection item"
		}

		results = append(results, result)
	}

	return &BulkResponse{
		Success:      updated == len(req.CollectionIDs),
		UpdatedCount: updated,
		TotalCount:   len(req.CollectionIDs),
		Results:      results,
	}, nil
}

func (c *CollectionController) Stats(
	ctx context.Context,
	userID uuid.UUID,
) (*StatsResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Stats")

	items, err := c.collectionRepo.ListAllWithGames(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to load collection for stats", err, "userID", userID)
	}

	return buildCollectionStats(items), nil
}

// buildCollectionStats aggregates in memory. Collections are per-user and
// small, so one pass over the rows beats four grouped queries.
func buildCollectionStats(items []CollectionItem) *StatsResponse {
	stats := &StatsResponse{
		TotalGames:        len(items),
		ByPlatform:        make(map[string]int),
		ByAcquisitionType: make(map[string]int),
		ByPriority:        make(map[string]int),
		RecentAdditions:   []RecentAddition{},
	}
	if len(items) == 0 {
		return stats
	}

	digital := 0
	physical := 0
	withAcquiredAt := make([]*CollectionItem, 0, len(items))
	for i := range items {
		item := &items[i]

		stats.ByPlatform[item.Platform]++
		stats.ByAcquisitionType[string(item.AcquisitionType)]++

		priorityKey := "null"
		if item.Priority != nil {
			priorityKey = strconv.Itoa(*item.Priority)
		}
		stats.ByPriority[priorityKey]++

		switch item.AcquisitionType {
		case AcquisitionDigital:
			digital++
		case AcquisitionPhysical:
			physical++
		}

		if item.AcquiredAt != nil {
			withAcquiredAt = append(withAcquiredAt, item)
		}
	}

	stats.ValueEstimate = &ValueEstimate{
		Digital:  digitalUnitValue.Mul(decimal.NewFromInt(int64(digital))),
		Physical: physicalUnitValue.Mul(decimal.NewFromInt(int64(physical))),
		Currency: "USD",
	}

	sort.Slice(withAcquiredAt, func(i, j int) bool {
		return withAcquiredAt[i].AcquiredAt.After(*withAcquiredAt[j].AcquiredAt)
	})
	for _, item := range withAcquiredAt {
		if len(stats.RecentAdditions) == 5 {
			break
		}
		stats.RecentAdditions = append(stats.RecentAdditions, RecentAddition{
			Game: RecentAdditionGame{
				Title:        item.Game.Title,
				CoverImageID: item.Game.CoverImageID,
			},
			Platform:   item.Platform,
			AcquiredAt: *item.AcquiredAt,
		})
	}

	return stats
}

func buildCollectionFilter(params ListParams) (repositories.CollectionFilter, FiltersApplied, error) {
	var fields []apperrors.FieldError

	filter := repositories.CollectionFilter{
		Platforms: cleanValues(params.Platforms),
		Search:    strings.TrimSpace(params.Search),
		SortBy:    "updated_at",
		SortOrder: "desc",
		Limit:     defaultListLimit,
	}

	for _, raw := range cleanValues(params.AcquisitionTypes) {
		at := AcquisitionType(raw)
		if !at.IsValid() {
			fields = append(fields, apperrors.FieldError{
				Field:   "acquisition_type",
				Message: fmt.Sprintf("unknown acquisition type %q", raw),
			})
			continue
		}
		filter.AcquisitionTypes = append(filter.AcquisitionTypes, at)
	}

	for _, raw := range cleanValues(params.Priorities) {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > 5 {
			fields = append(fields, apperrors.FieldError{
				Field:   "priority",
				Message: "priority must be an integer between 1 and 5",
			})
			continue
		}
		filter.Priorities = append(filter.Priorities, p)
	}

	if params.IsActive != "" {
		active, err := strconv.ParseBool(params.IsActive)
		if err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "is_active",
				Message: "is_active must be true or false",
			})
		} else {
			filter.IsActive = &active
		}
	}

	// acquired_after later than acquired_before is allowed and simply
	// matches nothing.
	if params.AcquiredAfter != "" {
		if t, err := utils.ParseFlexibleTime(params.AcquiredAfter); err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "acquired_after",
				Message: "acquired_after must be an RFC3339 timestamp or YYYY-MM-DD date",
			})
		} else {
			filter.AcquiredAfter = &t
		}
	}
	if params.AcquiredBefore != "" {
		if t, err := utils.ParseBeforeBound(params.AcquiredBefore); err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "acquired_before",
				Message: "acquired_before must be an RFC3339 timestamp or YYYY-MM-DD date",
			})
		} else {
			filter.AcquiredBefore = &t
		}
	}

	if params.SortBy != "" {
		if _, ok := repositories.CollectionSortColumns[params.SortBy]; !ok {
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
		return repositories.CollectionFilter{}, FiltersApplied{}, apperrors.Validation(fields...)
	}

	applied := FiltersApplied{
		Platforms:        filter.Platforms,
		AcquisitionTypes: filter.AcquisitionTypes,
		Priorities:       filter.Priorities,
		IsActive:         filter.IsActive,
		AcquiredAfter:    filter.AcquiredAfter,
		AcquiredBefore:   filter.AcquiredBefore,
		Search:           filter.Search,
		SortBy:           filter.SortBy,
		SortOrder:        filter.SortOrder,
	}

	return filter, applied, nil
}

func immutableCollectionFields(req UpdateRequest) []string {
	var fields []string
	if req.GameID != nil {
		fields = append(fields, "game_id")
	}
	if req.Platform != nil {
		fields = append(fields, "platform")
	}
	if req.AcquisitionType != nil {
		fields = append(fields, "acquisition_type")
	}
	if req.AcquiredAt != nil {
		fields = append(fields, "acquired_at")
	}
	return fields
}

func expandItem(item *CollectionItem) CollectionItemExpanded {
	snippets := make([]PlaythroughSnippet, 0, len(item.Playthroughs))
	for i := range item.Playthroughs {
		snippets = append(snippets, item.Playthroughs[i].ToSnippet())
	}

	return CollectionItemExpanded{
		ID:              item.ID,
		UserID:          item.UserID,
		Game:            item.Game.ToDetail(),
		Platform:        item.Platform,
		AcquisitionType: item.AcquisitionType,
		AcquiredAt:      item.AcquiredAt,
		Priority:        item.Priority,
		IsActive:        item.IsActive,
		Notes:           item.Notes,
		Playthroughs:    snippets,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// cleanValues trims each value and drops empties, so ?platform=&platform=PC
// filters on PC alone.
func cleanValues(values []string) []string {
	var cleaned []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func (c *CollectionController) publishActivity(
	log logger.Logger,
	userID uuid.UUID,
	eventType events.MessageType,
	data map[string]any,
) {
	if err := c.eventBus.PublishActivity(userID, eventType, data); err != nil {
		log.Warn("failed to publish collection event", "type", string(eventType), "error", err)
	}
}
