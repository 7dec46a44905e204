package repositories

import (
	"context"
	"fmt"
	"time"

	contextutil "playlater/internal/context"
	"playlater/internal/database"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaythroughSortColumns is the sort allow-list for playthrough listings.
var PlaythroughSortColumns = map[string]string{
	"title":           "games.title",
	"status":          "game_playthrough.status",
	"started_at":      "game_playthrough.started_at",
	"completed_at":    "game_playthrough.completed_at",
	"updated_at":      "game_playthrough.updated_at",
	"rating":          "game_playthrough.rating",
	"play_time_hours": "game_playthrough.play_time_hours",
	"platform":        "game_playthrough.platform",
}

// PlaythroughFilter carries the validated list parameters. Empty slices and
// nil pointers mean "not filtered". All predicates are combined with AND.
type PlaythroughFilter struct {
	Statuses         []PlaythroughStatus
	Platforms        []string
	Difficulties     []string
	PlaythroughTypes []string
	RatingMin        *int
	RatingMax        *int
	PlayTimeMin      *float64
	PlayTimeMax      *float64
	StartedAfter     *time.Time
	StartedBefore    *time.Time
	CompletedAfter   *time.Time
	CompletedBefore  *time.Time
	Search           string
	SortBy           string
	SortOrder        string
	Limit            int
	Offset           int
}

type PlaythroughRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter PlaythroughFilter) ([]Playthrough, int64, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]Playthrough, error)
	ListBacklog(ctx context.Context, userID uuid.UUID, priority *int) ([]Playthrough, error)
	ListPlaying(ctx context.Context, userID uuid.UUID, platform *string) ([]Playthrough, error)
	ListCompleted(ctx context.Context, userID uuid.UUID, year *int, platform *string, minRating *int) ([]Playthrough, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Playthrough, error)
	Create(ctx context.Context, playthrough *Playthrough) error
	Update(ctx context.Context, playthrough *Playthrough) error
	UpdatePlatform(ctx context.Context, userID, id uuid.UUID, platform string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type playthroughRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPlaythroughRepository(db database.DB) PlaythroughRepository {
	return &playthroughRepository{
		db:  db,
		log: logger.New("playthroughRepository"),
	}
}

func (r *playthroughRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func applyPlaythroughFilters(
	query *gorm.DB,
	userID uuid.UUID,
	filter PlaythroughFilter,
) *gorm.DB {
	query = query.
		Joins("JOIN games ON games.id = game_playthrough.game_id").
		Where("game_playthrough.user_id = ?", userID)

	if len(filter.Statuses) > 0 {
		query = query.Where("game_playthrough.status IN ?", filter.Statuses)
	}

	if len(filter.Platforms) > 0 {
		query = query.Where("game_playthrough.platform IN ?", filter.Platforms)
	}

	if len(filter.Difficulties) > 0 {
		query = query.Where("game_playthrough.difficulty IN ?", filter.Difficulties)
	}

	if len(filter.PlaythroughTypes) > 0 {
		query = query.Where("game_playthrough.playthrough_type IN ?", filter.PlaythroughTypes)
	}

	if filter.RatingMin != nil {
		query = query.Where("game_playthrough.rating >= ?", *filter.RatingMin)
	}

	if filter.RatingMax != nil {
		query = query.Where("game_playthrough.rating <= ?", *filter.RatingMax)
	}

	if filter.PlayTimeMin != nil {
		query = query.Where("game_playthrough.play_time_hours >= ?", *filter.PlayTimeMin)
	}

	if filter.PlayTimeMax != nil {
		query = query.Where("game_playthrough.play_time_hours <= ?", *filter.PlayTimeMax)
	}

	if filter.StartedAfter != nil {
		query = query.Where("game_playthrough.started_at >= ?", *filter.StartedAfter)
	}

	if filter.StartedBefore != nil {
		query = query.Where("game_playthrough.started_at <= ?", *filter.StartedBefore)
	}

	if filter.CompletedAfter != nil {
		query = query.Where("game_playthrough.completed_at >= ?", *filter.CompletedAfter)
	}

	if filter.CompletedBefore != nil {
		query = query.Where("game_playthrough.completed_at <= ?", *filter.CompletedBefore)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"(games.title ILIKE ? OR game_playthrough.notes ILIKE ?)",
			pattern,
			pattern,
		)
	}

	return query
}

func playthroughOrderClause(sortBy, sortOrder string) string {
	column, ok := PlaythroughSortColumns[sortBy]
	if !ok {
		column = PlaythroughSortColumns["updated_at"]
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s, game_playthrough.id ASC", column, direction)
}

func (r *playthroughRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter PlaythroughFilter,
) ([]Playthrough, int64, error) {
	log := r.log.Function("List")

	var total int64
	countQuery := applyPlaythroughFilters(
		r.getDB(ctx).Model(&Playthrough{}),
		userID,
		filter,
	)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count playthroughs", err, "userID", userID)
	}

	var playthroughs []Playthrough
	pageQuery := applyPlaythroughFilters(
		r.getDB(ctx).Model(&Playthrough{}),
		userID,
		filter,
	)
	if err := pageQuery.
		Order(playthroughOrderClause(filter.SortBy, filter.SortOrder)).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Preload("Game").
		Preload("Collection").
		Find(&playthroughs).Error; err != nil {
		return nil, 0, log.Err("failed to list playthroughs", err, "userID", userID)
	}

	return playthroughs, total, nil
}

// ListAll returns every playthrough for the user without preloads, used by
// the stats aggregator.
func (r *playthroughRepository) ListAll(
	ctx context.Context,
	userID uuid.UUID,
) ([]Playthrough, error) {
	log := r.log.Function("ListAll")

	var playthroughs []Playthrough
	if err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Find(&playthroughs).Error; err != nil {
		return nil, log.Err("failed to list playthroughs", err, "userID", userID)
	}

	return playthroughs, nil
}

// ListBacklog returns PLANNING playthroughs, newest first. The optional
// priority filter matches against the linked collection item, so backlog
// entries without a collection link fall out when it is set.
func (r *playthroughRepository) ListBacklog(
	ctx context.Context,
	userID uuid.UUID,
	priority *int,
) ([]Playthrough, error) {
	log := r.log.Function("ListBacklog")

	query := r.getDB(ctx).
		Model(&Playthrough{}).
		Joins("LEFT JOIN user_game_collection ON user_game_collection.id = game_playthrough.collection_id").
		Where("game_playthrough.user_id = ? AND game_playthrough.status = ?", userID, StatusPlanning)

	if priority != nil {
		query = query.Where("user_game_collection.priority = ?", *priority)
	}

	var playthroughs []Playthrough
	if err := query.
		Order("game_playthrough.created_at DESC").
		Preload("Game").
		Preload("Collection").
		Find(&playthroughs).Error; err != nil {
		return nil, log.Err("failed to list backlog", err, "userID", userID)
	}

	return playthroughs, nil
}

func (r *playthroughRepository) ListPlaying(
	ctx context.Context,
	userID uuid.UUID,
	platform *string,
) ([]Playthrough, error) {
	log := r.log.Function("ListPlaying")

	query := r.getDB(ctx).
		Model(&Playthrough{}).
		Where("user_id = ? AND status = ?", userID, StatusPlaying)

	if platform != nil {
		query = query.Where("platform = ?", *platform)
	}

	var playthroughs []Playthrough
	if err := query.
		Order("started_at DESC").
		Preload("Game").
		Find(&playthroughs).Error; err != nil {
		return nil, log.Err("failed to list playing", err, "userID", userID)
	}

	return playthroughs, nil
}

// ListCompleted covers COMPLETED rows only; MASTERED is a separate shelf.
func (r *playthroughRepository) ListCompleted(
	ctx context.Context,
	userID uuid.UUID,
	year *int,
	platform *string,
	minRating *int,
) ([]Playthrough, error) {
	log := r.log.Function("ListCompleted")

	query := r.getDB(ctx).
		Model(&Playthrough{}).
		Where("user_id = ? AND status = ?", userID, StatusCompleted)

	if year != nil {
		query = query.Where("EXTRACT(YEAR FROM completed_at) = ?", *year)
	}

	if platform != nil {
		query = query.Where("platform = ?", *platform)
	}

	if minRating != nil {
		query = query.Where("rating >= ?", *minRating)
	}

	var playthroughs []Playthrough
	if err := query.
		Order("completed_at DESC").
		Preload("Game").
		Find(&playthroughs).Error; err != nil {
		return nil, log.Err("failed to list completed", err, "userID", userID)
	}

	return playthroughs, nil
}

func (r *playthroughRepository) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*Playthrough, error) {
	log := r.log.Function("GetByID")

	var playthrough Playthrough
	if err := r.getDB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Game").
		Preload("Collection").
		First(&playthrough).Error; err != nil {
		return nil, log.Err("failed to get playthrough", err, "id", id, "userID", userID)
	}

	return &playthrough, nil
}

func (r *playthroughRepository) Create(ctx context.Context, playthrough *Playthrough) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(playthrough).Error; err != nil {
		return log.Err(
			"failed to create playthrough",
			err,
			"userID", playthrough.UserID,
			"gameID", playthrough.GameID,
		)
	}

	return nil
}

func (r *playthroughRepository) Update(ctx context.Context, playthrough *Playthrough) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(playthrough).Error; err != nil {
		return log.Err("failed to update playthrough", err, "id", playthrough.ID)
	}

	return nil
}

func (r *playthroughRepository) UpdatePlatform(
	ctx context.Context,
	userID, id uuid.UUID,
	platform string,
) error {
	log := r.log.Function("UpdatePlatform")

	result := r.getDB(ctx).
		Model(&Playthrough{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("platform", platform)
	if result.Error != nil {
		return log.Err("failed to update platform", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *playthroughRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Playthrough{})
	if result.Error != nil {
		return log.Err("failed to delete playthrough", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
