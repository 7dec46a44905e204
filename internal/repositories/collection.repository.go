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

// CollectionSortColumns is the sort allow-list for collection listings,
// keyed by the API sort_by value. Title lives on the joined games table.
var CollectionSortColumns = map[string]string{
	"title":       "games.title",
	"acquired_at": "user_game_collection.acquired_at",
	"priority":    "user_game_collection.priority",
	"platform":    "user_game_collection.platform",
	"updated_at":  "user_game_collection.updated_at",
}

// CollectionFilter carries the validated list parameters. Empty slices and
// nil pointers mean "not filtered". All predicates are combined with AND.
type CollectionFilter struct {
	Platforms        []string
	AcquisitionTypes []AcquisitionType
	Priorities       []int
	IsActive         *bool
	AcquiredAfter    *time.Time
	AcquiredBefore   *time.Time
	Search           string
	SortBy           string
	SortOrder        string
	Limit            int
	Offset           int
}

type CollectionRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter CollectionFilter) ([]CollectionItem, int64, error)
	ListAllWithGames(ctx context.Context, userID uuid.UUID) ([]CollectionItem, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*CollectionItem, error)
	Create(ctx context.Context, item *CollectionItem) error
	Update(ctx context.Context, item *CollectionItem) error
	UpdatePriority(ctx context.Context, userID, id uuid.UUID, priority *int) error
	SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error
	HardDelete(ctx context.Context, userID, id uuid.UUID) error
}

type collectionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCollectionRepository(db database.DB) CollectionRepository {
	return &collectionRepository{
		db:  db,
		log: logger.New("collectionRepository"),
	}
}

func (r *collectionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// applyCollectionFilters builds the shared predicate set used by both the
// page query and the total count. The games join is always present so title
// sorting and search work without special cases.
func applyCollectionFilters(
	query *gorm.DB,
	userID uuid.UUID,
	filter CollectionFilter,
) *gorm.DB {
	query = query.
		Joins("JOIN games ON games.id = user_game_collection.game_id").
		Where("user_game_collection.user_id = ?", userID)

	if len(filter.Platforms) > 0 {
		query = query.Where("user_game_collection.platform IN ?", filter.Platforms)
	}

	if len(filter.AcquisitionTypes) > 0 {
		query = query.Where("user_game_collection.acquisition_type IN ?", filter.AcquisitionTypes)
	}

	// IN never matches NULL, so unprioritized rows fall out of any
	// priority filter.
	if len(filter.Priorities) > 0 {
		query = query.Where("user_game_collection.priority IN ?", filter.Priorities)
	}

	if filter.IsActive != nil {
		query = query.Where("user_game_collection.is_active = ?", *filter.IsActive)
	}

	if filter.AcquiredAfter != nil {
		query = query.Where("user_game_collection.acquired_at >= ?", *filter.AcquiredAfter)
	}

	if filter.AcquiredBefore != nil {
		query = query.Where("user_game_collection.acquired_at <= ?", *filter.AcquiredBefore)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"(games.title ILIKE ? OR user_game_collection.notes ILIKE ?)",
			pattern,
			pattern,
		)
	}

	return query
}

// collectionOrderClause resolves the sort parameters against the allow-list
// and appends the id tiebreak that keeps pagination stable.
func collectionOrderClause(sortBy, sortOrder string) string {
	column, ok := CollectionSortColumns[sortBy]
	if !ok {
		column = CollectionSortColumns["updated_at"]
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s, user_game_collection.id ASC", column, direction)
}

func (r *collectionRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter CollectionFilter,
) ([]CollectionItem, int64, error) {
	log := r.log.Function("List")

	var total int64
	countQuery := applyCollectionFilters(
		r.getDB(ctx).Model(&CollectionItem{}),
		userID,
		filter,
	)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count collection items", err, "userID", userID)
	}

	var items []CollectionItem
	pageQuery := applyCollectionFilters(
		r.getDB(ctx).Model(&CollectionItem{}),
		userID,
		filter,
	)
	if err := pageQuery.
		Order(collectionOrderClause(filter.SortBy, filter.SortOrder)).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Preload("Game").
		Preload("Playthroughs").
		Find(&items).Error; err != nil {
		return nil, 0, log.Err("failed to list collection items", err, "userID", userID)
	}

	return items, total, nil
}

// ListAllWithGames returns every item including hidden ones, used by the
// stats aggregator.
func (r *collectionRepository) ListAllWithGames(
	ctx context.Context,
	userID uuid.UUID,
) ([]CollectionItem, error) {
	log := r.log.Function("ListAllWithGames")

	var items []CollectionItem
	if err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Preload("Game").
		Find(&items).Error; err != nil {
		return nil, log.Err("failed to list collection items", err, "userID", userID)
	}

	return items, nil
}

func (r *collectionRepository) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*CollectionItem, error) {
	log := r.log.Function("GetByID")

	var item CollectionItem
	if err := r.getDB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Game").
		Preload("Playthroughs").
		First(&item).Error; err != nil {
		return nil, log.Err("failed to get collection item", err, "id", id, "userID", userID)
	}

	return &item, nil
}

func (r *collectionRepository) Create(ctx context.Context, item *CollectionItem) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(item).Error; err != nil {
		return log.Err(
			"failed to create collection item",
			err,
			"userID", item.UserID,
			"gameID", item.GameID,
			"platform", item.Platform,
		)
	}

	return nil
}

func (r *collectionRepository) Update(ctx context.Context, item *CollectionItem) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(item).Error; err != nil {
		return log.Err("failed to update collection item", err, "id", item.ID)
	}

	return nil
}

func (r *collectionRepository) UpdatePriority(
	ctx context.Context,
	userID, id uuid.UUID,
	priority *int,
) error {
	log := r.log.Function("UpdatePriority")

	result := r.getDB(ctx).
		Model(&CollectionItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("priority", priority)
	if result.Error != nil {
		return log.Err("failed to update priority", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag. Re-hiding a hidden item still
// matches the row, which keeps the operation idempotent.
func (r *collectionRepository) SetActive(
	ctx context.Context,
	userID, id uuid.UUID,
	active bool,
) error {
	log := r.log.Function("SetActive")

	result := r.getDB(ctx).
		Model(&CollectionItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", active)
	if result.Error != nil {
		return log.Err("failed to set active flag", result.Error, "id", id, "active", active)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// HardDelete removes the row permanently. Dependent playthroughs keep their
// history; the database SET NULLs their collection_id.
func (r *collectionRepository) HardDelete(ctx context.Context, userID, id uuid.UUID) error {
	log := r.log.Function("HardDelete")

	result := r.getDB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&CollectionItem{})
	if result.Error != nil {
		return log.Err("failed to delete collection item", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
