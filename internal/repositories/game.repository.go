package repositories

import (
	"context"
	"time"

	contextutil "playlater/internal/context"
	"playlater/internal/database"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, game *Game) error
	CreateBatch(ctx context.Context, games []*Game) error
	ListStaleMetadata(ctx context.Context, olderThan time.Time, limit int) ([]Game, error)
	TouchMetadata(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gameRepository struct {
	db  database.DB
	log logger.Logger
}

func NewGameRepository(db database.DB) GameRepository {
	return &gameRepository{
		db:  db,
		log: logger.New("gameRepository"),
	}
}

func (r *gameRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	log := r.log.Function("GetByID")

	var game Game
	if err := r.getDB(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get game by id", err, "id", id)
	}

	return &game, nil
}

func (r *gameRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := r.getDB(ctx).Model(&Game{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check game existence", err, "id", id)
	}

	return count > 0, nil
}

func (r *gameRepository) Create(ctx context.Context, game *Game) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(game).Error; err != nil {
		return log.Err("failed to create game", err, "title", game.Title)
	}

	return nil
}

func (r *gameRepository) CreateBatch(ctx context.Context, games []*Game) error {
	log := r.log.Function("CreateBatch")

	if len(games) == 0 {
		return nil
	}

	if err := r.getDB(ctx).Create(&games).Error; err != nil {
		return log.Err("failed to create games", err, "count", len(games))
	}

	log.Info("Created games", "count", len(games))
	return nil
}

// ListStaleMetadata returns games whose row has not been touched since the
// given horizon, oldest first. Used by the metadata refresh job.
func (r *gameRepository) ListStaleMetadata(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]Game, error) {
	log := r.log.Function("ListStaleMetadata")

	var games []Game
	if err := r.getDB(ctx).
		Where("updated_at < ?", olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&games).Error; err != nil {
		return nil, log.Err("failed to list stale games", err, "olderThan", olderThan)
	}

	return games, nil
}

func (r *gameRepository) TouchMetadata(ctx context.Context, ids []uuid.UUID) error {
	log := r.log.Function("TouchMetadata")

	if len(ids) == 0 {
		return nil
	}

	if err := r.getDB(ctx).
		Model(&Game{}).
		Where("id IN ?", ids).
		Update("updated_at", time.Now()).Error; err != nil {
		return log.Err("failed to touch game metadata", err, "count", len(ids))
	}

	return nil
}

// Delete removes a game permanently. Collection items and playthroughs that
// reference it are removed by the database cascade.
func (r *gameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Game{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete game", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
