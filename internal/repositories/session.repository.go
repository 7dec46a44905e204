package repositories

import (
	"context"
	"time"

	"playlater/internal/constants"
	contextutil "playlater/internal/context"
	"playlater/internal/database"
	. "playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	ClearCache(ctx context.Context, id uuid.UUID) error
}

type sessionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSessionRepository(db database.DB) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: logger.New("sessionRepository"),
	}
}

func (r *sessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(session).Error; err != nil {
		return log.Err("failed to create session", err, "userID", session.UserID)
	}

	r.cacheSession(ctx, session)

	return nil
}

// GetByID resolves the session, cache first. The database row is the source
// of truth; a cache hit is only a copy with the remaining lifetime as TTL.
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	log := r.log.Function("GetByID")

	var session Session
	found, err := database.NewCacheBuilder(r.db.Cache.Session, id).
		WithHashPattern(constants.SessionCacheKey).
		WithContext(ctx).
		Get(&session)
	if err == nil && found {
		return &session, nil
	}

	if err := r.getDB(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get session", err, "id", id)
	}

	r.cacheSession(ctx, &session)

	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *Session) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(session).Error; err != nil {
		return log.Err("failed to update session", err, "id", session.ID)
	}

	if err := r.ClearCache(ctx, session.ID); err != nil {
		log.Warn("failed to clear session cache", "id", session.ID, "error", err)
	}
	r.cacheSession(ctx, session)

	return nil
}

func (r *sessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Deactivate")

	result := r.getDB(ctx).
		Model(&Session{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return log.Err("failed to deactivate session", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.ClearCache(ctx, id); err != nil {
		log.Warn("failed to clear session cache", "id", id, "error", err)
	}

	return nil
}

// DeactivateExpired flips every active session past its expiry. Cache
// entries are left alone; their TTLs have already run out.
func (r *sessionRepository) DeactivateExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	log := r.log.Function("DeactivateExpired")

	result := r.getDB(ctx).
		Model(&Session{}).
		Where("active = ? AND expires_at <= ?", true, now).
		Update("active", false)
	if result.Error != nil {
		return 0, log.Err("failed to deactivate expired sessions", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *sessionRepository) ClearCache(ctx context.Context, id uuid.UUID) error {
	return database.NewCacheBuilder(r.db.Cache.Session, id).
		WithHashPattern(constants.SessionCacheKey).
		WithContext(ctx).
		Delete()
}

func (r *sessionRepository) cacheSession(ctx context.Context, session *Session) {
	log := r.log.Function("cacheSession")

	ttl := session.RemainingTTL(time.Now())
	if !session.Active || ttl <= 0 {
		return
	}

	if err := database.NewCacheBuilder(r.db.Cache.Session, session.ID).
		WithHashPattern(constants.SessionCacheKey).
		WithStruct(session).
		WithTTL(ttl).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache session", "id", session.ID, "error", err)
	}
}
