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

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByCognitoID(ctx context.Context, cognitoID string) (*User, error)
	FindOrCreateCognitoUser(ctx context.Context, cognitoID string, email *string, name string) (*User, error)
	Update(ctx context.Context, user *User) error
	ClearUserCache(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	found, err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHashPattern(constants.UserCacheKey).
		WithContext(ctx).
		Get(&user)
	if err == nil && found {
		return &user, nil
	}

	if err := r.getDB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByCognitoID(ctx context.Context, cognitoID string) (*User, error) {
	log := r.log.Function("GetByCognitoID")

	// The Cognito cache maps sub -> user id; the user cache holds the record.
	var userID string
	found, err := database.NewCacheBuilder(r.db.Cache.User, cognitoID).
		WithHashPattern(constants.UserCognitoCacheKey).
		WithContext(ctx).
		Get(&userID)
	if err == nil && found {
		var cachedUser User
		cachedFound, cacheErr := database.NewCacheBuilder(r.db.Cache.User, userID).
			WithHashPattern(constants.UserCacheKey).
			WithContext(ctx).
			Get(&cachedUser)
		if cacheErr == nil && cachedFound {
			return &cachedUser, nil
		}
	}

	var user User
	if err := r.getDB(ctx).First(&user, "cognito_id = ?", cognitoID).Error; err != nil {
		return nil, log.Err("failed to get user by cognito id", err, "cognitoID", cognitoID)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	return &user, nil
}

func (r *userRepository) FindOrCreateCognitoUser(
	ctx context.Context,
	cognitoID string,
	email *string,
	name string,
) (*User, error) {
	log := r.log.Function("FindOrCreateCognitoUser")

	existing, err := r.GetByCognitoID(ctx, cognitoID)
	if err == nil {
		existing.UpdateFromClaims(email, name)
		now := time.Now()
		existing.LastLoginAt = &now
		if err := r.Update(ctx, existing); err != nil {
			log.Warn("failed to update user from claims", "userID", existing.ID, "error", err)
		}
		return existing, nil
	}

	now := time.Now()
	user := &User{
		CognitoID:   cognitoID,
		Email:       email,
		Name:        name,
		IsActive:    true,
		LastLoginAt: &now,
	}

	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return nil, log.Err("failed to create user", err, "cognitoID", cognitoID)
	}

	if err := r.addUserToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.ClearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHashPattern(constants.UserCacheKey).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, user.CognitoID).
		WithHashPattern(constants.UserCognitoCacheKey).
		WithStruct(user.ID.String()).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to cache cognito mapping", err, "cognitoID", user.CognitoID)
	}

	return nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("ClearUserCache")

	if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHashPattern(constants.UserCacheKey).
		WithContext(ctx).
		Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	if user.CognitoID != "" {
		if err := database.NewCacheBuilder(r.db.Cache.User, user.CognitoID).
			WithHashPattern(constants.UserCognitoCacheKey).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to clear cognito mapping cache", "cognitoID", user.CognitoID, "error", err)
		}
	}

	return nil
}
