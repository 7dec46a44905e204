package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel is embedded by every persisted entity. Deletes in this
// domain are either an explicit is_active flag or a real row removal, so
// there is no gorm.DeletedAt here.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updated_at"`
}
