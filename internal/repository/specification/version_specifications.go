package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy scopes versions to one user. A nil UserId leaves the query as is.
type OwnedBy struct {
	UserId *uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	if s.UserId == nil {
		return db
	}
	return db.Where("user_id = ?", *s.UserId)
}

// WithoutPayload skips the JSONB column for listings.
type WithoutPayload struct{}

func (s WithoutPayload) Apply(db *gorm.DB) *gorm.DB {
	return db.Select("id", "user_id", "name", "created_at", "updated_at")
}
