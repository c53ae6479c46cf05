package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is unique per (post, user): the pair is the primary key.
type Like struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
