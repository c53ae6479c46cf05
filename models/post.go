package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	// LikesCount is not persisted; it is counted from likes on every read.
	LikesCount int64     `gorm:"->;-:migration" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	Likes      []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
