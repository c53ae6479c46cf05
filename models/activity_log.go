package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityUserRegistered = "user_registered"
	ActivityPostCreated    = "post_created"
	ActivityPostDeleted    = "post_deleted"
	ActivityPostLiked      = "post_liked"
	ActivityAccountDeleted = "account_deleted"
)

// ActivityLog rows carry no foreign keys so they outlive the records they describe.
type ActivityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	Activity  string    `gorm:"not null;type:varchar(50)" json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

func NewActivity(activity string, userID, postID uuid.UUID, at time.Time) *ActivityLog {
	return &ActivityLog{
		ID:        uuid.New(),
		UserID:    userID,
		PostID:    postID,
		Activity:  activity,
		CreatedAt: at,
	}
}
