// Package services holds the authenticated mutation logic: it resolves the
// caller from a bearer token, enforces ownership and uniqueness rules and
// collapses store failures into the coarse error kinds defined in errors.go.
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mini-social/api-go/events"
	"github.com/mini-social/api-go/models"
	log "github.com/sirupsen/logrus"
)

// Store is the slice of the record store the services depend on.
type Store interface {
	InsertUser(ctx context.Context, user *models.User, activity *models.ActivityLog) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID, activity *models.ActivityLog) error
	InsertPost(ctx context.Context, post *models.Post, activity *models.ActivityLog) error
	FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	DeletePostOwnedBy(ctx context.Context, postID, userID uuid.UUID, activity *models.ActivityLog) error
	FindLike(ctx context.Context, postID, userID uuid.UUID) (*models.Like, error)
	InsertLike(ctx context.Context, like *models.Like, activity *models.ActivityLog) error
	FindLikesByPost(ctx context.Context, postID uuid.UUID) ([]models.Like, error)
}

func publish(ctx context.Context, publisher events.Publisher, activity *models.ActivityLog) {
	if err := publisher.Publish(ctx, *activity); err != nil {
		log.WithError(err).WithField("activity", activity.Activity).Warn("failed to publish activity")
	}
}
