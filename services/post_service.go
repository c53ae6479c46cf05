package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mini-social/api-go/events"
	"github.com/mini-social/api-go/models"
	"github.com/mini-social/api-go/store"
)

type PostService struct {
	store     Store
	tokens    *TokenService
	publisher events.Publisher
	now       func() time.Time
}

func NewPostService(st Store, tokens *TokenService, publisher events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &PostService{
		store:     st,
		tokens:    tokens,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreatePost stores a post owned by the caller with no likes.
func (s *PostService) CreatePost(ctx context.Context, token, content string) (*models.Post, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	activity := models.NewActivity(models.ActivityPostCreated, userID, post.ID, post.CreatedAt)
	if err := s.store.InsertPost(ctx, post, activity); err != nil {
		// A valid token whose user row is gone.
		if errors.Is(err, store.ErrMissingReference) {
			return nil, ErrUnauthenticated
		}
		return nil, storageError(err)
	}
	publish(ctx, s.publisher, activity)

	return post, nil
}

// GetPost is a public read.
func (s *PostService) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.store.FindPostByID(ctx, postID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, storageError(err)
	}
	return post, nil
}

// DeletePost removes the post and its likes if the caller owns it. A missing
// post and a post owned by someone else both yield ErrNotFoundOrUnauthorized.
func (s *PostService) DeletePost(ctx context.Context, token string, postID uuid.UUID) error {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	activity := models.NewActivity(models.ActivityPostDeleted, userID, postID, s.now())
	err = s.store.DeletePostOwnedBy(ctx, postID, userID, activity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFoundOrUnauthorized
	case err != nil:
		return storageError(err)
	}
	publish(ctx, s.publisher, activity)
	return nil
}

// LikePost records a like from the caller. Liking the same post twice fails
// with ErrAlreadyLiked; the store's primary key decides concurrent attempts.
func (s *PostService) LikePost(ctx context.Context, token string, postID uuid.UUID) error {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}

	_, err = s.store.FindLike(ctx, postID, userID)
	switch {
	case err == nil:
		return ErrAlreadyLiked
	case !errors.Is(err, store.ErrNotFound):
		return storageError(err)
	}

	like := &models.Like{PostID: postID, UserID: userID, CreatedAt: s.now()}
	activity := models.NewActivity(models.ActivityPostLiked, userID, postID, like.CreatedAt)
	err = s.store.InsertLike(ctx, like, activity)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return ErrAlreadyLiked
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrMissingReference):
		return ErrPostNotFound
	case err != nil:
		return storageError(err)
	}
	publish(ctx, s.publisher, activity)
	return nil
}

// ListLikes returns the likes of an existing post, oldest first.
func (s *PostService) ListLikes(ctx context.Context, postID uuid.UUID) ([]models.Like, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	likes, err := s.store.FindLikesByPost(ctx, postID)
	if err != nil {
		return nil, storageError(err)
	}
	return likes, nil
}
