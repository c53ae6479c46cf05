// Package store persists users, posts, likes and activity rows through gorm.
//
// Every mutation runs in a single transaction together with its activity row,
// and uniqueness of likes is left to the composite primary key so that
// concurrent inserts of the same pair cannot both succeed.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mini-social/api-go/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrMissingReference = errors.New("referenced record does not exist")
)

const postWithLikesCount = "posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema, including cascading foreign keys.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}, &models.ActivityLog{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) InsertUser(ctx context.Context, user *models.User, activity *models.ActivityLog) error {
	return classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(activity).Error
	}))
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// DeleteUser removes the user with every post it owns and every like that
// touches the user or those posts.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID, activity *models.ActivityLog) error {
	return classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_id = ? OR post_id IN (?)", id, owned).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(activity).Error
	}))
}

func (s *Store) InsertPost(ctx context.Context, post *models.Post, activity *models.ActivityLog) error {
	return classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(activity).Error
	}))
}

// FindPostByID returns the post with its like count derived from the likes table.
func (s *Store) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(postWithLikesCount).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, classify(err)
	}
	return &post, nil
}

// DeletePostOwnedBy deletes the post only if userID owns it. The ownership
// check is the WHERE clause of the delete itself, so a concurrent delete of the
// same post leaves the loser with ErrNotFound.
func (s *Store) DeletePostOwnedBy(ctx context.Context, postID, userID uuid.UUID, activity *models.ActivityLog) error {
	return classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", postID, userID).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		// Normally already removed by ON DELETE CASCADE.
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Create(activity).Error
	}))
}

func (s *Store) FindLike(ctx context.Context, postID, userID uuid.UUID) (*models.Like, error) {
	var like models.Like
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Take(&like).Error
	if err != nil {
		return nil, classify(err)
	}
	return &like, nil
}

// InsertLike returns ErrNotFound when the post does not exist and ErrDuplicate
// when the pair is already present.
func (s *Store) InsertLike(ctx context.Context, like *models.Like, activity *models.ActivityLog) error {
	return classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", like.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Create(activity).Error
	}))
}

func (s *Store) FindLikesByPost(ctx context.Context, postID uuid.UUID) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&likes).Error
	if err != nil {
		return nil, classify(err)
	}
	return likes, nil
}

// classify collapses driver specific failures into the store sentinels.
// Anything it does not recognise is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrMissingReference):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrMissingReference
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrMissingReference
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrMissingReference
	}
	return err
}
