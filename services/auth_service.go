package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mini-social/api-go/events"
	"github.com/mini-social/api-go/models"
	"github.com/mini-social/api-go/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store     Store
	tokens    *TokenService
	publisher events.Publisher
	now       func() time.Time
	hashCost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(st Store, tokens *TokenService, publisher events.Publisher) *AuthService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &AuthService{
		store:     st,
		tokens:    tokens,
		publisher: publisher,
		now:       time.Now,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates the user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	_, err := s.store.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		return "", ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return "", storageError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	activity := models.NewActivity(models.ActivityUserRegistered, user.ID, uuid.Nil, user.CreatedAt)
	if err := s.store.InsertUser(ctx, user, activity); err != nil {
		// The unique index catches registrations racing past the lookup above.
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrUsernameTaken
		}
		return "", storageError(err)
	}
	publish(ctx, s.publisher, activity)

	return s.issue(user.ID)
}

// Authenticate returns ErrInvalidCredentials for an unknown username and for
// a wrong password alike, and spends a bcrypt comparison in both cases.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return "", ErrInvalidCredentials
	case err != nil:
		return "", storageError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issue(user.ID)
}

func (s *AuthService) Profile(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByID(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrUnauthenticated
	case err != nil:
		return nil, storageError(err)
	}
	return user, nil
}

// DeleteAccount removes the caller together with its posts and likes.
func (s *AuthService) DeleteAccount(ctx context.Context, token string) error {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	activity := models.NewActivity(models.ActivityAccountDeleted, userID, uuid.Nil, s.now())
	err = s.store.DeleteUser(ctx, userID, activity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUnauthenticated
	case err != nil:
		return storageError(err)
	}
	publish(ctx, s.publisher, activity)
	return nil
}

func (s *AuthService) issue(userID uuid.UUID) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
		if err != nil {
			panic(fmt.Sprintf("generate dummy hash: %v", err))
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
