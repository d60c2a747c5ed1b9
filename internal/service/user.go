// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mealtrack/mealtrack/internal/auth"
	"github.com/mealtrack/mealtrack/internal/metrics"
	"github.com/mealtrack/mealtrack/internal/model"
	"github.com/mealtrack/mealtrack/internal/repository"
)

// Service errors for user operations.
var (
	ErrEmailExists     = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// Intentionally loose: the address just has to look like local@domain.tld.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the persistence surface the user service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserBySessionToken(ctx context.Context, token string) (*model.User, error)
}

// UserService handles registration and session resolution.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name      string
	Email     string
	AvatarURL string
	// ExistingToken, when non-empty, is reused as the new user's session
	// token so a caller who already holds an anonymous session keeps it.
	ExistingToken string
}

// Register creates a new user and issues their permanent session token.
// Fails with ErrEmailExists when the email is already registered; in that
// case nothing is persisted and no token is issued.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidName
	}
	if !emailRegex.MatchString(input.Email) {
		return nil, ErrInvalidEmail
	}

	_, err := s.store.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	token := input.ExistingToken
	if token == "" {
		token = auth.NewSessionToken()
	}

	user := &model.User{
		ID:           uuid.New().String(),
		SessionToken: token,
		Name:         input.Name,
		Email:        input.Email,
		AvatarURL:    input.AvatarURL,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration may have won the insert race.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// ResolveSession looks up the user holding the given session token.
// Absence (empty or unknown token) is reported as ErrSessionNotFound, never
// as a storage fault; callers translate it into an unauthorized outcome.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	user, err := s.store.GetUserBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return user, nil
}
