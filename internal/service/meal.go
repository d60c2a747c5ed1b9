package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mealtrack/mealtrack/internal/metrics"
	"github.com/mealtrack/mealtrack/internal/model"
	"github.com/mealtrack/mealtrack/internal/repository"
)

// Service errors for meal operations.
var (
	ErrMealNotFound      = errors.New("meal not found")
	ErrInvalidMealName   = errors.New("meal name must not be empty")
	ErrInvalidOccurredAt = errors.New("occurred_at must be set")
)

// MealStore is the persistence surface the meal service depends on.
// Every method except CreateMeal is scoped by owner in a single predicate.
type MealStore interface {
	CreateMeal(ctx context.Context, meal *model.Meal) error
	ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error)
	GetMealByID(ctx context.Context, ownerID, id string) (*model.Meal, error)
	UpdateMeal(ctx context.Context, ownerID, id string, upd repository.MealUpdate) error
	DeleteMeal(ctx context.Context, ownerID, id string) error
}

// MealService handles meal business logic. All operations act on behalf of
// a resolved owner identity; a meal owned by someone else is reported as
// ErrMealNotFound, identical to a nonexistent one.
type MealService struct {
	store   MealStore
	metrics metrics.Recorder
}

// NewMealService creates a new MealService.
func NewMealService(store MealStore, recorder metrics.Recorder) *MealService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MealService{
		store:   store,
		metrics: recorder,
	}
}

// CreateMealInput defines input for recording a meal.
type CreateMealInput struct {
	Name        string
	Description string
	OccurredAt  time.Time
	WithinDiet  bool
}

// Create records a new meal attributed to the owner.
func (s *MealService) Create(ctx context.Context, ownerID string, input CreateMealInput) (*model.Meal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidMealName
	}
	if input.OccurredAt.IsZero() {
		return nil, ErrInvalidOccurredAt
	}

	meal := &model.Meal{
		ID:          ulid.Make().String(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		OccurredAt:  input.OccurredAt,
		WithinDiet:  input.WithinDiet,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   nil,
	}

	if err := s.store.CreateMeal(ctx, meal); err != nil {
		return nil, err
	}

	s.metrics.IncMealCreated()

	return meal, nil
}

// List returns all of the owner's meals, most recent occurred_at first.
func (s *MealService) List(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	return s.store.ListMealsByOwner(ctx, ownerID)
}

// Get fetches one of the owner's meals by id.
func (s *MealService) Get(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	meal, err := s.store.GetMealByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

// UpdateMealInput defines a partial update. Nil fields keep their current
// values; updated_at is refreshed even when every field is nil.
type UpdateMealInput struct {
	Name        *string
	Description *string
	OccurredAt  *time.Time
	WithinDiet  *bool
}

// Update applies a partial update to one of the owner's meals.
func (s *MealService) Update(ctx context.Context, ownerID, id string, input UpdateMealInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return ErrInvalidMealName
	}
	if input.OccurredAt != nil && input.OccurredAt.IsZero() {
		return ErrInvalidOccurredAt
	}

	upd := repository.MealUpdate{
		Name:        input.Name,
		Description: input.Description,
		OccurredAt:  input.OccurredAt,
		WithinDiet:  input.WithinDiet,
	}

	if err := s.store.UpdateMeal(ctx, ownerID, id, upd); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return err
	}

	s.metrics.IncMealUpdated()

	return nil
}

// Delete permanently removes one of the owner's meals.
func (s *MealService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteMeal(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return err
	}

	s.metrics.IncMealDeleted()

	return nil
}

// Metrics computes diet adherence metrics over the owner's full meal
// history.
func (s *MealService) Metrics(ctx context.Context, ownerID string) (model.MealMetrics, error) {
	meals, err := s.store.ListMealsByOwner(ctx, ownerID)
	if err != nil {
		return model.MealMetrics{}, err
	}

	start := time.Now()
	report := computeMetrics(meals)
	s.metrics.ObserveReportDuration(time.Since(start))

	return report, nil
}
