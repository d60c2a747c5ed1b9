package handler

import (
	"context"
	"sort"
	"time"

	"github.com/mealtrack/mealtrack/internal/model"
	"github.com/mealtrack/mealtrack/internal/repository"
)

// fakeStore backs handler tests with an in-memory UserStore and MealStore
// that keeps the repository's sentinel errors and listing order.
type fakeStore struct {
	users map[string]*model.User
	meals map[string]*model.Meal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*model.User),
		meals: make(map[string]*model.Meal),
	}
}

func (s *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeStore) GetUserBySessionToken(ctx context.Context, token string) (*model.User, error) {
	for _, u := range s.users {
		if u.SessionToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeStore) CreateMeal(ctx context.Context, meal *model.Meal) error {
	clone := *meal
	s.meals[meal.ID] = &clone
	return nil
}

func (s *fakeStore) ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	meals := make([]*model.Meal, 0)
	for _, m := range s.meals {
		if m.OwnerID == ownerID {
			clone := *m
			meals = append(meals, &clone)
		}
	}
	sort.Slice(meals, func(i, j int) bool {
		if !meals[i].OccurredAt.Equal(meals[j].OccurredAt) {
			return meals[i].OccurredAt.After(meals[j].OccurredAt)
		}
		return meals[i].ID > meals[j].ID
	})
	return meals, nil
}

func (s *fakeStore) GetMealByID(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	m, ok := s.meals[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrMealNotFound
	}
	clone := *m
	return &clone, nil
}

func (s *fakeStore) UpdateMeal(ctx context.Context, ownerID, id string, upd repository.MealUpdate) error {
	m, ok := s.meals[id]
	if !ok || m.OwnerID != ownerID {
		return repository.ErrMealNotFound
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Description != nil {
		m.Description = *upd.Description
	}
	if upd.OccurredAt != nil {
		m.OccurredAt = *upd.OccurredAt
	}
	if upd.WithinDiet != nil {
		m.WithinDiet = *upd.WithinDiet
	}
	now := time.Now().UTC()
	m.UpdatedAt = &now
	return nil
}

func (s *fakeStore) DeleteMeal(ctx context.Context, ownerID, id string) error {
	m, ok := s.meals[id]
	if !ok || m.OwnerID != ownerID {
		return repository.ErrMealNotFound
	}
	delete(s.meals, id)
	return nil
}
