package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mealtrack/mealtrack/internal/model"
)

// ErrMealNotFound is returned when a meal does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so a
// guarded lookup never reveals that an id exists under another account.
var ErrMealNotFound = errors.New("meal not found")

// MealUpdate carries a partial field set for an update. Nil fields keep
// their current value.
type MealUpdate struct {
	Name        *string
	Description *string
	OccurredAt  *time.Time
	WithinDiet  *bool
}

// CreateMeal inserts a new meal into the database.
func (r *Repository) CreateMeal(ctx context.Context, meal *model.Meal) error {
	query := `
		INSERT INTO meals (id, user_id, name, description, occurred_at, within_diet, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.OwnerID,
		meal.Name,
		meal.Description,
		meal.OccurredAt,
		meal.WithinDiet,
		meal.CreatedAt,
		meal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	return nil
}

// ListMealsByOwner retrieves all meals belonging to a user, most recent
// occurred_at first. Meal ids are ULIDs, so the id tie-break keeps meals
// with equal occurred_at in newest-inserted-first order.
func (r *Repository) ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	query := `
		SELECT id, user_id, name, description, occurred_at, within_diet, created_at, updated_at
		FROM meals
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]*model.Meal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	return meals, nil
}

// GetMealByID retrieves a meal by id scoped to its owner in a single
// lookup. Never fetch-then-compare: the owner predicate is part of the
// query itself.
func (r *Repository) GetMealByID(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	query := `
		SELECT id, user_id, name, description, occurred_at, within_diet, created_at, updated_at
		FROM meals
		WHERE id = $1 AND user_id = $2
	`

	meal, err := scanMeal(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

// UpdateMeal applies a partial update to an owner's meal. Fields absent
// from the update retain their current values; updated_at is always set,
// even when the partial field set is empty.
func (r *Repository) UpdateMeal(ctx context.Context, ownerID, id string, upd MealUpdate) error {
	query := `UPDATE meals SET updated_at = $1`
	args := []any{time.Now().UTC()}
	argIndex := 2

	if upd.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIndex)
		args = append(args, *upd.Name)
		argIndex++
	}

	if upd.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIndex)
		args = append(args, *upd.Description)
		argIndex++
	}

	if upd.OccurredAt != nil {
		query += fmt.Sprintf(", occurred_at = $%d", argIndex)
		args = append(args, *upd.OccurredAt)
		argIndex++
	}

	if upd.WithinDiet != nil {
		query += fmt.Sprintf(", within_diet = $%d", argIndex)
		args = append(args, *upd.WithinDiet)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d", argIndex, argIndex+1)
	args = append(args, id, ownerID)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

// DeleteMeal permanently removes an owner's meal. Deleting a meal that
// does not exist (or is not yours) reports ErrMealNotFound.
func (r *Repository) DeleteMeal(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM meals WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

// scanMeal scans a single row into a Meal model.
func scanMeal(row pgx.Row) (*model.Meal, error) {
	var meal model.Meal
	err := row.Scan(
		&meal.ID,
		&meal.OwnerID,
		&meal.Name,
		&meal.Description,
		&meal.OccurredAt,
		&meal.WithinDiet,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
