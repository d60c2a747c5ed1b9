package dto

import (
	"time"

	"github.com/mealtrack/mealtrack/internal/model"
)

// CreateMealRequest represents the request body for recording a meal.
// WithinDiet is a pointer so a missing field is distinguishable from an
// explicit false.
type CreateMealRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	WithinDiet  *bool     `json:"within_diet"`
}

// UpdateMealRequest represents a partial update. Absent fields keep their
// current values.
type UpdateMealRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	WithinDiet  *bool      `json:"within_diet,omitempty"`
}

// MealResponse represents a meal in API responses.
type MealResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OccurredAt  time.Time  `json:"occurred_at"`
	WithinDiet  bool       `json:"within_diet"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MealEnvelope wraps a single meal.
type MealEnvelope struct {
	Meal MealResponse `json:"meal"`
}

// MealListResponse wraps a user's meal listing.
type MealListResponse struct {
	Meals []MealResponse `json:"meals"`
}

// MetricsResponse represents diet adherence metrics.
type MetricsResponse struct {
	Total      int `json:"total"`
	OnDiet     int `json:"on_diet_count"`
	OffDiet    int `json:"off_diet_count"`
	BestStreak int `json:"best_streak"`
}

// ToMealResponse converts a Meal model to a MealResponse DTO.
func ToMealResponse(meal *model.Meal) MealResponse {
	return MealResponse{
		ID:          meal.ID,
		Name:        meal.Name,
		Description: meal.Description,
		OccurredAt:  meal.OccurredAt,
		WithinDiet:  meal.WithinDiet,
		CreatedAt:   meal.CreatedAt,
		UpdatedAt:   meal.UpdatedAt,
	}
}

// ToMealListResponse converts a slice of Meal models to a MealListResponse.
func ToMealListResponse(meals []*model.Meal) MealListResponse {
	responses := make([]MealResponse, len(meals))
	for i, meal := range meals {
		responses[i] = ToMealResponse(meal)
	}
	return MealListResponse{Meals: responses}
}

// ToMetricsResponse converts MealMetrics to its response DTO.
func ToMetricsResponse(m model.MealMetrics) MetricsResponse {
	return MetricsResponse{
		Total:      m.Total,
		OnDiet:     m.OnDiet,
		OffDiet:    m.OffDiet,
		BestStreak: m.BestStreak,
	}
}
