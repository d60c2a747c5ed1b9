// Package model defines domain entities for the application.
package model

import "time"

// Meal represents a single recorded meal owned by exactly one user.
// OwnerID never changes after creation; there is no transfer operation.
type Meal struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OccurredAt  time.Time  `json:"occurred_at"`
	WithinDiet  bool       `json:"within_diet"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MealMetrics summarizes a user's adherence to their declared diet.
// BestStreak is the longest contiguous run of within-diet meals in
// chronological order.
type MealMetrics struct {
	Total      int `json:"total"`
	OnDiet     int `json:"on_diet_count"`
	OffDiet    int `json:"off_diet_count"`
	BestStreak int `json:"best_streak"`
}
