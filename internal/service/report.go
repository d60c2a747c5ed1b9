package service

import (
	"sort"

	"github.com/mealtrack/mealtrack/internal/model"
)

// computeMetrics produces adherence counts and the best on-diet streak for
// a set of meals. "Consecutive" is only meaningful along the time axis, so
// the input is re-sorted to ascending occurred_at before the streak scan
// regardless of the order the store returned it in. The sort is stable so
// meals sharing an occurred_at keep their relative listing order.
//
// The scan itself is a single O(n) pass: a running counter increments on
// each on-diet meal, resets on each off-diet meal, and the best value seen
// is the answer. An empty history yields all zeroes.
func computeMetrics(meals []*model.Meal) model.MealMetrics {
	report := model.MealMetrics{Total: len(meals)}
	if len(meals) == 0 {
		return report
	}

	ordered := make([]*model.Meal, len(meals))
	copy(ordered, meals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	current := 0
	for _, meal := range ordered {
		if meal.WithinDiet {
			report.OnDiet++
			current++
			if current > report.BestStreak {
				report.BestStreak = current
			}
		} else {
			report.OffDiet++
			current = 0
		}
	}

	return report
}
