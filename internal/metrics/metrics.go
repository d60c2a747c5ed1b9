// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Registration and meal lifecycle
	IncUserRegistered()
	IncMealCreated()
	IncMealUpdated()
	IncMealDeleted()

	// Session resolution cache
	IncSessionCacheHit()
	IncSessionCacheMiss()

	// Diet report computation
	ObserveReportDuration(duration time.Duration)
}
