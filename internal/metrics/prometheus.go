package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements Recorder backed by Prometheus collectors.
type PrometheusRecorder struct {
	usersRegistered prometheus.Counter
	mealOps         *prometheus.CounterVec
	sessionCache    *prometheus.CounterVec
	reportDuration  prometheus.Histogram
}

// NewPrometheus returns a Recorder registered with the given registerer.
// Pass prometheus.DefaultRegisterer to expose via the default /metrics
// handler.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		usersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "mealtrack_users_registered_total",
			Help: "Total number of successful user registrations.",
		}),
		mealOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealtrack_meal_operations_total",
			Help: "Total meal mutations by operation.",
		}, []string{"operation"}),
		sessionCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealtrack_session_cache_total",
			Help: "Session resolution cache lookups by result.",
		}, []string{"result"}),
		reportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealtrack_report_duration_seconds",
			Help:    "Time spent computing diet adherence reports.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncUserRegistered increments the registration counter.
func (p *PrometheusRecorder) IncUserRegistered() {
	p.usersRegistered.Inc()
}

// IncMealCreated increments the meal create counter.
func (p *PrometheusRecorder) IncMealCreated() {
	p.mealOps.WithLabelValues("create").Inc()
}

// IncMealUpdated increments the meal update counter.
func (p *PrometheusRecorder) IncMealUpdated() {
	p.mealOps.WithLabelValues("update").Inc()
}

// IncMealDeleted increments the meal delete counter.
func (p *PrometheusRecorder) IncMealDeleted() {
	p.mealOps.WithLabelValues("delete").Inc()
}

// IncSessionCacheHit increments the session cache hit counter.
func (p *PrometheusRecorder) IncSessionCacheHit() {
	p.sessionCache.WithLabelValues("hit").Inc()
}

// IncSessionCacheMiss increments the session cache miss counter.
func (p *PrometheusRecorder) IncSessionCacheMiss() {
	p.sessionCache.WithLabelValues("miss").Inc()
}

// ObserveReportDuration records the time taken to compute a report.
func (p *PrometheusRecorder) ObserveReportDuration(duration time.Duration) {
	p.reportDuration.Observe(duration.Seconds())
}
