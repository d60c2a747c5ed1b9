package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readyzTimeout bounds the combined dependency probes.
const readyzTimeout = 5 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	probes []probe
}

type probe struct {
	name   string
	target Pinger
}

// NewHealthHandler creates a HealthHandler probing the database and the
// cache. A nil dependency is reported as skipped instead of failing.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		probes: []probe{
			{name: "postgres", target: db},
			{name: "redis", target: cache},
		},
	}
}

// HealthResponse is the body of both probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz handles GET /healthz. It answers 200 as long as the process is
// serving; dependencies are not consulted.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz. It answers 200 only when every configured
// dependency responds, so a failing pod drops out of the load balancer.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.probes))
	ready := true

	for _, p := range h.probes {
		switch {
		case p.target == nil:
			checks[p.name] = "skipped"
		case p.target.Ping(ctx) != nil:
			checks[p.name] = "unreachable"
			ready = false
		default:
			checks[p.name] = "ok"
		}
	}

	status, code := "ok", http.StatusOK
	if !ready {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}
