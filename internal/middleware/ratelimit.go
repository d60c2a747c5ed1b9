package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mealtrack/mealtrack/internal/auth"
	"github.com/mealtrack/mealtrack/internal/cache"
)

// RateLimiter checks request budgets per session.
type RateLimiter interface {
	CheckSessionRateLimit(ctx context.Context, digest string, limitPerMinute int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	Logger    *slog.Logger
	Limiter   RateLimiter
	Enabled   bool
	PerMinute int
}

// RateLimit returns middleware that rate limits requests per session.
// Must be applied after the Session middleware. Fails open when the
// limiter errors or no session is present.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || cfg.PerMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			user := auth.UserFromContext(r.Context())
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			digest := auth.TokenDigest(user.SessionToken)

			result, err := cfg.Limiter.CheckSessionRateLimit(r.Context(), digest, cfg.PerMinute)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("user_id", user.ID),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.PerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("user_id", user.ID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded.","code":"RATE_LIMITED"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
