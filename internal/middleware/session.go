package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mealtrack/mealtrack/internal/auth"
	"github.com/mealtrack/mealtrack/internal/metrics"
	"github.com/mealtrack/mealtrack/internal/model"
	"github.com/mealtrack/mealtrack/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// SessionResolver resolves a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*model.User, error)
}

// SessionCache is a cache-aside store for resolved sessions, keyed by
// token digest.
type SessionCache interface {
	GetSession(ctx context.Context, digest string) (*model.User, error)
	SetSession(ctx context.Context, digest string, user *model.User) error
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Resolver SessionResolver
	Cache    SessionCache     // optional
	Metrics  metrics.Recorder // optional
}

// Session returns a middleware that resolves the caller's session token to
// a user and injects it into the request context. An absent or unknown
// token yields a uniform 401; a storage fault yields a 500 and is never
// masked as unauthorized.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				cfg.Logger.Warn("session rejected",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			digest := auth.TokenDigest(token)

			if cfg.Cache != nil {
				user, _ := cfg.Cache.GetSession(r.Context(), digest)
				if user != nil {
					recorder.IncSessionCacheHit()
					ctx := auth.ContextWithUser(r.Context(), user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				recorder.IncSessionCacheMiss()
			}

			user, err := cfg.Resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrSessionNotFound) {
					cfg.Logger.Warn("session rejected",
						slog.String("reason", "unknown_token"),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeUnauthorized(w)
					return
				}

				cfg.Logger.Error("session resolution failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeServerError(w)
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetSession(r.Context(), digest, user)
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionToken pulls the session token from the request.
// The cookie is the primary transport; "Authorization: Bearer <token>"
// works for non-browser clients.
func extractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// writeUnauthorized writes a 401 response. The message is identical for a
// missing and an unknown token to prevent enumeration.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized.","code":"UNAUTHORIZED"}`))
}

// writeServerError writes a generic 500 response.
func writeServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"An internal error occurred.","code":"INTERNAL_ERROR"}`))
}
