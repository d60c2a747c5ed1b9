// Package auth provides session token utilities and request identity plumbing.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/mealtrack/mealtrack/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userContextKey is the context key for the resolved session user.
const userContextKey contextKey = "session_user"

// NewSessionToken generates a fresh opaque session token.
// Tokens are issued once at registration and never rotated.
func NewSessionToken() string {
	return uuid.New().String()
}

// TokenDigest returns a hex SHA-256 digest of a session token.
// Used as the cache key so raw tokens never reach Redis.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ContextWithUser adds the resolved session user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the resolved session user from the context.
// Returns nil if no session middleware has run.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the resolved session user from the context.
// Panics if not present (use only behind the session middleware).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("session user not found - ensure session middleware is applied")
	}
	return user
}
