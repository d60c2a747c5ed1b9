package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mealtrack/mealtrack/internal/model"
)

const (
	// sessionCachePrefix is the Redis key prefix for resolved sessions.
	sessionCachePrefix = "session:user:"
	// sessionCacheTTL bounds staleness of a cached resolution. Users are
	// immutable once registered, so the TTL only limits memory, not
	// correctness.
	sessionCacheTTL = 10 * time.Minute
)

// cachedUser is the Redis representation of a resolved session.
type cachedUser struct {
	ID           string `json:"id"`
	SessionToken string `json:"session_token"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// GetSession retrieves a cached session resolution by token digest.
// Returns nil on a cache miss.
func (c *Cache) GetSession(ctx context.Context, digest string) (*model.User, error) {
	key := sessionCachePrefix + digest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:           cached.ID,
		SessionToken: cached.SessionToken,
		Name:         cached.Name,
		Email:        cached.Email,
		AvatarURL:    cached.AvatarURL,
	}, nil
}

// SetSession caches a resolved session under its token digest.
func (c *Cache) SetSession(ctx context.Context, digest string, user *model.User) error {
	key := sessionCachePrefix + digest

	cached := cachedUser{
		ID:           user.ID,
		SessionToken: user.SessionToken,
		Name:         user.Name,
		Email:        user.Email,
		AvatarURL:    user.AvatarURL,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, key, data, sessionCacheTTL).Err()
}
