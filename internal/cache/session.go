package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionNamespace follows the cache key prefix for live token ids.
const sessionNamespace = "session:"

// ErrInvalidSessionTTL is returned when a session would never be stored.
var ErrInvalidSessionTTL = errors.New("session ttl must be positive")

func (c *Cache) sessionKey(tokenID string) string {
	return c.prefix + sessionNamespace + tokenID
}

// RegisterSession marks tokenID as live for ttl. The value is the owning user id.
func (c *Cache) RegisterSession(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidSessionTTL
	}
	if err := c.client.Set(ctx, c.sessionKey(tokenID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

// SessionOwner returns the user id a live session belongs to.
// Returns (0, false, nil) when the session is not registered.
func (c *Cache) SessionOwner(ctx context.Context, tokenID string) (int64, bool, error) {
	raw, err := c.client.Get(ctx, c.sessionKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Corrupted entry - treat as missing
		return 0, false, nil //nolint:nilerr
	}
	return userID, true, nil
}

// RotateSession replaces oldID with newID.
// Returns false without registering newID if oldID was no longer live.
func (c *Cache) RotateSession(ctx context.Context, oldID, newID string, userID int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, ErrInvalidSessionTTL
	}

	// DEL returns the number of removed keys; a zero means a concurrent
	// logout or refresh already consumed the old id.
	removed, err := c.client.Del(ctx, c.sessionKey(oldID)).Result()
	if err != nil {
		return false, fmt.Errorf("rotate session: %w", err)
	}
	if removed == 0 {
		return false, nil
	}

	if err := c.client.Set(ctx, c.sessionKey(newID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return false, fmt.Errorf("rotate session: %w", err)
	}
	return true, nil
}

// DeleteSession removes tokenID. Deleting an unknown id is not an error.
func (c *Cache) DeleteSession(ctx context.Context, tokenID string) error {
	if err := c.client.Del(ctx, c.sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
