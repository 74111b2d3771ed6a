package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for server-side sessions.
// The session id is hashed so a key listing never exposes live ids.
const sessionKeyPrefix = "session:"

func sessionKey(id string) string {
	return sessionKeyPrefix + auth.QuickHash(id)
}

// SaveSession stores sess with an idle timeout of ttl.
func (c *Cache) SaveSession(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// LoadSession fetches a session and pushes its expiry ttl into the future.
// Returns nil if the session does not exist or has expired.
func (c *Cache) LoadSession(ctx context.Context, id string, ttl time.Duration) (*model.Session, error) {
	data, err := c.client.GetEx(ctx, sessionKey(id), ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupted entry - treat as expired
		return nil, nil //nolint:nilerr
	}

	return &sess, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
