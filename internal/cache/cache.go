// Package cache provides the derived-view cache used for leaderboards,
// ranks, efficiency scores and analysis results. Entries are invalidated by
// key prefix on every write to the underlying aggregates; the cache is never
// a source of truth and is always safe to discard.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is the get/set/invalidate contract the services depend on
type Cache interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL; zero TTL means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes every key beginning with prefix
	Invalidate(ctx context.Context, prefix string) error

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	Close() error
}

// GetJSON reads a key and unmarshals it into dest. Returns false when the
// key is absent.
func GetJSON(ctx context.Context, c Cache, key string, dest interface{}) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
