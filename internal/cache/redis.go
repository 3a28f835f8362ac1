package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore is the optional durable cache tier. Entries carry their logical
// expiry in the envelope; the physical Redis TTL is extended past it so
// stale entries survive for degraded fallback.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *logrus.Entry
}

// NewRedisStore creates a durable tier over an existing Redis client.
func NewRedisStore(client *redis.Client, keyPrefix string, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.WithField("component", "durable_cache"),
	}
}

// Get returns the entry for a key, fresh or stale, or nil on a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set upserts the entry. Idempotent: writing the same entry twice leaves one
// copy with the latest timestamps.
func (s *RedisStore) Set(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	ttl := entry.ExpiresAt.Sub(entry.ComputedAt) * staleGraceFactor
	if err := s.client.Set(ctx, s.keyPrefix+entry.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":        entry.Key,
		"expires_at": entry.ExpiresAt,
		"size_bytes": len(data),
	}).Debug("Cached entry in durable tier")
	return nil
}

// Invalidate removes the given keys.
func (s *RedisStore) Invalidate(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.keyPrefix + key
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}
