package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore stores entries in Redis with a native key TTL, so every server
// instance pointed at the same Redis shares one cache.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client is required")
	}
	return &RedisStore{redis: redisClient}
}

// Get retrieves a cached entry from Redis.
func (r *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		CacheMisses.WithLabelValues(BackendRedis).Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		CacheErrors.WithLabelValues(BackendRedis, "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues(BackendRedis, "get").Inc()
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}

	// Redis expiry has second granularity; honour the exact ExpiresAt.
	if entry.IsExpired() {
		CacheMisses.WithLabelValues(BackendRedis).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(BackendRedis).Inc()
	return &entry, nil
}

// Set stores an entry in Redis with the given TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(newEntry(value, time.Now(), ttl))
	if err != nil {
		CacheErrors.WithLabelValues(BackendRedis, "set").Inc()
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := r.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues(BackendRedis, "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *RedisStore) Close() error {
	return nil
}
