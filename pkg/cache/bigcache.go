package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/rs/zerolog/log"
)

// DefaultLifeWindow is the bigcache eviction window when none is configured.
const DefaultLifeWindow = 10 * time.Minute

// BigCacheStore keeps entries in allegro/bigcache shards. Bigcache only knows
// a global life window, so each entry carries its own expiry.
type BigCacheStore struct {
	cache *bigcache.BigCache
	now   func() time.Time
}

// NewBigCacheStore creates a bigcache-backed store.
func NewBigCacheStore(ctx context.Context, lifeWindow time.Duration) (*BigCacheStore, error) {
	if lifeWindow <= 0 {
		lifeWindow = DefaultLifeWindow
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = lifeWindow / 2
	cfg.HardMaxCacheSize = 64 // MB
	cfg.Verbose = false

	bc, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bigcache init: %w", err)
	}

	return &BigCacheStore{cache: bc, now: time.Now}, nil
}

// Get returns the live entry for key.
func (b *BigCacheStore) Get(_ context.Context, key string) (*Entry, error) {
	data, err := b.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		CacheMisses.WithLabelValues(BackendBigCache).Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		CacheErrors.WithLabelValues(BackendBigCache, "get").Inc()
		return nil, fmt.Errorf("bigcache get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues(BackendBigCache, "get").Inc()
		log.Warn().Err(err).Str("cache_key", key).Msg("Discarding undecodable bigcache entry")
		return nil, ErrCacheMiss
	}

	if entry.ExpiredAt(b.now()) {
		CacheMisses.WithLabelValues(BackendBigCache).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(BackendBigCache).Inc()
	return &entry, nil
}

// Set stores value under key until now + ttl.
func (b *BigCacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(newEntry(value, b.now(), ttl))
	if err != nil {
		CacheErrors.WithLabelValues(BackendBigCache, "set").Inc()
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := b.cache.Set(key, data); err != nil {
		CacheErrors.WithLabelValues(BackendBigCache, "set").Inc()
		return fmt.Errorf("bigcache set: %w", err)
	}
	return nil
}

// Close stops bigcache's cleanup goroutine.
func (b *BigCacheStore) Close() error {
	return b.cache.Close()
}
