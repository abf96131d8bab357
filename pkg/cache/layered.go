package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxL1TTL caps how long the memory layer holds an entry, so instances
// sharing a Redis L2 converge within a minute.
const MaxL1TTL = time.Minute

// LayeredStore reads through a fast L1 to a shared L2. L2 hits back-fill L1.
type LayeredStore struct {
	l1 Store
	l2 Store
}

// NewLayeredStore composes l1 in front of l2.
func NewLayeredStore(l1, l2 Store) *LayeredStore {
	return &LayeredStore{l1: l1, l2: l2}
}

// Get checks L1 then L2.
func (s *LayeredStore) Get(ctx context.Context, key string) (*Entry, error) {
	if entry, err := s.l1.Get(ctx, key); err == nil {
		CacheHits.WithLabelValues(BackendLayered).Inc()
		return entry, nil
	}

	entry, err := s.l2.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			CacheErrors.WithLabelValues(BackendLayered, "get").Inc()
		}
		CacheMisses.WithLabelValues(BackendLayered).Inc()
		return nil, err
	}

	if ttl := l1TTL(time.Until(entry.ExpiresAt)); ttl > 0 {
		if err := s.l1.Set(ctx, key, entry.Value, ttl); err != nil {
			log.Warn().Err(err).Str("cache_key", key).Msg("L1 back-fill failed")
		}
	}

	CacheHits.WithLabelValues(BackendLayered).Inc()
	return entry, nil
}

// Set writes L2 first, then L1. An L2 failure is returned after L1 is still
// populated so the local instance keeps serving.
func (s *LayeredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	l2Err := s.l2.Set(ctx, key, value, ttl)
	if l2Err != nil {
		CacheErrors.WithLabelValues(BackendLayered, "set").Inc()
	}

	if err := s.l1.Set(ctx, key, value, l1TTL(ttl)); err != nil {
		return err
	}
	return l2Err
}

// Close closes both layers.
func (s *LayeredStore) Close() error {
	return errors.Join(s.l1.Close(), s.l2.Close())
}

func l1TTL(ttl time.Duration) time.Duration {
	if ttl > MaxL1TTL {
		return MaxL1TTL
	}
	return ttl
}
