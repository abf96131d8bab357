package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nufcvault/vault/pkg/cache"
)

// loader fetches and shapes a route payload on a cache miss.
type loader func(ctx context.Context) (any, error)

// cached returns the JSON payload stored under key, loading it on a miss.
// Concurrent misses on one key share a single load. Backend failures are
// logged and treated as misses so a broken cache never fails a request.
func (s *Server) cached(ctx context.Context, route string, key cache.Key, ttl time.Duration, load loader) ([]byte, error) {
	cacheKey := key.String()

	entry, err := s.store.Get(ctx, cacheKey)
	if err == nil {
		routeCacheTotal.WithLabelValues(route, "hit").Inc()
		s.logger.Debug().Str("route", route).Str("cache_key", cacheKey).Bool("cache_hit", true).Msg("Serving from cache")
		return entry.Value, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Cache get error")
	}
	routeCacheTotal.WithLabelValues(route, "miss").Inc()

	// The shared load must outlive whichever caller started it.
	loadCtx := context.WithoutCancel(ctx)

	value, err, shared := s.group.Do(cacheKey, func() (any, error) {
		payload, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", route, err)
		}

		if err := s.store.Set(loadCtx, cacheKey, body, ttl); err != nil {
			s.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Cache set error")
		} else {
			s.logger.Debug().Str("cache_key", cacheKey).Dur("ttl", ttl).Msg("Cached response")
		}
		return body, nil
	})
	if shared {
		routeSharedLoadsTotal.WithLabelValues(route).Inc()
	}
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}
