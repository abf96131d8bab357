// Package cache provides the TTL cache that sits between the vault's route
// handlers and the football-data.org API.
//
// Every backend implements Store: Get returns ErrCacheMiss when a key was
// never written or its entry is past expiry, Set overwrites unconditionally
// and computes the expiry at write time.
//
// # Backends
//
//   - memory: process-local map guarded by a RWMutex. Expired entries are
//     skipped on read and replaced on the next write; nothing runs in the
//     background. This is the default.
//   - bigcache: allegro/bigcache with per-entry expiry encoded in the value.
//   - redis: shared across server instances, native key TTL.
//   - layered: memory in front of redis, L1 TTL capped at one minute.
//
// # Usage
//
//	store, err := cache.Open(ctx, cache.Options{Backend: cache.BackendMemory})
//	if err != nil {
//		return err
//	}
//	key := cache.Key{Resource: "table", Params: map[string]string{"competition": "PL"}}.String()
//	entry, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch upstream, then:
//		_ = store.Set(ctx, key, payload, 5*time.Minute)
//	}
//
// # Metrics
//
//   - vault_cache_hits_total{backend}
//   - vault_cache_misses_total{backend}
//   - vault_cache_errors_total{backend,operation}
package cache
