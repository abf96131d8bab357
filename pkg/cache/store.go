package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned when a key was never set or its entry expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendBigCache = "bigcache"
	BackendRedis    = "redis"
	BackendLayered  = "layered"
)

// Store is a TTL key/value store for serialized route responses.
type Store interface {
	// Get returns the live entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set overwrites key with value, expiring ttl from now. A non-positive
	// ttl is a no-op.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of the Backend* constants; empty means memory.
	Backend string

	// Redis is required for the redis and layered backends.
	Redis *redis.Client

	// LifeWindow bounds how long bigcache keeps any entry.
	// Per-entry TTLs shorter than this still apply.
	LifeWindow time.Duration
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBigCache:
		return NewBigCacheStore(ctx, opts.LifeWindow)
	case BackendRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%s backend: redis client is required", opts.Backend)
		}
		return NewRedisStore(opts.Redis), nil
	case BackendLayered:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%s backend: redis client is required", opts.Backend)
		}
		return NewLayeredStore(NewMemoryStore(), NewRedisStore(opts.Redis)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
