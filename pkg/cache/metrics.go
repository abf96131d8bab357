package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend ("memory", "bigcache", "redis", "layered")
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_cache_hits_total",
			Help: "Total number of vault cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks cache misses, including reads past expiry
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_cache_misses_total",
			Help: "Total number of vault cache misses",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks backend failures
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "set"
	)
)
