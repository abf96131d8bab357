// Package metrics exposes the vault's Prometheus metrics.
// All metrics are defined in their respective packages (cache, footballdata,
// ratelimit, api, poller) via promauto to keep those packages self-contained.
//
// This package provides the HTTP handler and documents every metric.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default gatherer in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - vault_cache_hits_total{backend} (Counter): Cache hits by backend
//   - vault_cache_misses_total{backend} (Counter): Misses, including reads past expiry
//   - vault_cache_errors_total{backend, operation} (Counter): Backend failures
//
// Upstream Metrics (pkg/footballdata):
//   - vault_upstream_requests_total{endpoint, status} (Counter): football-data.org calls
//   - vault_upstream_request_duration_seconds{endpoint} (Histogram): Call latency
//   - vault_upstream_errors_total{class} (Counter): Errors by class (auth, rate_limit, client, server, network, timeout)
//
// Quota Metrics (pkg/ratelimit):
//   - vault_upstream_quota_available (Gauge): Requests left in the provider's current minute
//   - vault_upstream_quota_blocks_total (Counter): Calls refused locally while the quota was spent
//
// Route Metrics (pkg/api):
//   - vault_route_requests_total{route, status} (Counter): API responses by route and status
//   - vault_route_cache_total{route, result} (Counter): Route cache lookups (hit, miss)
//   - vault_route_shared_loads_total{route} (Counter): Misses whose load was shared with concurrent requests
//
// Poller Metrics (pkg/poller, served by vault-watch -metrics-addr):
//   - vault_poller_renders_total{page, live} (Counter): Page renders by the terminal poller
//
// Example Prometheus Queries:
//
//	# Route cache hit rate
//	sum(rate(vault_route_cache_total{result="hit"}[5m])) /
//	sum(rate(vault_route_cache_total[5m]))
//
//	# Upstream 429s
//	rate(vault_upstream_errors_total{class="rate_limit"}[5m])
//
//	# P95 upstream latency
//	histogram_quantile(0.95, rate(vault_upstream_request_duration_seconds_bucket[5m]))
