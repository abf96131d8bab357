package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_route_requests_total",
		Help: "Total API responses by route and HTTP status",
	}, []string{"route", "status"})

	routeCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_route_cache_total",
		Help: "Route cache lookups by result (hit, miss)",
	}, []string{"route", "result"})

	routeSharedLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_route_shared_loads_total",
		Help: "Cache misses whose upstream load was shared with concurrent requests",
	}, []string{"route"})
)
