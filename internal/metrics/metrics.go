// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecfr_dashboard"

var (
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Requests answered from a fresh local cache file.",
		},
		[]string{"resource"},
	)

	CacheRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_refreshes_total",
			Help:      "Cache misses that triggered an upstream fetch.",
		},
		[]string{"resource"},
	)

	CacheWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_failures_total",
			Help:      "Upstream payloads that could not be persisted to the cache.",
		},
		[]string{"resource"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls to the eCFR API by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	CollectionFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_fallbacks_total",
			Help:      "Collection reads that returned the default because the file was missing or corrupt.",
		},
		[]string{"collection", "reason"},
	)
)
