package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "deepsearch"

// Deep search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end deep search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"cached", "outcome"}, // outcome: ok / partial / unavailable
	)

	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Source adapter calls by content type and outcome",
		},
		[]string{"content_type", "status"}, // status: ok / error / timeout
	)

	SourceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Source adapter call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"content_type"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses per tier",
		},
		[]string{"tier", "result"}, // tier: memory / redis; result: hit / miss
	)

	CacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_invalidations_total",
			Help:      "Result cache invalidations by origin",
		},
		[]string{"origin"}, // origin: local / broadcast / flush
	)
)

var registerOnce sync.Once

// RegisterSearchMetrics registers every collector with the default registry.
// Must be called from main; repeated calls are no-ops.
func RegisterSearchMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchDuration,
			SourceRequestsTotal,
			SourceDuration,
			CacheTotal,
			CacheInvalidationsTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
		)
	})
}
