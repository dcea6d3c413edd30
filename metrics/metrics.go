package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики для запросов к TTMS, кэша и HTTP API
var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttms_upstream_requests_total",
			Help: "Total number of upstream TTMS requests by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ttms_upstream_request_duration_seconds",
			Help:    "Duration of upstream TTMS requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity"},
	)

	UpstreamPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttms_upstream_pages_total",
			Help: "Total number of paginated pages fetched by entity",
		},
		[]string{"entity"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ttms_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ttms_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ttms_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_report_duration_seconds",
			Help:    "Duration of analysis report computation",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"report"},
	)

	ReportSkippedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_report_skipped_items_total",
			Help: "Items skipped in multi-item reports because their fetch failed",
		},
		[]string{"report"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
