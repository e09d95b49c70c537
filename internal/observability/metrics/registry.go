// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Transaction fetch metrics track the monthly batch pipeline
var (
	// MonthlyFetchDuration measures the duration of one monthly batch fetch
	MonthlyFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transaction_monthly_fetch_duration_seconds",
			Help:    "Duration of one monthly transaction batch fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// MonthlyFetchErrors counts monthly batches degraded to zero records
	MonthlyFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_monthly_fetch_errors_total",
			Help: "Monthly transaction batches degraded to zero records",
		},
		[]string{"kind", "reason"},
	)

	// RecordsNormalized counts canonical records produced by the normalizer
	RecordsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_records_normalized_total",
			Help: "Canonical transaction records produced",
		},
		[]string{"kind"},
	)

	// RecordsDropped counts raw items dropped as malformed
	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_records_dropped_total",
			Help: "Raw transaction items dropped as malformed",
		},
		[]string{"kind"},
	)
)

// Cache metrics track the parameter-tuple cache in front of external calls
var (
	// CacheRequestsTotal counts cache lookups by operation and outcome
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "param_cache_requests_total",
			Help: "Parameter-tuple cache lookups",
		},
		[]string{"operation", "outcome"},
	)
)

// News metrics track feed aggregation
var (
	// NewsFetchErrors counts news feed fetches degraded to empty results
	NewsFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetch_errors_total",
			Help: "News feed fetches degraded to empty results",
		},
		[]string{"backend"},
	)

	// NewsItemsReturned counts aggregated news items returned to callers
	NewsItemsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_returned_total",
			Help: "Aggregated news items returned",
		},
		[]string{"category"},
	)
)

// Watchlist metrics
var (
	// WatchlistSize tracks the current number of watchlist entries
	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchlist_entries",
			Help: "Current number of watchlist entries",
		},
	)

	// FuzzyResolutions counts fuzzy name resolutions by outcome
	FuzzyResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzy_name_resolutions_total",
			Help: "Fuzzy name resolution attempts",
		},
		[]string{"outcome"},
	)
)
