package metrics

import "time"

// RecordMonthlyFetch records the duration of one monthly batch fetch.
func RecordMonthlyFetch(kind string, duration time.Duration) {
	MonthlyFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordMonthlyFetchError records a monthly batch that degraded to zero
// records. Reason is one of "transport", "status", "decode".
func RecordMonthlyFetchError(kind, reason string) {
	MonthlyFetchErrors.WithLabelValues(kind, reason).Inc()
}

// RecordNormalized records canonical records produced for a source kind.
func RecordNormalized(kind string, count int) {
	RecordsNormalized.WithLabelValues(kind).Add(float64(count))
}

// RecordDropped records one raw item dropped as malformed.
func RecordDropped(kind string) {
	RecordsDropped.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a cache lookup outcome for an operation.
func RecordCacheLookup(operation string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordNewsFetchError records a news feed fetch that degraded to empty.
func RecordNewsFetchError(backend string) {
	NewsFetchErrors.WithLabelValues(backend).Inc()
}

// RecordNewsReturned records aggregated items returned for a category.
func RecordNewsReturned(category string, count int) {
	NewsItemsReturned.WithLabelValues(category).Add(float64(count))
}

// UpdateWatchlistSize updates the watchlist size gauge.
func UpdateWatchlistSize(count int) {
	WatchlistSize.Set(float64(count))
}

// RecordFuzzyResolution records a fuzzy resolution outcome.
// Outcome is "resolved" when a pool name was substituted, "identity" otherwise.
func RecordFuzzyResolution(resolved bool) {
	outcome := "identity"
	if resolved {
		outcome = "resolved"
	}
	FuzzyResolutions.WithLabelValues(outcome).Inc()
}
