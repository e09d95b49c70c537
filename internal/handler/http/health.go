package http

import (
	"net/http"
	"time"

	"estate-watch/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health check endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single check item.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler handles health check endpoint requests. The process has no
// hard dependencies, so it always reports healthy; missing credentials show
// up as degraded checks so operators see why a tab renders empty.
type HealthHandler struct {
	Version           string
	MolitKeySet       bool
	NaverCredsSet     bool
	WatchlistPath     string
	WatchlistReadable func() bool
}

// ServeHTTP reports the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.MolitKeySet {
		checks["transaction_api"] = CheckStatus{Status: "healthy"}
	} else {
		checks["transaction_api"] = CheckStatus{Status: "degraded", Message: "service key not configured"}
	}

	if h.NaverCredsSet {
		checks["naver_news"] = CheckStatus{Status: "healthy"}
	} else {
		checks["naver_news"] = CheckStatus{Status: "degraded", Message: "credentials not configured, source disabled"}
	}

	watchlistStatus := CheckStatus{Status: "healthy", Message: h.WatchlistPath}
	if h.WatchlistReadable != nil && !h.WatchlistReadable() {
		watchlistStatus = CheckStatus{Status: "degraded", Message: "watchlist file unreadable, serving empty watchlist"}
	}
	checks["watchlist_store"] = watchlistStatus

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}
