package http

import (
	"log/slog"
	"net/http"

	"estate-watch/internal/handler/http/requestid"
)

// maxBodyBytes bounds watchlist mutation payloads. Entries are tiny; 64 KiB
// leaves headroom for any client.
const maxBodyBytes = 64 << 10

// RouterConfig bundles the handlers mounted on the router.
type RouterConfig struct {
	Deals     *DealsHandler
	Watchlist *WatchlistHandler
	News      *NewsHandler
	Health    *HealthHandler
	Logger    *slog.Logger
}

// NewRouter builds the HTTP handler tree with the standard middleware chain:
// request ID, panic recovery, logging, metrics, body limits.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/deals/apartments", cfg.Deals.Apartments)
	mux.HandleFunc("GET /api/v1/deals/land", cfg.Deals.Land)

	mux.HandleFunc("GET /api/v1/watchlist", cfg.Watchlist.List)
	mux.HandleFunc("POST /api/v1/watchlist", cfg.Watchlist.Add)
	mux.HandleFunc("DELETE /api/v1/watchlist", cfg.Watchlist.Remove)

	mux.HandleFunc("GET /api/v1/news", cfg.News.List)

	mux.Handle("GET /healthz", cfg.Health)
	mux.Handle("GET /metrics", MetricsHandler())

	var handler http.Handler = mux
	handler = LimitRequestBody(maxBodyBytes)(handler)
	handler = Metrics(handler)
	handler = Logging(cfg.Logger)(handler)
	handler = Recover(cfg.Logger)(handler)
	handler = requestid.Middleware(handler)
	return handler
}
