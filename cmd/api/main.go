package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-watch/internal/config"
	"estate-watch/internal/domain/entity"
	hhttp "estate-watch/internal/handler/http"
	"estate-watch/internal/infra/molit"
	"estate-watch/internal/infra/newsfeed"
	watchliststore "estate-watch/internal/infra/watchlist"
	"estate-watch/internal/links"
	"estate-watch/internal/observability/logging"
	"estate-watch/internal/usecase/deals"
	"estate-watch/internal/usecase/news"
	"estate-watch/internal/usecase/resolve"
	watchlistuc "estate-watch/internal/usecase/watchlist"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if !cfg.KeyConfigured() {
		logger.Warn("transaction service key not configured, deal views will report key-required")
	}

	handler := setupServer(logger, cfg)
	runServer(logger, handler, cfg.HTTPAddr, getVersion())
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the services and returns the HTTP handler tree.
func setupServer(logger *slog.Logger, cfg *config.Config) http.Handler {
	region := cfg.Active()

	molitClientCfg := molit.DefaultClientConfig(cfg.ServiceKey)
	molitClientCfg.Timeout = cfg.FetchTimeout.Std()
	source := molit.NewSource(molit.NewClient(molitClientCfg))

	dealsSvc := deals.NewService(source, deals.Config{
		ServiceKey:     cfg.ServiceKey,
		LawdCode:       region.LawdCode,
		LookbackMonths: cfg.LookbackMonths,
		Parallelism:    cfg.FetchParallelism,
		CacheTTL:       cfg.DealsCacheTTL.Std(),
	})

	seed := make([]entity.WatchlistEntry, 0, len(region.SeedWatchlist))
	for _, s := range region.SeedWatchlist {
		seed = append(seed, entity.WatchlistEntry{
			Region:    region.Name,
			District:  s.District,
			AssetName: s.AssetName,
		})
	}
	store := watchliststore.NewCSVStore(cfg.WatchlistPath, region.Name, seed)
	watchlistSvc := watchlistuc.NewService(store, resolve.New(cfg.FuzzyThreshold), dealsSvc, region.Name)

	feedClient := &http.Client{Timeout: cfg.FetchTimeout.Std()}
	sources := []news.FeedSource{newsfeed.NewGoogleSource(feedClient)}
	if cfg.NaverClientID != "" && cfg.NaverClientSecret != "" {
		sources = append(sources, newsfeed.NewNaverSource(feedClient, cfg.NaverClientID, cfg.NaverClientSecret))
	} else {
		logger.Info("naver news credentials not configured, using RSS source only")
	}
	newsSvc := news.NewService(sources, news.Config{
		Region:           region.Name,
		Sites:            cfg.NewsSites,
		WindowDays:       cfg.NewsWindowDays,
		MaxItems:         cfg.NewsMaxItems,
		MaxItemsFiltered: cfg.NewsMaxItemsFiltered,
		CacheTTL:         cfg.NewsCacheTTL.Std(),
	})

	return hhttp.NewRouter(hhttp.RouterConfig{
		Deals:     hhttp.NewDealsHandler(dealsSvc, watchlistSvc, links.New(region.Name), region.Name, region.Districts),
		Watchlist: hhttp.NewWatchlistHandler(watchlistSvc),
		News:      hhttp.NewNewsHandler(newsSvc),
		Health: &hhttp.HealthHandler{
			Version:       getVersion(),
			MolitKeySet:   cfg.KeyConfigured(),
			NaverCredsSet: cfg.NaverClientID != "" && cfg.NaverClientSecret != "",
			WatchlistPath: cfg.WatchlistPath,
		},
		Logger: logger,
	})
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, addr, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
