// Package deals orchestrates the transaction lookback-window fetch and the
// watchlist merge, producing one reconciled view per source kind.
package deals

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/observability/metrics"
	"estate-watch/internal/pkg/cache"
	"estate-watch/internal/usecase/merge"
)

// TransactionSource fetches and normalizes one monthly transaction batch.
type TransactionSource interface {
	FetchMonth(ctx context.Context, kind entity.Kind, lawdCode, yearMonth string) ([]*entity.TransactionRecord, error)
}

// Config holds the deal service configuration.
type Config struct {
	// ServiceKey is included in cache keys so results fetched with
	// different credentials are never shared. Empty means unconfigured.
	ServiceKey     string
	LawdCode       string
	LookbackMonths int
	// Parallelism bounds concurrent month fetches. Months carry no
	// ordering dependency, so their results merge order-independently.
	Parallelism int
	CacheTTL    time.Duration
}

// Service provides the reconciled transaction views.
type Service struct {
	source TransactionSource
	cfg    Config
	cache  *cache.Cache[[]*entity.TransactionRecord]
	now    func() time.Time
}

// NewService creates a deal service with the provided source and config.
func NewService(source TransactionSource, cfg Config) *Service {
	if cfg.LookbackMonths <= 0 {
		cfg.LookbackMonths = 6
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Service{
		source: source,
		cfg:    cfg,
		cache:  cache.New[[]*entity.TransactionRecord](cfg.CacheTTL),
		now:    time.Now,
	}
}

// Window returns all canonical records for the trailing lookback window,
// sorted by contract date descending. A month whose fetch fails contributes
// zero records; the remaining months still load. The assembled window is
// cached by the exact parameter tuple, credentials included.
func (s *Service) Window(ctx context.Context, kind entity.Kind) ([]*entity.TransactionRecord, error) {
	if s.cfg.ServiceKey == "" {
		return nil, entity.ErrKeyRequired
	}

	months := s.months()
	key := cache.Key("deals-window", s.cfg.ServiceKey, s.cfg.LawdCode, string(kind), strings.Join(months, ","))
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup("deals-window", true)
		return cached, nil
	}
	metrics.RecordCacheLookup("deals-window", false)

	perMonth := make([][]*entity.TransactionRecord, len(months))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Parallelism)
	for i, ym := range months {
		eg.Go(func() error {
			start := time.Now()
			records, err := s.source.FetchMonth(egCtx, kind, s.cfg.LawdCode, ym)
			metrics.RecordMonthlyFetch(string(kind), time.Since(start))
			if err != nil {
				// One dead month degrades to zero records; the
				// rest of the window still loads.
				metrics.RecordMonthlyFetchError(string(kind), "transport")
				slog.Warn("monthly batch fetch failed, continuing with remaining months",
					slog.String("kind", string(kind)),
					slog.String("year_month", ym),
					slog.Any("error", err))
				return nil
			}
			perMonth[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("fetch lookback window: %w", err)
	}

	var all []*entity.TransactionRecord
	for _, records := range perMonth {
		all = append(all, records...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ContractDate.After(all[j].ContractDate)
	})

	s.cache.Set(key, all)
	return all, nil
}

// MergedView reconciles the lookback window with the watchlist snapshot for
// the selected districts. Both inputs are filtered to those districts before
// the merge; watchlist entries for other regions were already excluded by
// the caller. An empty land view yields a single placeholder row for the
// first selected district, so that tab is never blank.
func (s *Service) MergedView(ctx context.Context, kind entity.Kind, districts []string, watchlist []entity.WatchlistEntry) ([]entity.MergedRow, error) {
	records, err := s.Window(ctx, kind)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(districts))
	for _, d := range districts {
		selected[d] = true
	}

	filtered := make([]*entity.TransactionRecord, 0, len(records))
	for _, r := range records {
		if selected[r.District] {
			filtered = append(filtered, r)
		}
	}

	watched := make([]entity.WatchlistEntry, 0, len(watchlist))
	for _, e := range watchlist {
		if selected[e.District] {
			watched = append(watched, e)
		}
	}

	rows := merge.Rows(filtered, watched)
	if kind == entity.KindLand && len(rows) == 0 && len(districts) > 0 {
		rows = []entity.MergedRow{entity.PlaceholderRow(districts[0], entity.PlaceholderDate)}
	}
	return rows, nil
}

// TransactedNames returns the distinct asset names observed in the district
// during the lookback window, in first-seen order. It backs the fuzzy
// resolver's candidate pool. A key-required or degraded window yields an
// empty pool, never an error: resolution falls back to identity.
func (s *Service) TransactedNames(ctx context.Context, kind entity.Kind, district string) []string {
	records, err := s.Window(ctx, kind)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if r.District != district || seen[r.AssetName] {
			continue
		}
		seen[r.AssetName] = true
		names = append(names, r.AssetName)
	}
	return names
}

// months formats the trailing lookback window as YYYYMM strings, the current
// month first.
func (s *Service) months() []string {
	now := s.now()
	months := make([]string, 0, s.cfg.LookbackMonths)
	year, month, _ := now.Date()
	cursor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < s.cfg.LookbackMonths; i++ {
		months = append(months, cursor.Format("200601"))
		cursor = cursor.AddDate(0, -1, 0)
	}
	return months
}
