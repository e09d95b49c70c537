// Package news aggregates regional news from external feed sources, filters
// it by category and publisher, and bounds the result for display.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/observability/metrics"
	"estate-watch/internal/pkg/cache"
)

// realEstateKeywords mark an article as real-estate coverage. The general
// category excludes them so the two categories never overlap.
var realEstateKeywords = []string{"부동산", "아파트", "주택", "분양", "매매", "토지"}

// noiseKeywords identify recurring non-news sections worth dropping outright.
var noiseKeywords = []string{"운세", "부고", "인사", "동정", "게시판"}

// SearchQuery is the request handed to each feed source.
type SearchQuery struct {
	Region     string
	Category   entity.NewsCategory
	Sites      []string
	WindowDays int
}

// FeedSource retrieves candidate news items for one query. Implementations
// wrap one upstream feed each.
type FeedSource interface {
	Search(ctx context.Context, query SearchQuery) ([]entity.NewsItem, error)
	Name() string
}

// Config holds the news service configuration.
type Config struct {
	Region     string
	Sites      []string
	WindowDays int
	// MaxItems bounds an unfiltered aggregation; MaxItemsFiltered bounds a
	// publisher-filtered one, which is assumed to be read in full.
	MaxItems         int
	MaxItemsFiltered int
	CacheTTL         time.Duration
}

// Service aggregates news across the configured feed sources.
type Service struct {
	sources []FeedSource
	cfg     Config
	cache   *cache.Cache[[]entity.NewsItem]
	now     func() time.Time
}

// NewService creates a news service over the given sources.
func NewService(sources []FeedSource, cfg Config) *Service {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 50
	}
	if cfg.MaxItemsFiltered <= 0 {
		cfg.MaxItemsFiltered = 20
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return &Service{
		sources: sources,
		cfg:     cfg,
		cache:   cache.New[[]entity.NewsItem](cfg.CacheTTL),
		now:     time.Now,
	}
}

// Aggregate returns the bounded, deduplicated, newest-first news list for the
// category. domain optionally restricts results to links containing that
// publisher token. Source failures degrade to whatever the other sources
// returned; all sources failing yields an empty list, not an error.
//
// IsToday is stamped on every call, including cache hits, so a list cached
// before midnight stays correct after it.
func (s *Service) Aggregate(ctx context.Context, category entity.NewsCategory, domain string) ([]entity.NewsItem, error) {
	if !category.Valid() {
		return nil, &entity.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", category)}
	}

	key := cache.Key("news", s.cfg.Region, string(category), domain)
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup("news", true)
		return s.stamped(cached), nil
	}
	metrics.RecordCacheLookup("news", false)

	query := SearchQuery{
		Region:     s.cfg.Region,
		Category:   category,
		Sites:      s.cfg.Sites,
		WindowDays: s.cfg.WindowDays,
	}

	var collected []entity.NewsItem
	for _, src := range s.sources {
		items, err := src.Search(ctx, query)
		if err != nil {
			metrics.RecordNewsFetchError(src.Name())
			slog.Warn("news source failed, continuing with remaining sources",
				slog.String("source", src.Name()),
				slog.Any("error", err))
			continue
		}
		collected = append(collected, items...)
	}

	items := s.filter(collected, category, domain)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	limit := s.cfg.MaxItems
	if domain != "" {
		limit = s.cfg.MaxItemsFiltered
	}
	if len(items) > limit {
		items = items[:limit]
	}

	s.cache.Set(key, items)
	metrics.RecordNewsReturned(string(category), len(items))
	return s.stamped(items), nil
}

// filter applies the recency window, the category keyword profile, the noise
// exclusions, the optional publisher restriction, and link deduplication.
func (s *Service) filter(items []entity.NewsItem, category entity.NewsCategory, domain string) []entity.NewsItem {
	cutoff := s.now().AddDate(0, 0, -s.cfg.WindowDays)
	seen := make(map[string]bool, len(items))

	var kept []entity.NewsItem
	for _, item := range items {
		if item.Link == "" || seen[item.Link] {
			continue
		}
		if item.PublishedAt.Before(cutoff) {
			continue
		}
		if containsAny(item.Title, noiseKeywords) {
			continue
		}
		isRealEstate := containsAny(item.Title, realEstateKeywords)
		if category == entity.CategoryRealEstate && !isRealEstate {
			continue
		}
		if category == entity.CategoryGeneral && isRealEstate {
			continue
		}
		if domain != "" && !matchesDomain(item, domain) {
			continue
		}
		seen[item.Link] = true
		kept = append(kept, item)
	}
	return kept
}

// stamped returns a copy of items with IsToday recomputed against the current
// local date.
func (s *Service) stamped(items []entity.NewsItem) []entity.NewsItem {
	today := s.now()
	y, m, d := today.Date()

	out := make([]entity.NewsItem, len(items))
	for i, item := range items {
		py, pm, pd := item.PublishedAt.In(today.Location()).Date()
		item.IsToday = py == y && pm == m && pd == d
		out[i] = item
	}
	return out
}

func containsAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func matchesDomain(item entity.NewsItem, domain string) bool {
	return strings.Contains(item.Link, domain) || strings.Contains(item.OriginalLink, domain)
}
