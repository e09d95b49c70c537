// Package newsfeed provides implementations of the news feed sources.
// The Google source parses the public news RSS search endpoint with the
// gofeed library; the Naver source calls the JSON search API.
package newsfeed

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/resilience/circuitbreaker"
	"estate-watch/internal/resilience/retry"
	"estate-watch/internal/usecase/news"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

// realEstateQueryKeywords scope the query by category: an OR group for
// real-estate, negated terms for general. The news service applies its own
// title filter on top.
var realEstateQueryKeywords = []string{"부동산", "아파트", "주택", "분양", "매매", "토지"}

// noiseQueryExclusions drop recurring non-news sections at query level.
var noiseQueryExclusions = []string{"운세", "부고", "인사", "동정", "게시판"}

// GoogleSource fetches regional news from the Google News RSS search feed.
type GoogleSource struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	baseURL        string
}

// NewGoogleSource creates a Google News source using the given HTTP client.
func NewGoogleSource(client *http.Client) *GoogleSource {
	return &GoogleSource{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsFeedConfig()),
		retryConfig:    retry.NewsFeedConfig(),
		baseURL:        googleNewsBaseURL,
	}
}

// Name identifies the source in logs and metrics.
func (s *GoogleSource) Name() string { return "google-news" }

// Search fetches and parses one RSS search result for the query.
func (s *GoogleSource) Search(ctx context.Context, query news.SearchQuery) ([]entity.NewsItem, error) {
	feedURL := s.feedURL(query)

	var items []entity.NewsItem
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("news feed circuit breaker open, request rejected",
					slog.String("source", s.Name()),
					slog.String("state", s.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]entity.NewsItem)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("fetch google news feed: %w", retryErr)
	}

	return items, nil
}

// feedURL builds the RSS search URL. The search term combines the region,
// the category keyword group, the noise exclusions, the publisher allowlist
// and the recency window, in Google News query syntax.
func (s *GoogleSource) feedURL(query news.SearchQuery) string {
	var b strings.Builder
	b.WriteString(query.Region)

	if query.Category == entity.CategoryRealEstate {
		b.WriteString(" (")
		b.WriteString(strings.Join(realEstateQueryKeywords, " OR "))
		b.WriteString(")")
	} else {
		// The general feed negates the same keyword group.
		for _, kw := range realEstateQueryKeywords {
			b.WriteString(" -")
			b.WriteString(kw)
		}
	}

	for _, kw := range noiseQueryExclusions {
		b.WriteString(" -")
		b.WriteString(kw)
	}

	if len(query.Sites) > 0 {
		scoped := make([]string, len(query.Sites))
		for i, site := range query.Sites {
			scoped[i] = "site:" + site
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(scoped, " OR "))
		b.WriteString(")")
	}

	fmt.Fprintf(&b, " when:%dd", query.WindowDays)

	params := url.Values{}
	params.Set("q", b.String())
	params.Set("hl", "ko")
	params.Set("gl", "KR")
	params.Set("ceid", "KR:ko")
	return s.baseURL + "?" + params.Encode()
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (s *GoogleSource) doFetch(ctx context.Context, feedURL string) ([]entity.NewsItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "EstateWatchBot"
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]entity.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.PublishedParsed == nil {
			continue
		}

		title, publisher := splitTitle(it.Title)
		if publisher == "" {
			publisher = hostOf(it.Link)
		}

		items = append(items, entity.NewsItem{
			Title:        html.UnescapeString(title),
			Link:         it.Link,
			OriginalLink: it.Link,
			Source:       publisher,
			PublishedAt:  *it.PublishedParsed,
		})
	}

	return items, nil
}

// splitTitle separates the publisher suffix Google News appends to each
// headline ("기사 제목 - 강원도민일보").
func splitTitle(raw string) (title, publisher string) {
	if idx := strings.LastIndex(raw, " - "); idx > 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+3:])
	}
	return raw, ""
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
