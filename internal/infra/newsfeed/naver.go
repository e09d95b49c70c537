package newsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/resilience/circuitbreaker"
	"estate-watch/internal/resilience/retry"
	"estate-watch/internal/usecase/news"
)

const (
	naverNewsBaseURL  = "https://openapi.naver.com/v1/search/news.json"
	naverDisplayCount = 50
)

var boldTagPattern = regexp.MustCompile(`</?b>`)

// NaverSource fetches regional news from the Naver news search API. It needs
// a registered client ID and secret.
type NaverSource struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	baseURL        string
	clientID       string
	clientSecret   string
}

// NewNaverSource creates a Naver news source. Credentials are checked per
// request so an unconfigured source degrades instead of panicking.
func NewNaverSource(client *http.Client, clientID, clientSecret string) *NaverSource {
	return &NaverSource{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsFeedConfig()),
		retryConfig:    retry.NewsFeedConfig(),
		baseURL:        naverNewsBaseURL,
		clientID:       clientID,
		clientSecret:   clientSecret,
	}
}

// Name identifies the source in logs and metrics.
func (s *NaverSource) Name() string { return "naver-news" }

// Search calls the news search API once per query.
func (s *NaverSource) Search(ctx context.Context, query news.SearchQuery) ([]entity.NewsItem, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, entity.ErrKeyRequired
	}

	reqURL := s.requestURL(query)

	var items []entity.NewsItem
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doSearch(ctx, reqURL)
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
		return nil, fmt.Errorf("search naver news: %w", retryErr)
	}

	return items, nil
}

// requestURL builds the API call. The API has no query operators worth
// relying on, so the category profile only narrows the search term; the
// news service does the authoritative filtering.
func (s *NaverSource) requestURL(query news.SearchQuery) string {
	term := query.Region
	if query.Category == entity.CategoryRealEstate {
		term += " 부동산"
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("display", fmt.Sprintf("%d", naverDisplayCount))
	params.Set("sort", "date")
	return s.baseURL + "?" + params.Encode()
}

type naverResponse struct {
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	PubDate      string `json:"pubDate"`
}

// doSearch performs the actual API call without retry or circuit breaker.
func (s *NaverSource) doSearch(ctx context.Context, reqURL string) ([]entity.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", s.clientID)
	req.Header.Set("X-Naver-Client-Secret", s.clientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "naver news search failed"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed naverResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]entity.NewsItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		publishedAt, err := time.Parse(time.RFC1123Z, it.PubDate)
		if err != nil {
			continue
		}

		link := it.Link
		if link == "" {
			link = it.OriginalLink
		}

		items = append(items, entity.NewsItem{
			Title:        cleanTitle(it.Title),
			Link:         link,
			OriginalLink: it.OriginalLink,
			Source:       hostOf(it.OriginalLink),
			PublishedAt:  publishedAt,
		})
	}

	return items, nil
}

// cleanTitle strips the API's search-term highlighting and entity escaping.
func cleanTitle(raw string) string {
	return strings.TrimSpace(html.UnescapeString(boldTagPattern.ReplaceAllString(raw, "")))
}
