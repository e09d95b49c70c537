package news

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
)

type stubFeed struct {
	name  string
	items []entity.NewsItem
	err   error
	calls int
}

func (f *stubFeed) Search(context.Context, SearchQuery) ([]entity.NewsItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *stubFeed) Name() string { return f.name }

var testNow = time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC)

func item(title, link string, publishedAt time.Time) entity.NewsItem {
	return entity.NewsItem{Title: title, Link: link, OriginalLink: link, PublishedAt: publishedAt}
}

func newTestService(sources ...FeedSource) *Service {
	svc := NewService(sources, Config{
		Region:     "춘천",
		Sites:      []string{"kado.net", "kwnews.co.kr"},
		WindowDays: 7,
		CacheTTL:   time.Hour,
	})
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestService_Aggregate_CategoryProfiles(t *testing.T) {
	feed := &stubFeed{name: "google", items: []entity.NewsItem{
		item("춘천 아파트 분양 시작", "https://kado.net/a", testNow.Add(-2*time.Hour)),
		item("춘천 마라톤 대회 개최", "https://kwnews.co.kr/b", testNow.Add(-3*time.Hour)),
	}}
	svc := newTestService(feed)

	re, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	require.Len(t, re, 1)
	assert.Equal(t, "춘천 아파트 분양 시작", re[0].Title)

	general, err := svc.Aggregate(context.Background(), entity.CategoryGeneral, "")
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.Equal(t, "춘천 마라톤 대회 개최", general[0].Title)
}

func TestService_Aggregate_DropsNoiseStaleAndDuplicates(t *testing.T) {
	feed := &stubFeed{name: "google", items: []entity.NewsItem{
		item("오늘의 운세", "https://kado.net/fortune", testNow.Add(-time.Hour)),
		item("춘천 주택 시장 동향", "https://kado.net/old", testNow.AddDate(0, 0, -10)),
		item("춘천 토지 거래 증가", "https://kado.net/dup", testNow.Add(-time.Hour)),
		item("춘천 토지 거래 증가(종합)", "https://kado.net/dup", testNow.Add(-2*time.Hour)),
	}}
	svc := newTestService(feed)

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "춘천 토지 거래 증가", got[0].Title)
}

func TestService_Aggregate_SortsNewestFirstAndStampsToday(t *testing.T) {
	feed := &stubFeed{name: "google", items: []entity.NewsItem{
		item("춘천 주택 착공", "https://kado.net/1", testNow.AddDate(0, 0, -2)),
		item("춘천 아파트 입주", "https://kado.net/2", testNow.Add(-time.Hour)),
	}}
	svc := newTestService(feed)

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "춘천 아파트 입주", got[0].Title)
	assert.True(t, got[0].IsToday)
	assert.False(t, got[1].IsToday)
}

func TestService_Aggregate_DomainFilterAndTighterBound(t *testing.T) {
	var items []entity.NewsItem
	for i := 0; i < 30; i++ {
		items = append(items,
			item("춘천 아파트 소식", fmt.Sprintf("https://kado.net/%d", i), testNow.Add(-time.Duration(i)*time.Minute)),
			item("춘천 분양 소식", fmt.Sprintf("https://kwnews.co.kr/%d", i), testNow.Add(-time.Duration(i)*time.Minute)),
		)
	}
	svc := newTestService(&stubFeed{name: "google", items: items})

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "kado.net")
	require.NoError(t, err)
	assert.Len(t, got, 20, "publisher-filtered lists use the tighter bound")
	for _, it := range got {
		assert.Contains(t, it.Link, "kado.net")
	}
}

func TestService_Aggregate_UnfilteredBound(t *testing.T) {
	var items []entity.NewsItem
	for i := 0; i < 80; i++ {
		items = append(items, item("춘천 아파트 소식", fmt.Sprintf("https://kado.net/%d", i), testNow.Add(-time.Duration(i)*time.Minute)))
	}
	svc := newTestService(&stubFeed{name: "google", items: items})

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestService_Aggregate_SourceFailureDegrades(t *testing.T) {
	broken := &stubFeed{name: "google", err: errors.New("feed unreachable")}
	healthy := &stubFeed{name: "naver", items: []entity.NewsItem{
		item("춘천 아파트 거래", "https://kado.net/ok", testNow.Add(-time.Hour)),
	}}
	svc := newTestService(broken, healthy)

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err, "one dead source never fails the aggregation")
	assert.Len(t, got, 1)
}

func TestService_Aggregate_AllSourcesFailingYieldsEmptyList(t *testing.T) {
	svc := newTestService(&stubFeed{name: "google", err: errors.New("down")})

	got, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Aggregate_CachesPerCategoryAndDomain(t *testing.T) {
	feed := &stubFeed{name: "google", items: []entity.NewsItem{
		item("춘천 아파트 거래", "https://kado.net/a", testNow.Add(-time.Hour)),
	}}
	svc := newTestService(feed)

	_, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	_, err = svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls, "repeat aggregation is served from cache")

	_, err = svc.Aggregate(context.Background(), entity.CategoryRealEstate, "kado.net")
	require.NoError(t, err)
	assert.Equal(t, 2, feed.calls, "a publisher filter is a distinct cache entry")
}

func TestService_Aggregate_CacheHitRestampsToday(t *testing.T) {
	feed := &stubFeed{name: "google", items: []entity.NewsItem{
		item("춘천 아파트 거래", "https://kado.net/a", testNow.Add(-time.Hour)),
	}}
	svc := newTestService(feed)

	first, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	require.True(t, first[0].IsToday)

	// Midnight passes while the cache entry is still fresh.
	svc.now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	second, err := svc.Aggregate(context.Background(), entity.CategoryRealEstate, "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.False(t, second[0].IsToday)
	assert.Equal(t, 1, feed.calls)
}

func TestService_Aggregate_UnknownCategory(t *testing.T) {
	svc := newTestService(&stubFeed{name: "google"})

	_, err := svc.Aggregate(context.Background(), entity.NewsCategory("sports"), "")
	var verr *entity.ValidationError
	assert.ErrorAs(t, err, &verr)
}
