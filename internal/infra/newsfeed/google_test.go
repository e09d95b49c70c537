package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/usecase/news"
)

const googleFeedPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>"춘천" - Google 뉴스</title>
    <item>
      <title>춘천 아파트 분양가 상승 - 강원도민일보</title>
      <link>https://news.google.com/rss/articles/abc123</link>
      <pubDate>Sun, 31 Aug 2025 02:00:00 GMT</pubDate>
    </item>
    <item>
      <title>춘천 주택 거래 &amp;amp; 시장 동향</title>
      <link>https://www.kwnews.co.kr/page/view/2025083100001</link>
      <pubDate>Sat, 30 Aug 2025 23:00:00 GMT</pubDate>
    </item>
    <item>
      <title>날짜 없는 기사 - 어딘가</title>
      <link>https://news.google.com/rss/articles/nodate</link>
    </item>
  </channel>
</rss>`

func testQuery() news.SearchQuery {
	return news.SearchQuery{
		Region:     "춘천",
		Category:   entity.CategoryRealEstate,
		Sites:      []string{"kado.net", "kwnews.co.kr"},
		WindowDays: 7,
	}
}

func TestGoogleSource_Search(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "ko", r.URL.Query().Get("hl"))
		assert.Equal(t, "KR", r.URL.Query().Get("gl"))
		assert.Equal(t, "KR:ko", r.URL.Query().Get("ceid"))
		_, _ = w.Write([]byte(googleFeedPayload))
	}))
	t.Cleanup(srv.Close)

	src := NewGoogleSource(srv.Client())
	src.baseURL = srv.URL

	items, err := src.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, items, 2, "items without a publish date are dropped")

	assert.Contains(t, gotQuery, "춘천")
	assert.Contains(t, gotQuery, "부동산 OR 아파트")
	assert.Contains(t, gotQuery, "-운세")
	assert.Contains(t, gotQuery, "site:kado.net OR site:kwnews.co.kr")
	assert.Contains(t, gotQuery, "when:7d")

	assert.Equal(t, "춘천 아파트 분양가 상승", items[0].Title)
	assert.Equal(t, "강원도민일보", items[0].Source)
	assert.Equal(t, time.Date(2025, 8, 31, 2, 0, 0, 0, time.UTC), items[0].PublishedAt.UTC())

	assert.Equal(t, "춘천 주택 거래 & 시장 동향", items[1].Title, "entities are unescaped")
	assert.Equal(t, "www.kwnews.co.kr", items[1].Source, "publisher falls back to the link host")
}

func TestGoogleSource_Search_GeneralCategoryExcludesKeywordGroup(t *testing.T) {
	src := NewGoogleSource(http.DefaultClient)

	query := testQuery()
	query.Category = entity.CategoryGeneral

	u, err := url.Parse(src.feedURL(query))
	require.NoError(t, err)
	q := u.Query().Get("q")
	assert.NotContains(t, q, "부동산 OR")
	assert.Contains(t, q, "-부동산")
	assert.Contains(t, q, "-토지")
	assert.Contains(t, q, "춘천")
	assert.Contains(t, q, "site:kado.net")
}

func TestGoogleSource_Search_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	src := NewGoogleSource(srv.Client())
	src.baseURL = srv.URL

	_, err := src.Search(context.Background(), testQuery())
	assert.Error(t, err)
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		raw       string
		title     string
		publisher string
	}{
		{"춘천 분양 소식 - 강원도민일보", "춘천 분양 소식", "강원도민일보"},
		{"하이픈 - 포함 제목 - 춘천사람들", "하이픈 - 포함 제목", "춘천사람들"},
		{"접미사 없는 제목", "접미사 없는 제목", ""},
	}
	for _, tt := range tests {
		title, publisher := splitTitle(tt.raw)
		assert.Equal(t, tt.title, title)
		assert.Equal(t, tt.publisher, publisher)
	}
}
