package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
)

const naverPayload = `{
  "lastBuildDate": "Sun, 31 Aug 2025 11:00:00 +0900",
  "total": 2,
  "items": [
    {
      "title": "춘천 <b>부동산</b> 시장 &quot;회복세&quot;",
      "originallink": "https://www.kado.net/news/articleView.html?idxno=1",
      "link": "https://n.news.naver.com/article/1",
      "description": "...",
      "pubDate": "Sun, 31 Aug 2025 10:30:00 +0900"
    },
    {
      "title": "날짜가 깨진 기사",
      "originallink": "https://www.kado.net/news/articleView.html?idxno=2",
      "link": "https://n.news.naver.com/article/2",
      "description": "...",
      "pubDate": "not-a-date"
    }
  ]
}`

func TestNaverSource_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "secret", r.Header.Get("X-Naver-Client-Secret"))
		assert.Equal(t, "춘천 부동산", r.URL.Query().Get("query"))
		assert.Equal(t, "date", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(naverPayload))
	}))
	t.Cleanup(srv.Close)

	src := NewNaverSource(srv.Client(), "id", "secret")
	src.baseURL = srv.URL

	items, err := src.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, items, 1, "items with unparseable dates are dropped")

	got := items[0]
	assert.Equal(t, `춘천 부동산 시장 "회복세"`, got.Title)
	assert.Equal(t, "https://n.news.naver.com/article/1", got.Link)
	assert.Equal(t, "https://www.kado.net/news/articleView.html?idxno=1", got.OriginalLink)
	assert.Equal(t, "www.kado.net", got.Source)

	want := time.Date(2025, 8, 31, 10, 30, 0, 0, time.FixedZone("KST", 9*3600))
	assert.True(t, got.PublishedAt.Equal(want))
}

func TestNaverSource_Search_MissingCredentials(t *testing.T) {
	src := NewNaverSource(http.DefaultClient, "", "")

	_, err := src.Search(context.Background(), testQuery())
	assert.ErrorIs(t, err, entity.ErrKeyRequired)
}

func TestNaverSource_Search_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	src := NewNaverSource(srv.Client(), "id", "bad-secret")
	src.baseURL = srv.URL

	_, err := src.Search(context.Background(), testQuery())
	assert.Error(t, err)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "춘천 아파트 매매", cleanTitle("  춘천 <b>아파트</b> 매매 "))
	assert.Equal(t, `"인용" 제목`, cleanTitle("&quot;인용&quot; 제목"))
}
