package molit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
)

const xmlPayload = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header><resultCode>00</resultCode><resultMsg>NORMAL SERVICE.</resultMsg></header>
  <body>
    <items>
      <item>
        <거래금액>  35,000</거래금액>
        <년>2025</년><월>8</월><일>3</일>
        <법정동> 퇴계동</법정동>
        <아파트>e편한세상춘천한숲시티</아파트>
        <전용면적>84.97</전용면적>
      </item>
      <item>
        <거래금액>9,800</거래금액>
        <년>2025</년><월>8</월><일>14</일>
        <법정동>온의동</법정동>
        <아파트>춘천센트럴타워푸르지오</아파트>
        <전용면적>59.92</전용면적>
      </item>
    </items>
  </body>
</response>`

const xmlErrorPayload = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header><resultCode>30</resultCode><resultMsg>SERVICE KEY IS NOT REGISTERED ERROR.</resultMsg></header>
  <body><items/></body>
</response>`

const jsonPayload = `{
  "response": {
    "header": {"resultCode": "000", "resultMsg": "OK"},
    "body": {"items": {"item": [
      {"dealYear": 2025, "dealMonth": 8, "dealDay": 3,
       "umdNm": "퇴계동", "aptNm": "한숲시티",
       "excluUseAr": 84.97, "dealAmount": "35,000"}
    ]}}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, gen Generation) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig("test-key")
	cfg.AptEndpoint = srv.URL
	cfg.LandEndpoint = srv.URL
	cfg.Generation = gen
	return NewClient(cfg)
}

func TestClient_FetchMonth_XML(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(xmlPayload))
	}, GenerationXML)

	items, err := c.FetchMonth(context.Background(), entity.KindApartment, "42110", "202508")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Contains(t, gotQuery, "LAWD_CD=42110")
	assert.Contains(t, gotQuery, "DEAL_YMD=202508")
	assert.Contains(t, gotQuery, "numOfRows=1000")

	assert.Equal(t, "2025", items[0].Year)
	assert.Equal(t, "8", items[0].Month)
	assert.Equal(t, " 퇴계동", items[0].District)
	assert.Equal(t, "  35,000", items[0].Price)
}

func TestClient_FetchMonth_JSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonPayload))
	}, GenerationJSON)

	items, err := c.FetchMonth(context.Background(), entity.KindApartment, "42110", "202508")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "2025", items[0].Year)
	assert.Equal(t, "8", items[0].Month)
	assert.Equal(t, "퇴계동", items[0].District)
	assert.Equal(t, "84.97", items[0].ExclusiveArea)
	assert.Equal(t, "35,000", items[0].Price)
}

func TestClient_FetchMonth_NonSuccessStatusMeansEmptyMonth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(xmlErrorPayload))
	}, GenerationXML)

	items, err := c.FetchMonth(context.Background(), entity.KindApartment, "42110", "202508")
	require.NoError(t, err, "non-success result code is zero records, not an error")
	assert.Empty(t, items)
}

func TestClient_FetchMonth_TransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, GenerationXML)

	_, err := c.FetchMonth(context.Background(), entity.KindApartment, "42110", "202508")
	assert.Error(t, err, "transport failure surfaces to the caller, who degrades it")
}

func TestClient_FetchMonth_MissingKey(t *testing.T) {
	cfg := DefaultClientConfig("")
	c := NewClient(cfg)

	_, err := c.FetchMonth(context.Background(), entity.KindApartment, "42110", "202508")
	assert.ErrorIs(t, err, entity.ErrKeyRequired)
}
