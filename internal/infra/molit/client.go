// Package molit fetches real transaction records from the public
// transaction-data endpoint (국토교통부 실거래가 공개시스템) and normalizes
// raw monthly payloads into canonical records.
//
// The endpoint exists in two generations: the legacy one answers XML with
// Korean element names, the newer one answers JSON with romanized field
// names. Both carry a result-status code; a non-success status is treated as
// zero records for that call.
package molit

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/resilience/circuitbreaker"
	"estate-watch/internal/resilience/retry"
)

// Generation selects the payload format of the configured endpoint.
type Generation string

const (
	// GenerationXML is the legacy XML endpoint.
	GenerationXML Generation = "xml"
	// GenerationJSON is the newer JSON endpoint.
	GenerationJSON Generation = "json"
)

const (
	defaultAptEndpoint  = "http://openapi.molit.go.kr/OpenAPI_ToolInstallPackage/service/rest/RTMSOBJSvc/getRTMSDataSvcAptTradeDev"
	defaultLandEndpoint = "http://openapi.molit.go.kr/OpenAPI_ToolInstallPackage/service/rest/RTMSOBJSvc/getRTMSDataSvcLandTrade"
	defaultPageSize     = 1000
	defaultTimeout      = 5 * time.Second

	// The endpoint allows generous traffic; the limiter only keeps bursts
	// of parallel month fetches polite.
	requestsPerSecond = 5
)

// ClientConfig holds the configuration for the transaction data client.
type ClientConfig struct {
	ServiceKey   string
	AptEndpoint  string
	LandEndpoint string
	Generation   Generation
	PageSize     int
	Timeout      time.Duration
}

// DefaultClientConfig returns a configuration pointing at the public
// endpoints with the legacy XML generation.
func DefaultClientConfig(serviceKey string) ClientConfig {
	return ClientConfig{
		ServiceKey:   serviceKey,
		AptEndpoint:  defaultAptEndpoint,
		LandEndpoint: defaultLandEndpoint,
		Generation:   GenerationXML,
		PageSize:     defaultPageSize,
		Timeout:      defaultTimeout,
	}
}

// Client fetches monthly transaction batches. It wraps every call with a
// rate limiter, retry with backoff, and a circuit breaker; all of those
// degrade to a transport failure, which callers treat as zero records.
type Client struct {
	cfg     ClientConfig
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	limiter *rate.Limiter
}

// NewClient creates a transaction data client from the given configuration.
func NewClient(cfg ClientConfig) *Client {
	if cfg.AptEndpoint == "" {
		cfg.AptEndpoint = defaultAptEndpoint
	}
	if cfg.LandEndpoint == "" {
		cfg.LandEndpoint = defaultLandEndpoint
	}
	if cfg.Generation == "" {
		cfg.Generation = GenerationXML
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(circuitbreaker.TransactionAPIConfig()),
		retry:   retry.TransactionFetchConfig(),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// FetchMonth retrieves the raw items of one (kind, district code, month)
// batch. yearMonth is formatted YYYYMM. A non-success result status yields
// zero items and no error; transport and decode failures are returned to the
// caller, who degrades them to zero records for the month.
func (c *Client) FetchMonth(ctx context.Context, kind entity.Kind, lawdCode, yearMonth string) ([]RawItem, error) {
	if c.cfg.ServiceKey == "" {
		return nil, entity.ErrKeyRequired
	}

	var items []RawItem
	retryErr := retry.WithBackoff(ctx, c.retry, func() error {
		cbResult, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doFetch(ctx, kind, lawdCode, yearMonth)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("transaction fetch circuit breaker open, request rejected",
					slog.String("kind", string(kind)),
					slog.String("year_month", yearMonth),
					slog.String("state", c.breaker.State().String()))
			}
			return err
		}
		items = cbResult.([]RawItem)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return items, nil
}

// doFetch performs the actual request without retry or circuit breaker.
func (c *Client) doFetch(ctx context.Context, kind entity.Kind, lawdCode, yearMonth string) ([]RawItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.cfg.AptEndpoint
	if kind == entity.KindLand {
		endpoint = c.cfg.LandEndpoint
	}

	params := url.Values{}
	params.Set("serviceKey", c.cfg.ServiceKey)
	params.Set("LAWD_CD", lawdCode)
	params.Set("DEAL_YMD", yearMonth)
	params.Set("numOfRows", fmt.Sprintf("%d", c.cfg.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch monthly batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "transaction endpoint"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch c.cfg.Generation {
	case GenerationJSON:
		return decodeJSON(body, kind, yearMonth)
	default:
		return decodeXML(body, kind, yearMonth)
	}
}

// xmlEnvelope is the legacy response envelope.
type xmlEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []xmlItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

// xmlItem carries the union of apartment and land fields of the legacy
// generation; unused elements simply stay empty.
type xmlItem struct {
	Year          string `xml:"년"`
	Month         string `xml:"월"`
	Day           string `xml:"일"`
	District      string `xml:"법정동"`
	AptName       string `xml:"아파트"`
	ExclusiveArea string `xml:"전용면적"`
	LandCategory  string `xml:"지목"`
	LandArea      string `xml:"거래면적"`
	Price         string `xml:"거래금액"`
}

func decodeXML(body []byte, kind entity.Kind, yearMonth string) ([]RawItem, error) {
	var envelope xmlEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode xml payload: %w", err)
	}

	if !successCode(envelope.Header.ResultCode) {
		slog.Info("transaction endpoint returned non-success status, treating as empty month",
			slog.String("kind", string(kind)),
			slog.String("year_month", yearMonth),
			slog.String("result_code", envelope.Header.ResultCode),
			slog.String("result_msg", envelope.Header.ResultMsg))
		return nil, nil
	}

	items := make([]RawItem, 0, len(envelope.Body.Items.Item))
	for _, it := range envelope.Body.Items.Item {
		items = append(items, RawItem{
			Year:          it.Year,
			Month:         it.Month,
			Day:           it.Day,
			District:      it.District,
			AptName:       it.AptName,
			ExclusiveArea: it.ExclusiveArea,
			LandCategory:  it.LandCategory,
			LandArea:      it.LandArea,
			Price:         it.Price,
		})
	}
	return items, nil
}

// jsonEnvelope is the newer response envelope.
type jsonEnvelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []jsonItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// jsonItem mirrors the newer generation's field names. Numeric fields arrive
// as either numbers or strings depending on the deployment, hence
// json.Number throughout.
type jsonItem struct {
	DealYear      json.Number `json:"dealYear"`
	DealMonth     json.Number `json:"dealMonth"`
	DealDay       json.Number `json:"dealDay"`
	District      string      `json:"umdNm"`
	AptName       string      `json:"aptNm"`
	ExclusiveArea json.Number `json:"excluUseAr"`
	LandCategory  string      `json:"jimok"`
	LandArea      json.Number `json:"dealArea"`
	Price         string      `json:"dealAmount"`
}

func decodeJSON(body []byte, kind entity.Kind, yearMonth string) ([]RawItem, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode json payload: %w", err)
	}

	if !successCode(envelope.Response.Header.ResultCode) {
		slog.Info("transaction endpoint returned non-success status, treating as empty month",
			slog.String("kind", string(kind)),
			slog.String("year_month", yearMonth),
			slog.String("result_code", envelope.Response.Header.ResultCode),
			slog.String("result_msg", envelope.Response.Header.ResultMsg))
		return nil, nil
	}

	items := make([]RawItem, 0, len(envelope.Response.Body.Items.Item))
	for _, it := range envelope.Response.Body.Items.Item {
		items = append(items, RawItem{
			Year:          it.DealYear.String(),
			Month:         it.DealMonth.String(),
			Day:           it.DealDay.String(),
			District:      it.District,
			AptName:       it.AptName,
			ExclusiveArea: it.ExclusiveArea.String(),
			LandCategory:  it.LandCategory,
			LandArea:      it.LandArea.String(),
			Price:         it.Price,
		})
	}
	return items, nil
}

// successCode reports whether the endpoint's result-status code means
// success. The legacy generation answers "00", the newer one "000".
func successCode(code string) bool {
	return code == "00" || code == "000"
}
