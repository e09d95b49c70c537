// Command diagnose_sources probes the configured upstream endpoints and
// writes a small report. It is a manual operator tool for answering "why is
// this tab empty": it checks the transaction API for the current month and
// the news feed for the active region, without going through the caches.
package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"estate-watch/internal/config"
)

// SourceDiagnostic is the probe result for one upstream endpoint.
type SourceDiagnostic struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "OK", "HTTP_ERROR", "PARSE_ERROR", "EMPTY", "TIMEOUT", "KEY_MISSING"
	HTTPCode     int    `json:"http_code"`
	ItemCount    int    `json:"item_count"`
	ResultCode   string `json:"result_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

type molitResponse struct {
	Header struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []struct{} `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	region := cfg.Active()

	yearMonth := time.Now().Format("200601")
	diagnostics := []SourceDiagnostic{
		diagnoseMolit("apartment-trades", "https://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade",
			cfg.ServiceKey, region.LawdCode, yearMonth),
		diagnoseMolit("land-trades", "https://apis.data.go.kr/1613000/RTMSDataSvcLandTrade/getRTMSDataSvcLandTrade",
			cfg.ServiceKey, region.LawdCode, yearMonth),
		diagnoseGoogleNews(region.Name),
	}

	for _, d := range diagnostics {
		fmt.Printf("%-18s %-12s http=%d items=%d %s %s\n",
			d.Name, d.Status, d.HTTPCode, d.ItemCount, d.ResultCode, d.ErrorMessage)
	}
	writeJSONReport(diagnostics)
}

func diagnoseMolit(name, endpoint, serviceKey, lawdCode, yearMonth string) SourceDiagnostic {
	diag := SourceDiagnostic{Name: name}
	if serviceKey == "" {
		diag.Status = "KEY_MISSING"
		diag.ErrorMessage = "MOLIT_SERVICE_KEY not set"
		return diag
	}

	params := url.Values{}
	params.Set("serviceKey", serviceKey)
	params.Set("LAWD_CD", lawdCode)
	params.Set("DEAL_YMD", yearMonth)
	params.Set("numOfRows", "1000")
	diag.URL = endpoint + "?LAWD_CD=" + lawdCode + "&DEAL_YMD=" + yearMonth

	body, ok := probe(&diag, endpoint+"?"+params.Encode())
	if !ok {
		return diag
	}

	var parsed molitResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ResultCode = parsed.Header.ResultCode
	diag.ItemCount = len(parsed.Body.Items.Item)
	switch {
	case parsed.Header.ResultCode != "00" && parsed.Header.ResultCode != "000":
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = parsed.Header.ResultMsg
	case diag.ItemCount == 0:
		diag.Status = "EMPTY"
	default:
		diag.Status = "OK"
	}
	return diag
}

func diagnoseGoogleNews(region string) SourceDiagnostic {
	diag := SourceDiagnostic{Name: "google-news"}

	params := url.Values{}
	params.Set("q", region)
	params.Set("hl", "ko")
	params.Set("gl", "KR")
	params.Set("ceid", "KR:ko")
	feedURL := "https://news.google.com/rss/search?" + params.Encode()
	diag.URL = feedURL

	body, ok := probe(&diag, feedURL)
	if !ok {
		return diag
	}

	var parsed rssFeed
	if err := xml.Unmarshal(body, &parsed); err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ItemCount = len(parsed.Channel.Items)
	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
	} else {
		diag.Status = "OK"
	}
	return diag
}

// probe performs one GET and fills in timing and HTTP status. It returns the
// body and whether the caller should continue parsing.
func probe(diag *SourceDiagnostic, target string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = err.Error()
		return nil, false
	}

	resp, err := http.DefaultClient.Do(req)
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
		} else {
			diag.Status = "HTTP_ERROR"
		}
		diag.ErrorMessage = err.Error()
		return nil, false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = resp.Status
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = err.Error()
		return nil, false
	}
	return body, true
}

func writeJSONReport(diagnostics []SourceDiagnostic) {
	f, err := os.Create("source_diagnostic_report.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}

	log.Println("JSON report generated: source_diagnostic_report.json")
}
