package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/selivandex/market-news/internal/aggregator"
	"github.com/selivandex/market-news/internal/feed"
	"github.com/selivandex/market-news/internal/sentiment"
	"github.com/selivandex/market-news/pkg/models"
)

type stubFetcher struct{}

func (stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	now := time.Now()
	return `<rss version="2.0"><channel><title>Wire</title>` +
		`<item><title>Stocks surge on $AAPL earnings</title><link>https://w/1</link>` +
		`<pubDate>` + now.Add(-time.Hour).Format(time.RFC1123Z) + `</pubDate></item>` +
		`<item><title>Market crash fears grow</title><link>https://w/2</link>` +
		`<pubDate>` + now.Add(-2*time.Hour).Format(time.RFC1123Z) + `</pubDate></item>` +
		`</channel></rss>`, nil
}

func newTestServer() *Server {
	srcs := []models.FeedSource{
		{
			ID:                    "wire",
			Name:                  "Wire",
			FeedURL:               "https://feeds.test/wire",
			Category:              models.CategoryGeneralFinance,
			Reliability:           0.9,
			UpdateFrequencyMinute: 10,
			Active:                true,
		},
	}
	agg := aggregator.New(srcs, feed.NewParser(stubFetcher{}), sentiment.NewAnalyzer(), aggregator.DefaultConfig())
	return New(":0", agg)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestServer_News(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/api/news")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Items []models.NewsItem `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body.Total != 2 || len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got total=%d len=%d", body.Total, len(body.Items))
	}
	if body.Items[0].Title != "Stocks surge on $AAPL earnings" {
		t.Errorf("expected newest first, got %q", body.Items[0].Title)
	}
	if body.Items[0].Sentiment == nil {
		t.Error("expected sentiment attached")
	}
}

func TestServer_NewsFilters(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/api/news?sentiment=bearish")
	var body struct {
		Items []models.NewsItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Title != "Market crash fears grow" {
		t.Errorf("sentiment filter failed: %+v", body.Items)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/news?symbols=AAPL&limit=5")
	body.Items = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Title != "Stocks surge on $AAPL earnings" {
		t.Errorf("symbol filter failed: %+v", body.Items)
	}
}

func TestServer_NewsBadTimeParam(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/api/news?start=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid start, got %d", rec.Code)
	}
}

func TestServer_SentimentEndpoints(t *testing.T) {
	s := newTestServer()

	for _, target := range []string{"/api/sentiment/market", "/api/sentiment/crypto"} {
		rec := doRequest(t, s, http.MethodGet, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}

		var result models.SentimentResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("%s: invalid JSON: %v", target, err)
		}
		if result.Score < -1 || result.Score > 1 {
			t.Errorf("%s: score out of range: %.3f", target, result.Score)
		}
	}
}

func TestServer_CacheLifecycle(t *testing.T) {
	s := newTestServer()

	doRequest(t, s, http.MethodGet, "/api/news")

	rec := doRequest(t, s, http.MethodGet, "/api/cache/stats")
	var stats []models.CacheStat
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(stats) != 1 || stats[0].Items != 2 {
		t.Fatalf("expected 1 populated entry, got %+v", stats)
	}

	if rec = doRequest(t, s, http.MethodDelete, "/api/cache"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/cache/stats")
	stats = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty cache, got %+v", stats)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/throttle")
	var throttle []models.ThrottleStat
	if err := json.Unmarshal(rec.Body.Bytes(), &throttle); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(throttle) != 1 || throttle[0].RequestCount != 1 {
		t.Errorf("expected surviving throttle state, got %+v", throttle)
	}
}
