package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/market-news/pkg/logger"
	"github.com/selivandex/market-news/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleNews serves the merged, filtered news stream.
// Query params: sources, categories, symbols (comma-separated), sentiment,
// start, end (RFC 3339), limit.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := s.aggregator.FetchNews(r.Context(), filter)
	writeJSON(w, http.StatusOK, newsResponse{Items: items, Total: len(items)})
}

func (s *Server) handleBreakingNews(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	items := s.aggregator.BreakingNews(r.Context(), limit)
	writeJSON(w, http.StatusOK, newsResponse{Items: items, Total: len(items)})
}

func (s *Server) handleMarketSentiment(w http.ResponseWriter, r *http.Request) {
	symbols := queryList(r, "symbols")
	result := s.aggregator.MarketSentiment(r.Context(), symbols)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCryptoSentiment(w http.ResponseWriter, r *http.Request) {
	result := s.aggregator.CryptoSentiment(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.aggregator.CacheStats())
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	sourceID := r.URL.Query().Get("source")
	s.aggregator.ClearCache(sourceID)

	logger.Info("cache cleared via API",
		zap.String("source", sourceID),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleThrottleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.aggregator.ThrottleStatus())
}

type newsResponse struct {
	Items []models.NewsItem `json:"items"`
	Total int               `json:"total"`
}

func filterFromQuery(r *http.Request) (*models.NewsFilter, error) {
	q := r.URL.Query()

	filter := &models.NewsFilter{
		Sources: queryList(r, "sources"),
		Symbols: queryList(r, "symbols"),
		Limit:   queryInt(r, "limit", 0),
	}

	for _, c := range queryList(r, "categories") {
		filter.Categories = append(filter.Categories, models.SourceCategory(c))
	}

	if sentiment := q.Get("sentiment"); sentiment != "" {
		filter.Sentiment = models.Classification(sentiment)
	}

	start, err := queryTime(r, "start")
	if err != nil {
		return nil, err
	}
	end, err := queryTime(r, "end")
	if err != nil {
		return nil, err
	}
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			end = time.Now()
		}
		filter.TimeRange = &models.TimeRange{Start: start, End: end}
	}

	return filter, nil
}

func queryList(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func queryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
