package models

import "time"

// SourceCategory classifies a feed source
type SourceCategory string

const (
	CategoryGeneralFinance     SourceCategory = "general_finance"
	CategoryCryptocurrency     SourceCategory = "cryptocurrency"
	CategoryStocks             SourceCategory = "stocks"
	CategoryForex              SourceCategory = "forex"
	CategoryCommodities        SourceCategory = "commodities"
	CategoryEconomicIndicators SourceCategory = "economic_indicators"
	CategoryEarnings           SourceCategory = "earnings"
	CategoryMarketAnalysis     SourceCategory = "market_analysis"
)

// FeedSource represents one configured feed endpoint.
// Sources are immutable, process-wide configuration.
type FeedSource struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"`
	FeedURL               string         `json:"feed_url"`
	Category              SourceCategory `json:"category"`
	Reliability           float64        `json:"reliability"` // 0-1, informational
	UpdateFrequencyMinute int            `json:"update_frequency_minutes"`
	Active                bool           `json:"active"`
}

// RawFeedEntry is one feed item before enrichment
type RawFeedEntry struct {
	Title         string
	Description   string
	Content       string
	Link          string
	PubDate       string // as found in the feed, not yet parsed
	GUID          string
	Category      string
	Author        string
	EnclosureURL  string
	EnclosureType string
}

// ParsedFeed wraps feed-level metadata plus the normalized entries
type ParsedFeed struct {
	Title         string
	Description   string
	Link          string
	LastBuildDate string
	Entries       []RawFeedEntry
}

// NewsItem is the unit served to callers
type NewsItem struct {
	PublishedAt time.Time        `json:"published_at"`
	Sentiment   *SentimentResult `json:"sentiment,omitempty"`
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     string           `json:"content,omitempty"`
	URL         string           `json:"url"`
	Source      string           `json:"source"`
	Category    SourceCategory   `json:"category"`
	ImageURL    string           `json:"image_url,omitempty"`
	Symbols     []string         `json:"symbols"`
	Keywords    []string         `json:"keywords"`
}

// TimeRange is an inclusive publish-time window
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewsFilter narrows a FetchNews query. Zero value means "everything".
type NewsFilter struct {
	Sources    []string         `json:"sources,omitempty"`
	Categories []SourceCategory `json:"categories,omitempty"`
	Symbols    []string         `json:"symbols,omitempty"`
	Sentiment  Classification   `json:"sentiment,omitempty"`
	TimeRange  *TimeRange       `json:"time_range,omitempty"`
	Limit      int              `json:"limit,omitempty"`
}

// CacheStat describes one source's cache entry
type CacheStat struct {
	CachedAt time.Time `json:"cached_at"`
	SourceID string    `json:"source_id"`
	Items    int       `json:"items"`
	Valid    bool      `json:"valid"`
}

// ThrottleStat describes one source's throttle window
type ThrottleStat struct {
	LastRequest  time.Time `json:"last_request"`
	NextAllowed  time.Time `json:"next_allowed"`
	SourceID     string    `json:"source_id"`
	RequestCount int64     `json:"request_count"`
	Ready        bool      `json:"ready"`
}
