// Package sources holds the compiled-in feed source registry. Sources are
// read-only configuration: there is no lifecycle beyond process start.
package sources

import "github.com/selivandex/market-news/pkg/models"

// DefaultSources covers the broad finance feeds
var DefaultSources = []models.FeedSource{
	{
		ID:                    "reuters-business",
		Name:                  "Reuters Business",
		FeedURL:               "https://feeds.reuters.com/reuters/businessNews",
		Category:              models.CategoryGeneralFinance,
		Reliability:           0.95,
		UpdateFrequencyMinute: 15,
		Active:                true,
	},
	{
		ID:                    "cnbc-markets",
		Name:                  "CNBC Markets",
		FeedURL:               "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=20910258",
		Category:              models.CategoryStocks,
		Reliability:           0.9,
		UpdateFrequencyMinute: 15,
		Active:                true,
	},
	{
		ID:                    "marketwatch-top",
		Name:                  "MarketWatch Top Stories",
		FeedURL:               "https://feeds.marketwatch.com/marketwatch/topstories/",
		Category:              models.CategoryGeneralFinance,
		Reliability:           0.85,
		UpdateFrequencyMinute: 20,
		Active:                true,
	},
	{
		ID:                    "yahoo-finance",
		Name:                  "Yahoo Finance",
		FeedURL:               "https://finance.yahoo.com/news/rssindex",
		Category:              models.CategoryStocks,
		Reliability:           0.8,
		UpdateFrequencyMinute: 15,
		Active:                true,
	},
	{
		ID:                    "seeking-alpha",
		Name:                  "Seeking Alpha Market News",
		FeedURL:               "https://seekingalpha.com/market_currents.xml",
		Category:              models.CategoryMarketAnalysis,
		Reliability:           0.75,
		UpdateFrequencyMinute: 30,
		Active:                true,
	},
	{
		ID:                    "investing-earnings",
		Name:                  "Investing.com Earnings",
		FeedURL:               "https://www.investing.com/rss/news_1062.rss",
		Category:              models.CategoryEarnings,
		Reliability:           0.75,
		UpdateFrequencyMinute: 60,
		Active:                true,
	},
	{
		ID:                    "forexlive",
		Name:                  "ForexLive",
		FeedURL:               "https://www.forexlive.com/feed/news",
		Category:              models.CategoryForex,
		Reliability:           0.7,
		UpdateFrequencyMinute: 15,
		Active:                true,
	},
	{
		ID:                    "kitco-news",
		Name:                  "Kitco Commodities",
		FeedURL:               "https://www.kitco.com/rss/KitcoNews.xml",
		Category:              models.CategoryCommodities,
		Reliability:           0.7,
		UpdateFrequencyMinute: 30,
		Active:                true,
	},
}

// CryptoSources covers cryptocurrency-focused feeds
var CryptoSources = []models.FeedSource{
	{
		ID:                    "coindesk",
		Name:                  "CoinDesk",
		FeedURL:               "https://www.coindesk.com/arc/outboundfeeds/rss/",
		Category:              models.CategoryCryptocurrency,
		Reliability:           0.9,
		UpdateFrequencyMinute: 10,
		Active:                true,
	},
	{
		ID:                    "cointelegraph",
		Name:                  "Cointelegraph",
		FeedURL:               "https://cointelegraph.com/rss",
		Category:              models.CategoryCryptocurrency,
		Reliability:           0.85,
		UpdateFrequencyMinute: 10,
		Active:                true,
	},
	{
		ID:                    "decrypt",
		Name:                  "Decrypt",
		FeedURL:               "https://decrypt.co/feed",
		Category:              models.CategoryCryptocurrency,
		Reliability:           0.8,
		UpdateFrequencyMinute: 15,
		Active:                true,
	},
	{
		ID:                    "bitcoin-magazine",
		Name:                  "Bitcoin Magazine",
		FeedURL:               "https://bitcoinmagazine.com/.rss/full/",
		Category:              models.CategoryCryptocurrency,
		Reliability:           0.75,
		UpdateFrequencyMinute: 30,
		Active:                true,
	},
}

// EconomicSources covers macro and economic-indicator feeds
var EconomicSources = []models.FeedSource{
	{
		ID:                    "fed-press",
		Name:                  "Federal Reserve Press Releases",
		FeedURL:               "https://www.federalreserve.gov/feeds/press_all.xml",
		Category:              models.CategoryEconomicIndicators,
		Reliability:           1.0,
		UpdateFrequencyMinute: 60,
		Active:                true,
	},
	{
		ID:                    "bls-news",
		Name:                  "BLS Economic News",
		FeedURL:               "https://www.bls.gov/feed/news_release.rss",
		Category:              models.CategoryEconomicIndicators,
		Reliability:           1.0,
		UpdateFrequencyMinute: 120,
		Active:                true,
	},
	{
		ID:                    "ecb-press",
		Name:                  "ECB Press Releases",
		FeedURL:               "https://www.ecb.europa.eu/rss/press.html",
		Category:              models.CategoryEconomicIndicators,
		Reliability:           1.0,
		UpdateFrequencyMinute: 120,
		Active:                false,
	},
}

// All returns the combined superset of every configured source
func All() []models.FeedSource {
	all := make([]models.FeedSource, 0, len(DefaultSources)+len(CryptoSources)+len(EconomicSources))
	all = append(all, DefaultSources...)
	all = append(all, CryptoSources...)
	all = append(all, EconomicSources...)
	return all
}

// Active returns only sources with the active flag set
func Active(list []models.FeedSource) []models.FeedSource {
	active := make([]models.FeedSource, 0, len(list))
	for _, s := range list {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// ByCategory returns sources matching the given category
func ByCategory(list []models.FeedSource, category models.SourceCategory) []models.FeedSource {
	matched := make([]models.FeedSource, 0, len(list))
	for _, s := range list {
		if s.Category == category {
			matched = append(matched, s)
		}
	}
	return matched
}

// ByMinReliability returns sources at or above the reliability threshold
func ByMinReliability(list []models.FeedSource, threshold float64) []models.FeedSource {
	matched := make([]models.FeedSource, 0, len(list))
	for _, s := range list {
		if s.Reliability >= threshold {
			matched = append(matched, s)
		}
	}
	return matched
}

// ByID finds a source by id, returning false when absent
func ByID(list []models.FeedSource, id string) (models.FeedSource, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return models.FeedSource{}, false
}
