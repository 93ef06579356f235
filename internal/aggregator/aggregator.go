// Package aggregator orchestrates feed fetching, parsing and sentiment
// enrichment across the source registry, with per-source caching and
// throttling. One misbehaving source never corrupts the merged view.
package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/market-news/internal/feed"
	"github.com/selivandex/market-news/internal/sentiment"
	"github.com/selivandex/market-news/internal/sources"
	"github.com/selivandex/market-news/pkg/logger"
	"github.com/selivandex/market-news/pkg/models"
)

// Config controls aggregator behavior
type Config struct {
	// CacheTimeout is how long a source's cache entry stays valid
	CacheTimeout time.Duration
	// DefaultLimit caps FetchNews results when the filter sets none
	DefaultLimit int
	// AttachSentiment enables per-item sentiment scoring
	AttachSentiment bool
	// ExtractSignals enables symbol and keyword extraction
	ExtractSignals bool
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		CacheTimeout:    15 * time.Minute,
		DefaultLimit:    100,
		AttachSentiment: true,
		ExtractSignals:  true,
	}
}

// cacheEntry holds the last successfully produced items for one source.
// An entry is only ever replaced by a fetch yielding at least one item, so
// cached content can be stale but is never regressed to empty.
type cacheEntry struct {
	cachedAt time.Time
	sourceID string
	items    []models.NewsItem
}

// throttleState tracks the fetch window for one source. It is mutated only
// after a fetch attempt is actually issued.
type throttleState struct {
	lastRequest  time.Time
	requestCount int64
}

// Aggregator owns the per-source cache and throttle maps for its lifetime.
// It is safe for concurrent use: map access is guarded by mu, and the
// decide-then-fetch path is serialized per source so overlapping callers
// cannot race a source's cache back to empty.
type Aggregator struct {
	sources  []models.FeedSource
	parser   *feed.Parser
	analyzer *sentiment.Analyzer
	cfg      Config

	mu       sync.Mutex
	cache    map[string]*cacheEntry
	throttle map[string]*throttleState
	locks    map[string]*sync.Mutex
}

// New creates an aggregator over the given source registry
func New(sourceList []models.FeedSource, parser *feed.Parser, analyzer *sentiment.Analyzer, cfg Config) *Aggregator {
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = 15 * time.Minute
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 100
	}
	return &Aggregator{
		sources:  sourceList,
		parser:   parser,
		analyzer: analyzer,
		cfg:      cfg,
		cache:    make(map[string]*cacheEntry),
		throttle: make(map[string]*throttleState),
		locks:    make(map[string]*sync.Mutex),
	}
}

// FetchFromSource returns items for one source, preferring valid cache,
// then stale cache while the throttle window is cooling, and only then a
// live fetch. A live fetch yielding zero items leaves the cache untouched.
func (a *Aggregator) FetchFromSource(ctx context.Context, source models.FeedSource) []models.NewsItem {
	lock := a.lockFor(source.ID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()

	a.mu.Lock()
	entry := a.cache[source.ID]
	if entry != nil && now.Sub(entry.cachedAt) < a.cfg.CacheTimeout {
		items := copyItems(entry.items)
		a.mu.Unlock()
		return items
	}

	state := a.throttle[source.ID]
	if state != nil && now.Sub(state.lastRequest) < a.updateInterval(source) {
		// cooling: best available cache, possibly stale, possibly empty
		var items []models.NewsItem
		if entry != nil {
			items = copyItems(entry.items)
		}
		a.mu.Unlock()
		return items
	}
	a.mu.Unlock()

	parsed := a.parser.FetchAndParse(ctx, source.FeedURL)

	a.mu.Lock()
	state = a.throttle[source.ID]
	if state == nil {
		state = &throttleState{}
		a.throttle[source.ID] = state
	}
	state.lastRequest = time.Now()
	state.requestCount++
	a.mu.Unlock()

	if len(parsed.Entries) == 0 {
		logger.Debug("feed returned no entries, keeping cache",
			zap.String("source", source.ID),
		)
		return a.cachedItems(source.ID)
	}

	items := make([]models.NewsItem, 0, len(parsed.Entries))
	for _, rawEntry := range parsed.Entries {
		item, err := a.buildItem(source, rawEntry)
		if err != nil {
			logger.Warn("skipping malformed feed entry",
				zap.String("source", source.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return a.cachedItems(source.ID)
	}

	a.mu.Lock()
	a.cache[source.ID] = &cacheEntry{
		cachedAt: time.Now(),
		sourceID: source.ID,
		items:    items,
	}
	a.mu.Unlock()

	logger.Debug("fetched source",
		zap.String("source", source.ID),
		zap.Int("items", len(items)),
	)

	return copyItems(items)
}

// FetchNews fans out to all candidate sources concurrently, waits for the
// complete batch, then merges, sorts newest-first, filters and truncates.
func (a *Aggregator) FetchNews(ctx context.Context, filter *models.NewsFilter) []models.NewsItem {
	candidates := a.resolveSources(filter)

	results := make(chan []models.NewsItem, len(candidates))
	for _, source := range candidates {
		go func(s models.FeedSource) {
			results <- a.FetchFromSource(ctx, s)
		}(source)
	}

	all := make([]models.NewsItem, 0)
	for range candidates {
		all = append(all, <-results...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	all = applyFilter(all, filter)

	limit := a.cfg.DefaultLimit
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// MarketSentiment aggregates sentiment over the last 24h of finance, stock
// and crypto news, optionally narrowed to the given symbols.
func (a *Aggregator) MarketSentiment(ctx context.Context, symbols []string) models.SentimentResult {
	now := time.Now()
	filter := &models.NewsFilter{
		Categories: []models.SourceCategory{
			models.CategoryGeneralFinance,
			models.CategoryStocks,
			models.CategoryCryptocurrency,
		},
		Symbols:   symbols,
		TimeRange: &models.TimeRange{Start: now.Add(-24 * time.Hour), End: now},
	}
	return a.analyzer.AnalyzeAggregate(a.FetchNews(ctx, filter))
}

// CryptoSentiment aggregates crypto sentiment over the last 12h. With no
// articles available it returns a zero-confidence neutral result so callers
// can render "no data" truthfully instead of a fabricated signal.
func (a *Aggregator) CryptoSentiment(ctx context.Context) models.SentimentResult {
	now := time.Now()
	filter := &models.NewsFilter{
		Categories: []models.SourceCategory{models.CategoryCryptocurrency},
		TimeRange:  &models.TimeRange{Start: now.Add(-12 * time.Hour), End: now},
	}

	items := a.FetchNews(ctx, filter)
	if len(items) == 0 {
		return models.SentimentResult{Classification: models.SentimentNeutral}
	}
	return a.analyzer.AnalyzeAggregate(items)
}

// BreakingNews returns news from the last 2 hours, newest first
func (a *Aggregator) BreakingNews(ctx context.Context, limit int) []models.NewsItem {
	if limit <= 0 {
		limit = 10
	}
	now := time.Now()
	return a.FetchNews(ctx, &models.NewsFilter{
		TimeRange: &models.TimeRange{Start: now.Add(-2 * time.Hour), End: now},
		Limit:     limit,
	})
}

// ClearCache drops one source's cache entry, or every entry when sourceID
// is empty. Throttle state is kept: clearing cache must not defeat the
// per-source fetch window.
func (a *Aggregator) ClearCache(sourceID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sourceID == "" {
		a.cache = make(map[string]*cacheEntry)
		return
	}
	delete(a.cache, sourceID)
}

// CacheStats reports every populated cache entry
func (a *Aggregator) CacheStats() []models.CacheStat {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	stats := make([]models.CacheStat, 0, len(a.cache))
	for id, entry := range a.cache {
		stats = append(stats, models.CacheStat{
			SourceID: id,
			CachedAt: entry.cachedAt,
			Items:    len(entry.items),
			Valid:    now.Sub(entry.cachedAt) < a.cfg.CacheTimeout,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].SourceID < stats[j].SourceID })
	return stats
}

// ThrottleStatus reports every source's fetch window
func (a *Aggregator) ThrottleStatus() []models.ThrottleStat {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	stats := make([]models.ThrottleStat, 0, len(a.throttle))
	for id, state := range a.throttle {
		interval := a.cfg.CacheTimeout
		if source, ok := sources.ByID(a.sources, id); ok {
			interval = a.updateInterval(source)
		}
		next := state.lastRequest.Add(interval)
		stats = append(stats, models.ThrottleStat{
			SourceID:     id,
			LastRequest:  state.lastRequest,
			RequestCount: state.requestCount,
			NextAllowed:  next,
			Ready:        !now.Before(next),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].SourceID < stats[j].SourceID })
	return stats
}

// resolveSources narrows the active source set by the filter's explicit
// source ids and categories.
func (a *Aggregator) resolveSources(filter *models.NewsFilter) []models.FeedSource {
	candidates := sources.Active(a.sources)

	if filter == nil {
		return candidates
	}

	if len(filter.Sources) > 0 {
		wanted := make(map[string]struct{}, len(filter.Sources))
		for _, id := range filter.Sources {
			wanted[id] = struct{}{}
		}
		narrowed := candidates[:0]
		for _, s := range candidates {
			if _, ok := wanted[s.ID]; ok {
				narrowed = append(narrowed, s)
			}
		}
		candidates = narrowed
	}

	if len(filter.Categories) > 0 {
		wanted := make(map[models.SourceCategory]struct{}, len(filter.Categories))
		for _, c := range filter.Categories {
			wanted[c] = struct{}{}
		}
		narrowed := candidates[:0]
		for _, s := range candidates {
			if _, ok := wanted[s.Category]; ok {
				narrowed = append(narrowed, s)
			}
		}
		candidates = narrowed
	}

	return candidates
}

func (a *Aggregator) updateInterval(source models.FeedSource) time.Duration {
	if source.UpdateFrequencyMinute <= 0 {
		return time.Minute
	}
	return time.Duration(source.UpdateFrequencyMinute) * time.Minute
}

func (a *Aggregator) cachedItems(sourceID string) []models.NewsItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	if entry := a.cache[sourceID]; entry != nil {
		return copyItems(entry.items)
	}
	return nil
}

func (a *Aggregator) lockFor(sourceID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[sourceID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[sourceID] = lock
	}
	return lock
}

func copyItems(items []models.NewsItem) []models.NewsItem {
	out := make([]models.NewsItem, len(items))
	copy(out, items)
	return out
}
