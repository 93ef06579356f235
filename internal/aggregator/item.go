package aggregator

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/selivandex/market-news/internal/feed"
	"github.com/selivandex/market-news/pkg/models"
)

// itemID derives a stable id from (url, source id): the same article URL
// from the same source always maps to the same id across fetches. The same
// story on two different sources keeps two distinct ids.
func itemID(url, sourceID string) string {
	h := fnv.New64a()
	h.Write([]byte(sourceID))
	h.Write([]byte{'|'})
	h.Write([]byte(url))
	return fmt.Sprintf("%s-%x", sourceID, h.Sum64())
}

// buildItem converts one raw entry into an enriched NewsItem. A panic while
// processing a single entry is converted to an EntryError so the caller can
// skip it without dropping the rest of the batch.
func (a *Aggregator) buildItem(source models.FeedSource, entry models.RawFeedEntry) (item models.NewsItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &feed.EntryError{Link: entry.Link, Err: fmt.Errorf("%v", r)}
		}
	}()

	item = models.NewsItem{
		ID:          itemID(entry.Link, source.ID),
		Title:       entry.Title,
		Description: entry.Description,
		Content:     entry.Content,
		URL:         entry.Link,
		Source:      source.Name,
		Category:    source.Category,
		PublishedAt: feed.ParseDate(entry.PubDate),
		Symbols:     []string{},
		Keywords:    []string{},
	}

	if strings.HasPrefix(entry.EnclosureType, "image/") {
		item.ImageURL = entry.EnclosureURL
	}

	if a.cfg.ExtractSignals {
		text := entry.Title + " " + entry.Description
		item.Symbols = feed.ExtractSymbols(text)
		item.Keywords = feed.ExtractKeywords(text)
	}

	if a.cfg.AttachSentiment {
		var result models.SentimentResult
		if source.Category == models.CategoryCryptocurrency {
			result = a.analyzer.AnalyzeCrypto(entry.Title, entry.Description)
		} else {
			result = a.analyzer.AnalyzeAdvanced(entry.Title, entry.Description)
		}
		item.Sentiment = &result
	}

	return item, nil
}

// applyFilter applies the post-merge filters: symbol match, sentiment
// classification and inclusive publish-time range.
func applyFilter(items []models.NewsItem, filter *models.NewsFilter) []models.NewsItem {
	if filter == nil {
		return items
	}

	out := items[:0]
	for _, item := range items {
		if len(filter.Symbols) > 0 && !hasAnySymbol(item.Symbols, filter.Symbols) {
			continue
		}
		if filter.Sentiment != "" {
			if item.Sentiment == nil || item.Sentiment.Classification != filter.Sentiment {
				continue
			}
		}
		if tr := filter.TimeRange; tr != nil {
			if item.PublishedAt.Before(tr.Start) || item.PublishedAt.After(tr.End) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func hasAnySymbol(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
