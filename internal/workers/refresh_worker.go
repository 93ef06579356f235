package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/market-news/internal/aggregator"
	"github.com/selivandex/market-news/pkg/logger"
)

// RefreshWorker periodically warms the aggregator cache so API reads are
// usually served from cache. Per-source throttling still applies: a refresh
// tick never forces a fetch inside a source's cooling window.
type RefreshWorker struct {
	aggregator *aggregator.Aggregator
}

// NewRefreshWorker creates new refresh worker
func NewRefreshWorker(agg *aggregator.Aggregator) *RefreshWorker {
	return &RefreshWorker{aggregator: agg}
}

func (w *RefreshWorker) Name() string {
	return "news_refresh"
}

// Run executes one refresh pass over all active sources
func (w *RefreshWorker) Run(ctx context.Context) error {
	start := time.Now()

	items := w.aggregator.FetchNews(ctx, nil)

	logger.Info("news cache refreshed",
		zap.Int("items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
