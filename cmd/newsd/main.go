package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/market-news/internal/adapters/config"
	"github.com/selivandex/market-news/internal/aggregator"
	"github.com/selivandex/market-news/internal/feed"
	"github.com/selivandex/market-news/internal/sentiment"
	"github.com/selivandex/market-news/internal/server"
	"github.com/selivandex/market-news/internal/sources"
	"github.com/selivandex/market-news/internal/workers"
	"github.com/selivandex/market-news/pkg/logger"
	"github.com/selivandex/market-news/pkg/models"
	"github.com/selivandex/market-news/pkg/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("market news service starting",
		zap.String("bind_addr", cfg.Server.BindAddr),
		zap.Duration("cache_timeout", cfg.News.CacheTimeout),
	)

	registry := buildRegistry(cfg)

	fetcher := feed.NewHTTPFetcher(cfg.News.RequestTimeout)
	parser := feed.NewParser(fetcher)
	analyzer := sentiment.NewAnalyzer()

	agg := aggregator.New(registry, parser, analyzer, aggregator.Config{
		CacheTimeout:    cfg.News.CacheTimeout,
		DefaultLimit:    cfg.News.DefaultLimit,
		AttachSentiment: cfg.News.SentimentEnabled,
		ExtractSignals:  cfg.News.ExtractSignals,
	})

	group := worker.NewWorkerGroup(ctx)
	group.Add(workers.NewRefreshWorker(agg), cfg.News.RefreshInterval)
	group.Start()

	srv := server.New(cfg.Server.BindAddr, agg)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	logger.Info("service ready",
		zap.Int("sources", len(registry)),
	)

	select {
	case err := <-serverErr:
		group.Stop(5 * time.Second)
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	group.Stop(5 * time.Second)

	return nil
}

func buildRegistry(cfg *config.Config) []models.FeedSource {
	registry := make([]models.FeedSource, 0)
	registry = append(registry, sources.DefaultSources...)
	registry = append(registry, sources.CryptoSources...)
	if cfg.News.IncludeEconomic {
		registry = append(registry, sources.EconomicSources...)
	}
	return registry
}
