package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blockrank/internal/cache"
	"blockrank/internal/config"
	"blockrank/internal/db"
	"blockrank/internal/extractor"
	"blockrank/internal/fetcher"
	"blockrank/internal/jobs"
	"blockrank/internal/matcher"
	"blockrank/internal/metrics"
	"blockrank/internal/pipeline"
	"blockrank/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger, closeLog := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))
	defer closeLog()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("migrations completed")

	metrics.Init(database)

	// Measurement pipeline: fetch, extract, match, classify
	markupCache := cache.New(cfg.RedisURL, cfg.MarkupCacheTTL)
	defer markupCache.Close()
	pipe := pipeline.New(
		fetcher.New(cfg.SearchBaseURL, cfg.FetchTimeout, cfg.FetchInterval, markupCache),
		extractor.New(cfg.FallbackScanLimit),
		pipeline.Config{
			Matcher: matcher.Config{
				RankWindow:          cfg.RankWindow,
				SimilarityThreshold: cfg.SimilarityThreshold,
			},
			FallbackConfidenceScale: cfg.FallbackConfidenceScale,
		},
		logger,
	)

	// Scheduler fires each cadence batch on its wall-clock boundary
	scheduler := jobs.New(database, database, pipe, jobs.PolicyFor(cfg.BatchConcurrency, cfg.FetchInterval), logger)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(database, pipe, scheduler)

	// Graceful shutdown: stop cadence timers first so no new batches start,
	// then drain the HTTP server.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down")
		scheduler.Stop()
		if err := srv.Shutdown(); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.ServerAddr)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
