package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Redis markup cache (optional; empty disables caching)
	RedisURL       string
	MarkupCacheTTL time.Duration

	// Search fetch
	SearchBaseURL string        // keyword appended as the query parameter
	FetchTimeout  time.Duration // per-request timeout
	FetchInterval time.Duration // minimum spacing between outbound fetches

	// Rank heuristics. Product-tuned constants, not derived values.
	RankWindow              int     // only the first N items count as ranked
	SimilarityThreshold     float64 // fuzzy URL match cutoff
	FallbackScanLimit       int     // max anchors collected by the global scan
	FallbackConfidenceScale float64 // confidence multiplier for fallback results

	// Scheduler
	BatchConcurrency int // 0 = sequential; >0 = bounded worker pool (capped at 5)

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/blockrank?sslmode=disable"),

		RedisURL:       getEnv("REDIS_URL", ""),
		MarkupCacheTTL: getDuration("MARKUP_CACHE_TTL", 10*time.Minute),

		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://search.naver.com/search.naver"),
		FetchTimeout:  getDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchInterval: getDuration("FETCH_INTERVAL", 2*time.Second),

		RankWindow:              getInt("RANK_WINDOW", 3),
		SimilarityThreshold:     getFloat("SIMILARITY_THRESHOLD", 0.85),
		FallbackScanLimit:       getInt("FALLBACK_SCAN_LIMIT", 10),
		FallbackConfidenceScale: getFloat("FALLBACK_CONFIDENCE_SCALE", 0.7),

		BatchConcurrency: getInt("BATCH_CONCURRENCY", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
