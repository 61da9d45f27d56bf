// Package cache provides a short-TTL cache for fetched search markup, so a
// manual "measure now" right after a scheduled run does not refetch the page.
package cache

import (
	"time"

	"github.com/gofiber/storage/redis/v3"
)

// MarkupCache stores raw search result markup keyed by keyword text.
type MarkupCache struct {
	store *redis.Storage
	ttl   time.Duration
}

// New connects to Redis at the given URL. Returns nil when url is empty;
// a nil *MarkupCache is valid and disables caching.
func New(url string, ttl time.Duration) *MarkupCache {
	if url == "" {
		return nil
	}
	return &MarkupCache{
		store: redis.New(redis.Config{URL: url}),
		ttl:   ttl,
	}
}

// Get returns cached markup for a keyword, or "" on miss or error. Cache
// errors are never surfaced; a failed cache read is just a miss.
func (m *MarkupCache) Get(keyword string) string {
	if m == nil {
		return ""
	}
	data, err := m.store.Get(cacheKey(keyword))
	if err != nil || len(data) == 0 {
		return ""
	}
	return string(data)
}

// Set stores markup for a keyword with the configured TTL. Best-effort.
func (m *MarkupCache) Set(keyword, markup string) {
	if m == nil {
		return
	}
	_ = m.store.Set(cacheKey(keyword), []byte(markup), m.ttl)
}

// Close releases the underlying Redis connection.
func (m *MarkupCache) Close() error {
	if m == nil {
		return nil
	}
	return m.store.Close()
}

func cacheKey(keyword string) string {
	return "markup:" + keyword
}
