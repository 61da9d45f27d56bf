// Package matcher finds the best-ranking match for a target URL within the
// top positions of a ranked result list.
package matcher

import (
	"blockrank/internal/models"
	"blockrank/internal/urlutil"
)

// Config carries the product-tuned match heuristics. The window and the
// threshold are tunable constants, not derived values: positions past the
// window count as absence, and the threshold tolerates query-parameter drift
// while rejecting coincidental path overlap.
type Config struct {
	RankWindow          int
	SimilarityThreshold float64
}

// DefaultConfig returns the production heuristics: top-3 window, 0.85 cutoff.
func DefaultConfig() Config {
	return Config{RankWindow: 3, SimilarityThreshold: 0.85}
}

// Result is the outcome of matching one target URL against one item list.
type Result struct {
	Rank       *int    // 1-based position, nil when not ranked
	Confidence float64 // 1.0 exact, (threshold,1) fuzzy, 0 none
	MatchedURL string  // the item URL that matched, "" when none
	Exact      bool
}

// Match scans the first cfg.RankWindow items in order. An exact normalized
// URL match wins immediately with confidence 1.0; otherwise a path-segment
// similarity above the threshold qualifies as a fuzzy match. Anything beyond
// the window is treated as not ranked.
func Match(targetURL string, items []models.ResultItem, cfg Config) Result {
	window := cfg.RankWindow
	if window > len(items) {
		window = len(items)
	}

	for i := 0; i < window; i++ {
		item := items[i]
		if urlutil.Equal(item.URL, targetURL) {
			rank := i + 1
			return Result{Rank: &rank, Confidence: 1.0, MatchedURL: item.URL, Exact: true}
		}
		if sim := urlutil.PathSimilarity(item.URL, targetURL); sim > cfg.SimilarityThreshold {
			rank := i + 1
			return Result{Rank: &rank, Confidence: sim, MatchedURL: item.URL}
		}
	}

	return Result{}
}
