// Package pipeline composes fetch, extraction, matching and visibility
// classification into one measurement outcome per keyword run.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blockrank/internal/fetcher"
	"blockrank/internal/matcher"
	"blockrank/internal/metrics"
	"blockrank/internal/models"
	"blockrank/internal/visibility"
)

// detectionMethod records how suppression was observed. CSS inspection of
// fetched markup is the only detector today.
const detectionMethod = "css_inspection"

// syntheticNoBlock names the detail entry attached when extraction found no
// smart block at all.
const syntheticNoBlock = "no_block_found"

// Fetcher obtains raw search results markup for a keyword.
type Fetcher interface {
	Fetch(ctx context.Context, keyword string) (string, error)
}

// Extractor parses markup into ranked categories.
type Extractor interface {
	Extract(markup string) []models.Category
}

// Config carries the pipeline's tunable heuristics.
type Config struct {
	Matcher                 matcher.Config
	FallbackConfidenceScale float64
}

// Pipeline runs one measurement for one keyword. It never returns an error:
// every fault is folded into the outcome so the caller always has exactly one
// record to persist.
type Pipeline struct {
	fetcher   Fetcher
	extractor Extractor
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Pipeline.
func New(f Fetcher, e Extractor, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{fetcher: f, extractor: e, cfg: cfg, logger: logger, now: time.Now}
}

// Run executes fetch → extract → match → classify for the keyword and
// returns the single outcome of this run.
func (p *Pipeline) Run(ctx context.Context, kw models.TrackedKeyword) models.MeasurementOutcome {
	start := p.now()
	outcome := models.MeasurementOutcome{
		KeywordID:  kw.ID,
		MeasuredAt: start,
		Method:     models.MethodSmartBlock,
	}

	markup, err := p.fetcher.Fetch(ctx, kw.Keyword)
	if err != nil {
		msg := err.Error()
		outcome.Status = models.StatusError
		outcome.ErrorMessage = &msg
		outcome.DurationMs = p.sinceMs(start)
		metrics.RecordFetchFailure(fetchFailureReason(err))
		p.logger.Warn("measurement fetch failed", "keyword", kw.Keyword, "error", err)
		return outcome
	}

	categories := p.extractor.Extract(markup)
	if len(categories) == 0 {
		outcome.Status = models.StatusBlockMissing
		outcome.Categories = []models.CategoryDetail{{CategoryName: syntheticNoBlock}}
		outcome.DurationMs = p.sinceMs(start)
		return outcome
	}

	best, bestCategory := p.matchCategories(&outcome, kw.TargetURL, categories)

	if best.Rank == nil {
		outcome.Status = models.StatusNotInBlock
	} else {
		outcome.Status = models.StatusOK
		outcome.Rank = best.Rank
		outcome.Confidence = best.Confidence
		p.classify(&outcome, bestCategory, *best.Rank)
	}

	outcome.DurationMs = p.sinceMs(start)
	return outcome
}

// matchCategories runs the matcher once per category, fills the per-category
// detail on the outcome, and returns the best-ranking match along with the
// category it came from. Lower rank wins; ties go to higher confidence.
func (p *Pipeline) matchCategories(outcome *models.MeasurementOutcome, targetURL string, categories []models.Category) (matcher.Result, models.Category) {
	var best matcher.Result
	var bestCategory models.Category

	for _, cat := range categories {
		res := matcher.Match(targetURL, cat.Items, p.cfg.Matcher)
		if cat.IsFallback() {
			outcome.Method = models.MethodFallbackScan
			res.Confidence *= p.cfg.FallbackConfidenceScale
		}

		outcome.Categories = append(outcome.Categories, models.CategoryDetail{
			CategoryName: cat.Name,
			Rank:         res.Rank,
			TotalItems:   len(cat.Items),
			Confidence:   res.Confidence,
			TopItems:     topItems(cat.Items, p.cfg.Matcher.RankWindow),
		})

		if res.Rank == nil {
			continue
		}
		if best.Rank == nil || *res.Rank < *best.Rank ||
			(*res.Rank == *best.Rank && res.Confidence > best.Confidence) {
			best = res
			bestCategory = cat
		}
	}

	return best, bestCategory
}

// classify inspects the matched item's visibility and escalates the outcome
// to RANKED_BUT_HIDDEN when the item carries a suppression signal.
func (p *Pipeline) classify(outcome *models.MeasurementOutcome, cat models.Category, rank int) {
	if rank < 1 || rank > len(cat.Items) {
		return
	}
	item := cat.Items[rank-1]
	if item.IsVisible == nil || *item.IsVisible || item.SuppressionSignal == "" {
		return
	}

	c := visibility.Classify(item.SuppressionSignal, detectionMethod)
	outcome.Status = models.StatusRankedButHidden
	outcome.Visibility = &models.VisibilityReport{
		IsVisible:         false,
		SuppressionSignal: item.SuppressionSignal,
		Category:          c.Category,
		Detail:            c.Detail,
		DetectionMethod:   c.DetectionMethod,
		RecoveryEstimate:  c.RecoveryEstimate,
		Severity:          c.Severity,
		ActionGuide:       c.ActionGuide,
	}
}

// fetchFailureReason buckets a fetch error for metrics.
func fetchFailureReason(err error) string {
	var fe *fetcher.FetchError
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return "http_status"
	}
	return "network"
}

func (p *Pipeline) sinceMs(start time.Time) int64 {
	return p.now().Sub(start).Milliseconds()
}

// topItems returns the first n items for persisted display.
func topItems(items []models.ResultItem, n int) []models.ResultItem {
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	return items[:n]
}
