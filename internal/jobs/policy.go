package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"blockrank/internal/models"
)

// maxPoolSize caps pooled batch concurrency. Unbounded concurrency against
// the search endpoint risks tripping anti-bot defenses, so the pool never
// grows past this regardless of configuration.
const maxPoolSize = 5

// BatchPolicy decides how the keywords of one cadence batch are processed.
// Tests use Sequential for determinism; production may opt into Pooled.
type BatchPolicy interface {
	Run(ctx context.Context, keywords []models.TrackedKeyword, measure func(context.Context, models.TrackedKeyword))
}

// Sequential processes keywords one at a time with a courtesy delay between
// them, bounding the outbound request rate naturally.
type Sequential struct {
	Delay time.Duration
}

// Run implements BatchPolicy.
func (p Sequential) Run(ctx context.Context, keywords []models.TrackedKeyword, measure func(context.Context, models.TrackedKeyword)) {
	for i, kw := range keywords {
		select {
		case <-ctx.Done():
			return
		default:
		}

		measure(ctx, kw)

		if p.Delay > 0 && i < len(keywords)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.Delay):
			}
		}
	}
}

// Pooled processes a batch with a bounded worker pool to shorten batch
// wall-time. Limit values above maxPoolSize are clamped.
type Pooled struct {
	Limit int
}

// Run implements BatchPolicy.
func (p Pooled) Run(ctx context.Context, keywords []models.TrackedKeyword, measure func(context.Context, models.TrackedKeyword)) {
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > maxPoolSize {
		limit = maxPoolSize
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, kw := range keywords {
		g.Go(func() error {
			measure(gctx, kw)
			return nil
		})
	}

	g.Wait()
}

// PolicyFor picks the batch policy for a configured concurrency level.
func PolicyFor(concurrency int, delay time.Duration) BatchPolicy {
	if concurrency > 0 {
		return Pooled{Limit: concurrency}
	}
	return Sequential{Delay: delay}
}
