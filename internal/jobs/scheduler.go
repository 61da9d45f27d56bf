// Package jobs owns the periodic measurement triggers: one cron entry per
// cadence, each firing at a fixed wall-clock alignment.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"blockrank/internal/metrics"
	"blockrank/internal/models"
)

// cronSpecs aligns every cadence to the top of its hour.
var cronSpecs = map[string]string{
	models.CadenceHourly:    "0 * * * *",
	models.CadenceSixHourly: "0 */6 * * *",
	models.CadenceHalfDaily: "0 */12 * * *",
	models.CadenceDaily:     "0 0 * * *",
}

// KeywordSource lists the keywords to measure. Implemented by db.DB.
type KeywordSource interface {
	ListActiveKeywords(ctx context.Context, cadence string) ([]models.TrackedKeyword, error)
}

// OutcomeStore persists measurement outcomes. Implemented by db.DB.
type OutcomeStore interface {
	AppendMeasurement(ctx context.Context, outcome *models.MeasurementOutcome) error
}

// Runner executes one measurement. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, kw models.TrackedKeyword) models.MeasurementOutcome
}

// Status reports whether the scheduler is running and which cadence triggers
// are registered.
type Status struct {
	Running  bool     `json:"running"`
	Cadences []string `json:"cadences"`
}

// Scheduler runs the measurement pipeline for every active keyword on its
// cadence. One keyword's failure never blocks the rest of its batch: every
// keyword in a batch produces exactly one persisted outcome.
type Scheduler struct {
	source KeywordSource
	store  OutcomeStore
	runner Runner
	policy BatchPolicy
	logger *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a Scheduler.
func New(source KeywordSource, store OutcomeStore, runner Runner, policy BatchPolicy, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		source: source,
		store:  store,
		runner: runner,
		policy: policy,
		logger: logger,
	}
}

// Start registers the four cadence triggers and starts the cron timers.
// Calling Start while already running is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	c := cron.New()
	for _, cadence := range models.Cadences {
		if _, err := c.AddFunc(cronSpecs[cadence], func() {
			s.RunBatch(context.Background(), cadence)
		}); err != nil {
			return fmt.Errorf("register %s trigger: %w", cadence, err)
		}
	}

	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info("scheduler started", "cadences", models.Cadences)
	return nil
}

// Stop cancels the cadence triggers. In-flight batches are allowed to finish
// and write their outcomes; only future firings are stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.cron = nil
	s.running = false
	s.logger.Info("scheduler stopped")
}

// Status returns the running flag and the registered cadence triggers.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Running: s.running}
	if s.running {
		st.Cadences = append(st.Cadences, models.Cadences...)
	}
	return st
}

// TriggerInterval runs one cadence's batch out of band, for operational use.
func (s *Scheduler) TriggerInterval(ctx context.Context, cadence string) error {
	if !models.IsValidCadence(cadence) {
		return fmt.Errorf("unknown cadence %q", cadence)
	}
	s.RunBatch(ctx, cadence)
	return nil
}

// RunBatch measures every active keyword of one cadence. Activation state is
// read at trigger time, not cached.
func (s *Scheduler) RunBatch(ctx context.Context, cadence string) {
	keywords, err := s.source.ListActiveKeywords(ctx, cadence)
	if err != nil {
		s.logger.Error("failed to list keywords for batch", "cadence", cadence, "error", err)
		return
	}
	if len(keywords) == 0 {
		return
	}

	s.logger.Info("measurement batch started", "cadence", cadence, "keywords", len(keywords))
	start := time.Now()

	s.policy.Run(ctx, keywords, s.measureOne)

	s.logger.Info("measurement batch finished", "cadence", cadence, "keywords", len(keywords), "elapsed", time.Since(start))
}

// measureOne runs the pipeline for a single keyword and persists exactly one
// outcome, converting panics into ERROR outcomes so a bad keyword cannot
// poison its batch.
func (s *Scheduler) measureOne(ctx context.Context, kw models.TrackedKeyword) {
	outcome := s.safeRun(ctx, kw)

	if err := s.store.AppendMeasurement(ctx, &outcome); err != nil {
		s.logger.Error("failed to persist outcome", "keyword", kw.Keyword, "error", err)
		return
	}

	metrics.ObserveMeasurement(outcome.Status, time.Duration(outcome.DurationMs)*time.Millisecond)
}

func (s *Scheduler) safeRun(ctx context.Context, kw models.TrackedKeyword) (outcome models.MeasurementOutcome) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("unexpected fault: %v", r)
			s.logger.Error("measurement panicked", "keyword", kw.Keyword, "panic", r)
			outcome = models.MeasurementOutcome{
				KeywordID:    kw.ID,
				MeasuredAt:   time.Now(),
				Status:       models.StatusError,
				ErrorMessage: &msg,
				Method:       models.MethodSmartBlock,
			}
		}
	}()

	return s.runner.Run(ctx, kw)
}
