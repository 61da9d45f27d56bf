package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"blockrank/internal/models"
)

type fakeSource struct {
	keywords map[string][]models.TrackedKeyword
}

func (f *fakeSource) ListActiveKeywords(_ context.Context, cadence string) ([]models.TrackedKeyword, error) {
	return f.keywords[cadence], nil
}

type fakeStore struct {
	mu       sync.Mutex
	outcomes []models.MeasurementOutcome
}

func (f *fakeStore) AppendMeasurement(_ context.Context, outcome *models.MeasurementOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, *outcome)
	return nil
}

func (f *fakeStore) byKeyword() map[uuid.UUID]models.MeasurementOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := make(map[uuid.UUID]models.MeasurementOutcome, len(f.outcomes))
	for _, o := range f.outcomes {
		m[o.KeywordID] = o
	}
	return m
}

// panickyRunner fails hard for keywords whose text is "boom".
type panickyRunner struct{}

func (panickyRunner) Run(_ context.Context, kw models.TrackedKeyword) models.MeasurementOutcome {
	if kw.Keyword == "boom" {
		panic("extractor exploded")
	}
	rank := 1
	return models.MeasurementOutcome{
		KeywordID: kw.ID,
		Status:    models.StatusOK,
		Rank:      &rank,
		Method:    models.MethodSmartBlock,
	}
}

func testKeywords(n int, everyNthBoom int) []models.TrackedKeyword {
	kws := make([]models.TrackedKeyword, n)
	for i := range kws {
		text := "ok"
		if everyNthBoom > 0 && i%everyNthBoom == 0 {
			text = "boom"
		}
		kws[i] = models.TrackedKeyword{ID: uuid.New(), Keyword: text, Cadence: models.CadenceHourly, IsActive: true}
	}
	return kws
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	kws := testKeywords(6, 3) // positions 0 and 3 panic
	source := &fakeSource{keywords: map[string][]models.TrackedKeyword{models.CadenceHourly: kws}}
	store := &fakeStore{}

	s := New(source, store, panickyRunner{}, Sequential{}, nil)
	s.RunBatch(context.Background(), models.CadenceHourly)

	outcomes := store.byKeyword()
	if len(outcomes) != 6 {
		t.Fatalf("batch wrote %d outcomes, want exactly one per keyword (6)", len(outcomes))
	}

	errorCount := 0
	for _, kw := range kws {
		outcome, ok := outcomes[kw.ID]
		if !ok {
			t.Fatalf("keyword %s produced no outcome", kw.ID)
		}
		if kw.Keyword == "boom" {
			if outcome.Status != models.StatusError {
				t.Errorf("panicking keyword outcome status = %q, want ERROR", outcome.Status)
			}
			if outcome.ErrorMessage == nil || *outcome.ErrorMessage == "" {
				t.Error("ERROR outcome must carry the captured message")
			}
			errorCount++
		} else if outcome.Status != models.StatusOK {
			t.Errorf("healthy keyword outcome status = %q, want OK", outcome.Status)
		}
	}
	if errorCount != 2 {
		t.Errorf("expected 2 ERROR outcomes, got %d", errorCount)
	}
}

func TestRunBatchPooledWritesAllOutcomes(t *testing.T) {
	kws := testKeywords(20, 4)
	source := &fakeSource{keywords: map[string][]models.TrackedKeyword{models.CadenceHourly: kws}}
	store := &fakeStore{}

	s := New(source, store, panickyRunner{}, Pooled{Limit: 3}, nil)
	s.RunBatch(context.Background(), models.CadenceHourly)

	if got := len(store.byKeyword()); got != 20 {
		t.Errorf("pooled batch wrote %d outcomes, want 20", got)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(&fakeSource{}, &fakeStore{}, panickyRunner{}, Sequential{}, nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	st := s.Status()
	if !st.Running {
		t.Error("Status() running = false after Start")
	}
	if len(st.Cadences) != len(models.Cadences) {
		t.Errorf("Status() cadences = %v, want all four", st.Cadences)
	}

	s.Stop()
	s.Stop() // no-op

	st = s.Status()
	if st.Running {
		t.Error("Status() running = true after Stop")
	}
	if len(st.Cadences) != 0 {
		t.Errorf("Status() cadences = %v after Stop, want none", st.Cadences)
	}
}

func TestStartStopRaces(t *testing.T) {
	s := New(&fakeSource{}, &fakeStore{}, panickyRunner{}, Sequential{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.Start() }()
		go func() { defer wg.Done(); s.Stop() }()
	}
	wg.Wait()
	s.Stop()
}

func TestTriggerIntervalUnknownCadence(t *testing.T) {
	s := New(&fakeSource{}, &fakeStore{}, panickyRunner{}, Sequential{}, nil)
	if err := s.TriggerInterval(context.Background(), "30m"); err == nil {
		t.Error("TriggerInterval() should reject an unknown cadence")
	}
}

func TestTriggerIntervalRunsBatch(t *testing.T) {
	kws := testKeywords(3, 0)
	source := &fakeSource{keywords: map[string][]models.TrackedKeyword{models.CadenceDaily: kws}}
	store := &fakeStore{}

	// Move the keywords to the daily cadence for this test.
	for i := range kws {
		kws[i].Cadence = models.CadenceDaily
	}

	s := New(source, store, panickyRunner{}, Sequential{}, nil)
	if err := s.TriggerInterval(context.Background(), models.CadenceDaily); err != nil {
		t.Fatalf("TriggerInterval() error = %v", err)
	}
	if got := len(store.byKeyword()); got != 3 {
		t.Errorf("manual trigger wrote %d outcomes, want 3", got)
	}
}
