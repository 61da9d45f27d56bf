package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"blockrank/internal/models"
)

func intPtr(n int) *int { return &n }

func TestAppendAndListMeasurements(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	kw := newTestKeyword(t, db, "append-kw", models.CadenceHourly)

	outcome := &models.MeasurementOutcome{
		KeywordID:  kw.ID,
		MeasuredAt: time.Now(),
		Rank:       intPtr(2),
		Status:     models.StatusOK,
		Confidence: 1.0,
		Categories: []models.CategoryDetail{
			{CategoryName: "인기글", Rank: intPtr(2), TotalItems: 3, Confidence: 1.0},
		},
		DurationMs: 1200,
		Method:     models.MethodSmartBlock,
	}
	if err := db.AppendMeasurement(ctx, outcome); err != nil {
		t.Fatalf("AppendMeasurement() error = %v", err)
	}
	if outcome.ID == uuid.Nil {
		t.Error("AppendMeasurement() did not set ID")
	}

	list, err := db.ListMeasurements(ctx, kw.ID, 10)
	if err != nil {
		t.Fatalf("ListMeasurements() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListMeasurements() returned %d rows, want 1", len(list))
	}

	got := list[0]
	if got.Status != models.StatusOK || got.Rank == nil || *got.Rank != 2 {
		t.Errorf("round-tripped outcome = %+v", got)
	}
	if len(got.Categories) != 1 || got.Categories[0].CategoryName != "인기글" {
		t.Errorf("categories did not round-trip: %+v", got.Categories)
	}
}

func TestAppendMeasurementWithVisibility(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	kw := newTestKeyword(t, db, "visibility-kw", models.CadenceHourly)

	outcome := &models.MeasurementOutcome{
		KeywordID: kw.ID,
		Rank:      intPtr(1),
		Status:    models.StatusRankedButHidden,
		Visibility: &models.VisibilityReport{
			IsVisible:         false,
			SuppressionSignal: models.SignalOpacityZero,
			Category:          "spam suspicion",
			DetectionMethod:   "css_inspection",
		},
		Method: models.MethodSmartBlock,
	}
	if err := db.AppendMeasurement(ctx, outcome); err != nil {
		t.Fatalf("AppendMeasurement() error = %v", err)
	}

	latest, _, err := db.LatestAndPrevious(ctx, kw.ID)
	if err != nil {
		t.Fatalf("LatestAndPrevious() error = %v", err)
	}
	if latest.Visibility == nil || latest.Visibility.Category != "spam suspicion" {
		t.Errorf("visibility did not round-trip: %+v", latest.Visibility)
	}
}

func TestLatestAndPreviousOrdersByMeasuredAt(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	kw := newTestKeyword(t, db, "ordering-kw", models.CadenceHourly)

	older := &models.MeasurementOutcome{
		KeywordID:  kw.ID,
		MeasuredAt: time.Now().Add(-2 * time.Hour),
		Rank:       intPtr(3),
		Status:     models.StatusOK,
		Method:     models.MethodSmartBlock,
	}
	newer := &models.MeasurementOutcome{
		KeywordID:  kw.ID,
		MeasuredAt: time.Now().Add(-1 * time.Hour),
		Rank:       intPtr(1),
		Status:     models.StatusOK,
		Method:     models.MethodSmartBlock,
	}

	// Insert newest first so the query cannot pass by insertion order alone.
	if err := db.AppendMeasurement(ctx, newer); err != nil {
		t.Fatalf("AppendMeasurement() error = %v", err)
	}
	if err := db.AppendMeasurement(ctx, older); err != nil {
		t.Fatalf("AppendMeasurement() error = %v", err)
	}

	latest, previous, err := db.LatestAndPrevious(ctx, kw.ID)
	if err != nil {
		t.Fatalf("LatestAndPrevious() error = %v", err)
	}
	if latest.Rank == nil || *latest.Rank != 1 {
		t.Errorf("latest rank = %v, want 1 (measured_at ordering)", latest.Rank)
	}
	if previous == nil || previous.Rank == nil || *previous.Rank != 3 {
		t.Errorf("previous rank = %v, want 3", previous)
	}
}

func TestLatestAndPreviousEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	kw := newTestKeyword(t, db, "empty-kw", models.CadenceHourly)
	if _, _, err := db.LatestAndPrevious(context.Background(), kw.ID); err != ErrMeasurementNotFound {
		t.Errorf("LatestAndPrevious() error = %v, want ErrMeasurementNotFound", err)
	}
}

func TestGetMeasurementStatusCounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	kw := newTestKeyword(t, db, "counts-kw", models.CadenceHourly)

	for _, status := range []string{models.StatusOK, models.StatusOK, models.StatusError} {
		outcome := &models.MeasurementOutcome{KeywordID: kw.ID, Status: status, Method: models.MethodSmartBlock}
		if err := db.AppendMeasurement(ctx, outcome); err != nil {
			t.Fatalf("AppendMeasurement() error = %v", err)
		}
	}

	counts, err := db.GetMeasurementStatusCounts(ctx)
	if err != nil {
		t.Fatalf("GetMeasurementStatusCounts() error = %v", err)
	}

	byStatus := make(map[string]int64)
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	if byStatus[models.StatusOK] != 2 || byStatus[models.StatusError] != 1 {
		t.Errorf("status counts = %v", byStatus)
	}
}
