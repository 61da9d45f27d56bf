package models

import (
	"time"

	"github.com/google/uuid"
)

// Measurement status constants.
const (
	StatusOK              = "OK"
	StatusNotInBlock      = "NOT_IN_BLOCK"
	StatusBlockMissing    = "BLOCK_MISSING"
	StatusRankedButHidden = "RANKED_BUT_HIDDEN"
	StatusError           = "ERROR"
)

// Measurement method constants, recorded on every outcome so consumers can
// tell a smart-block rank from a degraded fallback-scan rank.
const (
	MethodSmartBlock   = "smart_block"
	MethodFallbackScan = "fallback_scan"
)

// CategoryDetail is the per-category match breakdown persisted with an
// outcome. TopItems holds at most the first few items for display.
type CategoryDetail struct {
	CategoryName string       `json:"category_name"`
	Rank         *int         `json:"rank"`
	TotalItems   int          `json:"total_items"`
	Confidence   float64      `json:"confidence"`
	TopItems     []ResultItem `json:"top_items,omitempty"`
}

// VisibilityReport explains why a ranked item is (or is not) visible to a
// human visitor.
type VisibilityReport struct {
	IsVisible         bool   `json:"is_visible"`
	SuppressionSignal string `json:"suppression_signal,omitempty"`
	Category          string `json:"category"`
	Detail            string `json:"detail"`
	DetectionMethod   string `json:"detection_method"`
	RecoveryEstimate  string `json:"recovery_estimate"`
	Severity          string `json:"severity"`
	ActionGuide       string `json:"action_guide"`
}

// MeasurementOutcome is the immutable record produced by one pipeline run for
// one keyword. Outcomes are append-only; latest/previous queries order by
// MeasuredAt, never by insertion order.
type MeasurementOutcome struct {
	ID           uuid.UUID         `json:"id"`
	KeywordID    uuid.UUID         `json:"keyword_id"`
	MeasuredAt   time.Time         `json:"measured_at"`
	Rank         *int              `json:"rank"`
	Status       string            `json:"status"`
	Confidence   float64           `json:"confidence"`
	Categories   []CategoryDetail  `json:"categories"`
	Visibility   *VisibilityReport `json:"visibility,omitempty"`
	DurationMs   int64             `json:"duration_ms"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	Method       string            `json:"method"`
}

// RankChange is the latest/previous rank delta for one keyword.
type RankChange struct {
	Latest   *MeasurementOutcome `json:"latest"`
	Previous *MeasurementOutcome `json:"previous"`
	Delta    *int                `json:"delta"`
}

// ComputeDelta fills Delta when both outcomes carry a rank. A positive delta
// means the rank improved (moved toward position 1).
func (rc *RankChange) ComputeDelta() {
	if rc.Latest == nil || rc.Previous == nil || rc.Latest.Rank == nil || rc.Previous.Rank == nil {
		rc.Delta = nil
		return
	}
	d := *rc.Previous.Rank - *rc.Latest.Rank
	rc.Delta = &d
}
