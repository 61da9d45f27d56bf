package visibility

import (
	"testing"

	"blockrank/internal/models"
)

// These assertions pin the current taxonomy. The mapping is a product
// decision and will be extended; update the table here when it changes.
func TestClassifyKnownSignals(t *testing.T) {
	tests := []struct {
		signal       string
		wantCategory string
		wantSeverity string
	}{
		{models.SignalDisplayNone, "quality filter", SeverityHigh},
		{models.SignalVisibilityHidden, "temporary review", SeverityMedium},
		{models.SignalOpacityZero, "spam suspicion", SeverityHigh},
		{models.SignalCSSClassHidden, "policy/ad precedence", SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.signal, func(t *testing.T) {
			c := Classify(tt.signal, "css_inspection")
			if c.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", c.Category, tt.wantCategory)
			}
			if c.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", c.Severity, tt.wantSeverity)
			}
			if c.Category == unknown.Category {
				t.Error("known signal must not map to the unknown category")
			}
			if c.DetectionMethod != "css_inspection" {
				t.Errorf("DetectionMethod = %q", c.DetectionMethod)
			}
			if c.Detail == "" || c.RecoveryEstimate == "" || c.ActionGuide == "" {
				t.Error("classification narrative fields must be populated")
			}
		})
	}
}

func TestClassifyUnknownSignal(t *testing.T) {
	for _, signal := range []string{"", "aria_hidden", "clip_path", "something-new"} {
		c := Classify(signal, "css_inspection")
		if c.Category != "unknown cause" {
			t.Errorf("Classify(%q) category = %q, want unknown cause", signal, c.Category)
		}
		if c.ActionGuide == "" {
			t.Error("unknown classification still needs a re-check action")
		}
	}
}

func TestIsKnownSignal(t *testing.T) {
	for _, signal := range []string{
		models.SignalDisplayNone,
		models.SignalVisibilityHidden,
		models.SignalOpacityZero,
		models.SignalCSSClassHidden,
	} {
		if !IsKnownSignal(signal) {
			t.Errorf("IsKnownSignal(%q) = false, want true", signal)
		}
	}
	if IsKnownSignal("not_a_signal") {
		t.Error("IsKnownSignal should reject unrecognized signals")
	}
}
