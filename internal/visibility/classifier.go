// Package visibility maps a raw CSS suppression signal to a user-facing
// explanation of why a ranked post is not actually shown.
package visibility

import "blockrank/internal/models"

// Severity levels for a suppression classification.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Classification is the business reading of one suppression signal.
type Classification struct {
	Category         string `json:"category"`
	Detail           string `json:"detail"`
	DetectionMethod  string `json:"detection_method"`
	RecoveryEstimate string `json:"recovery_estimate"`
	Severity         string `json:"severity"`
	ActionGuide      string `json:"action_guide"`
}

// taxonomy is the current mapping from signal to narrative. It is a product
// decision, not an empirical model, and is expected to grow as new hiding
// mechanisms show up in captured markup.
var taxonomy = map[string]Classification{
	models.SignalDisplayNone: {
		Category:         "quality filter",
		Detail:           "The post is ranked but removed from layout (display:none), which usually means the quality filter pulled it after ranking.",
		RecoveryEstimate: "24-48h",
		Severity:         SeverityHigh,
		ActionGuide:      "Review the post for thin or duplicated content and update it; re-measure after the next index pass.",
	},
	models.SignalVisibilityHidden: {
		Category:         "temporary review",
		Detail:           "The post keeps its layout slot but is invisible (visibility:hidden), consistent with a temporary editorial or abuse review.",
		RecoveryEstimate: "12-24h",
		Severity:         SeverityMedium,
		ActionGuide:      "No content change needed yet; re-measure within a day before editing anything.",
	},
	models.SignalOpacityZero: {
		Category:         "spam suspicion",
		Detail:           "The post is rendered fully transparent (opacity:0), a pattern seen on entries flagged for spam-like engagement.",
		RecoveryEstimate: "48-72h",
		Severity:         SeverityHigh,
		ActionGuide:      "Stop any artificial traffic or engagement on the post and let the flag age out before re-measuring.",
	},
	models.SignalCSSClassHidden: {
		Category:         "policy/ad precedence",
		Detail:           "The post is hidden by a utility class, typically when an ad or policy module takes the slot's visible position.",
		RecoveryEstimate: "1-6h",
		Severity:         SeverityLow,
		ActionGuide:      "Usually transient; re-measure after a few hours before acting.",
	},
}

// unknown is the default branch for signals outside the current taxonomy.
var unknown = Classification{
	Category:         "unknown cause",
	Detail:           "The post is present but hidden by a mechanism this taxonomy does not recognize yet.",
	RecoveryEstimate: "unknown",
	Severity:         SeverityMedium,
	ActionGuide:      "Re-measure and capture the markup; if the signal persists, the taxonomy needs a new entry.",
}

// Classify is a total lookup over the known suppression signals; anything
// else maps to the unknown-cause classification.
func Classify(signal, detectionMethod string) Classification {
	c, ok := taxonomy[signal]
	if !ok {
		c = unknown
	}
	c.DetectionMethod = detectionMethod
	return c
}

// IsKnownSignal reports whether the signal has a dedicated classification.
func IsKnownSignal(signal string) bool {
	_, ok := taxonomy[signal]
	return ok
}
