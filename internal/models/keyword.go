package models

import (
	"time"

	"github.com/google/uuid"
)

// Measurement cadence constants. These are the only schedulable intervals;
// a keyword carrying any other value is never picked up by the scheduler.
const (
	CadenceHourly    = "1h"
	CadenceSixHourly = "6h"
	CadenceHalfDaily = "12h"
	CadenceDaily     = "24h"
)

// Cadences lists every schedulable cadence in trigger order.
var Cadences = []string{CadenceHourly, CadenceSixHourly, CadenceHalfDaily, CadenceDaily}

// IsValidCadence reports whether c is one of the four schedulable cadences.
func IsValidCadence(c string) bool {
	switch c {
	case CadenceHourly, CadenceSixHourly, CadenceHalfDaily, CadenceDaily:
		return true
	}
	return false
}

// TrackedKeyword is a search keyword whose smart-block rank is measured on a
// fixed cadence against a target blog post URL.
type TrackedKeyword struct {
	ID        uuid.UUID `json:"id"`
	Keyword   string    `json:"keyword"`
	TargetURL string    `json:"target_url"`
	Cadence   string    `json:"cadence"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
