package models

// MeasurementStatusCount is a per-status measurement tally for metrics export.
type MeasurementStatusCount struct {
	Status string
	Count  int64
}
