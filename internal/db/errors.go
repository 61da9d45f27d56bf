package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrKeywordNotFound  = errors.New("tracked keyword not found")
	ErrDuplicateKeyword = errors.New("keyword is already tracked for this target URL")

	ErrMeasurementNotFound = errors.New("no measurement recorded for this keyword")
)
