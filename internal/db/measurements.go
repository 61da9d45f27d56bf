package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blockrank/internal/models"
)

// measurementColumns is the standard column list for measurement queries.
const measurementColumns = `id, keyword_id, measured_at, rank, status, confidence,
	categories, visibility, duration_ms, error_message, method`

// AppendMeasurement persists one outcome. The measurement log is append-only:
// rows are never updated or deleted except by keyword cascade.
func (d *DB) AppendMeasurement(ctx context.Context, outcome *models.MeasurementOutcome) error {
	if outcome.MeasuredAt.IsZero() {
		outcome.MeasuredAt = time.Now()
	}

	categories, err := json.Marshal(outcome.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	var visibility []byte
	if outcome.Visibility != nil {
		visibility, err = json.Marshal(outcome.Visibility)
		if err != nil {
			return fmt.Errorf("encode visibility: %w", err)
		}
	}

	query := `
		INSERT INTO measurements (keyword_id, measured_at, rank, status, confidence,
			categories, visibility, duration_ms, error_message, method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	return d.Pool.QueryRow(ctx, query,
		outcome.KeywordID,
		outcome.MeasuredAt,
		outcome.Rank,
		outcome.Status,
		outcome.Confidence,
		categories,
		visibility,
		outcome.DurationMs,
		outcome.ErrorMessage,
		outcome.Method,
	).Scan(&outcome.ID)
}

// scanMeasurement scans a row into a MeasurementOutcome struct.
func scanMeasurement(row pgx.Row) (*models.MeasurementOutcome, error) {
	var outcome models.MeasurementOutcome
	var categories, visibility []byte

	err := row.Scan(
		&outcome.ID,
		&outcome.KeywordID,
		&outcome.MeasuredAt,
		&outcome.Rank,
		&outcome.Status,
		&outcome.Confidence,
		&categories,
		&visibility,
		&outcome.DurationMs,
		&outcome.ErrorMessage,
		&outcome.Method,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMeasurementNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &outcome.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}
	if len(visibility) > 0 {
		outcome.Visibility = &models.VisibilityReport{}
		if err := json.Unmarshal(visibility, outcome.Visibility); err != nil {
			return nil, fmt.Errorf("decode visibility: %w", err)
		}
	}

	return &outcome, nil
}

// ListMeasurements returns a keyword's measurement history, newest first.
func (d *DB) ListMeasurements(ctx context.Context, keywordID uuid.UUID, limit int) ([]models.MeasurementOutcome, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE keyword_id = $1
		ORDER BY measured_at DESC
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, keywordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.MeasurementOutcome
	for rows.Next() {
		outcome, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, *outcome)
	}
	return outcomes, rows.Err()
}

// LatestAndPrevious returns a keyword's two most recent outcomes ordered by
// measured_at, for rank-change computation. Previous is nil when only one
// measurement exists; ErrMeasurementNotFound when there are none.
func (d *DB) LatestAndPrevious(ctx context.Context, keywordID uuid.UUID) (latest, previous *models.MeasurementOutcome, err error) {
	outcomes, err := d.ListMeasurements(ctx, keywordID, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(outcomes) == 0 {
		return nil, nil, ErrMeasurementNotFound
	}

	latest = &outcomes[0]
	if len(outcomes) > 1 {
		previous = &outcomes[1]
	}
	return latest, previous, nil
}

// GetMeasurementStatusCounts tallies measurements per status for metrics export.
func (d *DB) GetMeasurementStatusCounts(ctx context.Context) ([]models.MeasurementStatusCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM measurements GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.MeasurementStatusCount
	for rows.Next() {
		var c models.MeasurementStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
