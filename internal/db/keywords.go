package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blockrank/internal/models"
)

// keywordColumns is the standard column list for tracked keyword queries.
const keywordColumns = `id, keyword, target_url, cadence, is_active, created_at, updated_at`

// scanKeyword scans a row into a TrackedKeyword struct.
func scanKeyword(row pgx.Row) (*models.TrackedKeyword, error) {
	var kw models.TrackedKeyword
	err := row.Scan(
		&kw.ID,
		&kw.Keyword,
		&kw.TargetURL,
		&kw.Cadence,
		&kw.IsActive,
		&kw.CreatedAt,
		&kw.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeywordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// scanKeywords scans multiple rows into a slice of TrackedKeywords.
func scanKeywords(rows pgx.Rows) ([]models.TrackedKeyword, error) {
	defer rows.Close()

	var keywords []models.TrackedKeyword
	for rows.Next() {
		var kw models.TrackedKeyword
		if err := rows.Scan(
			&kw.ID,
			&kw.Keyword,
			&kw.TargetURL,
			&kw.Cadence,
			&kw.IsActive,
			&kw.CreatedAt,
			&kw.UpdatedAt,
		); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	return keywords, rows.Err()
}

// CreateKeyword registers a new tracked keyword.
func (d *DB) CreateKeyword(ctx context.Context, kw *models.TrackedKeyword) error {
	query := `
		INSERT INTO tracked_keywords (keyword, target_url, cadence, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		kw.Keyword,
		kw.TargetURL,
		kw.Cadence,
		kw.IsActive,
	).Scan(&kw.ID, &kw.CreatedAt, &kw.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateKeyword
		}
		return err
	}

	return nil
}

// GetKeywordByID retrieves a tracked keyword by its ID.
func (d *DB) GetKeywordByID(ctx context.Context, id uuid.UUID) (*models.TrackedKeyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM tracked_keywords WHERE id = $1`
	return scanKeyword(d.Pool.QueryRow(ctx, query, id))
}

// ListKeywords returns all tracked keywords, newest first.
func (d *DB) ListKeywords(ctx context.Context) ([]models.TrackedKeyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM tracked_keywords ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

// ListActiveKeywords returns the active keywords for one cadence. The result
// reflects activation state at call time; the scheduler calls this on every
// trigger rather than caching batches.
func (d *DB) ListActiveKeywords(ctx context.Context, cadence string) ([]models.TrackedKeyword, error) {
	query := `
		SELECT ` + keywordColumns + `
		FROM tracked_keywords
		WHERE cadence = $1 AND is_active
		ORDER BY created_at
	`
	rows, err := d.Pool.Query(ctx, query, cadence)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

// SetKeywordActive flips a keyword's activation flag.
func (d *DB) SetKeywordActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE tracked_keywords SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

// DeleteKeyword removes a tracked keyword and, via cascade, its measurements.
func (d *DB) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM tracked_keywords WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}
