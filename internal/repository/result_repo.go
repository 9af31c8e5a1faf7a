package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/themizzi/shopcheck/internal/models"
)

// ResultRepository handles database operations for test results
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new result repository on db
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{
		db: db,
	}
}

// CreateResult inserts a result
func (r *ResultRepository) CreateResult(ctx context.Context, result *models.Result) error {
	query := `
		INSERT INTO test_results (id, run_id, name, browser, status, message, screenshot_path, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.RunID,
		result.Name,
		result.Browser,
		result.Status,
		result.Message,
		result.ScreenshotPath,
		result.StartedAt,
		nullTime(result),
	)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}

	return nil
}

// UpdateResult stores the status, message, screenshot and finish time of a result
func (r *ResultRepository) UpdateResult(ctx context.Context, result *models.Result) error {
	query := `
		UPDATE test_results
		SET status = $1, message = $2, screenshot_path = $3, finished_at = $4
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query,
		result.Status,
		result.Message,
		result.ScreenshotPath,
		nullTime(result),
		result.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrResultNotFound
	}

	return nil
}

// GetResult retrieves a result by id
func (r *ResultRepository) GetResult(ctx context.Context, id string) (*models.Result, error) {
	query := `
		SELECT id, run_id, name, browser, status, COALESCE(message, ''),
		       COALESCE(screenshot_path, ''), started_at, finished_at
		FROM test_results
		WHERE id = $1
	`

	result, err := scanResult(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return result, nil
}

// ListRun returns the results of one run in start order
func (r *ResultRepository) ListRun(ctx context.Context, runID string) ([]*models.Result, error) {
	query := `
		SELECT id, run_id, name, browser, status, COALESCE(message, ''),
		       COALESCE(screenshot_path, ''), started_at, finished_at
		FROM test_results
		WHERE run_id = $1
		ORDER BY started_at, name
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*models.Result, error) {
	result := &models.Result{}
	var finished sql.NullTime
	err := row.Scan(
		&result.ID,
		&result.RunID,
		&result.Name,
		&result.Browser,
		&result.Status,
		&result.Message,
		&result.ScreenshotPath,
		&result.StartedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		result.FinishedAt = finished.Time
	}
	return result, nil
}

func nullTime(result *models.Result) sql.NullTime {
	return sql.NullTime{Time: result.FinishedAt, Valid: !result.FinishedAt.IsZero()}
}
