package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Schema creates the result history tables
const Schema = `
	CREATE TABLE IF NOT EXISTS test_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		name VARCHAR(512) NOT NULL,
		browser VARCHAR(32) NOT NULL,
		status VARCHAR(16) NOT NULL,
		message TEXT,
		screenshot_path VARCHAR(1024),
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_test_results_run_id ON test_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_test_results_name ON test_results(name);
	`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create test_results table: %w", err)
	}

	if logger != nil {
		logger.Named("database").Info("Database migrations completed successfully")
	}
	return nil
}
