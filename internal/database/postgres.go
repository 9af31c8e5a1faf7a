// Package database connects to the optional PostgreSQL result history.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(pgConfig *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Open connects and migrates in one step
func Open(pgConfig *config.PostgresConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := Connect(pgConfig)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
