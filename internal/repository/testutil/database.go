package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/database"
)

// TestDatabase is a result history database isolated in its own schema
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	admin      *sql.DB
}

// SetupTestDatabase creates a migrated schema for one test and drops it on cleanup
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	cfg, err := config.LoadPostgresConfig(envWithDefaults(map[string]string{
		"POSTGRES_USER":     "postgres",
		"POSTGRES_PASSWORD": "postgres",
		"POSTGRES_DB":       "postgres",
		"POSTGRES_HOSTNAME": "localhost",
	}))
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	admin, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	td := &TestDatabase{
		SchemaName: "results_" + uuid.NewString()[:8],
		admin:      admin,
	}
	t.Cleanup(func() { td.Teardown(t) })

	if _, err := admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", td.SchemaName)); err != nil {
		t.Fatalf("Failed to create schema %s: %v", td.SchemaName, err)
	}

	td.DB, err = database.Open(cfg.WithSearchPath(td.SchemaName), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open schema %s: %v", td.SchemaName, err)
	}
	return td
}

// Teardown closes the schema connection and drops the schema. Calling it twice is harmless.
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
		td.DB = nil
	}
	if td.admin == nil {
		return
	}
	if _, err := td.admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName)); err != nil {
		t.Logf("Warning: Failed to drop schema %s: %v", td.SchemaName, err)
	}
	td.admin.Close()
	td.admin = nil
}

// envWithDefaults reads the environment, falling back to defaults for unset keys
func envWithDefaults(defaults map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return defaults[key]
	}
}
