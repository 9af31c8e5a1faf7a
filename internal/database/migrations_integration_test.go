//go:build integration
// +build integration

package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/repository/testutil"
)

func TestRunMigrations_Integration(t *testing.T) {
	// GIVEN a schema that is already migrated
	testDB := testutil.SetupTestDatabase(t)
	core, logs := observer.New(zap.InfoLevel)

	// WHEN the migrations run again on the injected logger
	err := database.RunMigrations(testDB.DB, zap.New(core))

	// THEN they are idempotent and log through that logger
	require.NoError(t, err)
	entries := logs.FilterMessage("Database migrations completed successfully").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "database", entries[0].LoggerName)

	var tables int
	require.NoError(t, testDB.DB.QueryRow(
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = 'test_results'",
		testDB.SchemaName).Scan(&tables))
	assert.Equal(t, 1, tables)
}
