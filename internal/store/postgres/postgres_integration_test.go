package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/storetest"
)

// TestPostgresStoreCompliance runs the shared suite against a real Postgres.
// It is skipped unless SLOTH_PLANNER_POSTGRES_DSN points at a disposable
// database; the embedded schema is applied and every subtest gets truncated
// tables.
func TestPostgresStoreCompliance(t *testing.T) {
	dsn := os.Getenv("SLOTH_PLANNER_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SLOTH_PLANNER_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, EnsureSchema(context.Background(), db))

	storetest.Run(t, func(t *testing.T) store.Store {
		truncateAll(t, db)
		return NewWithDB(db)
	})
}

func truncateAll(t *testing.T, db *sql.DB) {
	t.Helper()
	tables := []string{
		"notification_reads", "notifications", "moderation_reports",
		"tasks", "events", "goals", "projects", "user_roles", "users",
	}
	for _, tbl := range tables {
		_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", tbl))
		require.NoError(t, err)
	}
}
