package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDLStatementsCoverEveryTable(t *testing.T) {
	stmts := DDLStatements()
	require.NotEmpty(t, stmts)

	created := map[string]bool{}
	for _, stmt := range stmts {
		assert.NotContains(t, stmt, "--", "comments must be stripped")
		if rest, ok := strings.CutPrefix(stmt, "CREATE TABLE IF NOT EXISTS "); ok {
			created[strings.Fields(rest)[0]] = true
		}
	}

	for _, tbl := range []string{
		"users", "user_roles", "tasks", "events", "goals", "projects",
		"notifications", "notification_reads", "moderation_reports",
	} {
		assert.True(t, created[tbl], "missing CREATE TABLE for %s", tbl)
	}
}
