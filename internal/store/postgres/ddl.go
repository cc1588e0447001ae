package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// DDLStatements returns the CREATE TABLE / INDEX statements from schema.sql,
// split on semicolons with comments and blank fragments dropped.
func DDLStatements() []string {
	var out []string
	for _, part := range strings.Split(ddlFile, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// EnsureSchema applies the embedded schema. Statements are idempotent, so
// running it against a database that already has the tables is a no-op.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range DDLStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
