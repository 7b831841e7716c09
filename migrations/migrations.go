// Package migrations bootstraps the database schema at startup. The DDL
// is idempotent (IF NOT EXISTS throughout), so applying it on every boot
// is safe.
package migrations

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
)

//go:embed schema.sql
var schema string

// Apply executes the embedded schema statement by statement. pgx uses
// the extended protocol, which rejects multi-statement strings.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range Statements() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// Statements splits the schema into individual DDL statements.
func Statements() []string {
	var stmts []string
	for _, raw := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(raw); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
