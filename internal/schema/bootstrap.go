package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"todolist/pkg/logger"
)

const CreateItemsTable = `
CREATE TABLE IF NOT EXISTS items (
  id         SERIAL PRIMARY KEY,
  title      VARCHAR(200) NOT NULL,
  created_at TIMESTAMP DEFAULT NOW()
)`

// DefaultSeeds are inserted into an empty items table.
var DefaultSeeds = []string{"Buy milk", "Finish homework"}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Bootstrap creates the items table if it is missing and seeds it when empty.
// Safe to run on every start: the seed insert is guarded by NOT EXISTS.
func Bootstrap(ctx context.Context, db Execer, seeds []string) error {
	if _, err := db.ExecContext(ctx, CreateItemsTable); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	if len(seeds) == 0 {
		return nil
	}

	query, args := SeedQuery(seeds)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("seed items table: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logger.Sugar.Infof("Seeded items table with %d default rows", n)
	}
	return nil
}

// SeedQuery builds a single insert that only fires when the table has no rows.
func SeedQuery(seeds []string) (string, []any) {
	values := make([]string, len(seeds))
	args := make([]any, len(seeds))
	for i, s := range seeds {
		values[i] = fmt.Sprintf("($%d::varchar)", i+1)
		args[i] = s
	}
	query := "INSERT INTO items (title) SELECT v.title FROM (VALUES " +
		strings.Join(values, ", ") +
		") AS v(title) WHERE NOT EXISTS (SELECT 1 FROM items)"
	return query, args
}
