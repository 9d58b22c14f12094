package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

const (
	listsTable = "lists"
	todosTable = "todos"
)

// DefaultSchema creates both tables. Used when no schema script is supplied.
//
//go:embed schema.sql
var DefaultSchema string

const tableExistsQuery = `
	SELECT COUNT(*) FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name = $1
`

// tableExists reports whether the public schema holds a table with the given name
func (s *ListStore) tableExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.queryRow(ctx, tableExistsQuery, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count == 1, nil
}

// setupSchema runs the schema script unless both tables already exist.
// Not atomic: two processes bootstrapping at once may both run the script.
func (s *ListStore) setupSchema(ctx context.Context, script string) error {
	ctx, span := s.tracer.Start(ctx, "store.setupSchema")
	defer span.End()

	listsExist, err := s.tableExists(ctx, listsTable)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if listsExist {
		todosExist, err := s.tableExists(ctx, todosTable)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if todosExist {
			return nil
		}
	}

	s.logger.Info("creating tables", zap.Strings("tables", []string{listsTable, todosTable}))

	// A script without parameters goes through the simple query protocol,
	// which accepts several statements at once.
	s.logSQL(script, nil)
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}
