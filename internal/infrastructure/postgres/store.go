package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmehra2102/ListForge/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ListStore maps list and todo operations onto parameterized SQL.
// The *sql.DB is owned by the caller.
type ListStore struct {
	db     *sql.DB
	logger *zap.Logger
	tracer trace.Tracer
}

var _ domain.ListStore = (*ListStore)(nil)

// NewListStore returns a store over db after making sure both tables exist.
// An empty schema means DefaultSchema.
func NewListStore(ctx context.Context, db *sql.DB, logger *zap.Logger, schema string) (*ListStore, error) {
	if schema == "" {
		schema = DefaultSchema
	}

	s := &ListStore{
		db:     db,
		logger: logger,
		tracer: otel.Tracer("postgres-list-store"),
	}

	if err := s.setupSchema(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to set up schema: %w", err)
	}

	return s, nil
}

func (s *ListStore) query(ctx context.Context, statement string, params ...any) (*sql.Rows, error) {
	s.logSQL(statement, params)
	return s.db.QueryContext(ctx, statement, params...)
}

func (s *ListStore) queryRow(ctx context.Context, statement string, params ...any) *sql.Row {
	s.logSQL(statement, params)
	return s.db.QueryRowContext(ctx, statement, params...)
}

func (s *ListStore) exec(ctx context.Context, statement string, params ...any) error {
	s.logSQL(statement, params)
	_, err := s.db.ExecContext(ctx, statement, params...)
	return err
}

// logSQL records the statement and its parameters, keyed $1, $2, ...
func (s *ListStore) logSQL(statement string, params []any) {
	fields := make([]zap.Field, 0, len(params)+1)
	fields = append(fields, zap.String("statement", compactSQL(statement)))
	for i, p := range params {
		fields = append(fields, zap.Any(fmt.Sprintf("$%d", i+1), p))
	}
	s.logger.Info("SQL query", fields...)
}

func compactSQL(statement string) string {
	return strings.Join(strings.Fields(statement), " ")
}
