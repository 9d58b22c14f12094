package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmehra2102/ListForge/internal/domain"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

var (
	quotedLists = pq.QuoteIdentifier(listsTable)

	findListQuery = fmt.Sprintf(`
		SELECT id, name FROM %s
		WHERE id = $1
	`, quotedLists)

	allListsQuery = fmt.Sprintf(`
		SELECT id, name FROM %s
	`, quotedLists)

	createListQuery = fmt.Sprintf(`
		INSERT INTO %s (name)
		VALUES ($1)
	`, quotedLists)

	renameListQuery = fmt.Sprintf(`
		UPDATE %s
		SET name = $1 WHERE id = $2
	`, quotedLists)

	deleteListQuery = fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, quotedLists)
)

func (s *ListStore) FindList(ctx context.Context, id int64) (*domain.List, error) {
	ctx, span := s.tracer.Start(ctx, "store.FindList")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	list, err := scanList(s.queryRow(ctx, findListQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetAttributes(attribute.Bool("not_found", true))
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find list: %w", err)
	}

	if err := s.attachTodos(ctx, &list); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &list, nil
}

func (s *ListStore) AllLists(ctx context.Context) ([]domain.List, error) {
	ctx, span := s.tracer.Start(ctx, "store.AllLists")
	defer span.End()

	rows, err := s.query(ctx, allListsQuery)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}

	lists := make([]domain.List, 0)
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			rows.Close()
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating lists: %w", err)
	}
	rows.Close()

	// Todos are fetched after the list rows are released so the store is
	// never asked to serve two result sets at once.
	for i := range lists {
		if err := s.attachTodos(ctx, &lists[i]); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("returned_count", len(lists)))
	return lists, nil
}

func (s *ListStore) CreateNewList(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "store.CreateNewList")
	defer span.End()

	if err := s.exec(ctx, createListQuery, name); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

func (s *ListStore) UpdateListName(ctx context.Context, id int64, name string) error {
	ctx, span := s.tracer.Start(ctx, "store.UpdateListName")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	if err := s.exec(ctx, renameListQuery, name, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to rename list: %w", err)
	}
	return nil
}

func (s *ListStore) DeleteList(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "store.DeleteList")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	if err := s.exec(ctx, deleteListQuery, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

func (s *ListStore) attachTodos(ctx context.Context, list *domain.List) error {
	todos, err := s.TodosFromListID(ctx, list.ID)
	if err != nil {
		return err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	list.Todos = todos
	return nil
}
