package postgres

import (
	"context"
	"fmt"

	"github.com/dmehra2102/ListForge/internal/domain"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

var (
	quotedTodos = pq.QuoteIdentifier(todosTable)

	todosFromListQuery = fmt.Sprintf(`
		SELECT id, name, completed FROM %s
		WHERE list_id = $1
	`, quotedTodos)

	createTodoQuery = fmt.Sprintf(`
		INSERT INTO %s (name, list_id)
		VALUES ($1, $2)
	`, quotedTodos)

	deleteTodoQuery = fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND list_id = $2
	`, quotedTodos)

	updateTodoStatusQuery = fmt.Sprintf(`
		UPDATE %s
		SET completed = $3
		WHERE id = $1 AND list_id = $2
	`, quotedTodos)

	completeAllTodosQuery = fmt.Sprintf(`
		UPDATE %s
		SET completed = true
		WHERE list_id = $1
	`, quotedTodos)
)

func (s *ListStore) TodosFromListID(ctx context.Context, listID int64) ([]domain.Todo, error) {
	ctx, span := s.tracer.Start(ctx, "store.TodosFromListID")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	rows, err := s.query(ctx, todosFromListQuery, listID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos, err := scanTodos(rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("returned_count", len(todos)))
	return todos, nil
}

func (s *ListStore) CreateNewTodo(ctx context.Context, listID int64, name string) error {
	ctx, span := s.tracer.Start(ctx, "store.CreateNewTodo")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	if err := s.exec(ctx, createTodoQuery, name, listID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (s *ListStore) DeleteTodoFromList(ctx context.Context, listID, todoID int64) error {
	ctx, span := s.tracer.Start(ctx, "store.DeleteTodoFromList")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("list.id", listID),
		attribute.Int64("todo.id", todoID),
	)

	if err := s.exec(ctx, deleteTodoQuery, todoID, listID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *ListStore) UpdateTodoStatus(ctx context.Context, listID, todoID int64, completed bool) error {
	ctx, span := s.tracer.Start(ctx, "store.UpdateTodoStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("list.id", listID),
		attribute.Int64("todo.id", todoID),
		attribute.Bool("todo.completed", completed),
	)

	if err := s.exec(ctx, updateTodoStatusQuery, todoID, listID, completed); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update todo status: %w", err)
	}
	return nil
}

func (s *ListStore) MarkAllTodosAsCompleted(ctx context.Context, listID int64) error {
	ctx, span := s.tracer.Start(ctx, "store.MarkAllTodosAsCompleted")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	if err := s.exec(ctx, completeAllTodosQuery, listID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to complete todos: %w", err)
	}
	return nil
}
