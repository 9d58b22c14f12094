package postgres

import (
	"database/sql"
	"fmt"

	"github.com/dmehra2102/ListForge/internal/domain"
)

// pgTrue is how postgres spells a true boolean in text format.
const pgTrue = "t"

// parseCompletedFlag normalizes the store's single character truth flag.
func parseCompletedFlag(flag string) bool {
	return flag == pgTrue
}

// completedFlag scans todos.completed whether the driver hands over a
// decoded bool or the raw flag.
type completedFlag bool

func (f *completedFlag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = completedFlag(v)
	case []byte:
		*f = completedFlag(parseCompletedFlag(string(v)))
	case string:
		*f = completedFlag(parseCompletedFlag(v))
	default:
		return fmt.Errorf("unsupported completed flag type %T", src)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanList maps (id, name); todos are loaded separately
func scanList(row rowScanner) (domain.List, error) {
	var list domain.List
	if err := row.Scan(&list.ID, &list.Name); err != nil {
		return domain.List{}, err
	}
	return list, nil
}

// scanTodo maps (id, name, completed)
func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		todo      domain.Todo
		completed completedFlag
	)
	if err := row.Scan(&todo.ID, &todo.Name, &completed); err != nil {
		return domain.Todo{}, err
	}
	todo.Completed = bool(completed)
	return todo, nil
}

func scanTodos(rows *sql.Rows) ([]domain.Todo, error) {
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}
