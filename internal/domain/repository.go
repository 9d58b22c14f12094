package domain

import "context"

// ListStore defines the contract for list and todo persistence.
// Absent ids are not errors: lookups return nil and mutations are no-ops.
type ListStore interface {
	// FindList retrieves a list with its todos, or nil if no row matches
	FindList(ctx context.Context, id int64) (*List, error)

	// AllLists retrieves every list with its todos
	AllLists(ctx context.Context) ([]List, error)

	// CreateNewList inserts a list; the id is assigned by the store
	CreateNewList(ctx context.Context, name string) error

	// UpdateListName renames a list
	UpdateListName(ctx context.Context, id int64, name string) error

	// DeleteList removes a list
	DeleteList(ctx context.Context, id int64) error

	// TodosFromListID retrieves the todos of a list
	TodosFromListID(ctx context.Context, listID int64) ([]Todo, error)

	// CreateNewTodo inserts an uncompleted todo under a list
	CreateNewTodo(ctx context.Context, listID int64, name string) error

	// DeleteTodoFromList removes a todo matching both ids
	DeleteTodoFromList(ctx context.Context, listID, todoID int64) error

	// UpdateTodoStatus sets the completed flag of a todo matching both ids
	UpdateTodoStatus(ctx context.Context, listID, todoID int64, completed bool) error

	// MarkAllTodosAsCompleted completes every todo under a list
	MarkAllTodosAsCompleted(ctx context.Context, listID int64) error
}
