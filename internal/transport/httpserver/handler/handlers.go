package handler

import (
	"context"

	"github.com/dmehra2102/ListForge/internal/domain"
	"go.uber.org/zap"
)

// ListService is the use-case surface the handlers drive
type ListService interface {
	ListAll(ctx context.Context) ([]domain.List, error)
	GetList(ctx context.Context, id int64) (*domain.List, error)
	CreateList(ctx context.Context, name string) error
	RenameList(ctx context.Context, id int64, name string) error
	DeleteList(ctx context.Context, id int64) error
	ListTodos(ctx context.Context, listID int64) ([]domain.Todo, error)
	AddTodo(ctx context.Context, listID int64, name string) error
	SetTodoStatus(ctx context.Context, listID, todoID int64, completed bool) error
	RemoveTodo(ctx context.Context, listID, todoID int64) error
	CompleteAll(ctx context.Context, listID int64) error
}

// Pinger reports whether the database answers
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	lists ListService
	db    Pinger
	log   *zap.Logger
}

func New(lists ListService, db Pinger, log *zap.Logger) *Handlers {
	return &Handlers{
		lists: lists,
		db:    db,
		log:   log,
	}
}
