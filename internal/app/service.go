package app

import (
	"context"
	"errors"

	"github.com/dmehra2102/ListForge/internal/domain"
	"github.com/dmehra2102/ListForge/pkg/auth"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ListService validates and authorizes list use cases before handing them to
// the store. A nil authorizer turns authorization off.
type ListService struct {
	store  domain.ListStore
	logger *zap.Logger
	tracer trace.Tracer
	authz  *auth.Authorizer
}

func NewListService(store domain.ListStore, logger *zap.Logger, authz *auth.Authorizer) *ListService {
	return &ListService{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("list-service"),
		authz:  authz,
	}
}

func (s *ListService) ListAll(ctx context.Context) ([]domain.List, error) {
	ctx, span := s.tracer.Start(ctx, "ListAll")
	defer span.End()

	if err := s.authorize(ctx, false); err != nil {
		return nil, err
	}

	lists, err := s.store.AllLists(ctx)
	if err != nil {
		s.logger.Error("failed to list lists", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("list.count", len(lists)))
	return lists, nil
}

// GetList returns domain.ErrListNotFound when the store has no such list
func (s *ListService) GetList(ctx context.Context, id int64) (*domain.List, error) {
	ctx, span := s.tracer.Start(ctx, "GetList")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, false); err != nil {
		return nil, err
	}

	list, err := s.store.FindList(ctx, id)
	if err != nil {
		s.logger.Error("failed to get list", zap.Error(err), zap.Int64("list_id", id))
		return nil, err
	}
	if list == nil {
		return nil, domain.ErrListNotFound
	}

	return list, nil
}

func (s *ListService) CreateList(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "CreateList")
	defer span.End()

	name, err := domain.ValidateListName(name)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.CreateNewList(ctx, name); err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			s.logger.Info("list not created", zap.Error(err), zap.String("name", name))
			return mapped
		}
		s.logger.Error("failed to create list", zap.Error(err), zap.String("name", name))
		return err
	}

	s.logger.Info("list created", zap.String("name", name))
	return nil
}

func (s *ListService) RenameList(ctx context.Context, id int64, name string) error {
	ctx, span := s.tracer.Start(ctx, "RenameList")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	if err := domain.ValidateID(id); err != nil {
		return err
	}
	name, err := domain.ValidateListName(name)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.UpdateListName(ctx, id, name); err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			s.logger.Info("list not renamed", zap.Error(err), zap.Int64("list_id", id))
			return mapped
		}
		s.logger.Error("failed to rename list", zap.Error(err), zap.Int64("list_id", id))
		return err
	}

	s.logger.Info("list renamed", zap.Int64("list_id", id), zap.String("name", name))
	return nil
}

func (s *ListService) DeleteList(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "DeleteList")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", id))

	if err := domain.ValidateID(id); err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.DeleteList(ctx, id); err != nil {
		s.logger.Error("failed to delete list", zap.Error(err), zap.Int64("list_id", id))
		return err
	}

	s.logger.Info("list deleted", zap.Int64("list_id", id))
	return nil
}

func (s *ListService) ListTodos(ctx context.Context, listID int64) ([]domain.Todo, error) {
	ctx, span := s.tracer.Start(ctx, "ListTodos")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	if err := domain.ValidateID(listID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, false); err != nil {
		return nil, err
	}

	todos, err := s.store.TodosFromListID(ctx, listID)
	if err != nil {
		s.logger.Error("failed to list todos", zap.Error(err), zap.Int64("list_id", listID))
		return nil, err
	}
	return todos, nil
}

func (s *ListService) AddTodo(ctx context.Context, listID int64, name string) error {
	ctx, span := s.tracer.Start(ctx, "AddTodo")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	if err := domain.ValidateID(listID); err != nil {
		return err
	}
	name, err := domain.ValidateTodoName(name)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.CreateNewTodo(ctx, listID, name); err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			s.logger.Info("todo not created", zap.Error(err), zap.Int64("list_id", listID))
			return mapped
		}
		s.logger.Error("failed to create todo", zap.Error(err), zap.Int64("list_id", listID))
		return err
	}

	s.logger.Info("todo created", zap.Int64("list_id", listID), zap.String("name", name))
	return nil
}

func (s *ListService) SetTodoStatus(ctx context.Context, listID, todoID int64, completed bool) error {
	ctx, span := s.tracer.Start(ctx, "SetTodoStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("list.id", listID),
		attribute.Int64("todo.id", todoID),
	)

	if err := validateIDs(listID, todoID); err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.UpdateTodoStatus(ctx, listID, todoID, completed); err != nil {
		s.logger.Error("failed to update todo status",
			zap.Error(err),
			zap.Int64("list_id", listID),
			zap.Int64("todo_id", todoID),
		)
		return err
	}

	s.logger.Info("todo status updated",
		zap.Int64("list_id", listID),
		zap.Int64("todo_id", todoID),
		zap.Bool("completed", completed),
	)
	return nil
}

func (s *ListService) RemoveTodo(ctx context.Context, listID, todoID int64) error {
	ctx, span := s.tracer.Start(ctx, "RemoveTodo")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("list.id", listID),
		attribute.Int64("todo.id", todoID),
	)

	if err := validateIDs(listID, todoID); err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.DeleteTodoFromList(ctx, listID, todoID); err != nil {
		s.logger.Error("failed to delete todo",
			zap.Error(err),
			zap.Int64("list_id", listID),
			zap.Int64("todo_id", todoID),
		)
		return err
	}

	s.logger.Info("todo deleted", zap.Int64("list_id", listID), zap.Int64("todo_id", todoID))
	return nil
}

func (s *ListService) CompleteAll(ctx context.Context, listID int64) error {
	ctx, span := s.tracer.Start(ctx, "CompleteAll")
	defer span.End()

	span.SetAttributes(attribute.Int64("list.id", listID))

	if err := domain.ValidateID(listID); err != nil {
		return err
	}
	if err := s.authorize(ctx, true); err != nil {
		return err
	}

	if err := s.store.MarkAllTodosAsCompleted(ctx, listID); err != nil {
		s.logger.Error("failed to complete todos", zap.Error(err), zap.Int64("list_id", listID))
		return err
	}

	s.logger.Info("all todos completed", zap.Int64("list_id", listID))
	return nil
}

func (s *ListService) authorize(ctx context.Context, write bool) error {
	if s.authz == nil {
		return nil
	}

	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return domain.ErrUnauthorized
	}

	allowed := s.authz.CanRead(p)
	if write {
		allowed = s.authz.CanWrite(p)
	}
	if !allowed {
		s.logger.Warn("permission denied", zap.String("subject", p.Subject), zap.Bool("write", write))
		return domain.ErrForbidden
	}
	return nil
}

// Postgres SQLSTATE codes for constraint violations caused by the caller
const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
)

// mapConstraintError turns constraint violations into domain errors and
// returns nil for anything else.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return domain.ErrDuplicateListName
	case pqForeignKeyViolation:
		return domain.ErrListNotFound
	}
	return nil
}

func validateIDs(ids ...int64) error {
	for _, id := range ids {
		if err := domain.ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}
