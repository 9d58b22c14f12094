package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmehra2102/ListForge/internal/app"
	"github.com/dmehra2102/ListForge/internal/domain"
	"github.com/dmehra2102/ListForge/internal/transport/httpserver/handler"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	method string
	args   []any
}

type fakeService struct {
	lists []domain.List
	err   error
	calls []call
}

func (f *fakeService) record(method string, args ...any) error {
	f.calls = append(f.calls, call{method: method, args: args})
	return f.err
}

func (f *fakeService) ListAll(ctx context.Context) ([]domain.List, error) {
	return f.lists, f.record("ListAll")
}

func (f *fakeService) GetList(ctx context.Context, id int64) (*domain.List, error) {
	if err := f.record("GetList", id); err != nil {
		return nil, err
	}
	for i := range f.lists {
		if f.lists[i].ID == id {
			return &f.lists[i], nil
		}
	}
	return nil, domain.ErrListNotFound
}

func (f *fakeService) CreateList(ctx context.Context, name string) error {
	return f.record("CreateList", name)
}

func (f *fakeService) RenameList(ctx context.Context, id int64, name string) error {
	return f.record("RenameList", id, name)
}

func (f *fakeService) DeleteList(ctx context.Context, id int64) error {
	return f.record("DeleteList", id)
}

func (f *fakeService) ListTodos(ctx context.Context, listID int64) ([]domain.Todo, error) {
	if err := f.record("ListTodos", listID); err != nil {
		return nil, err
	}
	for _, l := range f.lists {
		if l.ID == listID {
			return l.Todos, nil
		}
	}
	return []domain.Todo{}, nil
}

func (f *fakeService) AddTodo(ctx context.Context, listID int64, name string) error {
	return f.record("AddTodo", listID, name)
}

func (f *fakeService) SetTodoStatus(ctx context.Context, listID, todoID int64, completed bool) error {
	return f.record("SetTodoStatus", listID, todoID, completed)
}

func (f *fakeService) RemoveTodo(ctx context.Context, listID, todoID int64) error {
	return f.record("RemoveTodo", listID, todoID)
}

func (f *fakeService) CompleteAll(ctx context.Context, listID int64) error {
	return f.record("CompleteAll", listID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func newTestRouter(svc *fakeService, opts Options) http.Handler {
	return NewRouter(opts, handler.New(svc, fakePinger{}, zap.NewNop()), zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		want       call
	}{
		{name: "create list", method: http.MethodPost, path: "/api/lists", body: `{"name":"Groceries"}`,
			wantStatus: http.StatusCreated, want: call{"CreateList", []any{"Groceries"}}},
		{name: "rename list", method: http.MethodPatch, path: "/api/lists/4", body: `{"name":"Chores"}`,
			wantStatus: http.StatusNoContent, want: call{"RenameList", []any{int64(4), "Chores"}}},
		{name: "delete list", method: http.MethodDelete, path: "/api/lists/4",
			wantStatus: http.StatusNoContent, want: call{"DeleteList", []any{int64(4)}}},
		{name: "add todo", method: http.MethodPost, path: "/api/lists/4/todos", body: `{"name":"Milk"}`,
			wantStatus: http.StatusCreated, want: call{"AddTodo", []any{int64(4), "Milk"}}},
		{name: "set status", method: http.MethodPatch, path: "/api/lists/4/todos/9", body: `{"completed":true}`,
			wantStatus: http.StatusNoContent, want: call{"SetTodoStatus", []any{int64(4), int64(9), true}}},
		{name: "remove todo", method: http.MethodDelete, path: "/api/lists/4/todos/9",
			wantStatus: http.StatusNoContent, want: call{"RemoveTodo", []any{int64(4), int64(9)}}},
		{name: "complete all", method: http.MethodPost, path: "/api/lists/4/complete_all",
			wantStatus: http.StatusNoContent, want: call{"CompleteAll", []any{int64(4)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newTestRouter(svc, Options{}), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.Len(t, svc.calls, 1)
			assert.Equal(t, tt.want, svc.calls[0])
		})
	}
}

func TestRoutes_ReadLists(t *testing.T) {
	svc := &fakeService{lists: []domain.List{
		{ID: 1, Name: "Groceries", Todos: []domain.Todo{}},
		{ID: 2, Name: "Chores", Todos: []domain.Todo{
			{ID: 5, Name: "Vacuum", Completed: true},
			{ID: 6, Name: "Dishes"},
		}},
	}}
	h := newTestRouter(svc, Options{})

	rec := do(t, h, http.MethodGet, "/api/lists", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all struct {
		Items []struct {
			Name           string            `json:"name"`
			Todos          []json.RawMessage `json:"todos"`
			TodosRemaining int               `json:"todos_remaining"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 2, all.Total)
	assert.NotNil(t, all.Items[0].Todos)
	assert.Empty(t, all.Items[0].Todos)
	assert.Equal(t, 1, all.Items[1].TodosRemaining)

	rec = do(t, h, http.MethodGet, "/api/lists/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": 2, "name": "Chores", "todos_remaining": 1, "complete": false,
		"todos": [
			{"id": 5, "name": "Vacuum", "completed": true},
			{"id": 6, "name": "Dishes", "completed": false}
		]
	}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/lists/2/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
}

func TestRoutes_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "missing list", method: http.MethodGet, path: "/api/lists/77",
			wantStatus: http.StatusNotFound, wantCode: "list_not_found"},
		{name: "bad id", method: http.MethodGet, path: "/api/lists/abc",
			wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "zero id", method: http.MethodDelete, path: "/api/lists/0",
			wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "unknown field", method: http.MethodPost, path: "/api/lists", body: `{"title":"x"}`,
			wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "status without completed", method: http.MethodPatch, path: "/api/lists/1/todos/2", body: `{}`,
			wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "validation", svcErr: domain.ErrEmptyName, method: http.MethodPost, path: "/api/lists", body: `{"name":""}`,
			wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "duplicate list name", svcErr: domain.ErrDuplicateListName, method: http.MethodPost, path: "/api/lists", body: `{"name":"Groceries"}`,
			wantStatus: http.StatusConflict, wantCode: "duplicate_list_name"},
		{name: "forbidden", svcErr: domain.ErrForbidden, method: http.MethodDelete, path: "/api/lists/1",
			wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "store failure", svcErr: errors.New("connection reset"), method: http.MethodGet, path: "/api/lists",
			wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.svcErr}
			rec := do(t, newTestRouter(svc, Options{}), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

func TestRoutes_Health(t *testing.T) {
	ok := NewRouter(Options{}, handler.New(&fakeService{}, fakePinger{}, zap.NewNop()), zap.NewNop())
	assert.Equal(t, http.StatusOK, do(t, ok, http.MethodGet, "/health", "").Code)

	down := NewRouter(Options{}, handler.New(&fakeService{}, fakePinger{err: errors.New("down")}, zap.NewNop()), zap.NewNop())
	assert.Equal(t, http.StatusServiceUnavailable, do(t, down, http.MethodGet, "/health", "").Code)
}

func TestRoutes_AuthEnabled(t *testing.T) {
	svc := &fakeService{}
	h := newTestRouter(svc, Options{JWTSecret: "secret"})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/lists", "").Code)
	assert.Empty(t, svc.calls)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.calls, 1)
}

// violatingStore fails list and todo inserts with a fixed driver error
type violatingStore struct {
	domain.ListStore
	err error
}

func (s violatingStore) CreateNewList(ctx context.Context, name string) error {
	return fmt.Errorf("failed to create list: %w", s.err)
}

func (s violatingStore) UpdateListName(ctx context.Context, id int64, name string) error {
	return fmt.Errorf("failed to rename list: %w", s.err)
}

func (s violatingStore) CreateNewTodo(ctx context.Context, listID int64, name string) error {
	return fmt.Errorf("failed to create todo: %w", s.err)
}

func TestRoutes_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name       string
		code       pq.ErrorCode
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "duplicate list on create", code: "23505", method: http.MethodPost, path: "/api/lists",
			body: `{"name":"Groceries"}`, wantStatus: http.StatusConflict, wantCode: "duplicate_list_name"},
		{name: "duplicate list on rename", code: "23505", method: http.MethodPatch, path: "/api/lists/2",
			body: `{"name":"Groceries"}`, wantStatus: http.StatusConflict, wantCode: "duplicate_list_name"},
		{name: "todo for missing list", code: "23503", method: http.MethodPost, path: "/api/lists/999/todos",
			body: `{"name":"Milk"}`, wantStatus: http.StatusNotFound, wantCode: "list_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := violatingStore{err: &pq.Error{Code: tt.code}}
			svc := app.NewListService(store, zap.NewNop(), nil)
			h := NewRouter(Options{}, handler.New(svc, fakePinger{}, zap.NewNop()), zap.NewNop())

			rec := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}
