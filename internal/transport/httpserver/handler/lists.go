package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type nameRequest struct {
	Name string `json:"name"`
}

type todoStatusRequest struct {
	Completed *bool `json:"completed"`
}

type todoResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type listResponse struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Todos          []todoResponse `json:"todos"`
	TodosRemaining int            `json:"todos_remaining"`
	Complete       bool           `json:"complete"`
}

type listListResponse struct {
	Items []listResponse `json:"items"`
	Total int            `json:"total"`
}

type todoListResponse struct {
	Items []todoResponse `json:"items"`
	Total int            `json:"total"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error("health: database ping failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := listListResponse{Items: make([]listResponse, 0, len(lists)), Total: len(lists)}
	for i := range lists {
		resp.Items = append(resp.Items, mapList(&lists[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := h.lists.CreateList(r.Context(), req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) GetList(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	list, err := h.lists.GetList(r.Context(), listID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapList(list))
}

func (h *Handlers) RenameList(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := h.lists.RenameList(r.Context(), listID, req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.lists.DeleteList(r.Context(), listID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	todos, err := h.lists.ListTodos(r.Context(), listID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := todoListResponse{Items: make([]todoResponse, 0, len(todos)), Total: len(todos)}
	for _, t := range todos {
		resp.Items = append(resp.Items, todoResponse{ID: t.ID, Name: t.Name, Completed: t.Completed})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := h.lists.AddTodo(r.Context(), listID, req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	todoID, err := parseIDParam(r, "todo_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req todoStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Completed == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "completed is required")
		return
	}

	if err := h.lists.SetTodoStatus(r.Context(), listID, todoID, *req.Completed); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	todoID, err := parseIDParam(r, "todo_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.lists.RemoveTodo(r.Context(), listID, todoID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CompleteAll(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.lists.CompleteAll(r.Context(), listID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
