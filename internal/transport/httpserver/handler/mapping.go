package handler

import "github.com/dmehra2102/ListForge/internal/domain"

func mapList(list *domain.List) listResponse {
	resp := listResponse{
		ID:             list.ID,
		Name:           list.Name,
		Todos:          make([]todoResponse, 0, len(list.Todos)),
		TodosRemaining: len(list.Todos) - list.CompletedCount(),
		Complete:       list.IsComplete(),
	}
	for _, t := range list.Todos {
		resp.Todos = append(resp.Todos, todoResponse{ID: t.ID, Name: t.Name, Completed: t.Completed})
	}
	return resp
}
