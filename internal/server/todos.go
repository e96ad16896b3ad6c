package server

import (
	"errors"
	"net/http"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/store"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var in model.TodoCreate
	if err := decodeBody(w, r, &in); err != nil {
		return err
	}
	created, err := s.store.CreateTodo(r.Context(), in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created)
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) error {
	todos, err := s.store.ListTodos(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, todos)
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) error {
	todo, err := s.store.GetTodo(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		return &apiError{status: http.StatusNotFound, key: msgNotFound, err: err}
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, todo)
	return nil
}

// handleUpdate overwrites title, description and completed together.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) error {
	var patch model.TodoPatch
	if err := decodeBody(w, r, &patch); err != nil {
		return err
	}
	return s.applyPatch(w, r, patch)
}

func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Title model.Field[string] `json:"title"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return err
	}
	return s.applyPatch(w, r, model.TodoPatch{Title: body.Title})
}

func (s *Server) handleUpdateDescription(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Description model.Field[string] `json:"description"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return err
	}
	return s.applyPatch(w, r, model.TodoPatch{Description: body.Description})
}

func (s *Server) handleUpdateCompleted(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Completed model.Field[bool] `json:"completed"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return err
	}
	return s.applyPatch(w, r, model.TodoPatch{Completed: body.Completed})
}

func (s *Server) applyPatch(w http.ResponseWriter, r *http.Request, patch model.TodoPatch) error {
	todo, err := s.store.UpdateTodo(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, todo)
	return nil
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) error {
	if err := s.store.DeleteTodo(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
