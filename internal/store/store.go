package store

import (
	"context"
	"errors"

	"github.com/nhle/todo-api/internal/model"
)

// ErrNotFound is returned when no todo has the requested ID.
var ErrNotFound = errors.New("todo not found")

// Store defines the persistence interface for todos.
type Store interface {
	CreateTodo(ctx context.Context, in model.TodoCreate) (*model.Todo, error)
	ListTodos(ctx context.Context) ([]model.Todo, error)
	GetTodo(ctx context.Context, id string) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch model.TodoPatch) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	Close() error
}
