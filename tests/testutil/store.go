// Package testutil provides stores for tests outside the store package.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(tb testing.TB) *store.SQLiteStore {
	tb.Helper()
	return openStore(tb, ":memory:")
}

// NewFileStore creates a SQLiteStore backed by a file in a temporary
// directory. Unlike the in-memory store it uses a full connection pool,
// so concurrent callers really run in parallel.
func NewFileStore(tb testing.TB) *store.SQLiteStore {
	tb.Helper()
	return openStore(tb, filepath.Join(tb.TempDir(), "todos.db"))
}

// SeedTodos creates one todo per title, in order, and returns them.
func SeedTodos(tb testing.TB, s store.Store, titles ...string) []model.Todo {
	tb.Helper()

	todos := make([]model.Todo, 0, len(titles))
	for _, title := range titles {
		created, err := s.CreateTodo(context.Background(), model.TodoCreate{Title: model.Some(title)})
		if err != nil {
			tb.Fatalf("seeding todo %q: %v", title, err)
		}
		todos = append(todos, *created)
	}
	return todos
}

func openStore(tb testing.TB, path string) *store.SQLiteStore {
	tb.Helper()

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		tb.Fatalf("creating test store: %v", err)
	}

	tb.Cleanup(func() {
		if err := s.Close(); err != nil {
			tb.Errorf("closing test store: %v", err)
		}
	})

	return s
}
