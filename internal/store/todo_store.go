package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/todo-api/internal/model"
)

const todoColumns = "id, title, description, completed, created_at"

// todoRow mirrors a row of the todo table.
type todoRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Completed   int       `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r todoRow) toModel() model.Todo {
	return model.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed != 0,
		CreatedAt:   r.CreatedAt,
	}
}

// CreateTodo inserts a new todo with a generated ID, completed=false and the
// current time as created_at. The title is not checked here; a missing title
// is rejected by the NOT NULL constraint.
func (s *SQLiteStore) CreateTodo(
	ctx context.Context,
	in model.TodoCreate,
) (*model.Todo, error) {
	id := uuid.New().String()
	createdAt := s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todo (id, title, description, completed, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, in.Title.Arg(), in.Description.Arg(), boolToInt(false), createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	return &model.Todo{
		ID:          id,
		Title:       *in.Title.Value,
		Description: in.Description.Value,
		Completed:   false,
		CreatedAt:   createdAt,
	}, nil
}

// ListTodos returns every todo, newest first.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var rows []todoRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+todoColumns+" FROM todo ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(rows))
	for _, r := range rows {
		todos = append(todos, r.toModel())
	}
	return todos, nil
}

// GetTodo retrieves a single todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	todo, err := getTodo(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return todo, nil
}

// UpdateTodo writes the fields present in patch and returns the updated
// todo. Fields absent from the patch keep their stored values.
func (s *SQLiteStore) UpdateTodo(
	ctx context.Context,
	id string,
	patch model.TodoPatch,
) (*model.Todo, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if !patch.Empty() {
		query, args := buildTodoUpdate(id, patch)
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("updating todo %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return nil, fmt.Errorf("updating todo %s: %w", id, ErrNotFound)
		}
	}

	todo, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("updating todo %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing todo %s: %w", id, err)
	}
	return todo, nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todo WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting todo %s: %w", id, ErrNotFound)
	}
	return nil
}

// getTodo loads one row through db or tx, mapping sql.ErrNoRows to ErrNotFound.
func getTodo(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Todo, error) {
	var row todoRow
	err := sqlx.GetContext(ctx, q, &row,
		"SELECT "+todoColumns+" FROM todo WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	todo := row.toModel()
	return &todo, nil
}

// buildTodoUpdate constructs the UPDATE statement for the present fields.
func buildTodoUpdate(id string, patch model.TodoPatch) (string, []interface{}) {
	var sets []string
	var args []interface{}

	if patch.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, patch.Title.Arg())
	}
	if patch.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, patch.Description.Arg())
	}
	if patch.Completed.Set {
		var completed interface{}
		if patch.Completed.Value != nil {
			completed = boolToInt(*patch.Completed.Value)
		}
		sets = append(sets, "completed = ?")
		args = append(args, completed)
	}

	args = append(args, id)
	return "UPDATE todo SET " + strings.Join(sets, ", ") + " WHERE id = ?", args
}
