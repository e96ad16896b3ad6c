package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Todo is a single todo record as stored and served over the API.
type Todo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Field is a JSON value that remembers whether its key was present in the
// request body and whether it was an explicit null. Absent fields are left
// untouched by writes; null fields are written as NULL.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only called when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Arg returns the value to bind as a SQL argument (nil for null).
func (f Field[T]) Arg() any {
	if f.Value == nil {
		return nil
	}
	return *f.Value
}

// TodoCreate is the input of the create operation.
type TodoCreate struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
}

// TodoPatch carries the fields written by the update operations.
// The full update sets all three; each partial update sets one.
type TodoPatch struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Completed   Field[bool]   `json:"completed"`
}

// Empty reports whether the patch writes nothing.
func (p TodoPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set
}
