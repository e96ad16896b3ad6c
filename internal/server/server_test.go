package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/store"
	"github.com/nhle/todo-api/tests/testutil"
)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()

	if opts.Store == nil {
		opts.Store = testutil.NewTestStore(t)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	server, err := NewServer(opts)
	require.NoError(t, err)
	return server.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	response := httptest.NewRecorder()
	h.ServeHTTP(response, request)
	return response
}

func decodeTodo(t *testing.T, response *httptest.ResponseRecorder) model.Todo {
	t.Helper()

	var todo model.Todo
	require.NoError(t, json.NewDecoder(response.Body).Decode(&todo))
	return todo
}

func decodeError(t *testing.T, response *httptest.ResponseRecorder) string {
	t.Helper()

	var payload errorResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&payload))
	return payload.Error
}

func createTodo(t *testing.T, h http.Handler, body string) model.Todo {
	t.Helper()

	response := do(t, h, http.MethodPost, "/todos", body)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	return decodeTodo(t, response)
}

func TestCreateThenGet(t *testing.T) {
	h := newTestServer(t, Options{})

	created := createTodo(t, h, `{"title":"A"}`)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "A", created.Title)
	assert.False(t, created.Completed)

	response := do(t, h, http.MethodGet, "/todos/"+created.ID, "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "application/json", response.Header().Get("Content-Type"))

	got := decodeTodo(t, response)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "A", got.Title)
	assert.False(t, got.Completed)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestTodoJSONShape(t *testing.T) {
	h := newTestServer(t, Options{})

	response := do(t, h, http.MethodPost, "/todos", `{"title":"A"}`)
	require.Equal(t, http.StatusCreated, response.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(response.Body).Decode(&payload))
	assert.ElementsMatch(t,
		[]string{"id", "title", "description", "completed", "createdAt"},
		keys(payload))
	assert.Equal(t, "null", string(payload["description"]))
	assert.Equal(t, "false", string(payload["completed"]))

	var createdAt string
	require.NoError(t, json.Unmarshal(payload["createdAt"], &createdAt))
	_, err := time.Parse(time.RFC3339Nano, createdAt)
	assert.NoError(t, err)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCreateWithoutTitleIsServerError(t *testing.T) {
	h := newTestServer(t, Options{})

	response := do(t, h, http.MethodPost, "/todos", `{"description":"no title"}`)
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "Todo 생성 중 에러가 발생하였습니다.", decodeError(t, response))
}

func TestCreateIgnoresNonJSONBody(t *testing.T) {
	h := newTestServer(t, Options{})

	request := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"A"}`))
	request.Header.Set("Content-Type", "text/plain")
	response := httptest.NewRecorder()
	h.ServeHTTP(response, request)

	assert.Equal(t, http.StatusInternalServerError, response.Code)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	h := newTestServer(t, Options{})

	for _, body := range []string{`{"title":`, `"A"`, `42`} {
		response := do(t, h, http.MethodPost, "/todos", body)
		assert.Equal(t, http.StatusBadRequest, response.Code, body)
		assert.Equal(t, "요청 본문이 올바른 JSON이 아닙니다.", decodeError(t, response))
	}
}

func TestListNewestFirst(t *testing.T) {
	h := newTestServer(t, Options{})

	r1 := createTodo(t, h, `{"title":"R1"}`)
	r2 := createTodo(t, h, `{"title":"R2"}`)
	r3 := createTodo(t, h, `{"title":"R3"}`)

	response := do(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, response.Code)

	var todos []model.Todo
	require.NoError(t, json.NewDecoder(response.Body).Decode(&todos))
	require.Len(t, todos, 3)
	assert.Equal(t, []string{r3.ID, r2.ID, r1.ID},
		[]string{todos[0].ID, todos[1].ID, todos[2].ID})
}

func TestListEmptyIsArray(t *testing.T) {
	h := newTestServer(t, Options{})

	response := do(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "[]", strings.TrimSpace(response.Body.String()))
}

func TestGetMissingIsNotFound(t *testing.T) {
	h := newTestServer(t, Options{})

	response := do(t, h, http.MethodGet, "/todos/missing", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "Todo를 찾을 수 없습니다.", decodeError(t, response))
}

func TestMutationsOnMissingAreServerErrors(t *testing.T) {
	h := newTestServer(t, Options{})

	cases := []struct {
		method, path, body, message string
	}{
		{http.MethodPut, "/todos/missing", `{"title":"B","description":"d","completed":true}`, "Todo 업데이트 중 에러가 발생하였습니다."},
		{http.MethodPatch, "/todos/missing/title", `{"title":"B"}`, "Todo 제목 업데이트 중 에러가 발생하였습니다."},
		{http.MethodPatch, "/todos/missing/description", `{"description":"d"}`, "Todo 설명 업데이트 중 에러가 발생하였습니다."},
		{http.MethodPatch, "/todos/missing/completed", `{"completed":true}`, "Todo 완료 상태 업데이트 중 에러가 발생하였습니다."},
		{http.MethodDelete, "/todos/missing", "", "Todo 삭제 중 에러가 발생하였습니다."},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			response := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, response.Code)
			assert.Equal(t, tc.message, decodeError(t, response))
		})
	}
}

func TestStrictNotFoundOnMutations(t *testing.T) {
	h := newTestServer(t, Options{StrictNotFound: true})

	response := do(t, h, http.MethodDelete, "/todos/missing", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "Todo를 찾을 수 없습니다.", decodeError(t, response))

	response = do(t, h, http.MethodPatch, "/todos/missing/title", `{"title":"B"}`)
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestFullUpdate(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A","description":"old"}`)

	response := do(t, h, http.MethodPut, "/todos/"+created.ID,
		`{"title":"B","description":"new","completed":true}`)
	require.Equal(t, http.StatusOK, response.Code)

	updated := decodeTodo(t, response)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "B", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "new", *updated.Description)
	assert.True(t, updated.Completed)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestPatchCompletedLeavesOtherFields(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A","description":"desc"}`)

	response := do(t, h, http.MethodPatch, "/todos/"+created.ID+"/completed", `{"completed":true}`)
	require.Equal(t, http.StatusOK, response.Code)

	updated := decodeTodo(t, response)
	assert.True(t, updated.Completed)
	assert.Equal(t, "A", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "desc", *updated.Description)
}

func TestPatchTitleAndDescription(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A","description":"desc"}`)

	response := do(t, h, http.MethodPatch, "/todos/"+created.ID+"/title", `{"title":"B"}`)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "B", decodeTodo(t, response).Title)

	response = do(t, h, http.MethodPatch, "/todos/"+created.ID+"/description", `{"description":null}`)
	require.Equal(t, http.StatusOK, response.Code)
	updated := decodeTodo(t, response)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "B", updated.Title)
}

func TestPatchOnlyWritesItsOwnField(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A"}`)

	response := do(t, h, http.MethodPatch, "/todos/"+created.ID+"/title", `{"title":"B","completed":true}`)
	require.Equal(t, http.StatusOK, response.Code)
	updated := decodeTodo(t, response)
	assert.Equal(t, "B", updated.Title)
	assert.False(t, updated.Completed)
}

func TestPatchWrongTypeIsServerError(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A"}`)

	response := do(t, h, http.MethodPatch, "/todos/"+created.ID+"/completed", `{"completed":"yes"}`)
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "Todo 완료 상태 업데이트 중 에러가 발생하였습니다.", decodeError(t, response))
}

func TestDeleteThenGet(t *testing.T) {
	h := newTestServer(t, Options{})
	created := createTodo(t, h, `{"title":"A"}`)

	response := do(t, h, http.MethodDelete, "/todos/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, response.Code)
	assert.Empty(t, response.Body.String())

	response = do(t, h, http.MethodGet, "/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = do(t, h, http.MethodDelete, "/todos/"+created.ID, "")
	assert.Equal(t, http.StatusInternalServerError, response.Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, Options{CORSOrigin: "http://example.test"})

	response := do(t, h, http.MethodGet, "/todos", "")
	assert.Equal(t, "http://example.test", response.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", response.Header().Get("Vary"))

	request := httptest.NewRequest(http.MethodOptions, "/todos/abc/title", nil)
	request.Header.Set("Origin", "http://example.test")
	request.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	preflight := httptest.NewRecorder()
	h.ServeHTTP(preflight, request)

	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Equal(t, "GET,POST,PUT,PATCH,DELETE", preflight.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", preflight.Header().Get("Access-Control-Allow-Headers"))
}

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (s failingStore) CreateTodo(context.Context, model.TodoCreate) (*model.Todo, error) {
	return nil, s.err
}

func (s failingStore) ListTodos(context.Context) ([]model.Todo, error) {
	return nil, s.err
}

func (s failingStore) GetTodo(context.Context, string) (*model.Todo, error) {
	return nil, s.err
}

func (s failingStore) UpdateTodo(context.Context, string, model.TodoPatch) (*model.Todo, error) {
	return nil, s.err
}

func (s failingStore) DeleteTodo(context.Context, string) error {
	return s.err
}

func (s failingStore) Close() error {
	return nil
}

func TestStorageFailuresUseOperationMessage(t *testing.T) {
	h := newTestServer(t, Options{
		Store:    failingStore{err: errors.New("database is locked")},
		Language: "en",
	})

	cases := []struct {
		method, path, message string
	}{
		{http.MethodGet, "/todos", "An error occurred while fetching todos."},
		{http.MethodGet, "/todos/abc", "An error occurred while fetching the todo."},
		{http.MethodPost, "/todos", "An error occurred while creating the todo."},
		{http.MethodDelete, "/todos/abc", "An error occurred while deleting the todo."},
	}
	for _, tc := range cases {
		response := do(t, h, tc.method, tc.path, "")
		assert.Equal(t, http.StatusInternalServerError, response.Code, tc.path)
		message := decodeError(t, response)
		assert.Equal(t, tc.message, message)
		assert.NotContains(t, message, "locked")
	}
}

type panicStore struct {
	failingStore
}

func (panicStore) ListTodos(context.Context) ([]model.Todo, error) {
	panic("boom")
}

func TestPanicIsRecovered(t *testing.T) {
	h := newTestServer(t, Options{Store: panicStore{}})

	response := do(t, h, http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "서버 내부 에러가 발생하였습니다.", decodeError(t, response))
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)

	_, err = NewServer(Options{Store: failingStore{}, Language: "fr"})
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	server, err := NewServer(Options{
		Store:  testutil.NewTestStore(t),
		Logger: log.New(io.Discard),
	})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, ln)
	}()

	response, err := http.Get(fmt.Sprintf("http://%s/todos", ln.Addr()))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestOversizedBodyIsRejected(t *testing.T) {
	h := newTestServer(t, Options{})

	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	response := do(t, h, http.MethodPost, "/todos", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, response.Code)
	assert.Equal(t, "요청 본문이 올바른 JSON이 아닙니다.", decodeError(t, response))

	list := do(t, h, http.MethodGet, "/todos", "")
	assert.Equal(t, "[]", strings.TrimSpace(list.Body.String()))
}

func TestUnwrapWriterReachesServerWriter(t *testing.T) {
	recorder := httptest.NewRecorder()
	wrapped := &responseTracker{ResponseWriter: &responseTracker{ResponseWriter: recorder}}
	assert.Same(t, recorder, unwrapWriter(wrapped))
}

func TestConcurrentRequestsFileStore(t *testing.T) {
	s := testutil.NewFileStore(t)
	seeded := testutil.SeedTodos(t, s, "seed")[0]
	h := newTestServer(t, Options{Store: s})

	const workers = 48
	codes := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var response *httptest.ResponseRecorder
			switch i % 3 {
			case 0:
				response = do(t, h, http.MethodPost, "/todos", fmt.Sprintf(`{"title":"todo %d"}`, i))
			case 1:
				response = do(t, h, http.MethodPatch, "/todos/"+seeded.ID+"/completed", `{"completed":true}`)
			default:
				response = do(t, h, http.MethodPut, "/todos/"+seeded.ID, fmt.Sprintf(`{"title":"seed %d"}`, i))
			}
			codes <- response.Code
		}(i)
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Contains(t, []int{http.StatusCreated, http.StatusOK}, code)
	}

	response := do(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, response.Code)
	var todos []model.Todo
	require.NoError(t, json.NewDecoder(response.Body).Decode(&todos))
	assert.Len(t, todos, 1+workers/3)
}

var _ store.Store = failingStore{}
