package server

import (
	"errors"
	"net/http"

	"github.com/nhle/todo-api/internal/store"
)

// apiError is an error with an explicit response status and message.
// Errors returned by handlers that are not apiErrors become 500s.
type apiError struct {
	status int
	key    messageKey
	err    error
}

func (e *apiError) Error() string {
	if e.err == nil {
		return string(e.key)
	}
	return e.err.Error()
}

func (e *apiError) Unwrap() error {
	return e.err
}

// handlerFunc is an HTTP handler whose failures are translated at the boundary.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// route wraps fn with the error translator. key is the message reported
// when fn fails for any reason not carried by an apiError.
func (s *Server) route(key messageKey, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status, msg := http.StatusInternalServerError, key
		var ae *apiError
		switch {
		case errors.As(err, &ae):
			status, msg = ae.status, ae.key
		case s.strictNotFound && errors.Is(err, store.ErrNotFound):
			status, msg = http.StatusNotFound, msgNotFound
		}
		s.writeError(w, r, status, msg, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, key messageKey, err error) {
	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"err", err,
	)
	writeJSON(w, status, errorResponse{Error: s.messages[key]})
}

type errorResponse struct {
	Error string `json:"error"`
}
