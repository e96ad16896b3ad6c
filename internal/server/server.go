// Package server exposes the todo store as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/store"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Store  store.Store
	Logger *log.Logger

	// CORSOrigin is the only origin browsers may call the API from.
	CORSOrigin string

	// Language selects the error message catalog ("ko" or "en").
	Language string

	// StrictNotFound reports missing records on update and delete as 404.
	StrictNotFound bool
}

// Server serves the todo API.
type Server struct {
	store          store.Store
	logger         *log.Logger
	corsOrigin     string
	messages       catalog
	strictNotFound bool
}

// NewServer creates a server backed by opts.Store.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	origin := opts.CORSOrigin
	if origin == "" {
		origin = model.DefaultCORSOrigin
	}
	language := opts.Language
	if language == "" {
		language = model.DefaultLanguage
	}
	messages, err := catalogFor(language)
	if err != nil {
		return nil, err
	}

	return &Server{
		store:          opts.Store,
		logger:         logger,
		corsOrigin:     origin,
		messages:       messages,
		strictNotFound: opts.StrictNotFound,
	}, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /todos", s.route(msgCreate, s.handleCreate))
	mux.HandleFunc("GET /todos", s.route(msgList, s.handleList))
	mux.HandleFunc("GET /todos/{id}", s.route(msgGet, s.handleGet))
	mux.HandleFunc("PUT /todos/{id}", s.route(msgUpdate, s.handleUpdate))
	mux.HandleFunc("PATCH /todos/{id}/title", s.route(msgUpdateTitle, s.handleUpdateTitle))
	mux.HandleFunc("PATCH /todos/{id}/description", s.route(msgUpdateDescription, s.handleUpdateDescription))
	mux.HandleFunc("PATCH /todos/{id}/completed", s.route(msgUpdateCompleted, s.handleUpdateCompleted))
	mux.HandleFunc("DELETE /todos/{id}", s.route(msgDelete, s.handleDelete))

	return s.recoverHandler(s.logRequests(s.cors(mux)))
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(ln)
	}()

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
