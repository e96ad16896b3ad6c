package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-api/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.Options{
		Store:          s,
		Logger:         logger,
		CORSOrigin:     cfg.CORS.Origin,
		Language:       cfg.Language,
		StrictNotFound: cfg.StrictNotFound,
	})
	if err != nil {
		return errors.Join(err, s.Close())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server is running", "port", cfg.Port, "database", cfg.Database.Path)
	serveErr := srv.ListenAndServe(ctx, cfg.Addr())
	return errors.Join(serveErr, s.Close())
}

