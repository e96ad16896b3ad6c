// Package main implements the todo-api server and its operator commands.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/store"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "todo-api",
	Short:        "JSON HTTP API for todo records",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd, listCmd)
}

// loadConfig reads the config file named by --config plus environment overrides.
func loadConfig() (*model.AppConfig, error) {
	return model.LoadConfig(configPath)
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *model.AppConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "todo-api",
		ReportTimestamp: true,
	}), nil
}

// openStore opens the database named in cfg.
func openStore(cfg *model.AppConfig) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.Database.Path, err)
	}
	return s, nil
}
