package model

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// DatabaseConfig holds settings for the SQLite store.
type DatabaseConfig struct {
	// Path is the SQLite database file, or ":memory:".
	Path string `mapstructure:"path" yaml:"path"`
}

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	// Origin is the single origin allowed to call the API from a browser.
	Origin string `mapstructure:"origin" yaml:"origin"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Port     int            `mapstructure:"port" yaml:"port"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	CORS     CORSConfig     `mapstructure:"cors" yaml:"cors"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	// Language selects the display language of error messages ("ko", "en").
	Language string `mapstructure:"language" yaml:"language"`

	// StrictNotFound reports a missing record on update and delete as 404
	// instead of the generic 500.
	StrictNotFound bool `mapstructure:"strict_not_found" yaml:"strict_not_found"`
}

const (
	DefaultPort       = 3333
	DefaultDBPath     = "todos.db"
	DefaultCORSOrigin = "http://localhost:3000"
	DefaultLanguage   = "ko"
	DefaultLogLevel   = "info"
)

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Port:     DefaultPort,
		Database: DatabaseConfig{Path: DefaultDBPath},
		CORS:     CORSConfig{Origin: DefaultCORSOrigin},
		Log:      LogConfig{Level: DefaultLogLevel},
		Language: DefaultLanguage,
	}
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":             "PORT",
	"database.path":    "DATABASE_PATH",
	"cors.origin":      "CORS_ORIGIN",
	"language":         "TODO_LANGUAGE",
	"log.level":        "LOG_LEVEL",
	"strict_not_found": "STRICT_NOT_FOUND",
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies environment overrides. An empty path or a missing file
// yields the defaults plus environment.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("port", DefaultPort)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("cors.origin", DefaultCORSOrigin)
	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("strict_not_found", false)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
