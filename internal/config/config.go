// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Store backends selectable with RATIO_STORE.
const (
	StoreBolt   = "bolt"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreNone   = "none"
)

// Config holds the server configuration.
type Config struct {
	// Port the HTTP server listens on
	Port string

	// PublicURL is the public-facing URL when running behind a reverse proxy
	PublicURL string

	// Store selects the local cache backend: bolt, sqlite, memory or none
	Store string

	// DBPath is the database file for the bolt and sqlite backends
	DBPath string

	// SecureCookies sets the Secure flag on the visitor cookie.
	// Should be true in production (HTTPS), false for local development (HTTP)
	SecureCookies bool

	// TracingEndpoint is the OTLP HTTP endpoint; empty disables tracing
	TracingEndpoint string

	// LogLevel and LogFormat configure zerolog
	LogLevel  zerolog.Level
	LogFormat string
}

// Getenv looks up an environment variable.
type Getenv func(string) string

// Load reads the configuration using getenv. A nil getenv uses os.Getenv.
func Load(getenv Getenv) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := &Config{
		Port:          getenv("PORT"),
		PublicURL:     getenv("SERVER_PUBLIC_URL"),
		Store:         strings.ToLower(getenv("RATIO_STORE")),
		DBPath:        getenv("RATIO_DB_PATH"),
		SecureCookies: getenv("SECURE_COOKIES") == "true",
		LogLevel:      parseLevel(getenv("LOG_LEVEL")),
		LogFormat:     getenv("LOG_FORMAT"),
	}

	if cfg.Port == "" {
		cfg.Port = "18920"
	}

	switch cfg.Store {
	case "":
		cfg.Store = StoreBolt
	case StoreBolt, StoreSQLite, StoreMemory, StoreNone:
	default:
		return nil, fmt.Errorf("unknown RATIO_STORE %q", cfg.Store)
	}

	if cfg.DBPath == "" && (cfg.Store == StoreBolt || cfg.Store == StoreSQLite) {
		dataDir := getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		name := "brewratio.db"
		if cfg.Store == StoreSQLite {
			name = "brewratio.sqlite"
		}
		cfg.DBPath = filepath.Join(dataDir, "brewratio", name)
	}

	// Tracing is opt-in: either an explicit endpoint or RATIO_TRACING=true
	// with the default collector address.
	cfg.TracingEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if cfg.TracingEndpoint == "" && getenv("RATIO_TRACING") == "true" {
		cfg.TracingEndpoint = "localhost:4318"
	}

	return cfg, nil
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
