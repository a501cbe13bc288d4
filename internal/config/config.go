// Package config reads server settings from the environment.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds every runtime setting of the server.
type Config struct {
	Addr          string
	Env           string
	StaticDir     string
	TeachersFile  string
	Store         string
	DBPath        string
	LogLevel      string
	LogFormat     string
	SlowRequestMs int
	SlowQueryMs   int
	CSRFKey       []byte // nil disables CSRF protection
	ResendAPIKey  string
	EmailFrom     string
}

// IsProduction reports whether cookies should be marked Secure.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load builds a Config from getenv, usually os.Getenv.
// PRE: getenv is non-nil
// POST: Returns a fully defaulted config, or an error naming the first invalid variable
func Load(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Addr:         env("MERGINGTON_ADDR", ":8080"),
		Env:          env("MERGINGTON_ENV", "development"),
		StaticDir:    env("MERGINGTON_STATIC_DIR", "static"),
		TeachersFile: env("MERGINGTON_TEACHERS_FILE", "data/teachers.json"),
		Store:        strings.ToLower(env("MERGINGTON_STORE", StoreMemory)),
		DBPath:       env("MERGINGTON_DB", "mergington.db"),
		LogLevel:     env("MERGINGTON_LOG_LEVEL", "info"),
		LogFormat:    env("MERGINGTON_LOG_FORMAT", "text"),
		ResendAPIKey: env("MERGINGTON_RESEND_KEY", ""),
		EmailFrom:    env("MERGINGTON_EMAIL_FROM", "Mergington High School <noreply@mergington.edu>"),
	}

	var err error
	if cfg.SlowRequestMs, err = positiveInt("MERGINGTON_SLOW_REQUEST_MS", env("MERGINGTON_SLOW_REQUEST_MS", "200")); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = positiveInt("MERGINGTON_SLOW_QUERY_MS", env("MERGINGTON_SLOW_QUERY_MS", "50")); err != nil {
		return Config{}, err
	}

	if cfg.Store != StoreMemory && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("MERGINGTON_STORE: unknown store %q (valid: %s, %s)", cfg.Store, StoreMemory, StoreSQLite)
	}

	if raw := env("MERGINGTON_CSRF_KEY", ""); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("MERGINGTON_CSRF_KEY: want 64 hex characters")
		}
		cfg.CSRFKey = key
	}

	return cfg, nil
}

func positiveInt(key, raw string) (int, error) {
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}
