// Package sysutil holds process bootstrap helpers for cmd/server: log level
// selection, boolean environment switches and database DSN resolution.
package sysutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tbourn/mindwell-api/internal/config"
)

// SetLogLevel sets the global zerolog level from a LOG_LEVEL value and
// returns the level applied. "warning" is accepted for warn. Blank or
// unknown values fall back to info.
func SetLogLevel(v string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// EnvFlag reports whether the environment variable key is switched on. Any
// value strconv.ParseBool accepts works, as do "yes", "y" and "on".
func EnvFlag(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "yes", "y", "on":
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// DatabaseDSN returns the connection string for the configured driver. For
// postgres an empty DB_URL falls back to POSTGRES_DSN.
func DatabaseDSN(db config.DatabaseConfig) string {
	if db.Driver != "postgres" {
		return db.Path
	}
	if strings.TrimSpace(db.URL) != "" {
		return db.URL
	}
	return strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
}
