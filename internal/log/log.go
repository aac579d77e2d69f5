// Package log builds the process logger. Everything else logs through
// *slog.Logger.
package log

import (
	"io"
	"log/slog"
	"strings"
)

const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentAuth     = "auth"
	ComponentRoster   = "roster"
	ComponentEvents   = "events"
	ComponentDatabase = "database"
)

type Config struct {
	Level  string
	Format string
}

// New returns a logger writing to w. Format "json" selects the JSON handler;
// anything else is text.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns a child logger tagged with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(FieldComponent, name)
}
