// Package logging builds the slog loggers used by the CLI and the server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/httplog/v2"
)

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("error parsing log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a logger writing to stderr in text or json format.
func New(level, format string) (*slog.Logger, error) {
	return newLogger(os.Stderr, level, format)
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// NewHTTP returns the request logger for the HTTP server.
func NewHTTP(level, format string) (*httplog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	json := strings.EqualFold(format, "json")
	return httplog.NewLogger("fuelstops", httplog.Options{
		JSON:            json,
		LogLevel:        l,
		Concise:         !json,
		RequestHeaders:  json,
		QuietDownRoutes: []string{"/health", "/metrics"},
		QuietDownPeriod: 10 * time.Second,
	}), nil
}
