package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a human readable console
// writer, every other environment gets JSON lines on stdout.
func New(environment string) zerolog.Logger {
	return NewWithLevel(environment, "")
}

func NewWithLevel(environment, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if isDevelopment(environment) {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(parseLevel(level, environment)).
		With().
		Timestamp().
		Str("service", "backoffice").
		Logger()
}

func parseLevel(raw, environment string) zerolog.Level {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if isDevelopment(environment) {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func isDevelopment(environment string) bool {
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "", "dev", "development", "local":
		return true
	default:
		return false
	}
}
