package logger

import (
	"io"
	"os"
	"time"

	"github.com/hacklingo-backend/internal/config"
	"github.com/rs/zerolog"
)

// New creates a zerolog logger from the log settings. Output is pretty
// console text when the format is "pretty" or the environment is
// development, JSON otherwise.
func New(cfg config.LogConfig, env string) zerolog.Logger {
	return newWithWriter(os.Stdout, cfg, env)
}

func newWithWriter(out io.Writer, cfg config.LogConfig, env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "pretty" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Caller().
			Str("service", "hacklingo").
			Logger()
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "hacklingo").
		Logger()
}
