package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// logEnv overrides the level derived from -v.
const logEnv = "BPFLINT_LOG"

// newLogger creates the logger handed to the linter. Warnings are always
// shown; each -v lowers the threshold one level.
func newLogger(w io.Writer, verbosity int) (*slog.Logger, error) {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	if v, ok := os.LookupEnv(logEnv); ok && v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("env var `%s` is not a valid log level: %w", logEnv, err)
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
