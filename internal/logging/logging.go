// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the logger the whole service shares: JSON records on stderr,
// optionally teed to a file, and installed as the slog default. The returned
// close func releases the log file when one was opened; callers must defer
// it.
func New(level, logFile string) (*slog.Logger, func(), error) {
	out := io.Writer(os.Stderr)
	closeFn := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: Level(level)}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// Level maps a config string to a slog level, defaulting to info for
// anything unrecognized.
func Level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
