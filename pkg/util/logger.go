package util

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide logger. Development gets a human
// readable text handler at debug level, everything else structured JSON
// tagged with the service name.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", "greenloop")
}
