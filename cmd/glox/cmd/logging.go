package cmd

import (
	"log/slog"
	"os"
)

// traceLogger returns a structured logger for --trace diagnostics. It logs
// to stderr at debug level when --trace is set, and is disabled (discarding
// everything below error) otherwise, so normal runs pay no logging cost.
func traceLogger() *slog.Logger {
	level := slog.LevelError
	if trace {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
