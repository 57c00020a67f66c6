package application

import (
	"io"
	"log/slog"
)

// ResolveLogger returns the provided logger or a discard logger so call sites
// never need a nil check.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
