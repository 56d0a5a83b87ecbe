package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's own logger writing to outW. The global default
// logger is left alone. Any format other than "json" gets the text handler.
func newLogger(level slog.Level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
