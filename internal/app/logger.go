package app

import (
	"io"
	"log/slog"
)

// newLogger builds the run's logger writing to w. level is any name slog
// understands ("debug", "info", "warn", "error"); anything else means info.
// format "json" selects the JSON handler, anything else plain text.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
