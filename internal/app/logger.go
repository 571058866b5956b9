package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger from Config. LOG_FORMAT selects json or
// text output; outside production the level drops to debug and records carry
// source locations for easier tracing.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	if cfg.IsProduction() {
		opts.Level = slog.LevelInfo
		opts.AddSource = false
	}

	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
