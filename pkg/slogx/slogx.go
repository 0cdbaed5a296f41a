package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string
	Version string
	Env     string    // dev, test, prod
	Level   string    // debug, info, warn, error
	Format  string    // json (default) or text
	Writer  io.Writer // stdout when nil
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel is case-insensitive. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return slog.LevelInfo
}

// New builds the process logger, tags it with service, version and env, and
// makes it the slog default.
func New(cfg Config) *slog.Logger {
	out := cfg.Writer
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.Env == "dev"}

	var h slog.Handler = slog.NewJSONHandler(out, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(h).With(
		slog.String("service", cfg.Service),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
	slog.SetDefault(logger)
	return logger
}

// Discard drops every record.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
