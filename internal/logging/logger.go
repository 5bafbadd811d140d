package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"braindump/internal/config"
)

// Options describes logger construction parameters. A nil Output writes to
// stderr.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New constructs a slog logger. Caller locations are attached at debug level.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	addSource := level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(out, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates the CLI logger: stderr, plus the day's file under
// Logging.Dir when one is configured. Old files are pruned on the way.
// Command output goes to stdout, so log lines never mix with it.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}

	var out io.Writer = os.Stderr
	var current string
	if cfg.Logging.Dir != "" {
		file, err := openDailyFile(cfg.Logging.Dir, time.Now())
		if err != nil {
			return nil, err
		}
		current = file.Name()
		out = io.MultiWriter(os.Stderr, file)
	}

	logger, err := New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: out})
	if err != nil {
		return nil, err
	}
	if current != "" {
		PruneLogs(logger, cfg.Logging.Dir, cfg.Logging.RetentionDays, current)
	}
	return logger, nil
}

func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName(now))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

// parseLevel accepts slog level names in any case. Anything else is info.
func parseLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return parsed
}
