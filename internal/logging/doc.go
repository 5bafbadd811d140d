// Package logging assembles structured slog loggers used across braindump.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request code can tag log lines
// with component names and correlation IDs. Console output goes to stderr so
// command results printed on stdout stay pipeable. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
