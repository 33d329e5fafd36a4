// Package logging assembles structured slog loggers and formatting helpers used
// across fcsmerge.
//
// It owns the console and JSON handlers, routes full-detail logs to a daily
// file while echoing warnings to stderr, and exposes context-aware helpers so
// engine code tags every line with the run ID and root directory. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
