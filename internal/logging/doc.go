// Package logging assembles structured slog loggers used across gallerist.
//
// It owns the console and JSON handlers, tees terminal output and the log file,
// stamps every record with the browsing session ID, and exposes context-aware
// helpers so backend calls are tagged with their request correlation ID. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
