// Package logging assembles structured slog loggers used across mqreg.
//
// It owns the console and JSON handlers, level parsing, and output routing,
// plus a no-op logger for tests and wiring code that cannot fail. Command
// output stays on stdout; diagnostics go through these loggers to stderr.
package logging
