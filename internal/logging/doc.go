// Package logging assembles structured slog loggers used across oshash.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so batch code can tag log lines with
// the run identifier. Logs default to stderr because stdout carries
// fingerprint output. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
