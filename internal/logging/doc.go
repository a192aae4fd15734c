// Package logging configures slog for wpstack.
//
// Console output goes through tint (or the stdlib text/JSON handlers).
// Each apply run also appends to a run log file whose lines have the
// form "[2006-01-02 15:04:05] [LEVEL] message key=value".
package logging
