// Package logging wires log/slog with the console and JSON handlers used by
// the coursebuild CLI, plus helpers for context-derived structured fields.
package logging
