// Package logging provides structured logging utilities for the availability
// engine.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Token sanitization so credentials never reach log output
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithProvider(slog.Default(), "google")
//	logger.Info("fetched busy periods",
//	    logging.Connection(conn.ID),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Tokens are never logged directly; use SanitizeToken when a token must be
// referenced in a log entry.
package logging
