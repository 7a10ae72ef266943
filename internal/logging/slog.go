package logging

import (
	"fmt"
	"log/slog"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyProvider   = "provider"
	KeyConnection = "connection"
	KeyCalendar   = "calendar"
	KeyAccount    = "account"
	KeyTimezone   = "timezone"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithProvider returns a logger with the provider attribute set.
func WithProvider(logger *slog.Logger, provider string) *slog.Logger {
	return logger.With(slog.String(KeyProvider, provider))
}

// WithConnection returns a logger with the connection attribute set.
func WithConnection(logger *slog.Logger, connectionID string) *slog.Logger {
	return logger.With(slog.String(KeyConnection, connectionID))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Provider returns a slog attribute for the calendar provider tag.
func Provider(provider string) slog.Attr {
	return slog.String(KeyProvider, provider)
}

// Connection returns a slog attribute for the connection identifier.
func Connection(connectionID string) slog.Attr {
	return slog.String(KeyConnection, connectionID)
}

// Calendar returns a slog attribute for the calendar identifier.
func Calendar(calendarID string) slog.Attr {
	return slog.String(KeyCalendar, calendarID)
}

// Account returns a slog attribute for the account identifier.
func Account(accountID string) slog.Attr {
	return slog.String(KeyAccount, accountID)
}

// Timezone returns a slog attribute for an IANA timezone identifier.
func Timezone(tz string) slog.Attr {
	return slog.String(KeyTimezone, tz)
}

// Duration returns a slog attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
