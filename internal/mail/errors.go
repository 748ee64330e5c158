package mail

import "errors"

var (
	// ErrNotConfigured is returned when SMTP settings are incomplete.
	ErrNotConfigured = errors.New("smtp not configured")

	// ErrStartTLSUnavailable is returned when the server does not offer STARTTLS.
	// Credentials are never sent over a plain connection.
	ErrStartTLSUnavailable = errors.New("smtp server does not support STARTTLS")
)
