// Package common defines shared constants and sentinel errors used across
// client and server layers of gophbudget. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Transport / availability errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLocalDataNotAvailable means the local store could not be read even
	// after retrying. A caller receiving it must treat the data as unknown,
	// not as empty.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")

	// Validation / item-specific errors.
	ErrValidation = errors.New("validation error")
	ErrProtected  = errors.New("record is protected")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrOwnerMismatch = errors.New("owner mismatch")
)
