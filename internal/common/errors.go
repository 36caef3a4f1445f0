// Package common defines shared constants and sentinel errors used across
// the layers of admingate. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential validation errors. Both map to the InvalidInput
	// login failure category.
	ErrorInvalidEmailFormat = errors.New("invalid email format")
	ErrorPasswordTooShort   = errors.New("password too short")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// Login throttling.
	ErrorTooManyAttempts = errors.New("too many login attempts")
)
