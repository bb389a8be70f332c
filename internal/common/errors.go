// Package common defines shared constants and sentinel errors used across the
// layers of the task-list server. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account state.
	ErrorInactiveUser = errors.New("inactive user")

	// Registration conflicts.
	ErrorEmailExists    = errors.New("email already registered")
	ErrorUsernameExists = errors.New("username already exists")

	// Validation.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
