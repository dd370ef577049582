// Package common defines shared sentinel errors used across the layers of
// the cashcard service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors. ErrorUnauthenticated means no usable credential was
	// presented. ErrorUnauthorized means a credential was presented but a
	// secondary check failed (e.g. wrong current password). ErrorForbidden
	// means the caller is authenticated but is not the resource owner.
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")
)
