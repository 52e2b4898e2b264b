// Package common defines shared constants and sentinel errors used across
// client and server layers of townsquare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal    = errors.New("internal error")
	ErrorUnavailable = errors.New("server unavailable")

	// Validation errors. Wrap with a message naming the violated constraint.
	ErrorValidation = errors.New("validation error")

	// Auth errors. Credential mismatches always collapse to
	// ErrorUnauthorized so that unknown email and wrong password are
	// indistinguishable to the caller.
	ErrorUnauthorized        = errors.New("invalid credentials")
	ErrorDuplicateEmail      = errors.New("email already registered")
	ErrorProvisioningTimeout = errors.New("could not create profile")
	ErrorPermissionDenied    = errors.New("permission denied")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrSessionExpired is the distinguished signal that aborts an in-flight
	// operation. Repositories re-raise it untouched so the session guard can
	// handle it centrally; every other failure is converted to one of the
	// sentinels above at the repository boundary.
	ErrSessionExpired = errors.New("session expired")

	// Object storage errors. Upload failures block the owning mutation;
	// delete failures never do.
	ErrorStorage = errors.New("storage error")
)
