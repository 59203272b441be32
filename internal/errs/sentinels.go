// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers. The HTTP layer maps each one to a
// status code; services and repositories never format user-facing messages.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the caller lacks the required relationship to the
	// entity (e.g. not the owner).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState indicates the operation is not valid for the entity's
	// current lifecycle state (e.g. reveal twice, guess after reveal).
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicate indicates a uniqueness violation surfaced as a domain error
	// (e.g. second guess on the same spot, username taken).
	ErrDuplicate = errors.New("duplicate")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates a temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
