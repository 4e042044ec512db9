// Package apperrors defines the sentinel errors shared between the
// repository layer and the HTTP handlers. Repositories wrap these with
// context via fmt.Errorf; handlers match with errors.Is and translate to
// the appropriate HTTP status.
package apperrors

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (duplicate username,
	// duplicate email, duplicate save).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates an ownership mismatch: the session user
	// does not own the resource they are mutating.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates bad or missing input.
	ErrValidation = errors.New("validation failed")
)
