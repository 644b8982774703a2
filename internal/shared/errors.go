// Package shared holds cross-module sentinel errors.
package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates input rejected at the boundary.
	ErrValidation = errors.New("validation failed")
	// ErrInUse indicates a record still referenced by other rows.
	ErrInUse = errors.New("record in use")
	// ErrInvalidState indicates an operation not allowed in the current status.
	ErrInvalidState = errors.New("invalid state")
)
