package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional update matched no row
	// because the entity was not in the required state.
	ErrConflict = errors.New("entity not in required state")

	// ErrDuplicateEntry is returned when an insert violates a uniqueness
	// constraint, e.g. a second pickup transaction for the same request.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
