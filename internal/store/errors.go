package store

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrVersionConflict is returned when a versioned update lost a race
	// with a concurrent writer. Callers reload and retry.
	ErrVersionConflict = errors.New("store: version conflict")
)
