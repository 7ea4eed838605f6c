package repository

import "errors"

var (
	// ErrNotFound signals that the requested row does not exist. Expected
	// outcome for token and session lookups, not an exceptional one.
	ErrNotFound = errors.New("record not found")
	// ErrConflict signals a unique-constraint violation (duplicate email,
	// slug, membership, or role).
	ErrConflict = errors.New("record already exists")
)
