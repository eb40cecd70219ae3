package store

import "errors"

// Sentinel errors. Services translate these into coded API errors.
var (
	// ErrNotFound is returned when a document cannot be found.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a document ID or unique index value
	// is already taken.
	ErrAlreadyExists = errors.New("document already exists")
)
