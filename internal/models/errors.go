package models

import "errors"

// Store errors shared by every ledger store implementation.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by Create when the key is already taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrVersionConflict is returned by Update when the stored version moved on since the read.
	ErrVersionConflict = errors.New("document version conflict")
)
