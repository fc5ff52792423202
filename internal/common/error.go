// Package common defines sentinel errors and small helpers shared by the
// vault layers. Callers should use errors.Is to match the error values.
package common

import "errors"

var (
	// Ledger errors.
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or master password")
	ErrWeakPassword       = errors.New("master password too short")

	// Store errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRecordUndecryptable is returned when a sealed record cannot be opened
	// with the supplied password (wrong key, corrupt blob or malformed payload).
	// List operations drop such records instead of returning it.
	ErrRecordUndecryptable = errors.New("record undecryptable")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")
)
