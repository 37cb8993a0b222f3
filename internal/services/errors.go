package services

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent user, contact or history entry.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks an attempt to register an existing username or email.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidCredentials is returned for unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrHistoryEvictionFailed means the ledger could not be trimmed; nothing was inserted.
	ErrHistoryEvictionFailed = errors.New("failed to delete the oldest search")
	// ErrHistorySaveFailed means the insert failed after any eviction already committed.
	ErrHistorySaveFailed = errors.New("failed to save search")
)
