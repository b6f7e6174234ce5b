package domain

import "errors"

// Sentinel errors shared across use cases.
var (
	// ErrValidation marks a malformed request that must be rejected before
	// any store access.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a transient store failure. Callers may retry;
	// the engine itself does not.
	ErrStoreUnavailable = errors.New("store unavailable")
)
