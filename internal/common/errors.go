// Package common defines sentinel errors shared across client and server
// layers of Tickit. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Sync engine errors.
	ErrNotConfigured  = errors.New("sync not configured")
	ErrSyncInProgress = errors.New("sync already in progress")

	// Auth errors (invalid or malformed bearer token).
	ErrInvalidToken = errors.New("invalid token")

	// Store invariant violations.
	ErrInboxProtected = errors.New("inbox list cannot be deleted")
)
