package storage

import "errors"

// Common client storage errors
var (
	// ErrTokensNotFound indicates that no token pair is stored
	ErrTokensNotFound = errors.New("tokens not found")

	// ErrSessionNotFound indicates that no auth session is persisted
	ErrSessionNotFound = errors.New("session not found")

	// ErrTimerSessionNotFound indicates that no timer session is persisted
	ErrTimerSessionNotFound = errors.New("timer session not found")

	// ErrMetadataNotFound indicates that metadata key is absent
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageLocked indicates that another tasktrack process holds the storage file
	ErrStorageLocked = errors.New("storage is locked by another tasktrack process")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
