package storage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveVaultSalt saves the salt used to derive the token encryption key
	SaveVaultSalt(ctx context.Context, salt []byte) error

	// GetVaultSalt returns ErrMetadataNotFound if no salt was generated yet
	GetVaultSalt(ctx context.Context) ([]byte, error)
}
