package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

const (
	keyVaultSalt = "vault_salt"
)

// SaveVaultSalt saves the salt of the token vault
func (s *Storage) SaveVaultSalt(ctx context.Context, salt []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		if err := b.Put([]byte(keyVaultSalt), salt); err != nil {
			return fmt.Errorf("failed to save vault salt: %w", err)
		}
		return nil
	})
}

// GetVaultSalt retrieves the salt of the token vault
func (s *Storage) GetVaultSalt(ctx context.Context) ([]byte, error) {
	var salt []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		value := b.Get([]byte(keyVaultSalt))
		if value == nil {
			return storage.ErrMetadataNotFound
		}

		salt = bytes.Clone(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return salt, nil
}
