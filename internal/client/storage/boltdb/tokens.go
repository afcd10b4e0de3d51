package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

var (
	keyAccessToken  = []byte("access_token")
	keyRefreshToken = []byte("refresh_token")
)

// SaveTokens stores both tokens in one transaction
func (s *Storage) SaveTokens(ctx context.Context, tokens *storage.TokenData) error {
	if tokens == nil {
		return fmt.Errorf("tokens are nil")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		if err := b.Put(keyAccessToken, []byte(tokens.AccessToken)); err != nil {
			return fmt.Errorf("failed to save access token: %w", err)
		}
		if err := b.Put(keyRefreshToken, []byte(tokens.RefreshToken)); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		return nil
	})
}

// SaveAccessToken rewrites the access token, the pair must already exist
func (s *Storage) SaveAccessToken(ctx context.Context, accessToken string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		// Без refresh token пары нет - не создаем "половину" пары
		if b.Get(keyRefreshToken) == nil {
			return storage.ErrTokensNotFound
		}

		if err := b.Put(keyAccessToken, []byte(accessToken)); err != nil {
			return fmt.Errorf("failed to save access token: %w", err)
		}
		return nil
	})
}

// GetTokens retrieves the stored token pair
func (s *Storage) GetTokens(ctx context.Context) (*storage.TokenData, error) {
	var tokens *storage.TokenData

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		access := b.Get(keyAccessToken)
		refresh := b.Get(keyRefreshToken)
		if access == nil && refresh == nil {
			return storage.ErrTokensNotFound
		}

		// bbolt отдает срезы, валидные только внутри транзакции - копируем через string()
		tokens = &storage.TokenData{
			AccessToken:  string(access),
			RefreshToken: string(refresh),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

// DeleteTokens removes both tokens; deleting an absent pair is not an error
func (s *Storage) DeleteTokens(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		if err := b.Delete(keyAccessToken); err != nil {
			return fmt.Errorf("failed to delete access token: %w", err)
		}
		if err := b.Delete(keyRefreshToken); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
		return nil
	})
}
