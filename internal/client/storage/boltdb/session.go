package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

var sessionKey = []byte("auth-storage")

// SaveSession stores the auth session as JSON
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	return s.putJSON(bucketSession, sessionKey, session)
}

// GetSession retrieves the persisted auth session
func (s *Storage) GetSession(ctx context.Context) (*storage.Session, error) {
	session := &storage.Session{}
	if err := s.getJSON(bucketSession, sessionKey, session, storage.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes the persisted auth session
func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.delete(bucketSession, sessionKey)
}

// putJSON сериализует значение и сохраняет его под ключом
func (s *Storage) putJSON(name, key []byte, v any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}

		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

// getJSON читает и десериализует значение, notFound возвращается при отсутствии ключа
func (s *Storage) getJSON(name, key []byte, v any, notFound error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}

		data := b.Get(key)
		if data == nil {
			return notFound
		}

		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}
		return nil
	})
}

func (s *Storage) delete(name, key []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	})
}
