package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

// Compile-time checks
var (
	_ storage.TokenStorage    = (*Storage)(nil)
	_ storage.SessionStorage  = (*Storage)(nil)
	_ storage.TimerStorage    = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// DefaultLockTimeout - сколько New ждет файловую блокировку.
// Блокировку держит, например, запущенный "tasktrack timer watch".
const DefaultLockTimeout = time.Second

var (
	// BoltDB bucket names
	bucketTokens   = []byte("tokens")
	bucketSession  = []byte("session")
	bucketTimer    = []byte("timer")
	bucketMetadata = []byte("meta")
)

// Storage represents BoltDB storage implementation for client.
// It plays the role of the durable client storage: token pair,
// serialized auth session, serialized timer session.
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	return NewWithTimeout(ctx, dbPath, DefaultLockTimeout)
}

// NewWithTimeout открывает хранилище, ожидая блокировку файла не дольше timeout.
// Если файл занят другим процессом, возвращается storage.ErrStorageLocked.
func NewWithTimeout(ctx context.Context, dbPath string, timeout time.Duration) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, fmt.Errorf("failed to open boltdb %s: %w", dbPath, storage.ErrStorageLocked)
		}
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTokens, bucketSession, bucketTimer, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// bucket возвращает bucket или ошибку "<name> bucket not found"
func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}
