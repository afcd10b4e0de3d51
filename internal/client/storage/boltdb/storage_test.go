package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

var allBuckets = [][]byte{bucketTokens, bucketSession, bucketTimer, bucketMetadata}

// создаём тестовое BoltDB хранилище во временной директории
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

// dropBucket удаляет bucket напрямую, чтобы проверить обработку ошибок
func dropBucket(t *testing.T, store *Storage, name []byte) {
	t.Helper()
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(name)
	}))
}

func TestNew_Success(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "missing-dir", "client.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)

	// Закрываем БД
	require.NoError(t, store.Close())

	// После закрытия поле db должно стать nil
	assert.Nil(t, store.db)

	// Второй вызов Close не должен падать
	assert.NoError(t, store.Close())
}

func TestInitBuckets_CreatesBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	// Открываем БД вручную без создания бакетов
	db, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	store := &Storage{db: db}
	require.NoError(t, store.initBuckets())

	// Повторная инициализация идемпотентна
	require.NoError(t, store.initBuckets())

	err = db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveVaultSalt(ctx, []byte("salt")))
	require.NoError(t, store.Close())

	// Открываем заново - данные должны сохраниться (аналог reload страницы)
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	salt, err := store.GetVaultSalt(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)
}

func TestNew_LockedByAnotherProcess(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	first, err := New(ctx, dbPath)
	require.NoError(t, err)

	// Второй экземпляр не ждет бесконечно, пока первый держит блокировку
	started := time.Now()
	second, err := NewWithTimeout(ctx, dbPath, 100*time.Millisecond)
	require.ErrorIs(t, err, storage.ErrStorageLocked)
	assert.Nil(t, second)
	assert.Less(t, time.Since(started), 2*time.Second)

	// После закрытия файл снова доступен
	require.NoError(t, first.Close())
	second, err = New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
