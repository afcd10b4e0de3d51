package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/pkg/api"
)

func TestStorage_SaveGetDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	session := &storage.Session{
		User: &api.User{
			ID:        "u-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Groups:    []string{"g-1"},
		},
		IsAuthenticated: true,
	}
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsAuthenticated)
	require.NotNil(t, got.User)
	assert.Equal(t, "u-1", got.User.ID)
	assert.Equal(t, "Ada Lovelace", got.User.FullName())

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestStorage_SaveGetTimerSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.GetTimerSession(ctx)
	assert.ErrorIs(t, err, storage.ErrTimerSessionNotFound)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := &storage.TimerSession{
		ActiveTimer: &api.Timer{
			ID:        "t-1",
			Task:      api.Ref{ID: "task-1"},
			StartTime: start,
			IsActive:  true,
		},
		StartTime:   &start,
		ElapsedTime: 42,
		IsRunning:   true,
	}
	require.NoError(t, store.SaveTimerSession(ctx, session))

	got, err := store.GetTimerSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.ActiveTimer)
	assert.Equal(t, "t-1", got.ActiveTimer.ID)
	assert.Equal(t, "task-1", got.ActiveTimer.Task.ID)
	require.NotNil(t, got.StartTime)
	assert.True(t, start.Equal(*got.StartTime))
	assert.Equal(t, int64(42), got.ElapsedTime)
	assert.True(t, got.IsRunning)

	require.NoError(t, store.DeleteTimerSession(ctx))
	_, err = store.GetTimerSession(ctx)
	assert.ErrorIs(t, err, storage.ErrTimerSessionNotFound)
}

func TestStorage_Session_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	dropBucket(t, store, bucketSession)

	_, err := store.GetSession(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session bucket not found")

	err = store.SaveSession(ctx, &storage.Session{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session bucket not found")
}

func TestStorage_VaultSalt(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.GetVaultSalt(ctx)
	assert.ErrorIs(t, err, storage.ErrMetadataNotFound)

	require.NoError(t, store.SaveVaultSalt(ctx, []byte{1, 2, 3}))
	salt, err := store.GetVaultSalt(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, salt)
}
