package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/pkg/api"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T {
	return &v
}

func testTimer(id, taskID string, start time.Time, minutes float64) api.Timer {
	end := start.Add(time.Duration(minutes * float64(time.Minute)))
	return api.Timer{
		ID:              id,
		Task:            api.Ref{ID: taskID, Title: "Task " + taskID},
		User:            api.Ref{ID: "u1"},
		StartTime:       start,
		EndTime:         &end,
		Duration:        ptr(minutes),
		IsCompleted:     ptr(true),
		CompletedOnTime: ptr(minutes <= 30),
		Notes:           "notes " + id,
	}
}

func TestNew_Migrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Повторное открытие не применяет миграции второй раз
	s, err = New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestStorage_SaveAndListTimers(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	timers := []api.Timer{
		testTimer("tm1", "t1", base, 25),
		testTimer("tm2", "t2", base.Add(time.Hour), 45),
		testTimer("tm3", "t1", base.Add(2*time.Hour), 10),
	}
	require.NoError(t, s.SaveTimers(ctx, timers))

	all, err := s.ListTimers(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "tm3", all[0].ID)
	assert.Equal(t, "tm2", all[1].ID)
	assert.Equal(t, "tm1", all[2].ID)

	got := all[2]
	assert.Equal(t, "t1", got.Task.ID)
	assert.Equal(t, "Task t1", got.Task.Title)
	assert.Equal(t, "u1", got.User.ID)
	assert.True(t, got.StartTime.Equal(base))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(base.Add(25*time.Minute)))
	require.NotNil(t, got.Duration)
	assert.InDelta(t, 25.0, *got.Duration, 0.001)
	require.NotNil(t, got.IsCompleted)
	assert.True(t, *got.IsCompleted)
	require.NotNil(t, got.CompletedOnTime)
	assert.True(t, *got.CompletedOnTime)
	assert.Equal(t, "notes tm1", got.Notes)

	byTask, err := s.ListTimers(ctx, "t1", 0)
	require.NoError(t, err)
	require.Len(t, byTask, 2)
	assert.Equal(t, "tm3", byTask[0].ID)

	limited, err := s.ListTimers(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "tm3", limited[0].ID)
}

func TestStorage_SaveTimers_Upsert(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	active := api.Timer{
		ID:        "tm1",
		Task:      api.Ref{ID: "t1", Title: "Write report"},
		StartTime: start,
		IsActive:  true,
	}
	require.NoError(t, s.SaveTimers(ctx, []api.Timer{active}))

	got, err := s.ListTimers(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsActive)
	assert.Nil(t, got[0].EndTime)
	assert.Nil(t, got[0].Duration)
	assert.Nil(t, got[0].IsCompleted)

	// Завершенный таймер приходит без раскрытой задачи: название сохраняется
	completed := testTimer("tm1", "t1", start, 15)
	completed.Task = api.Ref{ID: "t1"}
	require.NoError(t, s.SaveTimers(ctx, []api.Timer{completed}))

	got, err = s.ListTimers(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsActive)
	require.NotNil(t, got[0].Duration)
	assert.InDelta(t, 15.0, *got[0].Duration, 0.001)
	assert.Equal(t, "Write report", got[0].Task.Title)
}

func TestStorage_SaveTimers_Empty(t *testing.T) {
	s := setupTestStorage(t)

	require.NoError(t, s.SaveTimers(context.Background(), nil))

	got, err := s.ListTimers(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
