package app

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/internal/client/apitest"
	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/internal/config"
	"github.com/iudanet/tasktrack/pkg/api"
)

func testConfig(t *testing.T, srv *apitest.Server, passphrase string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL:  srv.APIURL(),
		SocketURL:  srv.URL,
		DataDir:    t.TempDir(),
		LogLevel:   "error",
		Passphrase: passphrase,
		Timeout:    5 * time.Second,
	}
}

func newTestApp(t *testing.T, srv *apitest.Server, opts Options) *App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Now == nil {
		opts.Now = srv.Clock().NowFunc()
	}
	a, err := New(context.Background(), testConfig(t, srv, ""), logger, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_RehydrateLoggedOut(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	a := newTestApp(t, srv, Options{})
	require.NoError(t, a.Rehydrate(context.Background()))

	assert.False(t, a.Auth.State().IsAuthenticated)
	assert.False(t, a.Timer.State().IsRunning)
	assert.Zero(t, srv.Calls("GET /timers/active"))
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()
	user := srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")
	group := srv.AddGroup(user.ID, "Team", false)
	task := srv.AddTask(user.ID, group.ID, "Report")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, srv, "correct horse")
	opts := Options{Now: srv.Clock().NowFunc()}

	first, err := New(ctx, cfg, logger, opts)
	require.NoError(t, err)
	require.NoError(t, first.Auth.Login(ctx, "ada@example.com", "password123"))
	require.NoError(t, first.Timer.StartTimer(ctx, task.ID))
	require.NoError(t, first.Close())

	srv.Clock().Advance(3 * time.Minute)

	second, err := New(ctx, cfg, logger, opts)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	require.NoError(t, second.Rehydrate(ctx))
	assert.True(t, second.Auth.State().IsAuthenticated)

	st := second.Timer.State()
	assert.True(t, st.IsRunning)
	assert.Equal(t, int64(180), st.ElapsedTime)
}

func TestApp_FailedRefreshResetsStores(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()
	user := srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")
	group := srv.AddGroup(user.ID, "Team", false)
	srv.AddTask(user.ID, group.ID, "Report")

	var expired atomic.Int32
	a := newTestApp(t, srv, Options{OnUnauthenticated: func() { expired.Add(1) }})

	require.NoError(t, a.Auth.Login(ctx, "ada@example.com", "password123"))
	require.NoError(t, a.Tasks.List(ctx, api.TaskFilter{}))
	require.NoError(t, a.Groups.List(ctx))
	require.Len(t, a.Tasks.State().Tasks, 1)

	srv.ExpireAccessTokens()
	srv.RevokeRefreshTokens()

	require.Error(t, a.Tasks.List(ctx, api.TaskFilter{}))

	assert.Equal(t, int32(1), expired.Load())
	assert.False(t, a.Auth.State().IsAuthenticated)
	assert.Empty(t, a.Tasks.State().Tasks)
	assert.Empty(t, a.Groups.State().MyGroups)

	token, err := a.Session.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_LogoutClearsTimerSession(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()
	user := srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")
	group := srv.AddGroup(user.ID, "Team", false)
	task := srv.AddTask(user.ID, group.ID, "Report")

	a := newTestApp(t, srv, Options{})
	require.NoError(t, a.Auth.Login(ctx, "ada@example.com", "password123"))
	require.NoError(t, a.Timer.StartTimer(ctx, task.ID))

	require.NoError(t, a.Logout(ctx))

	assert.False(t, a.Timer.State().IsRunning)
	_, err := a.Storage.GetTimerSession(ctx)
	assert.Error(t, err)
}

func TestApp_RealtimeTimerUpdate(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()
	user := srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")
	group := srv.AddGroup(user.ID, "Team", false)
	task := srv.AddTask(user.ID, group.ID, "Report")

	watcher := newTestApp(t, srv, Options{})
	require.NoError(t, watcher.Auth.Login(ctx, "ada@example.com", "password123"))
	require.NoError(t, watcher.Realtime.Connect(ctx))

	other := newTestApp(t, srv, Options{})
	require.NoError(t, other.Auth.Login(ctx, "ada@example.com", "password123"))
	require.NoError(t, other.Timer.StartTimer(ctx, task.ID))

	// Второе устройство узнает о таймере по событию timer:update
	require.Eventually(t, func() bool {
		return watcher.Timer.State().IsRunning
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, other.Timer.CompleteTimer(ctx, ""))
	require.Eventually(t, func() bool {
		return !watcher.Timer.State().IsRunning
	}, 3*time.Second, 10*time.Millisecond)
}

func TestApp_StartTickerOnce(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	a := newTestApp(t, srv, Options{TickInterval: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := a.StartTicker(ctx)
	assert.Equal(t, done, a.StartTicker(ctx))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestApp_TokensEncryptedWithPassphrase(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(ctx, testConfig(t, srv, "correct horse"), logger, Options{})
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	require.NoError(t, a.Auth.Login(ctx, "ada@example.com", "password123"))

	access, err := a.Session.AccessToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	stored, err := a.Storage.GetTokens(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, access, stored.AccessToken)
	assert.NotContains(t, stored.AccessToken, ".")
}

func TestApp_SecondProcessFailsFast(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer()
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, srv, "")

	first, err := New(ctx, cfg, logger, Options{})
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	started := time.Now()
	_, err = New(ctx, cfg, logger, Options{})
	require.ErrorIs(t, err, storage.ErrStorageLocked)
	assert.Less(t, time.Since(started), 5*time.Second)
}
