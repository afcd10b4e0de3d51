package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/client/apitest"
	"github.com/iudanet/tasktrack/internal/client/session"
	"github.com/iudanet/tasktrack/internal/client/storage/boltdb"
	"github.com/iudanet/tasktrack/pkg/api"
)

// testEnv - фейковый API, bbolt хранилище, менеджер сессии и клиент,
// вошедший под пользователем user
type testEnv struct {
	srv     *apitest.Server
	clock   *apitest.Clock
	db      *boltdb.Storage
	session *session.Manager
	client  *clientapi.Client
	logger  *slog.Logger
	user    api.User
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	clock := apitest.NewClock(apitest.ReferenceTime())
	srv := apitest.NewServer(apitest.WithClock(clock))
	t.Cleanup(srv.Close)

	db, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := testLogger()
	manager := session.NewManager(db, db, nil, logger)

	user := srv.AddUser("Ada", "Lovelace", "ada@example.com", "password123")
	require.NoError(t, manager.Establish(ctx, srv.Login(user.ID), &user))

	return &testEnv{
		srv:     srv,
		clock:   clock,
		db:      db,
		session: manager,
		client:  clientapi.NewClient(srv.APIURL(), manager, logger),
		logger:  logger,
		user:    user,
	}
}

func (e *testEnv) newTimer(opts ...TimerOption) *Timer {
	opts = append([]TimerOption{WithClock(e.clock.NowFunc())}, opts...)
	return NewTimer(e.client, e.db, e.logger, opts...)
}

func validTask(groupID string) api.CreateTaskRequest {
	return api.CreateTaskRequest{
		Title:         "Write report",
		Description:   "Quarterly report",
		GroupID:       groupID,
		DueDate:       "2026-03-09",
		Priority:      api.TaskPriorityHigh,
		EstimatedTime: 60,
	}
}
