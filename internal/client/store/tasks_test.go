package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/internal/validation"
	"github.com/iudanet/tasktrack/pkg/api"
)

// blockingTaskAPI отвечает на ListTasks данными из filter.GroupID;
// запрос с GroupID == "slow" ждет release
type blockingTaskAPI struct {
	TaskAPI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingTaskAPI) ListTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, api.Pagination, error) {
	if filter.GroupID == "slow" {
		close(b.entered)
		<-b.release
	}
	return []api.Task{{ID: filter.GroupID + "-task"}}, api.Pagination{Page: filter.Page}, nil
}

func TestTasks_WriteThrough(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	other := env.srv.AddGroup(env.user.ID, "Other", false)
	env.srv.AddTask(env.user.ID, other.ID, "Elsewhere")

	tasks := NewTasks(env.client, env.logger)

	created, err := tasks.Create(ctx, validTask(group.ID))
	require.NoError(t, err)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, api.TaskStatusPending, created.Status)
	require.Len(t, tasks.State().Tasks, 1)

	require.NoError(t, tasks.List(ctx, api.TaskFilter{GroupID: group.ID}))
	st := tasks.State()
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, created.ID, st.Tasks[0].ID)
	assert.Equal(t, 1, st.Pagination.TotalItems)

	require.NoError(t, tasks.Get(ctx, created.ID))
	require.NotNil(t, tasks.State().Current)

	status := api.TaskStatusCompleted
	updated, err := tasks.Update(ctx, created.ID, api.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, updated.CompletedBy, 1)

	st = tasks.State()
	assert.Equal(t, api.TaskStatusCompleted, st.Tasks[0].Status)
	assert.Equal(t, api.TaskStatusCompleted, st.Current.Status)

	require.NoError(t, tasks.Delete(ctx, created.ID))
	st = tasks.State()
	assert.Empty(t, st.Tasks)
	assert.Nil(t, st.Current)
	assert.False(t, st.IsLoading)
}

func TestTasks_ValidationSkipsServer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tasks := NewTasks(env.client, env.logger)

	tests := []struct {
		name   string
		mutate func(*api.CreateTaskRequest)
	}{
		{name: "no title", mutate: func(r *api.CreateTaskRequest) { r.Title = "" }},
		{name: "no description", mutate: func(r *api.CreateTaskRequest) { r.Description = " " }},
		{name: "no group", mutate: func(r *api.CreateTaskRequest) { r.GroupID = "" }},
		{name: "bad due date", mutate: func(r *api.CreateTaskRequest) { r.DueDate = "next week" }},
		{name: "zero estimate", mutate: func(r *api.CreateTaskRequest) { r.EstimatedTime = 0 }},
		{name: "unknown priority", mutate: func(r *api.CreateTaskRequest) { r.Priority = "urgent" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTask("group-1")
			tt.mutate(&req)

			_, err := tasks.Create(ctx, req)
			require.ErrorIs(t, err, validation.ErrInvalid)
			assert.NotEmpty(t, tasks.State().Error)
		})
	}

	assert.Zero(t, env.srv.Calls("POST /tasks"))

	require.Error(t, tasks.Get(ctx, ""))
	require.Error(t, tasks.Delete(ctx, ""))
	bad := api.TaskStatus("archived")
	_, err := tasks.Update(ctx, "task-1", api.UpdateTaskRequest{Status: &bad})
	require.ErrorIs(t, err, validation.ErrInvalid)
}

func TestTasks_ServerErrorKeepsCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	tasks := NewTasks(env.client, env.logger)

	require.NoError(t, tasks.List(ctx, api.TaskFilter{}))
	_, err := tasks.Create(ctx, validTask(group.ID))
	require.NoError(t, err)

	err = tasks.Delete(ctx, "missing")
	require.Error(t, err)

	st := tasks.State()
	assert.Len(t, st.Tasks, 1)
	assert.Equal(t, "Task not found", st.Error)

	tasks.ClearError()
	assert.Empty(t, tasks.State().Error)
}

func TestTasks_RefreshOnExpiredToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	env.srv.AddTask(env.user.ID, group.ID, "First")
	tasks := NewTasks(env.client, env.logger)

	env.srv.ExpireAccessTokens()

	require.NoError(t, tasks.List(ctx, api.TaskFilter{}))
	assert.Len(t, tasks.State().Tasks, 1)
	assert.Equal(t, 1, env.srv.Calls("POST /auth/refresh-token"))
	assert.Equal(t, 2, env.srv.Calls("GET /tasks"))

	// Новый access token уже сохранен, повторный refresh не нужен
	require.NoError(t, tasks.List(ctx, api.TaskFilter{}))
	assert.Equal(t, 1, env.srv.Calls("POST /auth/refresh-token"))
}

func TestTasks_StaleListDropped(t *testing.T) {
	ctx := context.Background()
	fake := &blockingTaskAPI{entered: make(chan struct{}), release: make(chan struct{})}
	tasks := NewTasks(fake, testLogger())

	done := make(chan error, 1)
	go func() { done <- tasks.List(ctx, api.TaskFilter{GroupID: "slow", Page: 1}) }()
	<-fake.entered

	require.NoError(t, tasks.List(ctx, api.TaskFilter{GroupID: "fast", Page: 2}))
	close(fake.release)
	require.NoError(t, <-done)

	st := tasks.State()
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "fast-task", st.Tasks[0].ID)
	assert.Equal(t, 2, st.Pagination.Page)
}

func TestTasks_ResetDropsInFlight(t *testing.T) {
	ctx := context.Background()
	fake := &blockingTaskAPI{entered: make(chan struct{}), release: make(chan struct{})}
	tasks := NewTasks(fake, testLogger())

	done := make(chan error, 1)
	go func() { done <- tasks.List(ctx, api.TaskFilter{GroupID: "slow"}) }()
	<-fake.entered

	tasks.Reset()
	close(fake.release)
	require.NoError(t, <-done)

	st := tasks.State()
	assert.Empty(t, st.Tasks)
	assert.Equal(t, api.DefaultPagination(), st.Pagination)
}

func TestTasks_ClearCurrent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	task := env.srv.AddTask(env.user.ID, group.ID, "First")
	tasks := NewTasks(env.client, env.logger)

	require.NoError(t, tasks.Get(ctx, task.ID))
	require.NotNil(t, tasks.State().Current)

	tasks.ClearCurrent()
	assert.Nil(t, tasks.State().Current)
}

func TestTasks_StateIsSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	tasks := NewTasks(env.client, env.logger)

	req := validTask(group.ID)
	req.Tags = []string{"report"}
	created, err := tasks.Create(ctx, req)
	require.NoError(t, err)
	require.NoError(t, tasks.Get(ctx, created.ID))

	st := tasks.State()
	require.NotNil(t, st.Current)
	require.Len(t, st.Current.Tags, 1)
	require.Len(t, st.Tasks, 1)
	require.Len(t, st.Tasks[0].Tags, 1)

	st.Current.Tags[0] = "mutated"
	st.Tasks[0].Tags[0] = "mutated"

	fresh := tasks.State()
	assert.Equal(t, []string{"report"}, fresh.Current.Tags)
	assert.Equal(t, []string{"report"}, fresh.Tasks[0].Tags)
}
