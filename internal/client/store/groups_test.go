package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/internal/validation"
	"github.com/iudanet/tasktrack/pkg/api"
)

func TestGroups_CreateListGetUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	groups := NewGroups(env.client, env.logger)

	_, err := groups.Create(ctx, api.CreateGroupRequest{Name: "Team"})
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Zero(t, env.srv.Calls("POST /groups"))
	assert.Empty(t, groups.State().MyGroups)
	assert.NotEmpty(t, groups.State().Error)

	created, err := groups.Create(ctx, api.CreateGroupRequest{Name: "Team", Description: "Core team"})
	require.NoError(t, err)
	require.Len(t, groups.State().MyGroups, 1)

	outsider := env.srv.AddUser("Grace", "Hopper", "grace@example.com", "password123")
	env.srv.AddGroup(outsider.ID, "Open", true)

	require.NoError(t, groups.List(ctx))
	st := groups.State()
	require.Len(t, st.MyGroups, 1)
	require.Len(t, st.PublicGroups, 1)
	assert.Equal(t, "Open", st.PublicGroups[0].Name)

	require.NoError(t, groups.Get(ctx, created.ID))
	st = groups.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, api.GroupRoleLeader, st.UserRole)
	require.NotNil(t, st.Stats)

	name := "Renamed"
	_, err = groups.Update(ctx, created.ID, api.UpdateGroupRequest{Name: &name})
	require.NoError(t, err)
	st = groups.State()
	assert.Equal(t, "Renamed", st.Current.Name)
	assert.Equal(t, "Renamed", st.MyGroups[0].Name)

	empty := ""
	_, err = groups.Update(ctx, created.ID, api.UpdateGroupRequest{Name: &empty})
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Equal(t, "Renamed", groups.State().Current.Name)
}

func TestGroups_CreateServerErrorKeepsCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	groups := NewGroups(env.client, env.logger)

	require.NoError(t, groups.List(ctx))
	require.NoError(t, groups.Get(ctx, group.ID))
	before := groups.State()
	require.Len(t, before.MyGroups, 1)

	tests := []struct {
		name    string
		message string
		status  int
	}{
		{name: "server error", status: http.StatusInternalServerError, message: "Server error"},
		{name: "forbidden", status: http.StatusForbidden, message: "Not allowed to create groups"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.srv.FailRoute("POST /groups", tt.status, tt.message)
			defer env.srv.FailRoute("POST /groups", 0, "")

			created, err := groups.Create(ctx, api.CreateGroupRequest{Name: "Second", Description: "Another team"})
			require.Error(t, err)
			assert.Nil(t, created)

			st := groups.State()
			assert.Equal(t, tt.message, st.Error)
			assert.False(t, st.IsLoading)
			assert.Equal(t, before.MyGroups, st.MyGroups)
			require.NotNil(t, st.Current)
			assert.Equal(t, group.ID, st.Current.ID)
		})
	}

	// После снятия ошибки создание проходит и кэш растет
	groups.ClearError()
	_, err := groups.Create(ctx, api.CreateGroupRequest{Name: "Second", Description: "Another team"})
	require.NoError(t, err)
	assert.Len(t, groups.State().MyGroups, 2)
	assert.Equal(t, 3, env.srv.Calls("POST /groups"))
}

func TestGroups_Members(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	mate := env.srv.AddUser("Grace", "Hopper", "grace@example.com", "password123")
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	groups := NewGroups(env.client, env.logger)

	err := groups.AddMember(ctx, group.ID, "not-an-email")
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Zero(t, env.srv.Calls("POST /groups/"+group.ID+"/members"))

	require.NoError(t, groups.AddMember(ctx, group.ID, "grace@example.com"))
	st := groups.State()
	require.NotNil(t, st.Current)
	assert.Len(t, st.Current.Members, 2)

	require.NoError(t, groups.PromoteToLeader(ctx, group.ID, mate.ID))
	assert.Len(t, groups.State().Current.Leaders, 2)

	require.NoError(t, groups.DemoteToMember(ctx, group.ID, mate.ID))
	assert.Len(t, groups.State().Current.Leaders, 1)

	// Последнего лидера понизить нельзя
	err = groups.DemoteToMember(ctx, group.ID, env.user.ID)
	require.Error(t, err)
	assert.Equal(t, "A group must have at least one leader", groups.State().Error)
	assert.Len(t, groups.State().Current.Leaders, 1)

	require.NoError(t, groups.RemoveMember(ctx, group.ID, mate.ID))
	st = groups.State()
	assert.Len(t, st.Current.Members, 1)
	assert.Empty(t, st.Error)
	assert.False(t, st.IsLoading)
}

func TestGroups_JoinLeave(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.srv.AddUser("Grace", "Hopper", "grace@example.com", "password123")
	group := env.srv.AddGroup(owner.ID, "Their team", false)
	groups := NewGroups(env.client, env.logger)

	_, err := groups.Join(ctx, "WRONG123")
	require.Error(t, err)
	assert.Equal(t, "Invalid invite code", groups.State().Error)

	joined, err := groups.Join(ctx, group.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, group.ID, joined.ID)
	require.Len(t, groups.State().MyGroups, 1)

	require.NoError(t, groups.Get(ctx, group.ID))
	assert.Equal(t, api.GroupRoleMember, groups.State().UserRole)

	require.NoError(t, groups.Leave(ctx, group.ID))
	st := groups.State()
	assert.Empty(t, st.MyGroups)
	assert.Nil(t, st.Current)
	assert.Nil(t, st.Stats)
	assert.Empty(t, st.UserRole)
}

func TestGroups_LeaveRejectedKeepsState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	mate := env.srv.AddUser("Grace", "Hopper", "grace@example.com", "password123")
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	groups := NewGroups(env.client, env.logger)

	require.NoError(t, groups.AddMember(ctx, group.ID, mate.Email))
	require.NoError(t, groups.List(ctx))

	err := groups.Leave(ctx, group.ID)
	require.Error(t, err)

	st := groups.State()
	assert.Len(t, st.MyGroups, 1)
	require.NotNil(t, st.Current)
	assert.Equal(t, "Promote another leader before leaving the group", st.Error)
}

func TestGroups_InviteAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	env.srv.AddTask(env.user.ID, group.ID, "First")
	groups := NewGroups(env.client, env.logger)

	_, err := groups.RegenerateInviteCode(ctx, "")
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Zero(t, env.srv.Calls("POST /groups/"+group.ID+"/invite"))

	// Новый код выпускается, затем группа перечитывается целиком
	code, err := groups.RegenerateInviteCode(ctx, group.ID)
	require.NoError(t, err)
	assert.NotEqual(t, group.InviteCode, code)
	assert.Equal(t, 1, env.srv.Calls("GET /groups/"+group.ID))

	st := groups.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, group.ID, st.Current.ID)
	assert.Equal(t, code, st.Current.InviteCode)
	assert.Equal(t, api.GroupRoleLeader, st.UserRole)
	require.NotNil(t, st.Stats)
	assert.Equal(t, 1, st.Stats.PendingTasks)
	assert.False(t, st.IsLoading)

	require.NoError(t, groups.Leaderboard(ctx, group.ID))
	board := groups.State().Leaderboard
	require.Len(t, board, 1)
	assert.Equal(t, env.user.ID, board[0].User.ID)
	assert.True(t, board[0].IsLeader)
}

func TestGroups_ResetAndClear(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	groups := NewGroups(env.client, env.logger)

	require.NoError(t, groups.List(ctx))
	require.NoError(t, groups.Get(ctx, group.ID))

	groups.ClearCurrent()
	st := groups.State()
	assert.Nil(t, st.Current)
	assert.Empty(t, st.UserRole)
	assert.Len(t, st.MyGroups, 1)

	require.Error(t, groups.Get(ctx, ""))
	groups.ClearError()
	assert.Empty(t, groups.State().Error)

	groups.Reset()
	assert.Equal(t, GroupsState{}, groups.State())
}

func TestGroups_StateIsSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	group := env.srv.AddGroup(env.user.ID, "Team", false)
	env.srv.AddTask(env.user.ID, group.ID, "Pending")
	groups := NewGroups(env.client, env.logger)

	require.NoError(t, groups.List(ctx))
	require.NoError(t, groups.Get(ctx, group.ID))

	st := groups.State()
	require.NotNil(t, st.Current)
	require.NotNil(t, st.Stats)
	require.Len(t, st.Current.Members, 1)
	require.Len(t, st.MyGroups, 1)
	require.Len(t, st.MyGroups[0].Members, 1)

	st.Current.Members[0].ID = "mutated"
	st.Current.Leaders[0].ID = "mutated"
	st.MyGroups[0].Members[0].ID = "mutated"
	st.Stats.PendingTasks = 42

	fresh := groups.State()
	assert.Equal(t, env.user.ID, fresh.Current.Members[0].ID)
	assert.Equal(t, env.user.ID, fresh.Current.Leaders[0].ID)
	assert.Equal(t, env.user.ID, fresh.MyGroups[0].Members[0].ID)
	assert.Equal(t, 1, fresh.Stats.PendingTasks)
}
