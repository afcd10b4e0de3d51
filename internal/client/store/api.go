package store

import (
	"context"

	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/pkg/api"
)

//go:generate moq -out timerapi_mock_test.go . TimerAPI

// AuthAPI - эндпоинты аутентификации и профиля
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthData, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthData, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error
	Dashboard(ctx context.Context) (*api.Dashboard, error)
}

// TaskAPI - эндпоинты задач
type TaskAPI interface {
	ListTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, api.Pagination, error)
	GetTask(ctx context.Context, id string) (*api.Task, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error)
	UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// GroupAPI - эндпоинты групп
type GroupAPI interface {
	ListGroups(ctx context.Context) (*api.GroupsData, error)
	GetGroup(ctx context.Context, id string) (*api.GroupData, error)
	CreateGroup(ctx context.Context, req api.CreateGroupRequest) (*api.Group, error)
	UpdateGroup(ctx context.Context, id string, req api.UpdateGroupRequest) (*api.Group, error)
	JoinGroup(ctx context.Context, inviteCode string) (*api.Group, error)
	LeaveGroup(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, email string) error
	RemoveMember(ctx context.Context, id, memberID string) error
	PromoteToLeader(ctx context.Context, id, memberID string) error
	DemoteToMember(ctx context.Context, id, leaderID string) error
	RegenerateInviteCode(ctx context.Context, id string) (string, error)
	Leaderboard(ctx context.Context, id string) ([]api.LeaderboardEntry, error)
}

// TimerAPI - эндпоинты таймеров
type TimerAPI interface {
	ActiveTimer(ctx context.Context) (*api.Timer, error)
	StartTimer(ctx context.Context, req api.StartTimerRequest) (*api.Timer, error)
	CompleteTimer(ctx context.Context, req api.CompleteTimerRequest) (*api.Timer, error)
	TimerHistory(ctx context.Context, taskID string) ([]api.Timer, api.Pagination, error)
}

// SessionManager - владелец пары токенов и персистентной сессии
type SessionManager interface {
	AccessToken(ctx context.Context) (string, error)
	Establish(ctx context.Context, tokens api.Tokens, user *api.User) error
	SaveSession(ctx context.Context, s *storage.Session) error
	Session(ctx context.Context) (*storage.Session, error)
	Clear(ctx context.Context) error
	OnClear(fn func())
}

// ConnectionIDProvider отдает идентификатор realtime соединения.
// Идентификатор передается серверу, чтобы он не присылал событие
// об изменении обратно его автору.
type ConnectionIDProvider interface {
	ConnectionID(ctx context.Context) (string, error)
}

// HistoryArchive - локальный архив истории таймеров
type HistoryArchive interface {
	SaveTimers(ctx context.Context, timers []api.Timer) error
}
