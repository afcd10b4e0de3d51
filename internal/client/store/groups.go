package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/validation"
	"github.com/iudanet/tasktrack/pkg/api"
)

// GroupsState - снимок кэша групп
type GroupsState struct {
	Current      *api.Group
	Stats        *api.GroupStats
	UserRole     api.GroupRole
	Error        string
	MyGroups     []api.Group
	PublicGroups []api.Group
	Leaderboard  []api.LeaderboardEntry
	IsLoading    bool
}

// Groups - write-through кэш групп.
// Операции с участниками меняют группу на сервере и перечитывают ее целиком.
type Groups struct {
	api      GroupAPI
	logger   *slog.Logger
	state    GroupsState
	listSeq  sequence
	curSeq   sequence
	boardSeq sequence
	mu       sync.RWMutex
}

// NewGroups создает group store
func NewGroups(groupAPI GroupAPI, logger *slog.Logger) *Groups {
	return &Groups{
		api:    groupAPI,
		logger: logger,
	}
}

// State возвращает копию состояния
func (s *Groups) State() GroupsState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.MyGroups = cloneGroups(s.state.MyGroups)
	st.PublicGroups = cloneGroups(s.state.PublicGroups)
	st.Leaderboard = slices.Clone(s.state.Leaderboard)
	st.Stats = clonePtr(s.state.Stats)
	if s.state.Current != nil {
		cur := cloneGroup(*s.state.Current)
		st.Current = &cur
	}
	return st
}

// List загружает группы пользователя и публичные группы
func (s *Groups) List(ctx context.Context) error {
	seq := s.listSeq.next()
	s.begin()

	data, err := s.api.ListGroups(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.listSeq.latest(seq) {
		s.logger.Debug("Dropping stale group list response", "seq", seq)
		return err
	}

	s.state.IsLoading = false
	if err != nil {
		s.state.Error = clientapi.ErrorMessage(err)
		return err
	}
	s.state.MyGroups = data.MyGroups
	s.state.PublicGroups = data.PublicGroups
	return nil
}

// Get загружает группу, ее статистику и роль пользователя
func (s *Groups) Get(ctx context.Context, id string) error {
	if err := validation.ValidateID("group id", id); err != nil {
		return s.fail(err)
	}

	seq := s.curSeq.next()
	s.begin()

	data, err := s.api.GetGroup(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.curSeq.latest(seq) {
		s.logger.Debug("Dropping stale group response", "group_id", id, "seq", seq)
		return err
	}

	s.state.IsLoading = false
	if err != nil {
		s.state.Error = clientapi.ErrorMessage(err)
		return err
	}
	group := data.Group
	s.state.Current = &group
	s.state.Stats = data.Stats
	s.state.UserRole = data.UserRole
	return nil
}

// Create создает группу и добавляет ее в MyGroups
func (s *Groups) Create(ctx context.Context, req api.CreateGroupRequest) (*api.Group, error) {
	if err := validation.ValidateCreateGroup(req); err != nil {
		return nil, s.fail(err)
	}

	s.begin()
	group, err := s.api.CreateGroup(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.MyGroups = append(s.state.MyGroups, *group)
	s.mu.Unlock()
	return group, nil
}

// Update обновляет группу в MyGroups и в Current
func (s *Groups) Update(ctx context.Context, id string, req api.UpdateGroupRequest) (*api.Group, error) {
	if err := validation.ValidateID("group id", id); err != nil {
		return nil, s.fail(err)
	}
	if err := validation.ValidateUpdateGroup(req); err != nil {
		return nil, s.fail(err)
	}

	s.begin()
	group, err := s.api.UpdateGroup(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	for i := range s.state.MyGroups {
		if s.state.MyGroups[i].ID == id {
			s.state.MyGroups[i] = *group
		}
	}
	if s.state.Current != nil && s.state.Current.ID == id {
		updated := *group
		s.state.Current = &updated
	}
	s.mu.Unlock()
	return group, nil
}

// Join вступает в группу по инвайт-коду
func (s *Groups) Join(ctx context.Context, inviteCode string) (*api.Group, error) {
	if err := validation.ValidateID("invite code", inviteCode); err != nil {
		return nil, s.fail(err)
	}

	s.begin()
	group, err := s.api.JoinGroup(ctx, inviteCode)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.MyGroups = append(s.state.MyGroups, *group)
	s.mu.Unlock()
	return group, nil
}

// Leave выходит из группы
func (s *Groups) Leave(ctx context.Context, id string) error {
	if err := validation.ValidateID("group id", id); err != nil {
		return s.fail(err)
	}

	s.begin()
	if err := s.api.LeaveGroup(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.MyGroups = slices.DeleteFunc(s.state.MyGroups, func(g api.Group) bool { return g.ID == id })
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
		s.state.Stats = nil
		s.state.UserRole = ""
	}
	s.mu.Unlock()
	return nil
}

// AddMember добавляет участника по email и перечитывает группу
func (s *Groups) AddMember(ctx context.Context, id, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return s.fail(err)
	}
	return s.mutateMembers(ctx, id, func(ctx context.Context) error {
		return s.api.AddMember(ctx, id, email)
	})
}

// RemoveMember удаляет участника и перечитывает группу
func (s *Groups) RemoveMember(ctx context.Context, id, memberID string) error {
	if err := validation.ValidateID("member id", memberID); err != nil {
		return s.fail(err)
	}
	return s.mutateMembers(ctx, id, func(ctx context.Context) error {
		return s.api.RemoveMember(ctx, id, memberID)
	})
}

// PromoteToLeader повышает участника до лидера и перечитывает группу
func (s *Groups) PromoteToLeader(ctx context.Context, id, memberID string) error {
	if err := validation.ValidateID("member id", memberID); err != nil {
		return s.fail(err)
	}
	return s.mutateMembers(ctx, id, func(ctx context.Context) error {
		return s.api.PromoteToLeader(ctx, id, memberID)
	})
}

// DemoteToMember понижает лидера до участника и перечитывает группу
func (s *Groups) DemoteToMember(ctx context.Context, id, leaderID string) error {
	if err := validation.ValidateID("leader id", leaderID); err != nil {
		return s.fail(err)
	}
	return s.mutateMembers(ctx, id, func(ctx context.Context) error {
		return s.api.DemoteToMember(ctx, id, leaderID)
	})
}

// mutateMembers: изменение на сервере, затем полное перечитывание группы.
// Так работают операции с участниками и перевыпуск инвайт-кода.
func (s *Groups) mutateMembers(ctx context.Context, id string, mutate func(ctx context.Context) error) error {
	if err := validation.ValidateID("group id", id); err != nil {
		return s.fail(err)
	}

	s.begin()
	if err := mutate(ctx); err != nil {
		return s.fail(err)
	}
	return s.Get(ctx, id)
}

// RegenerateInviteCode выпускает новый инвайт-код и перечитывает группу целиком.
// Код возвращается и тогда, когда перечитать группу не удалось.
func (s *Groups) RegenerateInviteCode(ctx context.Context, id string) (string, error) {
	var code string
	err := s.mutateMembers(ctx, id, func(ctx context.Context) error {
		var err error
		code, err = s.api.RegenerateInviteCode(ctx, id)
		return err
	})
	return code, err
}

// Leaderboard загружает рейтинг участников группы
func (s *Groups) Leaderboard(ctx context.Context, id string) error {
	if err := validation.ValidateID("group id", id); err != nil {
		return s.fail(err)
	}

	seq := s.boardSeq.next()
	s.begin()

	board, err := s.api.Leaderboard(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.boardSeq.latest(seq) {
		s.logger.Debug("Dropping stale leaderboard response", "group_id", id, "seq", seq)
		return err
	}

	s.state.IsLoading = false
	if err != nil {
		s.state.Error = clientapi.ErrorMessage(err)
		return err
	}
	s.state.Leaderboard = board
	return nil
}

// ClearCurrent сбрасывает текущую группу
func (s *Groups) ClearCurrent() {
	s.mu.Lock()
	s.state.Current = nil
	s.state.Stats = nil
	s.state.UserRole = ""
	s.mu.Unlock()
}

// ClearError сбрасывает последнюю ошибку
func (s *Groups) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// Reset возвращает store в начальное состояние
func (s *Groups) Reset() {
	s.listSeq.next()
	s.curSeq.next()
	s.boardSeq.next()

	s.mu.Lock()
	s.state = GroupsState{}
	s.mu.Unlock()
}

func (s *Groups) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Groups) fail(err error) error {
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = clientapi.ErrorMessage(err)
	s.mu.Unlock()
	return err
}
