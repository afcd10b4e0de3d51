package apitest

import (
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/tasktrack/pkg/api"
)

func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Server) addGroupLocked(leaderID string, req api.CreateGroupRequest) *api.Group {
	leader := s.userRef(leaderID)
	g := &api.Group{
		ID:          newID(),
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Creator:     leader,
		Leaders:     []api.Ref{leader},
		Members:     []api.Ref{leader},
		InviteCode:  newInviteCode(),
		CreatedAt:   s.clock.Now(),
	}
	s.groups[g.ID] = g
	if rec, ok := s.users[leaderID]; ok {
		rec.user.Groups = append(rec.user.Groups, g.ID)
	}
	return g
}

func (s *Server) isLeaderLocked(groupID, uid string) bool {
	g, ok := s.groups[groupID]
	if !ok {
		return false
	}
	return slices.ContainsFunc(g.Leaders, func(r api.Ref) bool { return r.ID == uid })
}

func (s *Server) roleLocked(g *api.Group, uid string) api.GroupRole {
	switch {
	case s.isLeaderLocked(g.ID, uid):
		return api.GroupRoleLeader
	case g.HasMember(uid):
		return api.GroupRoleMember
	default:
		return api.GroupRoleGuest
	}
}

// lookupGroupLocked находит группу; приватную группу видят только участники
func (s *Server) lookupGroupLocked(w http.ResponseWriter, r *http.Request) (*api.Group, bool) {
	g, ok := s.groups[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return nil, false
	}
	if !g.IsPublic && !g.HasMember(userID(r)) {
		writeError(w, http.StatusForbidden, "Not authorized to access this group")
		return nil, false
	}
	return g, true
}

// leaderGroupLocked находит группу, где текущий пользователь лидер
func (s *Server) leaderGroupLocked(w http.ResponseWriter, r *http.Request) (*api.Group, bool) {
	g, ok := s.lookupGroupLocked(w, r)
	if !ok {
		return nil, false
	}
	if !s.isLeaderLocked(g.ID, userID(r)) {
		writeError(w, http.StatusForbidden, "Only group leaders can perform this action")
		return nil, false
	}
	return g, true
}

func (s *Server) groupStatsLocked(groupID string) *api.GroupStats {
	stats := &api.GroupStats{}
	for _, t := range s.tasks {
		if t.Group.ID != groupID {
			continue
		}
		switch t.Status {
		case api.TaskStatusPending:
			stats.PendingTasks++
		case api.TaskStatusInProgress:
			stats.InProgressTasks++
		case api.TaskStatusCompleted:
			stats.CompletedTasks++
		}
		stats.ActiveTimers += t.ActiveTimers
	}
	return stats
}

func sortGroups(groups []api.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt) ||
			groups[i].CreatedAt.Equal(groups[j].CreatedAt) && groups[i].ID < groups[j].ID
	})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	data := api.GroupsData{MyGroups: []api.Group{}, PublicGroups: []api.Group{}}
	for _, g := range s.groups {
		switch {
		case g.HasMember(uid):
			cp := *g
			cp.Role = s.roleLocked(g, uid)
			data.MyGroups = append(data.MyGroups, cp)
		case g.IsPublic:
			cp := *g
			cp.InviteCode = ""
			data.PublicGroups = append(data.PublicGroups, cp)
		}
	}
	sortGroups(data.MyGroups)
	sortGroups(data.PublicGroups)

	writeJSON(w, http.StatusOK, data, nil)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGroupRequest
	if !decode(r, &req) || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Group name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.addGroupLocked(userID(r), req)
	writeJSON(w, http.StatusCreated, api.GroupData{Group: *g, UserRole: api.GroupRoleLeader}, nil)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.lookupGroupLocked(w, r)
	if !ok {
		return
	}
	role := s.roleLocked(g, userID(r))
	cp := *g
	if role == api.GroupRoleGuest {
		cp.InviteCode = ""
	}
	writeJSON(w, http.StatusOK, api.GroupData{
		Group:    cp,
		Stats:    s.groupStatsLocked(g.ID),
		UserRole: role,
	}, nil)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateGroupRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.IsPublic != nil {
		g.IsPublic = *req.IsPublic
	}
	if req.Avatar != nil {
		g.Avatar = *req.Avatar
	}

	s.broadcastLocked(api.EventGroupUpdate, api.GroupUpdate{GroupID: g.ID, Action: "updated"}, "")
	writeJSON(w, http.StatusOK, api.GroupData{Group: *g}, nil)
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req api.JoinGroupRequest
	if !decode(r, &req) || req.InviteCode == "" {
		writeError(w, http.StatusBadRequest, "Invite code is required")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.InviteCode != req.InviteCode {
			continue
		}
		if g.HasMember(uid) {
			writeError(w, http.StatusBadRequest, "You are already a member of this group")
			return
		}
		g.Members = append(g.Members, s.userRef(uid))
		s.users[uid].user.Groups = append(s.users[uid].user.Groups, g.ID)

		s.broadcastLocked(api.EventGroupUpdate, api.GroupUpdate{GroupID: g.ID, Action: "member-joined"}, "")
		writeJSON(w, http.StatusOK, api.GroupData{Group: *g, UserRole: api.GroupRoleMember}, nil)
		return
	}
	writeError(w, http.StatusNotFound, "Invalid invite code")
}

// removeMemberLocked убирает пользователя из участников и лидеров
func (s *Server) removeMemberLocked(g *api.Group, uid string) {
	byID := func(r api.Ref) bool { return r.ID == uid }
	g.Members = slices.DeleteFunc(g.Members, byID)
	g.Leaders = slices.DeleteFunc(g.Leaders, byID)
	if rec, ok := s.users[uid]; ok {
		rec.user.Groups = slices.DeleteFunc(rec.user.Groups, func(id string) bool { return id == g.ID })
	}
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[r.PathValue("id")]
	if !ok || !g.HasMember(uid) {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	if s.isLeaderLocked(g.ID, uid) && len(g.Leaders) == 1 && len(g.Members) > 1 {
		writeError(w, http.StatusBadRequest, "Promote another leader before leaving the group")
		return
	}

	s.removeMemberLocked(g, uid)
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req api.AddMemberRequest
	if !decode(r, &req) || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}

	for id, rec := range s.users {
		if rec.user.Email != strings.ToLower(req.Email) {
			continue
		}
		if g.HasMember(id) {
			writeError(w, http.StatusBadRequest, "User is already a member of this group")
			return
		}
		g.Members = append(g.Members, s.userRef(id))
		rec.user.Groups = append(rec.user.Groups, g.ID)
		writeJSON[any](w, http.StatusOK, nil, nil)
		return
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}
	memberID := r.PathValue("memberId")
	if !g.HasMember(memberID) {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}

	s.removeMemberLocked(g, memberID)
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}
	memberID := r.PathValue("memberId")
	if !g.HasMember(memberID) {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	if s.isLeaderLocked(g.ID, memberID) {
		writeError(w, http.StatusBadRequest, "User is already a leader")
		return
	}

	g.Leaders = append(g.Leaders, s.userRef(memberID))
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handleDemote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}
	leaderID := r.PathValue("leaderId")
	if !s.isLeaderLocked(g.ID, leaderID) {
		writeError(w, http.StatusNotFound, "Leader not found")
		return
	}
	if len(g.Leaders) == 1 {
		writeError(w, http.StatusBadRequest, "A group must have at least one leader")
		return
	}

	g.Leaders = slices.DeleteFunc(g.Leaders, func(r api.Ref) bool { return r.ID == leaderID })
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.leaderGroupLocked(w, r)
	if !ok {
		return
	}
	g.InviteCode = newInviteCode()
	writeJSON(w, http.StatusOK, api.InviteData{InviteCode: g.InviteCode}, nil)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.lookupGroupLocked(w, r)
	if !ok {
		return
	}

	board := make([]api.LeaderboardEntry, 0, len(g.Members))
	for _, m := range g.Members {
		e := api.LeaderboardEntry{User: s.userRef(m.ID), IsLeader: s.isLeaderLocked(g.ID, m.ID)}
		assigned := 0
		for _, t := range s.tasks {
			if t.Group.ID != g.ID {
				continue
			}
			assigned++
			if slices.ContainsFunc(t.CompletedBy, func(r api.Ref) bool { return r.ID == m.ID }) {
				e.TasksCompleted++
			}
		}
		for _, t := range s.timers {
			if t.User.ID == m.ID && t.Duration != nil {
				if task, ok := s.tasks[t.Task.ID]; ok && task.Group.ID == g.ID {
					e.TotalTime += *t.Duration
				}
			}
		}
		if assigned > 0 {
			e.CompletionRate = float64(e.TasksCompleted) / float64(assigned) * 100
		}
		board = append(board, e)
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TasksCompleted > board[j].TasksCompleted
	})

	writeJSON(w, http.StatusOK, api.LeaderboardData{Leaderboard: board}, nil)
}
