package apitest

import (
	"net/http"
	"strings"

	"github.com/iudanet/tasktrack/pkg/api"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(r, &req) || req.Email == "" || req.Password == "" || req.FirstName == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if rec.user.Email == strings.ToLower(req.Email) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
	}

	u := s.addUserLocked(req.FirstName, req.LastName, req.Email, req.Password)
	tokens, err := s.issueTokensLocked(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, api.AuthData{User: u, Tokens: tokens}, nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if rec.user.Email == strings.ToLower(req.Email) && rec.password == req.Password {
			tokens, err := s.issueTokensLocked(rec.user)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, api.AuthData{User: rec.user, Tokens: tokens}, nil)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if !decode(r, &req) || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uid, ok := s.refreshTokens[req.RefreshToken]
	if !ok || s.failRefresh {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	rec := s.users[uid]
	access, err := generateAccessToken(s.jwt, uid, rec.user.Email, s.generation, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.RefreshData{AccessToken: access}, nil)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, owner := range s.refreshTokens {
		if owner == uid {
			delete(s.refreshTokens, token)
		}
	}
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, struct {
		User api.User `json:"user"`
	}{User: s.users[userID(r)].user}, nil)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.users[userID(r)]
	if req.FirstName != nil {
		rec.user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		rec.user.LastName = *req.LastName
	}
	if req.Bio != nil {
		rec.user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		rec.user.Avatar = *req.Avatar
	}
	writeJSON(w, http.StatusOK, struct {
		User api.User `json:"user"`
	}{User: rec.user}, nil)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req api.ChangePasswordRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.users[userID(r)]
	if rec.password != req.CurrentPassword {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	rec.password = req.NewPassword
	writeJSON[any](w, http.StatusOK, nil, nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	var d api.Dashboard
	for _, t := range s.tasks {
		if !s.canSeeTaskLocked(uid, t) {
			continue
		}
		switch t.Status {
		case api.TaskStatusPending:
			d.TaskCounts.Pending++
		case api.TaskStatusInProgress:
			d.TaskCounts.InProgress++
		case api.TaskStatusCompleted:
			d.TaskCounts.RecentlyCompleted++
		}
	}

	recent := make([]api.Timer, 0)
	for _, t := range s.timers {
		if t.User.ID != uid {
			continue
		}
		if t.IsActive {
			d.ActiveTimer = &api.DashboardTimer{
				ID:        t.ID,
				Task:      t.Task,
				StartTime: t.StartTime,
				Duration:  s.clock.Now().Sub(t.StartTime).Minutes(),
			}
			continue
		}
		recent = append(recent, *t)
		if t.Duration != nil {
			d.UserStats.TotalTimeSpent += *t.Duration
		}
	}
	sortTimersDesc(recent)
	d.RecentTimers = recent[:min(len(recent), 5)]
	d.UserStats.TasksCompleted = d.TaskCounts.RecentlyCompleted
	if total := d.TaskCounts.Pending + d.TaskCounts.InProgress + d.TaskCounts.RecentlyCompleted; total > 0 {
		d.UserStats.TaskCompletionRate = float64(d.TaskCounts.RecentlyCompleted) / float64(total) * 100
	}
	d.DailyStats = []api.DailyStat{}

	writeJSON(w, http.StatusOK, d, nil)
}
