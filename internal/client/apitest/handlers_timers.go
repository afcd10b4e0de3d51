package apitest

import (
	"net/http"

	"github.com/iudanet/tasktrack/pkg/api"
)

func (s *Server) handleActiveTimer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.activeTimerLocked(userID(r))
	if t == nil {
		writeError(w, http.StatusNotFound, "No active timer found")
		return
	}
	writeJSON(w, http.StatusOK, api.TimerData{Timer: t}, nil)
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req api.StartTimerRequest
	if !decode(r, &req) || req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "Task ID is required")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[req.TaskID]
	if !ok || !s.canSeeTaskLocked(uid, task) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if s.activeTimerLocked(uid) != nil {
		writeError(w, http.StatusBadRequest, "You already have an active timer")
		return
	}

	t := &api.Timer{
		ID:        newID(),
		Task:      api.Ref{ID: task.ID, Title: task.Title},
		User:      s.userRef(uid),
		StartTime: s.clock.Now(),
		IsActive:  true,
	}
	s.timers = append(s.timers, t)
	task.ActiveTimers++
	task.TotalTimers++
	if task.Status == api.TaskStatusPending {
		task.Status = api.TaskStatusInProgress
	}

	s.broadcastLocked(api.EventTimerUpdate, api.TimerUpdate{Timer: t, Action: "started"}, req.SocketID)
	writeJSON(w, http.StatusCreated, api.TimerData{Timer: t}, nil)
}

func (s *Server) handleCompleteTimer(w http.ResponseWriter, r *http.Request) {
	var req api.CompleteTimerRequest
	_ = decode(r, &req)
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.activeTimerLocked(uid)
	if t == nil {
		writeError(w, http.StatusNotFound, "No active timer found")
		return
	}

	end := s.clock.Now()
	duration := end.Sub(t.StartTime).Minutes()
	completed := true
	t.EndTime = &end
	t.Duration = &duration
	t.IsActive = false
	t.IsCompleted = &completed
	t.Notes = req.Notes

	if task, ok := s.tasks[t.Task.ID]; ok {
		if task.ActiveTimers > 0 {
			task.ActiveTimers--
		}
		onTime := duration <= float64(task.EstimatedTime)
		t.CompletedOnTime = &onTime
	}
	if rec, ok := s.users[uid]; ok {
		rec.user.TotalTimeSpent += duration
	}

	s.broadcastLocked(api.EventTimerUpdate, api.TimerUpdate{Timer: t, Action: "completed"}, req.SocketID)
	writeJSON(w, http.StatusOK, api.TimerData{Timer: t}, nil)
}

func (s *Server) handleUserTimers(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	timers := make([]api.Timer, 0)
	for _, t := range s.timers {
		if t.User.ID == uid {
			timers = append(timers, *t)
		}
	}
	sortTimersDesc(timers)

	page, meta := paginate(r, timers)
	writeJSON(w, http.StatusOK, api.TimersData{Timers: page}, meta)
}

func (s *Server) handleTaskTimers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.lookupTaskLocked(w, r)
	if !ok {
		return
	}

	timers := make([]api.Timer, 0)
	for _, t := range s.timers {
		if t.Task.ID == task.ID {
			timers = append(timers, *t)
		}
	}
	sortTimersDesc(timers)

	page, meta := paginate(r, timers)
	writeJSON(w, http.StatusOK, api.TimersData{Timers: page}, meta)
}
