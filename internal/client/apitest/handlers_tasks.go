package apitest

import (
	"net/http"
	"sort"

	"github.com/iudanet/tasktrack/pkg/api"
)

func (s *Server) addTaskLocked(creatorID string, req api.CreateTaskRequest) *api.Task {
	t := &api.Task{
		ID:            newID(),
		Title:         req.Title,
		Description:   req.Description,
		Creator:       s.userRef(creatorID),
		Group:         api.Ref{ID: req.GroupID},
		Status:        api.TaskStatusPending,
		Priority:      req.Priority,
		EstimatedTime: req.EstimatedTime,
		DueDate:       req.DueDate,
		Tags:          append([]string{}, req.Tags...),
		Assignees:     []api.Ref{},
		CreatedAt:     s.clock.Now(),
	}
	if g, ok := s.groups[req.GroupID]; ok {
		t.Group.Name = g.Name
	}
	for _, id := range req.AssigneeIDs {
		t.Assignees = append(t.Assignees, s.userRef(id))
	}
	s.tasks[t.ID] = t
	return t
}

// canSeeTaskLocked: задачу видят участники ее группы
func (s *Server) canSeeTaskLocked(uid string, t *api.Task) bool {
	g, ok := s.groups[t.Group.ID]
	return ok && g.HasMember(uid)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]api.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !s.canSeeTaskLocked(uid, t) {
			continue
		}
		if v := q.Get("groupId"); v != "" && t.Group.ID != v {
			continue
		}
		if v := q.Get("status"); v != "" && string(t.Status) != v {
			continue
		}
		if v := q.Get("priority"); v != "" && string(t.Priority) != v {
			continue
		}
		tasks = append(tasks, *t)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) ||
			tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) && tasks[i].ID < tasks[j].ID
	})

	page, meta := paginate(r, tasks)
	writeJSON(w, http.StatusOK, api.TasksData{Tasks: page}, meta)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if !decode(r, &req) || req.Title == "" || req.GroupID == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[req.GroupID]
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	if !g.HasMember(userID(r)) {
		writeError(w, http.StatusForbidden, "Not a member of this group")
		return
	}

	t := s.addTaskLocked(userID(r), req)
	g.TotalTasks++
	s.broadcastLocked(api.EventTaskUpdate, api.TaskUpdate{Task: t, TaskID: t.ID, Action: "created"}, "")
	writeJSON(w, http.StatusCreated, api.TaskData{Task: *t}, nil)
}

// lookupTaskLocked находит видимую пользователю задачу или пишет 404
func (s *Server) lookupTaskLocked(w http.ResponseWriter, r *http.Request) (*api.Task, bool) {
	t, ok := s.tasks[r.PathValue("id")]
	if !ok || !s.canSeeTaskLocked(userID(r), t) {
		writeError(w, http.StatusNotFound, "Task not found")
		return nil, false
	}
	return t, true
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lookupTaskLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.TaskData{Task: *t}, nil)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateTaskRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lookupTaskLocked(w, r)
	if !ok {
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.EstimatedTime != nil {
		t.EstimatedTime = *req.EstimatedTime
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		if *req.Status == api.TaskStatusCompleted && t.Status != api.TaskStatusCompleted {
			t.CompletedBy = append(t.CompletedBy, s.userRef(userID(r)))
			if g, ok := s.groups[t.Group.ID]; ok {
				g.CompletedTasks++
			}
		}
		t.Status = *req.Status
	}
	if req.Tags != nil {
		t.Tags = req.Tags
	}
	if req.AssigneeIDs != nil {
		t.Assignees = t.Assignees[:0]
		for _, id := range req.AssigneeIDs {
			t.Assignees = append(t.Assignees, s.userRef(id))
		}
	}

	s.broadcastLocked(api.EventTaskUpdate, api.TaskUpdate{Task: t, TaskID: t.ID, Action: "updated"}, "")
	writeJSON(w, http.StatusOK, api.TaskData{Task: *t}, nil)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lookupTaskLocked(w, r)
	if !ok {
		return
	}
	if t.Creator.ID != userID(r) && !s.isLeaderLocked(t.Group.ID, userID(r)) {
		writeError(w, http.StatusForbidden, "Not allowed to delete this task")
		return
	}

	delete(s.tasks, t.ID)
	if g, ok := s.groups[t.Group.ID]; ok && g.TotalTasks > 0 {
		g.TotalTasks--
	}
	s.broadcastLocked(api.EventTaskUpdate, api.TaskUpdate{TaskID: t.ID, Action: "deleted"}, "")
	writeJSON[any](w, http.StatusOK, nil, nil)
}
