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

// TasksState - снимок кэша задач
type TasksState struct {
	Current    *api.Task
	Error      string
	Tasks      []api.Task
	Pagination api.Pagination
	IsLoading  bool
}

// Tasks - write-through кэш задач: локальное состояние меняется
// только после подтверждения сервера.
type Tasks struct {
	api     TaskAPI
	logger  *slog.Logger
	state   TasksState
	listSeq sequence
	curSeq  sequence
	mu      sync.RWMutex
}

// NewTasks создает task store
func NewTasks(taskAPI TaskAPI, logger *slog.Logger) *Tasks {
	return &Tasks{
		api:    taskAPI,
		logger: logger,
		state:  TasksState{Pagination: api.DefaultPagination()},
	}
}

// State возвращает копию состояния
func (s *Tasks) State() TasksState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Tasks = cloneTasks(s.state.Tasks)
	if s.state.Current != nil {
		cur := cloneTask(*s.state.Current)
		st.Current = &cur
	}
	return st
}

// List загружает страницу задач.
// Если за время запроса был выдан более новый List, ответ отбрасывается.
func (s *Tasks) List(ctx context.Context, filter api.TaskFilter) error {
	seq := s.listSeq.next()
	s.begin()

	tasks, page, err := s.api.ListTasks(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.listSeq.latest(seq) {
		s.logger.Debug("Dropping stale task list response", "seq", seq)
		return err
	}

	s.state.IsLoading = false
	if err != nil {
		s.state.Error = clientapi.ErrorMessage(err)
		return err
	}
	s.state.Tasks = tasks
	s.state.Pagination = page
	return nil
}

// Get загружает задачу в Current
func (s *Tasks) Get(ctx context.Context, id string) error {
	if err := validation.ValidateID("task id", id); err != nil {
		return s.fail(err)
	}

	seq := s.curSeq.next()
	s.begin()

	task, err := s.api.GetTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.curSeq.latest(seq) {
		s.logger.Debug("Dropping stale task response", "task_id", id, "seq", seq)
		return err
	}

	s.state.IsLoading = false
	if err != nil {
		s.state.Error = clientapi.ErrorMessage(err)
		return err
	}
	s.state.Current = task
	return nil
}

// Create создает задачу и добавляет ее в список
func (s *Tasks) Create(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error) {
	if err := validation.ValidateCreateTask(req); err != nil {
		return nil, s.fail(err)
	}

	s.begin()
	task, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Tasks = append(s.state.Tasks, *task)
	s.mu.Unlock()
	return task, nil
}

// Update обновляет задачу и заменяет ее в списке и в Current
func (s *Tasks) Update(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error) {
	if err := validation.ValidateID("task id", id); err != nil {
		return nil, s.fail(err)
	}
	if err := validation.ValidateUpdateTask(req); err != nil {
		return nil, s.fail(err)
	}

	s.begin()
	task, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	for i := range s.state.Tasks {
		if s.state.Tasks[i].ID == id {
			s.state.Tasks[i] = *task
		}
	}
	if s.state.Current != nil && s.state.Current.ID == id {
		updated := *task
		s.state.Current = &updated
	}
	s.mu.Unlock()
	return task, nil
}

// Delete удаляет задачу из списка и очищает Current, если это она
func (s *Tasks) Delete(ctx context.Context, id string) error {
	if err := validation.ValidateID("task id", id); err != nil {
		return s.fail(err)
	}

	s.begin()
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Tasks = slices.DeleteFunc(s.state.Tasks, func(t api.Task) bool { return t.ID == id })
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.mu.Unlock()
	return nil
}

// ClearCurrent сбрасывает Current
func (s *Tasks) ClearCurrent() {
	s.mu.Lock()
	s.state.Current = nil
	s.mu.Unlock()
}

// ClearError сбрасывает последнюю ошибку
func (s *Tasks) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// Reset возвращает store в начальное состояние (выход из аккаунта).
// Ответы на запросы, выданные до Reset, отбрасываются.
func (s *Tasks) Reset() {
	s.listSeq.next()
	s.curSeq.next()

	s.mu.Lock()
	s.state = TasksState{Pagination: api.DefaultPagination()}
	s.mu.Unlock()
}

func (s *Tasks) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Tasks) fail(err error) error {
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = clientapi.ErrorMessage(err)
	s.mu.Unlock()
	return err
}
