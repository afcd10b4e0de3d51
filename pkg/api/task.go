package api

import "time"

// TaskStatus - статус задачи
type TaskStatus string

// TaskPriority - приоритет задачи
type TaskPriority string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"

	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid сообщает, известен ли статус
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Valid сообщает, известен ли приоритет
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task представляет задачу
type Task struct {
	CreatedAt     time.Time    `json:"createdAt"`
	Creator       Ref          `json:"creator"`
	Group         Ref          `json:"group"`
	ID            string       `json:"_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	DueDate       string       `json:"dueDate"`
	Tags          []string     `json:"tags"`
	Assignees     []Ref        `json:"assignees"`
	CompletedBy   []Ref        `json:"completedBy,omitempty"`
	EstimatedTime int          `json:"estimatedTime"` // в минутах
	ActiveTimers  int          `json:"activeTimers,omitempty"`
	TotalTimers   int          `json:"totalTimers,omitempty"`
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	GroupID       string       `json:"groupId"`
	DueDate       string       `json:"dueDate"`
	Priority      TaskPriority `json:"priority"`
	Tags          []string     `json:"tags,omitempty"`
	AssigneeIDs   []string     `json:"assigneeIds,omitempty"`
	EstimatedTime int          `json:"estimatedTime"`
}

// UpdateTaskRequest представляет частичное обновление задачи
type UpdateTaskRequest struct {
	Title         *string       `json:"title,omitempty"`
	Description   *string       `json:"description,omitempty"`
	EstimatedTime *int          `json:"estimatedTime,omitempty"`
	DueDate       *string       `json:"dueDate,omitempty"`
	Priority      *TaskPriority `json:"priority,omitempty"`
	Status        *TaskStatus   `json:"status,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	AssigneeIDs   []string      `json:"assigneeIds,omitempty"`
}

// TaskFilter - параметры фильтрации списка задач
type TaskFilter struct {
	GroupID  string
	Status   TaskStatus
	Priority TaskPriority
	Page     int
	Limit    int
}

// TasksData представляет data-часть ответа со списком задач
type TasksData struct {
	Tasks []Task `json:"tasks"`
}

// TaskData представляет data-часть ответа с одной задачей
type TaskData struct {
	Task Task `json:"task"`
}
