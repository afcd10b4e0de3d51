package api

import "encoding/json"

// События realtime канала
const (
	EventConnected   = "connected"
	EventTimerUpdate = "timer:update"
	EventTaskUpdate  = "task:update"
	EventGroupUpdate = "group:update"
)

// Event - кадр realtime канала: {"event": "...", "data": {...}}
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ConnectedData - первый кадр соединения с его идентификатором
type ConnectedData struct {
	ID string `json:"id"`
}

// TimerUpdate - изменение таймера пользователя
type TimerUpdate struct {
	Timer  *Timer `json:"timer,omitempty"`
	Action string `json:"action"` // started, completed
}

// TaskUpdate - изменение задачи
type TaskUpdate struct {
	Task   *Task  `json:"task,omitempty"`
	TaskID string `json:"taskId"`
	Action string `json:"action"` // created, updated, deleted
}

// GroupUpdate - изменение группы или ее состава
type GroupUpdate struct {
	GroupID string `json:"groupId"`
	Action  string `json:"action"`
}
