package api

import "time"

// Timer представляет сессию учета времени
type Timer struct {
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Duration        *float64   `json:"duration,omitempty"` // в минутах
	IsCompleted     *bool      `json:"isCompleted,omitempty"`
	CompletedOnTime *bool      `json:"completedOnTime,omitempty"`
	Task            Ref        `json:"task"`
	User            Ref        `json:"user,omitempty"`
	ID              string     `json:"_id"`
	Notes           string     `json:"notes,omitempty"`
	IsActive        bool       `json:"isActive"`
}

// TimerData представляет data-часть ответа с таймером
// Timer == nil означает, что активного таймера нет
type TimerData struct {
	Timer *Timer `json:"timer"`
}

// TimersData представляет data-часть ответа с историей таймеров
type TimersData struct {
	Timers []Timer `json:"timers"`
}

// StartTimerRequest представляет запрос на запуск таймера
type StartTimerRequest struct {
	TaskID   string `json:"taskId"`
	SocketID string `json:"socketId,omitempty"`
}

// CompleteTimerRequest представляет запрос на завершение таймера
type CompleteTimerRequest struct {
	Notes    string `json:"notes,omitempty"`
	SocketID string `json:"socketId,omitempty"`
}
