package api

import "time"

// Dashboard представляет сводку пользователя (GET /users/dashboard)
type Dashboard struct {
	ActiveTimer  *DashboardTimer `json:"activeTimer"`
	RecentTimers []Timer         `json:"recentTimers"`
	DailyStats   []DailyStat     `json:"dailyStats"`
	UserStats    UserStats       `json:"userStats"`
	TaskCounts   TaskCounts      `json:"taskCounts"`
}

// UserStats - личная статистика пользователя
type UserStats struct {
	TasksCompleted     int     `json:"tasksCompleted"`
	TaskCompletionRate float64 `json:"taskCompletionRate"`
	TotalTimeSpent     float64 `json:"totalTimeSpent"` // в минутах
}

// DashboardTimer - активный таймер в сводке
type DashboardTimer struct {
	StartTime time.Time `json:"startTime"`
	Task      Ref       `json:"task"`
	ID        string    `json:"_id"`
	Duration  float64   `json:"duration"`
}

// TaskCounts - количество задач по состояниям
type TaskCounts struct {
	Pending           int `json:"pending"`
	InProgress        int `json:"inProgress"`
	RecentlyCompleted int `json:"recentlyCompleted"`
}

// DailyStat - агрегат за день
type DailyStat struct {
	Date           string  `json:"date"`
	TotalTime      float64 `json:"totalTime"`
	TasksCompleted int     `json:"tasksCompleted"`
}
