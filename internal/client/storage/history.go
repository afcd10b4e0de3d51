package storage

import (
	"context"

	"github.com/iudanet/tasktrack/pkg/api"
)

// HistoryStorage - локальный архив завершенных и активных таймеров.
// Используется, когда API недоступен (timer history --cached).
type HistoryStorage interface {
	// SaveTimers upserts timers by id
	SaveTimers(ctx context.Context, timers []api.Timer) error

	// ListTimers returns timers ordered by start time desc.
	// Empty taskID means all tasks, limit <= 0 means no limit.
	ListTimers(ctx context.Context, taskID string, limit int) ([]api.Timer, error)
}
