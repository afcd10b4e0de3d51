package storage

import (
	"context"
	"time"

	"github.com/iudanet/tasktrack/pkg/api"
)

// TimerStorage defines interface for the persisted timer session
type TimerStorage interface {
	// SaveTimerSession stores the persisted subset of the timer store
	SaveTimerSession(ctx context.Context, session *TimerSession) error

	// GetTimerSession returns ErrTimerSessionNotFound if nothing was persisted
	GetTimerSession(ctx context.Context) (*TimerSession, error)

	// DeleteTimerSession removes the persisted timer session
	DeleteTimerSession(ctx context.Context) error
}

// TimerSession holds exactly the fields of the timer store that survive a restart.
// ElapsedTime is informational only: after a restart it is recomputed from StartTime.
type TimerSession struct {
	ActiveTimer *api.Timer `json:"activeTimer"`
	StartTime   *time.Time `json:"startTime"`
	ElapsedTime int64      `json:"elapsedTime"` // в секундах
	IsRunning   bool       `json:"isRunning"`
}
