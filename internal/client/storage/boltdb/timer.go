package boltdb

import (
	"context"
	"fmt"

	"github.com/iudanet/tasktrack/internal/client/storage"
)

var timerKey = []byte("timer-storage")

// SaveTimerSession stores the timer session as JSON
func (s *Storage) SaveTimerSession(ctx context.Context, session *storage.TimerSession) error {
	if session == nil {
		return fmt.Errorf("timer session is nil")
	}
	return s.putJSON(bucketTimer, timerKey, session)
}

// GetTimerSession retrieves the persisted timer session
func (s *Storage) GetTimerSession(ctx context.Context) (*storage.TimerSession, error) {
	session := &storage.TimerSession{}
	if err := s.getJSON(bucketTimer, timerKey, session, storage.ErrTimerSessionNotFound); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteTimerSession removes the persisted timer session
func (s *Storage) DeleteTimerSession(ctx context.Context) error {
	return s.delete(bucketTimer, timerKey)
}
