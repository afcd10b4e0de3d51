package storage

import (
	"context"

	"github.com/iudanet/tasktrack/pkg/api"
)

// SessionStorage defines interface for the persisted auth session subset
type SessionStorage interface {
	// SaveSession stores user and authentication flag
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if nothing was persisted
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the persisted session
	DeleteSession(ctx context.Context) error
}

// Session is the persisted part of the auth store
type Session struct {
	User            *api.User `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}
