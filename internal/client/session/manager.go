package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/pkg/api"
)

// Manager - единственный источник истины для жизненного цикла токенов
// и флага "залогинен ли пользователь". HTTP клиент и auth store
// работают с токенами только через него.
type Manager struct {
	tokens    storage.TokenStorage
	sessions  storage.SessionStorage
	vault     *Vault
	logger    *slog.Logger
	listeners []func()
	mu        sync.Mutex
}

// NewManager создает менеджер сессии. vault может быть nil.
func NewManager(tokens storage.TokenStorage, sessions storage.SessionStorage, vault *Vault, logger *slog.Logger) *Manager {
	return &Manager{
		tokens:   tokens,
		sessions: sessions,
		vault:    vault,
		logger:   logger,
	}
}

// AccessToken возвращает access token или пустую строку, если пары нет
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	pair, err := m.load(ctx)
	if err != nil || pair == nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// RefreshToken возвращает refresh token или пустую строку, если пары нет
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	pair, err := m.load(ctx)
	if err != nil || pair == nil {
		return "", err
	}
	return pair.RefreshToken, nil
}

// Tokens возвращает расшифрованную пару или nil
func (m *Manager) Tokens(ctx context.Context) (*api.Tokens, error) {
	pair, err := m.load(ctx)
	if err != nil || pair == nil {
		return nil, err
	}
	return &api.Tokens{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// load читает пару и снимает шифрование
func (m *Manager) load(ctx context.Context) (*storage.TokenData, error) {
	stored, err := m.tokens.GetTokens(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokensNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	access, err := m.vault.Open(stored.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	refresh, err := m.vault.Open(stored.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return &storage.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

// Establish сохраняет обе части пары и сессию {user, isAuthenticated: true}
func (m *Manager) Establish(ctx context.Context, tokens api.Tokens, user *api.User) error {
	access, err := m.vault.Seal(tokens.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh, err := m.vault.Seal(tokens.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	if err := m.tokens.SaveTokens(ctx, &storage.TokenData{AccessToken: access, RefreshToken: refresh}); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	if err := m.SaveSession(ctx, &storage.Session{User: user, IsAuthenticated: true}); err != nil {
		return err
	}

	m.logger.Debug("Session established", "user_id", userID(user))
	return nil
}

// UpdateAccessToken переписывает только access token (после refresh)
func (m *Manager) UpdateAccessToken(ctx context.Context, accessToken string) error {
	sealed, err := m.vault.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	if err := m.tokens.SaveAccessToken(ctx, sealed); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	return nil
}

// SaveSession сохраняет персистентную часть auth store
func (m *Manager) SaveSession(ctx context.Context, s *storage.Session) error {
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Session возвращает сохраненную сессию; отсутствие сессии - пустая сессия
func (m *Manager) Session(ctx context.Context) (*storage.Session, error) {
	s, err := m.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return &storage.Session{}, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// Clear удаляет обе части пары и сессию, затем уведомляет подписчиков.
// Подписчики уведомляются даже если хранилище вернуло ошибку:
// состояние в памяти не должно считать пользователя залогиненным.
func (m *Manager) Clear(ctx context.Context) error {
	errTokens := m.tokens.DeleteTokens(ctx)
	errSession := m.sessions.DeleteSession(ctx)

	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	if errTokens != nil {
		return fmt.Errorf("failed to delete tokens: %w", errTokens)
	}
	if errSession != nil {
		return fmt.Errorf("failed to delete session: %w", errSession)
	}

	m.logger.Debug("Session cleared")
	return nil
}

// OnClear регистрирует обработчик, вызываемый после Clear
func (m *Manager) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Claims разбирает текущий access token
// Возвращает nil, nil если пользователь не залогинен
func (m *Manager) Claims(ctx context.Context) (*Claims, error) {
	token, err := m.AccessToken(ctx)
	if err != nil || token == "" {
		return nil, err
	}
	return ParseClaims(token)
}

func userID(u *api.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
