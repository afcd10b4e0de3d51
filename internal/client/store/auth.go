package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/internal/validation"
	"github.com/iudanet/tasktrack/pkg/api"
)

// AuthState - снимок состояния аутентификации
type AuthState struct {
	User            *api.User
	Error           string
	IsAuthenticated bool
	IsLoading       bool
}

// Auth хранит текущего пользователя. Токенами владеет SessionManager,
// Auth только инициирует вход и выход.
type Auth struct {
	api     AuthAPI
	session SessionManager
	logger  *slog.Logger
	state   AuthState
	mu      sync.RWMutex
}

// NewAuth создает auth store и подписывает его на очистку сессии:
// неудачный refresh сбрасывает пользователя и флаг входа.
func NewAuth(authAPI AuthAPI, session SessionManager, logger *slog.Logger) *Auth {
	a := &Auth{
		api:     authAPI,
		session: session,
		logger:  logger,
	}
	session.OnClear(a.reset)
	return a
}

// State возвращает копию состояния
func (a *Auth) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := a.state
	st.User = cloneUser(a.state.User)
	return st
}

// Rehydrate загружает сохраненную сессию
func (a *Auth) Rehydrate(ctx context.Context) error {
	s, err := a.session.Session(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.state.User = s.User
	a.state.IsAuthenticated = s.IsAuthenticated
	a.mu.Unlock()
	return nil
}

// Login выполняет вход и сохраняет пару токенов и пользователя
func (a *Auth) Login(ctx context.Context, email, password string) error {
	req := api.LoginRequest{Email: email, Password: password}
	if err := validation.ValidateLogin(req); err != nil {
		return a.fail(err)
	}

	a.begin()
	data, err := a.api.Login(ctx, req)
	if err != nil {
		return a.fail(err)
	}
	return a.establish(ctx, data)
}

// Register создает аккаунт и сразу выполняет вход
func (a *Auth) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := validation.ValidateRegister(req); err != nil {
		return a.fail(err)
	}

	a.begin()
	data, err := a.api.Register(ctx, req)
	if err != nil {
		return a.fail(err)
	}
	return a.establish(ctx, data)
}

func (a *Auth) establish(ctx context.Context, data *api.AuthData) error {
	user := data.User
	if err := a.session.Establish(ctx, data.Tokens, &user); err != nil {
		return a.fail(err)
	}

	a.mu.Lock()
	a.state = AuthState{User: &user, IsAuthenticated: true}
	a.mu.Unlock()

	a.logger.Info("Logged in", "user_id", user.ID)
	return nil
}

// Logout завершает сессию. Токены удаляются даже если сервер недоступен.
func (a *Auth) Logout(ctx context.Context) error {
	a.begin()

	if err := a.api.Logout(ctx); err != nil {
		// Локальный выход важнее серверного
		a.logger.Warn("Logout request failed", "error", err)
	}

	if err := a.session.Clear(ctx); err != nil {
		return a.fail(err)
	}

	a.reset()
	return nil
}

// FetchProfile обновляет пользователя с сервера.
// Без access token запрос не выполняется и ошибки нет.
func (a *Auth) FetchProfile(ctx context.Context) error {
	token, err := a.session.AccessToken(ctx)
	if err != nil {
		return a.fail(err)
	}
	if token == "" {
		return nil
	}

	a.begin()
	user, err := a.api.Profile(ctx)
	if err != nil {
		return a.fail(err)
	}

	if err := a.session.SaveSession(ctx, &storage.Session{User: user, IsAuthenticated: true}); err != nil {
		a.logger.Error("Failed to persist session", "error", err)
	}

	a.mu.Lock()
	a.state = AuthState{User: user, IsAuthenticated: true}
	a.mu.Unlock()
	return nil
}

// UpdateProfile обновляет профиль и перечитывает его
func (a *Auth) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) error {
	if req.FirstName != nil && *req.FirstName == "" {
		return a.fail(fmt.Errorf("%w: first name cannot be empty", validation.ErrInvalid))
	}

	a.begin()
	if _, err := a.api.UpdateProfile(ctx, req); err != nil {
		return a.fail(err)
	}
	return a.FetchProfile(ctx)
}

// ChangePassword меняет пароль пользователя
func (a *Auth) ChangePassword(ctx context.Context, current, next string) error {
	req := api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := validation.ValidateChangePassword(req); err != nil {
		return a.fail(err)
	}

	a.begin()
	if err := a.api.ChangePassword(ctx, req); err != nil {
		return a.fail(err)
	}
	a.done()
	return nil
}

// Dashboard возвращает сводку пользователя
func (a *Auth) Dashboard(ctx context.Context) (*api.Dashboard, error) {
	a.begin()
	d, err := a.api.Dashboard(ctx)
	if err != nil {
		return nil, a.fail(err)
	}
	a.done()
	return d, nil
}

// ClearError сбрасывает последнюю ошибку
func (a *Auth) ClearError() {
	a.mu.Lock()
	a.state.Error = ""
	a.mu.Unlock()
}

func (a *Auth) reset() {
	a.mu.Lock()
	a.state = AuthState{}
	a.mu.Unlock()
}

func (a *Auth) begin() {
	a.mu.Lock()
	a.state.IsLoading = true
	a.state.Error = ""
	a.mu.Unlock()
}

func (a *Auth) done() {
	a.mu.Lock()
	a.state.IsLoading = false
	a.mu.Unlock()
}

func (a *Auth) fail(err error) error {
	a.mu.Lock()
	a.state.IsLoading = false
	a.state.Error = clientapi.ErrorMessage(err)
	a.mu.Unlock()
	return err
}
