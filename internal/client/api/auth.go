package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/tasktrack/pkg/api"
)

// Register регистрирует нового пользователя и возвращает пользователя с парой токенов
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthData, error) {
	var env api.Envelope[api.AuthData]
	err := c.doRequest(ctx, call{method: http.MethodPost, path: "/auth/register", body: req, result: &env, public: true})
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &env.Data, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthData, error) {
	var env api.Envelope[api.AuthData]
	err := c.doRequest(ctx, call{method: http.MethodPost, path: "/auth/login", body: req, result: &env, public: true})
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &env.Data, nil
}

// Logout завершает сессию на сервере
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, call{method: http.MethodPost, path: "/auth/logout"}); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Profile возвращает профиль текущего пользователя
func (c *Client) Profile(ctx context.Context) (*api.User, error) {
	env, err := get[struct {
		User api.User `json:"user"`
	}](ctx, c, "/auth/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &env.Data.User, nil
}
