package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/tasktrack/pkg/api"
)

// UpdateProfile частично обновляет профиль
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error) {
	env, err := exchange[struct {
		User api.User `json:"user"`
	}](ctx, c, http.MethodPatch, "/users/profile", req)
	if err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &env.Data.User, nil
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	if _, err := exchange[any](ctx, c, http.MethodPost, "/users/change-password", req); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// Dashboard возвращает сводку пользователя
func (c *Client) Dashboard(ctx context.Context) (*api.Dashboard, error) {
	env, err := get[api.Dashboard](ctx, c, "/users/dashboard", nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard request failed: %w", err)
	}
	return &env.Data, nil
}
