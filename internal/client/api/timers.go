package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/tasktrack/pkg/api"
)

// ActiveTimer возвращает активный таймер или nil, если его нет.
// 404 от сервера тоже означает "таймера нет".
func (c *Client) ActiveTimer(ctx context.Context) (*api.Timer, error) {
	env, err := get[api.TimerData](ctx, c, "/timers/active", nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("active timer request failed: %w", err)
	}
	return env.Data.Timer, nil
}

// StartTimer запускает таймер по задаче
func (c *Client) StartTimer(ctx context.Context, req api.StartTimerRequest) (*api.Timer, error) {
	env, err := exchange[api.TimerData](ctx, c, http.MethodPost, "/timers/start", req)
	if err != nil {
		return nil, fmt.Errorf("start timer request failed: %w", err)
	}
	if env.Data.Timer == nil {
		return nil, fmt.Errorf("start timer response has no timer")
	}
	return env.Data.Timer, nil
}

// CompleteTimer завершает активный таймер
func (c *Client) CompleteTimer(ctx context.Context, req api.CompleteTimerRequest) (*api.Timer, error) {
	env, err := exchange[api.TimerData](ctx, c, http.MethodPost, "/timers/complete", req)
	if err != nil {
		return nil, fmt.Errorf("complete timer request failed: %w", err)
	}
	return env.Data.Timer, nil
}

// TimerHistory возвращает историю таймеров пользователя или конкретной задачи
func (c *Client) TimerHistory(ctx context.Context, taskID string) ([]api.Timer, api.Pagination, error) {
	path := "/users/timers"
	if taskID != "" {
		path = "/timers/task/" + url.PathEscape(taskID)
	}

	env, err := get[api.TimersData](ctx, c, path, nil)
	if err != nil {
		return nil, api.Pagination{}, fmt.Errorf("timer history request failed: %w", err)
	}
	return env.Data.Timers, pagination(env), nil
}
