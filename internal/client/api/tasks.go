package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/tasktrack/pkg/api"
)

// ListTasks возвращает страницу задач по фильтру
func (c *Client) ListTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, api.Pagination, error) {
	query := url.Values{}
	if filter.GroupID != "" {
		query.Set("groupId", filter.GroupID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	env, err := get[api.TasksData](ctx, c, "/tasks", query)
	if err != nil {
		return nil, api.Pagination{}, fmt.Errorf("list tasks request failed: %w", err)
	}
	return env.Data.Tasks, pagination(env), nil
}

// GetTask возвращает задачу по id
func (c *Client) GetTask(ctx context.Context, id string) (*api.Task, error) {
	env, err := get[api.TaskData](ctx, c, "/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get task request failed: %w", err)
	}
	return &env.Data.Task, nil
}

// CreateTask создает задачу
func (c *Client) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error) {
	env, err := exchange[api.TaskData](ctx, c, http.MethodPost, "/tasks", req)
	if err != nil {
		return nil, fmt.Errorf("create task request failed: %w", err)
	}
	return &env.Data.Task, nil
}

// UpdateTask частично обновляет задачу
func (c *Client) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error) {
	env, err := exchange[api.TaskData](ctx, c, http.MethodPatch, "/tasks/"+url.PathEscape(id), req)
	if err != nil {
		return nil, fmt.Errorf("update task request failed: %w", err)
	}
	return &env.Data.Task, nil
}

// DeleteTask удаляет задачу
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if _, err := exchange[any](ctx, c, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete task request failed: %w", err)
	}
	return nil
}
