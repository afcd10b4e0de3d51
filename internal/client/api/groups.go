package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/tasktrack/pkg/api"
)

func groupPath(id string, parts ...string) string {
	p := "/groups/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// ListGroups возвращает группы пользователя и публичные группы
func (c *Client) ListGroups(ctx context.Context) (*api.GroupsData, error) {
	env, err := get[api.GroupsData](ctx, c, "/groups", nil)
	if err != nil {
		return nil, fmt.Errorf("list groups request failed: %w", err)
	}
	return &env.Data, nil
}

// GetGroup возвращает группу со статистикой и ролью пользователя
func (c *Client) GetGroup(ctx context.Context, id string) (*api.GroupData, error) {
	env, err := get[api.GroupData](ctx, c, groupPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get group request failed: %w", err)
	}
	return &env.Data, nil
}

// CreateGroup создает группу
func (c *Client) CreateGroup(ctx context.Context, req api.CreateGroupRequest) (*api.Group, error) {
	env, err := exchange[api.GroupData](ctx, c, http.MethodPost, "/groups", req)
	if err != nil {
		return nil, fmt.Errorf("create group request failed: %w", err)
	}
	return &env.Data.Group, nil
}

// UpdateGroup частично обновляет группу
func (c *Client) UpdateGroup(ctx context.Context, id string, req api.UpdateGroupRequest) (*api.Group, error) {
	env, err := exchange[api.GroupData](ctx, c, http.MethodPatch, groupPath(id), req)
	if err != nil {
		return nil, fmt.Errorf("update group request failed: %w", err)
	}
	return &env.Data.Group, nil
}

// JoinGroup вступает в группу по инвайт-коду
func (c *Client) JoinGroup(ctx context.Context, inviteCode string) (*api.Group, error) {
	env, err := exchange[api.GroupData](ctx, c, http.MethodPost, "/groups/join", api.JoinGroupRequest{InviteCode: inviteCode})
	if err != nil {
		return nil, fmt.Errorf("join group request failed: %w", err)
	}
	return &env.Data.Group, nil
}

// LeaveGroup выходит из группы
func (c *Client) LeaveGroup(ctx context.Context, id string) error {
	if _, err := exchange[any](ctx, c, http.MethodDelete, groupPath(id, "members", "me"), nil); err != nil {
		return fmt.Errorf("leave group request failed: %w", err)
	}
	return nil
}

// AddMember добавляет участника по email
func (c *Client) AddMember(ctx context.Context, id, email string) error {
	if _, err := exchange[any](ctx, c, http.MethodPost, groupPath(id, "members"), api.AddMemberRequest{Email: email}); err != nil {
		return fmt.Errorf("add member request failed: %w", err)
	}
	return nil
}

// RemoveMember удаляет участника из группы
func (c *Client) RemoveMember(ctx context.Context, id, memberID string) error {
	if _, err := exchange[any](ctx, c, http.MethodDelete, groupPath(id, "members", url.PathEscape(memberID)), nil); err != nil {
		return fmt.Errorf("remove member request failed: %w", err)
	}
	return nil
}

// PromoteToLeader делает участника лидером
func (c *Client) PromoteToLeader(ctx context.Context, id, memberID string) error {
	if _, err := exchange[any](ctx, c, http.MethodPost, groupPath(id, "members", url.PathEscape(memberID), "promote"), nil); err != nil {
		return fmt.Errorf("promote member request failed: %w", err)
	}
	return nil
}

// DemoteToMember снимает с лидера роль лидера
func (c *Client) DemoteToMember(ctx context.Context, id, leaderID string) error {
	if _, err := exchange[any](ctx, c, http.MethodPost, groupPath(id, "leaders", url.PathEscape(leaderID), "demote"), nil); err != nil {
		return fmt.Errorf("demote leader request failed: %w", err)
	}
	return nil
}

// RegenerateInviteCode выпускает новый инвайт-код
func (c *Client) RegenerateInviteCode(ctx context.Context, id string) (string, error) {
	env, err := exchange[api.InviteData](ctx, c, http.MethodPost, groupPath(id, "invite"), nil)
	if err != nil {
		return "", fmt.Errorf("regenerate invite code request failed: %w", err)
	}
	return env.Data.InviteCode, nil
}

// Leaderboard возвращает рейтинг участников группы
func (c *Client) Leaderboard(ctx context.Context, id string) ([]api.LeaderboardEntry, error) {
	env, err := get[api.LeaderboardData](ctx, c, groupPath(id, "leaderboard"), nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard request failed: %w", err)
	}
	return env.Data.Leaderboard, nil
}
