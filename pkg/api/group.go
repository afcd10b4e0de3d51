package api

import "time"

// GroupRole - роль пользователя в группе
type GroupRole string

const (
	GroupRoleLeader GroupRole = "leader"
	GroupRoleMember GroupRole = "member"
	GroupRoleGuest  GroupRole = "guest"
)

// Group представляет группу пользователей
type Group struct {
	CreatedAt      time.Time  `json:"createdAt"`
	LastActive     *time.Time `json:"lastActive,omitempty"`
	Creator        Ref        `json:"creator"`
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Avatar         string     `json:"avatar,omitempty"`
	InviteCode     string     `json:"inviteCode,omitempty"`
	Role           GroupRole  `json:"role,omitempty"`
	Leaders        []Ref      `json:"leaders,omitempty"`
	Members        []Ref      `json:"members,omitempty"`
	CompletedTasks int        `json:"completedTasks,omitempty"`
	TotalTasks     int        `json:"totalTasks,omitempty"`
	TotalTimeSpent float64    `json:"totalTimeSpent,omitempty"`
	IsPublic       bool       `json:"isPublic"`
}

// HasMember сообщает, есть ли пользователь среди участников или лидеров группы
func (g *Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	for _, l := range g.Leaders {
		if l.ID == id {
			return true
		}
	}
	return false
}

// GroupStats - агрегаты по задачам группы
type GroupStats struct {
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
	ActiveTimers    int `json:"activeTimers"`
}

// CreateGroupRequest представляет запрос на создание группы
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// UpdateGroupRequest представляет частичное обновление группы
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// GroupsData представляет data-часть ответа со списком групп
type GroupsData struct {
	MyGroups     []Group `json:"myGroups"`
	PublicGroups []Group `json:"publicGroups"`
}

// GroupData представляет data-часть ответа с одной группой
type GroupData struct {
	Stats    *GroupStats `json:"stats,omitempty"`
	Group    Group       `json:"group"`
	UserRole GroupRole   `json:"userRole,omitempty"`
}

// JoinGroupRequest представляет запрос на вступление по инвайт-коду
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

// AddMemberRequest представляет запрос на добавление участника по email
type AddMemberRequest struct {
	Email string `json:"email"`
}

// InviteData представляет data-часть ответа с новым инвайт-кодом
type InviteData struct {
	InviteCode string `json:"inviteCode"`
}

// LeaderboardEntry - строка рейтинга группы
type LeaderboardEntry struct {
	User           Ref     `json:"user"`
	TasksCompleted int     `json:"tasksCompleted"`
	TotalTime      float64 `json:"totalTime"`
	CompletionRate float64 `json:"completionRate"`
	IsLeader       bool    `json:"isLeader"`
}

// LeaderboardData представляет data-часть ответа с рейтингом
type LeaderboardData struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
