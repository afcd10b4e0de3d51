package cli

import (
	"fmt"
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"minutes": formatMinutes,
	"clock":   formatClock,
	"date":    formatDate,
	"percent": func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"inc":     func(i int) int { return i + 1 },
	"deref":   deref,
}

const profileTemplate = `
=== Profile ===

Name:      {{.FullName}}
Email:     {{.Email}}
ID:        {{.ID}}
{{- if .Bio}}
Bio:       {{.Bio}}
{{- end}}
{{- if .JoinedAt}}
Joined:    {{date .JoinedAt}}
{{- end}}
Completed: {{.TasksCompleted}} task(s), {{percent .TaskCompletionRate}} completion rate
Tracked:   {{minutes .TotalTimeSpent}}
`

const dashboardTemplate = `
=== Dashboard ===
{{with .ActiveTimer}}
Active timer: {{.Task.DisplayName}} (started {{date .StartTime}})
{{- else}}
Active timer: none
{{- end}}

Tasks:     {{.TaskCounts.Pending}} pending, {{.TaskCounts.InProgress}} in progress, {{.TaskCounts.RecentlyCompleted}} recently completed
Completed: {{.UserStats.TasksCompleted}} task(s), {{percent .UserStats.TaskCompletionRate}} completion rate
Tracked:   {{minutes .UserStats.TotalTimeSpent}}
{{- if .DailyStats}}

Last days:
{{- range .DailyStats}}
  {{.Date}}  {{minutes .TotalTime}}, {{.TasksCompleted}} task(s)
{{- end}}
{{- end}}
{{- if .RecentTimers}}

Recent timers:
{{- range .RecentTimers}}
  {{date .StartTime}}  {{.Task.DisplayName}}{{if .Duration}} ({{minutes (deref .Duration)}}){{end}}
{{- end}}
{{- end}}
`

const taskTemplate = `
=== Task Details ===

Title:     {{.Title}}
ID:        {{.ID}}
Status:    {{.Status}}
Priority:  {{.Priority}}
Group:     {{.Group.DisplayName}}
Due:       {{.DueDate}}
Estimate:  {{.EstimatedTime}} min
Creator:   {{.Creator.DisplayName}}
{{- if .Assignees}}
Assignees:{{range .Assignees}} {{.DisplayName}};{{end}}
{{- end}}
{{- if .Tags}}
Tags:     {{range .Tags}} {{.}}{{end}}
{{- end}}
{{- if .Description}}

Description:
---
{{.Description}}
---
{{- end}}
`

const tasksListTemplate = `
=== Tasks ===
{{if .Tasks}}
{{- range $i, $t := .Tasks}}
{{inc $i}}. {{$t.Title}} [{{$t.Status}}, {{$t.Priority}}]
   ID: {{$t.ID}}
   Group: {{$t.Group.DisplayName}}, due {{$t.DueDate}}
{{- end}}

Page {{.Pagination.Page}} of {{.Pagination.TotalPages}} ({{.Pagination.TotalItems}} task(s))
{{- else}}
No tasks found.
{{- end}}
`

const groupTemplate = `
=== Group Details ===

Name:        {{.Group.Name}}
ID:          {{.Group.ID}}
Visibility:  {{if .Group.IsPublic}}public{{else}}private{{end}}
{{- if .UserRole}}
Your role:   {{.UserRole}}
{{- end}}
{{- if .Group.InviteCode}}
Invite code: {{.Group.InviteCode}}
{{- end}}
{{- if .Group.Description}}
Description: {{.Group.Description}}
{{- end}}
{{- if .Group.Leaders}}

Leaders:
{{- range .Group.Leaders}}
  {{.DisplayName}} ({{.ID}})
{{- end}}
{{- end}}
{{- if .Group.Members}}

Members:
{{- range .Group.Members}}
  {{.DisplayName}} ({{.ID}})
{{- end}}
{{- end}}
{{- with .Stats}}

Tasks: {{.PendingTasks}} pending, {{.InProgressTasks}} in progress, {{.CompletedTasks}} completed
Active timers: {{.ActiveTimers}}
{{- end}}
`

const groupsListTemplate = `
=== My Groups ===
{{if .MyGroups}}
{{- range $i, $g := .MyGroups}}
{{inc $i}}. {{$g.Name}}{{if $g.Role}} [{{$g.Role}}]{{end}}
   ID: {{$g.ID}}
{{- end}}
{{- else}}
You are not a member of any group.
{{- end}}
{{- if .PublicGroups}}

=== Public Groups ===
{{- range $i, $g := .PublicGroups}}
{{inc $i}}. {{$g.Name}}
   ID: {{$g.ID}}
{{- end}}
{{- end}}
`

const leaderboardTemplate = `
=== Leaderboard ===
{{if .}}
{{- range $i, $e := .}}
{{inc $i}}. {{$e.User.DisplayName}}{{if $e.IsLeader}} (leader){{end}}: {{$e.TasksCompleted}} task(s), {{minutes $e.TotalTime}}, {{percent $e.CompletionRate}}
{{- end}}
{{- else}}
No entries yet.
{{- end}}
`

const timerStatusTemplate = `
=== Timer ===
{{if .IsRunning}}
Status:  running{{if .IsPaused}} (display paused){{end}}
Task:    {{.ActiveTimer.Task.DisplayName}}
Started: {{date .StartTime}}
Elapsed: {{clock .ElapsedTime}}
{{- else}}
Status: idle
{{- end}}
`

const timerHistoryTemplate = `
=== Timer History ===
{{if .}}
{{- range $i, $t := .}}
{{inc $i}}. {{$t.Task.DisplayName}}: {{date $t.StartTime}}{{if $t.Duration}}, {{minutes (deref $t.Duration)}}{{else}}, running{{end}}
{{- if $t.Notes}}
   Notes: {{$t.Notes}}
{{- end}}
{{- end}}
{{- else}}
No timers recorded.
{{- end}}
`

var templates = template.Must(template.New("tasktrack").Funcs(templateFuncs).Parse(""))

func mustTemplate(name, text string) *template.Template {
	return template.Must(templates.New(name).Parse(text))
}

var (
	tmplProfile      = mustTemplate("profile", profileTemplate)
	tmplDashboard    = mustTemplate("dashboard", dashboardTemplate)
	tmplTask         = mustTemplate("task", taskTemplate)
	tmplTasks        = mustTemplate("tasks", tasksListTemplate)
	tmplGroup        = mustTemplate("group", groupTemplate)
	tmplGroups       = mustTemplate("groups", groupsListTemplate)
	tmplLeaderboard  = mustTemplate("leaderboard", leaderboardTemplate)
	tmplTimerStatus  = mustTemplate("timer", timerStatusTemplate)
	tmplTimerHistory = mustTemplate("history", timerHistoryTemplate)
)

// render выполняет шаблон в вывод команды
func (c *Cli) render(t *template.Template, data any) error {
	if err := t.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}

// formatMinutes печатает минуты как "1h 05m"
func formatMinutes(m float64) string {
	d := time.Duration(m * float64(time.Minute)).Round(time.Minute)
	h := int(d.Hours())
	mm := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", mm)
	}
	return fmt.Sprintf("%dh %02dm", h, mm)
}

// formatClock печатает секунды как HH:MM:SS
func formatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Local().Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprint(v)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
