package store

import (
	"slices"

	"github.com/iudanet/tasktrack/pkg/api"
)

// Снимки State() не делят срезы и указатели с состоянием store:
// вызывающий может менять их, не затрагивая кэш.

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneGroup(g api.Group) api.Group {
	g.Leaders = slices.Clone(g.Leaders)
	g.Members = slices.Clone(g.Members)
	g.LastActive = clonePtr(g.LastActive)
	return g
}

func cloneGroups(groups []api.Group) []api.Group {
	if groups == nil {
		return nil
	}
	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = cloneGroup(g)
	}
	return out
}

func cloneTask(t api.Task) api.Task {
	t.Tags = slices.Clone(t.Tags)
	t.Assignees = slices.Clone(t.Assignees)
	t.CompletedBy = slices.Clone(t.CompletedBy)
	return t
}

func cloneTasks(tasks []api.Task) []api.Task {
	if tasks == nil {
		return nil
	}
	out := make([]api.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func cloneUser(u *api.User) *api.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Groups = slices.Clone(u.Groups)
	cp.JoinedAt = clonePtr(u.JoinedAt)
	cp.LastActive = clonePtr(u.LastActive)
	return &cp
}
