package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/tasktrack/pkg/api"
)

func (c *Cli) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			return c.requireAuth()
		},
	}
	cmd.AddCommand(
		c.tasksListCommand(),
		c.tasksGetCommand(),
		c.tasksCreateCommand(),
		c.tasksUpdateCommand(),
		c.tasksDeleteCommand(),
	)
	return cmd
}

func (c *Cli) tasksListCommand() *cobra.Command {
	var filter api.TaskFilter
	var status, priority string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = api.TaskStatus(status)
			filter.Priority = api.TaskPriority(priority)
			if err := c.app.Tasks.List(cmd.Context(), filter); err != nil {
				return err
			}
			return c.render(tmplTasks, c.app.Tasks.State())
		},
	}
	cmd.Flags().StringVar(&filter.GroupID, "group", "", "filter by group ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status: pending, in-progress, completed")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority: low, medium, high")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "tasks per page")
	return cmd
}

func (c *Cli) tasksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Tasks.Get(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.render(tmplTask, c.app.Tasks.State().Current)
		},
	}
}

func (c *Cli) tasksCreateCommand() *cobra.Command {
	var req api.CreateTaskRequest
	var priority string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Priority = api.TaskPriority(priority)
			task, err := c.app.Tasks.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			c.io.Println("✓ Task created")
			return c.render(tmplTask, task)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Title, "title", "", "task title")
	flags.StringVar(&req.Description, "description", "", "task description")
	flags.StringVar(&req.GroupID, "group", "", "group ID")
	flags.StringVar(&req.DueDate, "due", "", "due date (YYYY-MM-DD)")
	flags.StringVar(&priority, "priority", string(api.TaskPriorityMedium), "priority: low, medium, high")
	flags.IntVar(&req.EstimatedTime, "estimate", 30, "estimated time in minutes")
	flags.StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable)")
	flags.StringSliceVar(&req.AssigneeIDs, "assignee", nil, "assignee user ID (repeatable)")
	return cmd
}

func (c *Cli) tasksUpdateCommand() *cobra.Command {
	var (
		title, description, due string
		priority, status        string
		estimate                int
		tags, assignees         []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.UpdateTaskRequest{
				Title:         changed(cmd, "title", title),
				Description:   changed(cmd, "description", description),
				DueDate:       changed(cmd, "due", due),
				EstimatedTime: changed(cmd, "estimate", estimate),
				Priority:      changed(cmd, "priority", api.TaskPriority(priority)),
				Status:        changed(cmd, "status", api.TaskStatus(status)),
				Tags:          tags,
				AssigneeIDs:   assignees,
			}
			task, err := c.app.Tasks.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			c.io.Println("✓ Task updated")
			return c.render(tmplTask, task)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "task title")
	flags.StringVar(&description, "description", "", "task description")
	flags.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	flags.StringVar(&priority, "priority", "", "priority: low, medium, high")
	flags.StringVar(&status, "status", "", "status: pending, in-progress, completed")
	flags.IntVar(&estimate, "estimate", 0, "estimated time in minutes")
	flags.StringSliceVar(&tags, "tag", nil, "replace tags (repeatable)")
	flags.StringSliceVar(&assignees, "assignee", nil, "replace assignees (repeatable)")
	return cmd
}

func (c *Cli) tasksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.io.Printf("✓ Task %s deleted\n", args[0])
			return nil
		},
	}
}
