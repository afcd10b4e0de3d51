package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/tasktrack/internal/client/store"
	"github.com/iudanet/tasktrack/pkg/api"
)

func (c *Cli) groupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage groups and members",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			return c.requireAuth()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your groups and public groups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Groups.List(cmd.Context()); err != nil {
					return err
				}
				return c.render(tmplGroups, c.app.Groups.State())
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.showGroup(cmd, args[0])
			},
		},
		c.groupsCreateCommand(),
		c.groupsUpdateCommand(),
		&cobra.Command{
			Use:   "join <invite-code>",
			Short: "Join a group by invite code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				g, err := c.app.Groups.Join(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				c.io.Printf("✓ Joined group %s\n", g.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "leave <id>",
			Short: "Leave a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Groups.Leave(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.io.Println("✓ Left the group")
				return nil
			},
		},
		c.memberCommand("add-member <id> <email>", "Add a member by email", "✓ Member added", (*store.Groups).AddMember),
		c.memberCommand("remove-member <id> <member-id>", "Remove a member", "✓ Member removed", (*store.Groups).RemoveMember),
		c.memberCommand("promote <id> <member-id>", "Promote a member to leader", "✓ Member promoted to leader", (*store.Groups).PromoteToLeader),
		c.memberCommand("demote <id> <leader-id>", "Demote a leader to member", "✓ Leader demoted to member", (*store.Groups).DemoteToMember),
		&cobra.Command{
			Use:   "invite <id>",
			Short: "Regenerate the invite code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := c.app.Groups.RegenerateInviteCode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				c.io.Printf("✓ New invite code: %s\n", code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "leaderboard <id>",
			Short: "Show the group leaderboard",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Groups.Leaderboard(cmd.Context(), args[0]); err != nil {
					return err
				}
				return c.render(tmplLeaderboard, c.app.Groups.State().Leaderboard)
			},
		},
	)
	return cmd
}

func (c *Cli) showGroup(cmd *cobra.Command, id string) error {
	if err := c.app.Groups.Get(cmd.Context(), id); err != nil {
		return err
	}
	st := c.app.Groups.State()
	return c.render(tmplGroup, struct {
		Group    *api.Group
		Stats    *api.GroupStats
		UserRole api.GroupRole
	}{st.Current, st.Stats, st.UserRole})
}

func (c *Cli) groupsCreateCommand() *cobra.Command {
	var req api.CreateGroupRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.app.Groups.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			c.io.Println("✓ Group created")
			return c.showGroup(cmd, g.ID)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "group name")
	cmd.Flags().StringVar(&req.Description, "description", "", "group description")
	cmd.Flags().BoolVar(&req.IsPublic, "public", false, "make the group public")
	return cmd
}

func (c *Cli) groupsUpdateCommand() *cobra.Command {
	var name, description, avatar string
	var public bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update group fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.UpdateGroupRequest{
				Name:        changed(cmd, "name", name),
				Description: changed(cmd, "description", description),
				IsPublic:    changed(cmd, "public", public),
				Avatar:      changed(cmd, "avatar", avatar),
			}
			if _, err := c.app.Groups.Update(cmd.Context(), args[0], req); err != nil {
				return err
			}
			c.io.Println("✓ Group updated")
			return c.showGroup(cmd, args[0])
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "group name")
	cmd.Flags().StringVar(&description, "description", "", "group description")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().BoolVar(&public, "public", false, "public visibility")
	return cmd
}

// memberCommand собирает команды вида "<verb> <group-id> <target>".
// action - метод Groups: c.app создается только в setup.
func (c *Cli) memberCommand(use, short, done string, action func(g *store.Groups, ctx context.Context, id, target string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := action(c.app.Groups, cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			c.io.Println(done)
			return nil
		},
	}
}
