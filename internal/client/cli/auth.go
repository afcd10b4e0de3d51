package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/tasktrack/pkg/api"
)

func (c *Cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Login ===")
			c.io.Println()

			email, err := c.io.ReadInput("Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
			password, err := c.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			c.io.Println()
			c.io.Println("Authenticating...")

			if err := c.app.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			user := c.app.Auth.State().User
			c.io.Println()
			c.io.Println("✓ Login successful!")
			c.io.Printf("Welcome, %s <%s>\n", user.FullName(), user.Email)
			c.io.Println()
			c.io.Println("Your session has been saved securely.")
			return nil
		},
	}
}

func (c *Cli) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Registration ===")
			c.io.Println()

			var req api.RegisterRequest
			var err error
			if req.FirstName, err = c.io.ReadInput("First name: "); err != nil {
				return fmt.Errorf("failed to read first name: %w", err)
			}
			if req.LastName, err = c.io.ReadInput("Last name: "); err != nil {
				return fmt.Errorf("failed to read last name: %w", err)
			}
			if req.Email, err = c.io.ReadInput("Email: "); err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
			if req.Password, err = c.io.ReadPassword("Password: "); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if req.ConfirmPassword, err = c.io.ReadPassword("Confirm password: "); err != nil {
				return fmt.Errorf("failed to read password confirmation: %w", err)
			}

			c.io.Println()
			c.io.Println("Registering...")

			if err := c.app.Auth.Register(cmd.Context(), req); err != nil {
				return err
			}

			c.io.Println()
			c.io.Println("✓ Registration successful!")
			c.io.Printf("Logged in as %s\n", c.app.Auth.State().User.Email)
			return nil
		},
	}
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and delete local tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Auth.State().IsAuthenticated {
				c.io.Println("Not logged in.")
				return nil
			}
			if err := c.app.Logout(cmd.Context()); err != nil {
				return err
			}
			c.io.Println("✓ Logged out successfully")
			return nil
		},
	}
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Authentication Status ===")
			c.io.Println()

			state := c.app.Auth.State()
			if !state.IsAuthenticated {
				c.io.Println("Status: Not authenticated")
				c.io.Println()
				c.io.Println("Run 'tasktrack login' to authenticate.")
				return nil
			}

			c.io.Println("Status: Authenticated")
			if state.User != nil {
				c.io.Printf("User: %s <%s>\n", state.User.FullName(), state.User.Email)
			}
			c.io.Printf("Server: %s\n", c.app.Config.ServerURL)

			claims, err := c.app.Session.Claims(cmd.Context())
			if err != nil {
				c.io.Printf("\nWarning: Failed to read access token: %v\n", err)
				return nil
			}
			if claims != nil && !claims.ExpiresAt.IsZero() {
				c.io.Printf("Token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
				if remaining := time.Until(claims.ExpiresAt); remaining > 0 {
					c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
				} else {
					c.io.Println("⚠️  Access token has expired. It will be refreshed on the next request.")
				}
			}

			timer := c.app.Timer.State()
			c.io.Println()
			if timer.IsRunning && timer.ActiveTimer != nil {
				c.io.Printf("Active timer: %s (%s)\n", timer.ActiveTimer.Task.DisplayName(), formatClock(timer.ElapsedTime))
			} else {
				c.io.Println("No active timer")
			}
			return nil
		},
	}
}

func (c *Cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("TaskTrack Client")
			c.io.Printf("Version:    %s\n", c.info.Version)
			c.io.Printf("Build Date: %s\n", c.info.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.info.GitCommit)
			return nil
		},
	}
}

func (c *Cli) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			d, err := c.app.Auth.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(tmplDashboard, d)
		},
	}
}

func (c *Cli) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			if err := c.app.Auth.FetchProfile(cmd.Context()); err != nil {
				return err
			}
			user := c.app.Auth.State().User
			if user == nil {
				return ErrNotAuthenticated
			}
			return c.render(tmplProfile, user)
		},
	}

	var firstName, lastName, bio, avatar string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			req := api.UpdateProfileRequest{
				FirstName: changed(cmd, "first-name", firstName),
				LastName:  changed(cmd, "last-name", lastName),
				Bio:       changed(cmd, "bio", bio),
				Avatar:    changed(cmd, "avatar", avatar),
			}
			if err := c.app.Auth.UpdateProfile(cmd.Context(), req); err != nil {
				return err
			}
			c.io.Println("✓ Profile updated")
			return c.render(tmplProfile, c.app.Auth.State().User)
		},
	}
	update.Flags().StringVar(&firstName, "first-name", "", "first name")
	update.Flags().StringVar(&lastName, "last-name", "", "last name")
	update.Flags().StringVar(&bio, "bio", "", "bio")
	update.Flags().StringVar(&avatar, "avatar", "", "avatar URL")

	password := &cobra.Command{
		Use:   "password",
		Short: "Change the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			current, err := c.io.ReadPassword("Current password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			next, err := c.io.ReadPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if err := c.app.Auth.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			c.io.Println("✓ Password changed")
			return nil
		},
	}

	cmd.AddCommand(show, update, password)
	return cmd
}
