package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/tasktrack/pkg/api"
)

const (
	watchRefresh   = time.Second
	historyDefault = 20
)

func (c *Cli) timerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Work timer synchronized with the server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			return c.requireAuth()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the active timer",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// Rehydrate уже сверил сохраненный таймер; без сохраненной сессии спрашиваем сервер
				if !c.app.Timer.State().IsRunning {
					if err := c.app.Timer.FetchActiveTimer(cmd.Context()); err != nil {
						return err
					}
				}
				return c.render(tmplTimerStatus, c.app.Timer.State())
			},
		},
		&cobra.Command{
			Use:   "start <task-id>",
			Short: "Start a timer for a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Timer.StartTimer(cmd.Context(), args[0]); err != nil {
					return err
				}
				st := c.app.Timer.State()
				c.io.Printf("✓ Timer started for %s\n", st.ActiveTimer.Task.DisplayName())
				return nil
			},
		},
		c.timerCompleteCommand(),
		c.timerHistoryCommand(),
		c.timerWatchCommand(),
	)
	return cmd
}

func (c *Cli) timerCompleteCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Complete the active timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Timer.State().IsRunning {
				if err := c.app.Timer.FetchActiveTimer(cmd.Context()); err != nil {
					return err
				}
			}
			st := c.app.Timer.State()
			if !st.IsRunning {
				c.io.Println("No active timer")
				return nil
			}

			task := st.ActiveTimer.Task.DisplayName()
			if err := c.app.Timer.CompleteTimer(cmd.Context(), notes); err != nil {
				return err
			}
			c.io.Printf("✓ Timer completed for %s (%s)\n", task, formatClock(st.ElapsedTime))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the completed timer")
	return cmd
}

func (c *Cli) timerHistoryCommand() *cobra.Command {
	var taskID string
	var cached bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var timers []api.Timer
			if cached {
				var err error
				timers, err = c.app.History.ListTimers(cmd.Context(), taskID, limit)
				if err != nil {
					return err
				}
			} else {
				if err := c.app.Timer.FetchTimerHistory(cmd.Context(), taskID); err != nil {
					return err
				}
				timers = c.app.Timer.State().History
				if limit > 0 && len(timers) > limit {
					timers = timers[:limit]
				}
			}
			return c.render(tmplTimerHistory, timers)
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "only timers of this task")
	cmd.Flags().BoolVar(&cached, "cached", false, "read the local archive instead of the server")
	cmd.Flags().IntVar(&limit, "limit", historyDefault, "maximum number of timers")
	return cmd
}

func (c *Cli) timerWatchCommand() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the running timer until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			if err := c.app.Timer.FetchActiveTimer(ctx); err != nil {
				return err
			}
			// Realtime необязателен: без него таймер идет по локальному tick
			if err := c.app.Realtime.Connect(ctx); err != nil {
				c.app.Logger.Warn("Realtime unavailable", "error", err)
			}

			done := c.app.StartTicker(ctx)
			refresh := c.appOpts.TickInterval
			if refresh <= 0 {
				refresh = watchRefresh
			}
			ticker := time.NewTicker(refresh)
			defer ticker.Stop()

			toggles := c.readToggles(ctx)

			c.io.Println("=== Timer ===")
			c.io.Println("Press Enter to pause or resume the display, Ctrl+C to stop.")
			c.printWatchLine()
			for {
				select {
				case <-ctx.Done():
					<-done
					c.io.Println()
					return nil
				case <-toggles:
					c.app.Timer.TogglePause()
					c.printWatchLine()
				case <-ticker.C:
					c.printWatchLine()
				}
			}
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop watching after this duration (0 - until interrupted)")
	return cmd
}

// readToggles отдает по событию на каждую введенную строку.
// Чтение заканчивается на EOF или ошибке ввода.
func (c *Cli) readToggles(ctx context.Context) <-chan struct{} {
	toggles := make(chan struct{})
	go func() {
		for {
			if _, err := c.io.ReadInput(""); err != nil {
				return
			}
			select {
			case toggles <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return toggles
}

func (c *Cli) printWatchLine() {
	st := c.app.Timer.State()
	if !st.IsRunning || st.ActiveTimer == nil {
		c.io.Printf("\r%s  no active timer", formatClock(0))
		return
	}
	if st.IsPaused {
		c.io.Printf("\r--:--:--  %s (paused)", st.ActiveTimer.Task.DisplayName())
		return
	}
	c.io.Printf("\r%s  %s", formatClock(st.ElapsedTime), st.ActiveTimer.Task.DisplayName())
}
