// Package cli реализует команды tasktrack поверх cobra.
// Настройки собираются viper из флагов, окружения и config.yaml.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tasktrack/internal/client/app"
	"github.com/iudanet/tasktrack/internal/client/iocli"
	"github.com/iudanet/tasktrack/internal/config"
)

// ErrNotAuthenticated - команда требует входа
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'tasktrack login' first")

// annotationNoApp помечает команды, которым не нужны хранилища и API
const annotationNoApp = "no-app"

// BuildInfo - данные сборки, задаются через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli - дерево команд и их зависимости
type Cli struct {
	io         iocli.IO
	v          *viper.Viper
	app        *app.App
	logOut     io.Writer
	info       BuildInfo
	configFile string
	appOpts    app.Options
}

// Option настраивает Cli
type Option func(*Cli)

// WithLogOutput задает вывод логов (по умолчанию stderr)
func WithLogOutput(w io.Writer) Option {
	return func(c *Cli) {
		c.logOut = w
	}
}

// WithAppOptions передает необязательные зависимости App (часы, период tick)
func WithAppOptions(opts app.Options) Option {
	return func(c *Cli) {
		c.appOpts = opts
	}
}

func New(io iocli.IO, info BuildInfo, opts ...Option) *Cli {
	c := &Cli{
		io:     io,
		v:      viper.New(),
		logOut: os.Stderr,
		info:   info,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute разбирает args и выполняет команду
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.io)

	// PostRun не вызывается при ошибке команды, поэтому закрываем здесь
	err := root.ExecuteContext(ctx)
	if closeErr := c.teardown(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (c *Cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "tasktrack",
		Short:             "TaskTrack client",
		Long:              "TaskTrack client: tasks, groups and a server-synchronized work timer.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyServer, "", "API base URL (default "+config.DefaultServerURL+")")
	flags.String(config.KeySocket, "", "realtime server URL (default "+config.DefaultSocketURL+")")
	flags.String(config.KeyDB, "", "data directory (default ~/.tasktrack)")
	flags.String(config.KeyLogLevel, "", "log level: debug, info, warn, error (default "+config.DefaultLogLevel+")")
	flags.StringVar(&c.configFile, "config", "", "config file (default ~/.tasktrack/config.yaml)")

	for _, key := range []string{config.KeyServer, config.KeySocket, config.KeyDB, config.KeyLogLevel} {
		_ = c.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.versionCommand(),
		c.dashboardCommand(),
		c.profileCommand(),
		c.tasksCommand(),
		c.groupsCommand(),
		c.timerCommand(),
	)
	return root
}

// setup загружает конфигурацию, открывает хранилища и восстанавливает сессию
func (c *Cli) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationNoApp] == "true" {
		return nil
	}

	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(c.logOut, &slog.HandlerOptions{Level: cfg.Level()}))

	opts := c.appOpts
	if opts.OnUnauthenticated == nil {
		opts.OnUnauthenticated = func() {
			c.io.Println("Session expired. Please run 'tasktrack login'.")
		}
	}

	a, err := app.New(cmd.Context(), cfg, logger, opts)
	if err != nil {
		return err
	}
	c.app = a

	if err := a.Rehydrate(cmd.Context()); err != nil {
		return err
	}
	return nil
}

func (c *Cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	if err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}
	return nil
}

// requireAuth проверяет, что сессия восстановлена
func (c *Cli) requireAuth() error {
	if !c.app.Auth.State().IsAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}
