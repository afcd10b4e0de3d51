// Package app собирает клиент: хранилища, менеджер сессии, HTTP и realtime
// клиенты и stores. Stores создаются здесь и передаются потребителям явно.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/client/realtime"
	"github.com/iudanet/tasktrack/internal/client/session"
	"github.com/iudanet/tasktrack/internal/client/storage/boltdb"
	"github.com/iudanet/tasktrack/internal/client/storage/sqlite"
	"github.com/iudanet/tasktrack/internal/client/store"
	"github.com/iudanet/tasktrack/internal/config"
	"github.com/iudanet/tasktrack/pkg/api"
)

// refreshTimeout ограничивает сверку таймера по realtime событию
const refreshTimeout = 10 * time.Second

// Options - необязательные зависимости App
type Options struct {
	// OnUnauthenticated вызывается, когда сессию восстановить не удалось
	OnUnauthenticated func()
	// Now подменяет часы timer store
	Now func() time.Time
	// TickInterval подменяет период tick
	TickInterval time.Duration
}

// App владеет всеми зависимостями клиента
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Storage  *boltdb.Storage
	History  *sqlite.Storage
	Session  *session.Manager
	API      *clientapi.Client
	Realtime *realtime.Client
	Auth     *store.Auth
	Tasks    *store.Tasks
	Groups   *store.Groups
	Timer    *store.Timer
	ticker   *store.Ticker
}

// New открывает хранилища и связывает компоненты
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	boltStorage, err := boltdb.New(ctx, cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	history, err := sqlite.New(ctx, cfg.HistoryPath())
	if err != nil {
		_ = boltStorage.Close()
		return nil, fmt.Errorf("failed to open timer history: %w", err)
	}

	vault, err := session.OpenVault(ctx, boltStorage, cfg.Passphrase)
	if err != nil {
		_ = history.Close()
		_ = boltStorage.Close()
		return nil, fmt.Errorf("failed to open token vault: %w", err)
	}

	manager := session.NewManager(boltStorage, boltStorage, vault, logger)

	apiOpts := []clientapi.Option{clientapi.WithTimeout(cfg.Timeout)}
	if opts.OnUnauthenticated != nil {
		apiOpts = append(apiOpts, clientapi.WithUnauthenticatedHandler(opts.OnUnauthenticated))
	}
	apiClient := clientapi.NewClient(cfg.ServerURL, manager, logger, apiOpts...)

	rt, err := realtime.NewClient(realtime.Config{SocketURL: cfg.SocketURL}, manager, logger)
	if err != nil {
		_ = history.Close()
		_ = boltStorage.Close()
		return nil, fmt.Errorf("failed to create realtime client: %w", err)
	}

	timerOpts := []store.TimerOption{
		store.WithRealtime(rt),
		store.WithArchive(history),
	}
	if opts.Now != nil {
		timerOpts = append(timerOpts, store.WithClock(opts.Now))
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  boltStorage,
		History:  history,
		Session:  manager,
		API:      apiClient,
		Realtime: rt,
		Auth:     store.NewAuth(apiClient, manager, logger),
		Tasks:    store.NewTasks(apiClient, logger),
		Groups:   store.NewGroups(apiClient, logger),
		Timer:    store.NewTimer(apiClient, boltStorage, logger, timerOpts...),
	}
	a.ticker = store.NewTicker(a.Timer, opts.TickInterval)

	// Очистка сессии (logout или неудачный refresh) сбрасывает все stores
	manager.OnClear(a.resetStores)
	a.subscribe()

	return a, nil
}

// subscribe связывает realtime события со stores
func (a *App) subscribe() {
	a.Realtime.OnTimerUpdate(func(u api.TimerUpdate) {
		a.Logger.Debug("Timer update received", "action", u.Action)
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := a.Timer.FetchActiveTimer(ctx); err != nil {
			a.Logger.Warn("Failed to reconcile timer", "error", err)
		}
	})
	a.Realtime.OnTaskUpdate(func(u api.TaskUpdate) {
		a.Logger.Debug("Task update received", "task_id", u.TaskID, "action", u.Action)
	})
	a.Realtime.OnGroupUpdate(func(u api.GroupUpdate) {
		a.Logger.Debug("Group update received", "group_id", u.GroupID, "action", u.Action)
	})
	a.Realtime.OnDisconnect(func(err error) {
		a.Logger.Debug("Realtime disconnected", "error", err)
	})
}

// Rehydrate восстанавливает auth и timer stores из хранилища
func (a *App) Rehydrate(ctx context.Context) error {
	if err := a.Auth.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if !a.Auth.State().IsAuthenticated {
		return nil
	}
	if err := a.Timer.Rehydrate(ctx); err != nil {
		// Сервер недоступен: остается сохраненное состояние
		a.Logger.Warn("Failed to reconcile timer", "error", err)
	}
	return nil
}

// StartTicker запускает 1Hz tick. Повторные вызовы ничего не делают.
func (a *App) StartTicker(ctx context.Context) <-chan struct{} {
	a.ticker.Start(ctx)
	return a.ticker.Done()
}

// Logout завершает сессию; stores сбрасываются через OnClear
func (a *App) Logout(ctx context.Context) error {
	return a.Auth.Logout(ctx)
}

func (a *App) resetStores() {
	a.Tasks.Reset()
	a.Groups.Reset()
	if err := a.Timer.Reset(context.Background()); err != nil {
		a.Logger.Warn("Failed to reset timer session", "error", err)
	}
}

// Close закрывает соединения и хранилища
func (a *App) Close() error {
	var errs []error
	if err := a.Realtime.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.History.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close timer history: %w", err))
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}
