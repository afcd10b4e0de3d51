package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/internal/validation"
	"github.com/iudanet/tasktrack/pkg/api"
)

// TimerState - снимок состояния таймера.
// ElapsedTime всегда вычисляется из StartTime и текущего времени.
type TimerState struct {
	ActiveTimer *api.Timer
	StartTime   *time.Time
	Error       string
	History     []api.Timer
	Pagination  api.Pagination
	ElapsedTime int64 // в секундах
	IsRunning   bool
	IsPaused    bool // только отображение, часы сервера не останавливаются
	IsLoading   bool
}

// Timer - store активного таймера. Источник истины - startTime с сервера,
// локальный счетчик только отображает now - startTime.
type Timer struct {
	api        TimerAPI
	storage    storage.TimerStorage
	realtime   ConnectionIDProvider
	archive    HistoryArchive
	logger     *slog.Logger
	now        func() time.Time
	state      TimerState
	activeSeq  sequence
	historySeq sequence
	mu         sync.RWMutex
}

// TimerOption настраивает Timer
type TimerOption func(*Timer)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) TimerOption {
	return func(t *Timer) {
		t.now = now
	}
}

// WithRealtime задает источник идентификатора realtime соединения
func WithRealtime(p ConnectionIDProvider) TimerOption {
	return func(t *Timer) {
		t.realtime = p
	}
}

// WithArchive задает локальный архив истории таймеров
func WithArchive(a HistoryArchive) TimerOption {
	return func(t *Timer) {
		t.archive = a
	}
}

// NewTimer создает timer store
func NewTimer(timerAPI TimerAPI, timerStorage storage.TimerStorage, logger *slog.Logger, opts ...TimerOption) *Timer {
	t := &Timer{
		api:     timerAPI,
		storage: timerStorage,
		logger:  logger,
		now:     time.Now,
		state:   TimerState{Pagination: api.DefaultPagination()},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State возвращает копию состояния
func (t *Timer) State() TimerState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := t.state
	st.History = slices.Clone(t.state.History)
	if t.state.ActiveTimer != nil {
		active := *t.state.ActiveTimer
		st.ActiveTimer = &active
	}
	if t.state.StartTime != nil {
		start := *t.state.StartTime
		st.StartTime = &start
	}
	return st
}

// Rehydrate восстанавливает сохраненную сессию таймера.
// Сохраненный elapsed не используется: счетчик сразу пересчитывается из startTime,
// а запущенный таймер сверяется с сервером.
func (t *Timer) Rehydrate(ctx context.Context) error {
	saved, err := t.storage.GetTimerSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTimerSessionNotFound) {
			return nil
		}
		return err
	}

	t.mu.Lock()
	t.state.ActiveTimer = saved.ActiveTimer
	t.state.StartTime = saved.StartTime
	t.state.IsRunning = saved.IsRunning
	t.state.ElapsedTime = 0
	if saved.IsRunning && saved.StartTime != nil {
		t.state.ElapsedTime = t.elapsedSince(*saved.StartTime)
	}
	t.mu.Unlock()

	if !saved.IsRunning {
		return nil
	}
	return t.FetchActiveTimer(ctx)
}

// FetchActiveTimer сверяет состояние с сервером. Идемпотентна.
// Отсутствие активного таймера (в том числе 404) - переход в Idle, не ошибка.
// При другой ошибке состояние таймера не меняется.
func (t *Timer) FetchActiveTimer(ctx context.Context) error {
	seq := t.activeSeq.next()
	t.begin()

	timer, err := t.api.ActiveTimer(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.activeSeq.latest(seq) {
		t.logger.Debug("Dropping stale active timer response", "seq", seq)
		return err
	}

	t.state.IsLoading = false
	if err != nil {
		t.state.Error = clientapi.ErrorMessage(err)
		return err
	}

	if timer != nil {
		t.runningLocked(timer)
		t.state.ElapsedTime = t.elapsedSince(timer.StartTime)
	} else {
		t.idleLocked()
	}
	t.persistLocked(ctx)
	return nil
}

// StartTimer запускает таймер по задаче. Разрешено только в Idle.
func (t *Timer) StartTimer(ctx context.Context, taskID string) error {
	if err := validation.ValidateID("task id", taskID); err != nil {
		return t.fail(err)
	}

	t.mu.RLock()
	running := t.state.IsRunning
	t.mu.RUnlock()
	if running {
		return t.fail(ErrTimerAlreadyRunning)
	}

	socketID := t.connectionID(ctx)

	t.begin()

	timer, err := t.api.StartTimer(ctx, api.StartTimerRequest{TaskID: taskID, SocketID: socketID})
	if err != nil {
		return t.fail(err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Ответы на сверки, выданные до успешного запуска, больше не актуальны.
	// Неудачный запуск их не отменяет.
	t.activeSeq.next()
	t.state.IsLoading = false
	t.runningLocked(timer)
	t.state.ElapsedTime = 0
	t.persistLocked(ctx)

	t.logger.Info("Timer started", "timer_id", timer.ID, "task_id", taskID)
	return nil
}

// CompleteTimer завершает активный таймер. Разрешено только в Running.
// История после завершения не перечитывается.
func (t *Timer) CompleteTimer(ctx context.Context, notes string) error {
	t.mu.RLock()
	running := t.state.IsRunning
	t.mu.RUnlock()
	if !running {
		return t.fail(ErrNoActiveTimer)
	}

	socketID := t.connectionID(ctx)

	t.begin()

	completed, err := t.api.CompleteTimer(ctx, api.CompleteTimerRequest{Notes: notes, SocketID: socketID})
	if err != nil {
		return t.fail(err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeSeq.next()
	t.state.IsLoading = false
	t.idleLocked()
	t.persistLocked(ctx)

	if completed != nil {
		t.logger.Info("Timer completed", "timer_id", completed.ID)
	}
	return nil
}

// Tick пересчитывает elapsed из startTime. В Idle ничего не делает.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsRunning || t.state.StartTime == nil {
		return
	}
	t.state.ElapsedTime = t.elapsedSince(*t.state.StartTime)
}

// FetchTimerHistory загружает историю пользователя или задачи (taskID != "")
// и сохраняет ее в локальный архив
func (t *Timer) FetchTimerHistory(ctx context.Context, taskID string) error {
	seq := t.historySeq.next()
	t.begin()

	timers, page, err := t.api.TimerHistory(ctx, taskID)

	t.mu.Lock()
	if !t.historySeq.latest(seq) {
		t.mu.Unlock()
		t.logger.Debug("Dropping stale timer history response", "seq", seq)
		return err
	}

	t.state.IsLoading = false
	if err != nil {
		t.state.Error = clientapi.ErrorMessage(err)
		t.mu.Unlock()
		return err
	}
	t.state.History = timers
	t.state.Pagination = page
	t.mu.Unlock()

	if t.archive != nil && len(timers) > 0 {
		if err := t.archive.SaveTimers(ctx, timers); err != nil {
			t.logger.Warn("Failed to archive timer history", "error", err)
		}
	}
	return nil
}

// TogglePause переключает флаг паузы отображения.
// Таймер на сервере продолжает идти, tick не останавливается.
func (t *Timer) TogglePause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.IsPaused = !t.state.IsPaused
	return t.state.IsPaused
}

// ClearError сбрасывает последнюю ошибку
func (t *Timer) ClearError() {
	t.mu.Lock()
	t.state.Error = ""
	t.mu.Unlock()
}

// Reset возвращает store в Idle и удаляет сохраненную сессию (выход из аккаунта)
func (t *Timer) Reset(ctx context.Context) error {
	t.activeSeq.next()
	t.historySeq.next()

	t.mu.Lock()
	t.state = TimerState{Pagination: api.DefaultPagination()}
	t.mu.Unlock()

	if err := t.storage.DeleteTimerSession(ctx); err != nil {
		return err
	}
	return nil
}

// connectionID best effort: без realtime запрос уходит без socketId
func (t *Timer) connectionID(ctx context.Context) string {
	if t.realtime == nil {
		return ""
	}
	id, err := t.realtime.ConnectionID(ctx)
	if err != nil {
		t.logger.Warn("Realtime connection unavailable", "error", err)
		return ""
	}
	return id
}

func (t *Timer) elapsedSince(start time.Time) int64 {
	elapsed := int64(t.now().Sub(start) / time.Second)
	if elapsed < 0 {
		// Часы клиента отстают от сервера
		return 0
	}
	return elapsed
}

func (t *Timer) runningLocked(timer *api.Timer) {
	start := timer.StartTime
	t.state.ActiveTimer = timer
	t.state.StartTime = &start
	t.state.IsRunning = true
}

func (t *Timer) idleLocked() {
	t.state.ActiveTimer = nil
	t.state.StartTime = nil
	t.state.ElapsedTime = 0
	t.state.IsRunning = false
	t.state.IsPaused = false
}

// persistLocked сохраняет ровно четыре поля сессии таймера.
// Ошибка записи не откатывает состояние в памяти.
func (t *Timer) persistLocked(ctx context.Context) {
	s := &storage.TimerSession{
		ActiveTimer: t.state.ActiveTimer,
		StartTime:   t.state.StartTime,
		ElapsedTime: t.state.ElapsedTime,
		IsRunning:   t.state.IsRunning,
	}
	if err := t.storage.SaveTimerSession(ctx, s); err != nil {
		t.logger.Error("Failed to persist timer session", "error", err)
	}
}

func (t *Timer) begin() {
	t.mu.Lock()
	t.state.IsLoading = true
	t.state.Error = ""
	t.mu.Unlock()
}

func (t *Timer) fail(err error) error {
	t.mu.Lock()
	t.state.IsLoading = false
	t.state.Error = clientapi.ErrorMessage(err)
	t.mu.Unlock()
	return err
}
