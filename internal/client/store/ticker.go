package store

import (
	"context"
	"sync"
	"time"
)

// TickInterval - период пересчета elapsed
const TickInterval = time.Second

// Ticker периодически вызывает Timer.Tick.
// Горутина запускается не более одного раза за время жизни Ticker.
type Ticker struct {
	timer    *Timer
	done     chan struct{}
	interval time.Duration
	once     sync.Once
}

// NewTicker создает ticker для timer store
func NewTicker(timer *Timer, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = TickInterval
	}
	return &Ticker{
		timer:    timer,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start запускает горутину; повторные вызовы ничего не делают.
// Горутина завершается при отмене ctx.
func (tk *Ticker) Start(ctx context.Context) {
	tk.once.Do(func() {
		go tk.run(ctx)
	})
}

// Done закрывается после остановки горутины
func (tk *Ticker) Done() <-chan struct{} {
	return tk.done
}

func (tk *Ticker) run(ctx context.Context) {
	defer close(tk.done)

	ticker := time.NewTicker(tk.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tk.timer.Tick()
		}
	}
}
