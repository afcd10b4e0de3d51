package apitest

import (
	"sync"
	"time"
)

// ReferenceTime - начальное время Clock по умолчанию
func ReferenceTime() time.Time {
	return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
}

// Clock - управляемый источник времени для тестов
type Clock struct {
	current time.Time
	mu      sync.Mutex
}

// NewClock создает часы; нулевое время заменяется на ReferenceTime
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now возвращает текущее время часов
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc возвращает Now для внедрения зависимостей
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set переставляет часы
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance сдвигает часы вперед и возвращает новое время
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
