package store

import "errors"

var (
	// ErrTimerAlreadyRunning возвращается при попытке запустить второй таймер
	ErrTimerAlreadyRunning = errors.New("a timer is already running")
	// ErrNoActiveTimer возвращается при завершении таймера, когда он не запущен
	ErrNoActiveTimer = errors.New("no active timer")
)
