package iocli

import "io"

// IO - терминальный ввод-вывод команд
type IO interface {
	io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
