package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio - IO поверх произвольных потоков.
// Если вход - терминал, пароль читается без эха.
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	inFile *os.File
}

// NewStdio возвращает IO поверх os.Stdin и os.Stdout
func NewStdio() *Stdio {
	return New(os.Stdin, os.Stdout)
}

// New создает IO поверх in и out
func New(in io.Reader, out io.Writer) *Stdio {
	s := &Stdio{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok {
		s.inFile = f
	}
	return s
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

// ReadInput печатает prompt и читает одну строку без пробелов по краям.
// Пустой prompt не пишется в вывод.
func (s *Stdio) ReadInput(prompt string) (string, error) {
	if prompt != "" {
		s.Printf("%s", prompt)
	}
	return s.readLine()
}

// ReadPassword печатает prompt и читает пароль.
// Вне терминала (pipe, тесты) пароль читается как обычная строка.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if s.inFile != nil && term.IsTerminal(int(s.inFile.Fd())) {
		pwBytes, err := term.ReadPassword(int(s.inFile.Fd()))
		s.Println()
		if err != nil {
			return "", err
		}
		return string(pwBytes), nil
	}
	return s.readLine()
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
