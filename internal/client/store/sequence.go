package store

import "sync/atomic"

// sequence выдает монотонные номера запросов одного среза состояния.
// Ответ применяется, только если его номер последний из выданных:
// ответ на более ранний запрос не перезаписывает результат более нового.
type sequence struct {
	last atomic.Uint64
}

// next регистрирует новый запрос
func (s *sequence) next() uint64 {
	return s.last.Add(1)
}

// latest сообщает, что за запросом id не было более новых
func (s *sequence) latest(id uint64) bool {
	return s.last.Load() == id
}
