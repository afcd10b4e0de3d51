package api

// Envelope представляет общий формат ответа TaskTrack API:
// { success, message, data, meta? }
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Meta содержит метаданные списка (пагинацию)
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination описывает страницу выдачи списка
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// DefaultPagination возвращает пагинацию до первого запроса списка
func DefaultPagination() Pagination {
	return Pagination{Page: 1, Limit: 10}
}

// ErrorResponse представляет тело ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`           // сообщение для пользователя
	Error   string `json:"error,omitempty"`   // описание ошибки
	Success bool   `json:"success,omitempty"` // всегда false
}
