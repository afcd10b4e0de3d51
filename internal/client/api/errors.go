package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iudanet/tasktrack/pkg/api"
)

// DefaultErrorMessage показывается, если ни ответ, ни ошибка не содержат текста
const DefaultErrorMessage = "An unexpected error occurred"

// Error - ответ API с кодом вне 2xx
type Error struct {
	Message    string // сообщение сервера, если было
	Body       string // сырое тело, если сообщения нет
	RequestID  string
	StatusCode int
}

func newError(status int, body []byte, requestID string) *Error {
	e := &Error{StatusCode: status, RequestID: requestID}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		e.Message = errResp.Message
		return e
	}
	e.Body = strings.TrimSpace(string(body))
	return e
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound сообщает, что API вернул 404
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

// IsUnauthorized сообщает, что API вернул 401
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

// ErrorMessage возвращает текст для пользователя:
// сообщение сервера, иначе текст ошибки, иначе DefaultErrorMessage
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
