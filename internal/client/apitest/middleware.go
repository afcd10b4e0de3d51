package apitest

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/iudanet/tasktrack/pkg/api"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userID достает id пользователя, положенный authMiddleware
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// statusWriter запоминает код ответа для логирования
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap нужен websocket.Accept для доступа к http.Hijacker
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// loggingMiddleware логирует запросы без токенов и тел
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			level := slog.LevelDebug
			if wrapped.statusCode >= 500 {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", r.Header.Get("X-Request-ID"),
			)
		})
	}
}

// recoveryMiddleware превращает panic обработчика в 500
func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeError(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// authMiddleware проверяет Bearer токен и кладет id пользователя в контекст
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// authenticate валидирует заголовок Authorization
func (s *Server) authenticate(r *http.Request) (*Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		s.logger.Debug("Missing or malformed Authorization header")
		return nil, false
	}

	claims, err := validateAccessToken(s.jwt, parts[1], s.clock.Now())
	if err != nil {
		s.logger.Debug("Invalid access token", "error", err)
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if claims.Generation < s.generation {
		s.logger.Debug("Revoked access token", "user_id", claims.UserID)
		return nil, false
	}
	if _, ok := s.users[claims.UserID]; !ok {
		return nil, false
	}
	return claims, true
}

// writeJSON пишет конверт {success, message?, data, meta?}
func writeJSON[T any](w http.ResponseWriter, status int, data T, meta *api.Meta) {
	writeBody(w, status, api.Envelope[T]{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeBody(w, status, api.ErrorResponse{Message: message, Success: false})
}
