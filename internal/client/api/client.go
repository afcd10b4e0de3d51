package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasktrack/pkg/api"
)

// DefaultTimeout - таймаут HTTP запроса по умолчанию
const DefaultTimeout = 30 * time.Second

// HeaderRequestID - заголовок с идентификатором запроса.
// Повторный запрос после refresh отправляется с тем же идентификатором.
const HeaderRequestID = "X-Request-ID"

const pathRefresh = "/auth/refresh-token"

// TokenSource - хранилище токенов, через которое клиент читает и обновляет пару.
// В приложении это session.Manager.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	UpdateAccessToken(ctx context.Context, accessToken string) error
	Clear(ctx context.Context) error
}

// Client представляет HTTP клиент TaskTrack API
type Client struct {
	httpClient        *http.Client
	tokens            TokenSource
	logger            *slog.Logger
	onUnauthenticated func()
	baseURL           string
}

// Option настраивает Client
type Option func(*Client)

// WithTimeout задает таймаут HTTP запросов
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient подменяет http.Client (тесты, кастомный транспорт)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnauthenticatedHandler задает обработчик, вызываемый когда сессию
// восстановить нельзя (нет refresh token или refresh завершился ошибкой)
func WithUnauthenticatedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthenticated = fn
	}
}

// NewClient создает новый API клиент.
// baseURL включает префикс API, например http://localhost:3000/api
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает адрес API
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call описывает один логический запрос к API
type call struct {
	body   any
	result any
	query  url.Values
	method string
	path   string
	// public - запрос без сессии (login, register): 401 здесь означает
	// неверные учетные данные, а не истекший токен
	public bool
}

// doRequest выполняет запрос и при 401 один раз пытается обновить access token.
// Тело запроса сериализуется один раз и переиспользуется при повторе.
func (c *Client) doRequest(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	requestID := uuid.NewString()

	respBody, err := c.send(ctx, cl, payload, requestID)
	if err != nil && !cl.public && IsUnauthorized(err) {
		c.logger.Debug("Access token rejected, refreshing",
			"path", cl.path,
			"request_id", requestID,
		)

		if rerr := c.recoverSession(ctx, err); rerr != nil {
			return rerr
		}

		// Повтор ровно один раз: второй 401 возвращается вызывающему
		respBody, err = c.send(ctx, cl, payload, requestID)
	}
	if err != nil {
		return err
	}

	if cl.result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, cl.result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// recoverSession обновляет access token по refresh token.
// Без refresh token возвращает исходную ошибку, при неудачном refresh - ошибку refresh.
// В обоих случаях пара токенов удаляется и вызывается onUnauthenticated.
func (c *Client) recoverSession(ctx context.Context, original error) error {
	refreshToken, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		c.logger.Error("Failed to read refresh token", "error", err)
		refreshToken = ""
	}
	if refreshToken == "" {
		c.expireSession(ctx)
		return original
	}

	accessToken, err := c.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		c.expireSession(ctx)
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	if err := c.tokens.UpdateAccessToken(ctx, accessToken); err != nil {
		return fmt.Errorf("failed to store refreshed access token: %w", err)
	}
	return nil
}

// refreshAccessToken вызывает refresh endpoint напрямую, минуя doRequest,
// чтобы 401 от refresh не запускал вложенный refresh
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(api.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	respBody, err := c.send(ctx, call{method: http.MethodPost, path: pathRefresh, public: true}, payload, uuid.NewString())
	if err != nil {
		return "", err
	}

	var env api.Envelope[api.RefreshData]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if env.Data.AccessToken == "" {
		return "", fmt.Errorf("refresh response has no access token")
	}
	return env.Data.AccessToken, nil
}

// expireSession удаляет токены и сообщает приложению, что нужен повторный вход
func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("Failed to clear session", "error", err)
	}
	if c.onUnauthenticated != nil {
		c.onUnauthenticated()
	}
}

// send выполняет один HTTP запрос и возвращает тело успешного ответа
func (c *Client) send(ctx context.Context, cl call, payload []byte, requestID string) ([]byte, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	if !cl.public {
		accessToken, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read access token: %w", err)
		}
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("API request",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newError(resp.StatusCode, respBody, requestID)
	}
	return respBody, nil
}

// get выполняет GET и декодирует data-часть конверта
func get[T any](ctx context.Context, c *Client, path string, query url.Values) (*api.Envelope[T], error) {
	var env api.Envelope[T]
	if err := c.doRequest(ctx, call{method: http.MethodGet, path: path, query: query, result: &env}); err != nil {
		return nil, err
	}
	return &env, nil
}

// exchange выполняет запрос с телом и декодирует data-часть конверта
func exchange[T any](ctx context.Context, c *Client, method, path string, body any) (*api.Envelope[T], error) {
	var env api.Envelope[T]
	if err := c.doRequest(ctx, call{method: method, path: path, body: body, result: &env}); err != nil {
		return nil, err
	}
	return &env, nil
}

// pagination возвращает пагинацию ответа или значение по умолчанию
func pagination[T any](env *api.Envelope[T]) api.Pagination {
	if env.Meta == nil {
		return api.DefaultPagination()
	}
	return env.Meta.Pagination
}

// isStatus проверяет код ответа API ошибки
func isStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
