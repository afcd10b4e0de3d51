// Package realtime поддерживает websocket соединение с TaskTrack API.
// Соединение необязательно: все вызовы HTTP клиента работают и без него,
// а ошибки realtime только логируются вызывающей стороной.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/iudanet/tasktrack/pkg/api"
)

const (
	// DefaultHandshakeTimeout ограничивает установку соединения и ожидание кадра connected
	DefaultHandshakeTimeout = 5 * time.Second
	// DefaultReconnectAttempts - число попыток переподключения после обрыва
	DefaultReconnectAttempts = 5
	// DefaultReconnectDelay - пауза между попытками
	DefaultReconnectDelay = time.Second
)

// ErrClosed возвращается после Close
var ErrClosed = errors.New("realtime client is closed")

// TokenSource отдает текущий access token для handshake
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Config - параметры соединения
type Config struct {
	SocketURL         string
	HandshakeTimeout  time.Duration
	ReconnectDelay    time.Duration
	ReconnectAttempts int
}

// Client - realtime клиент
type Client struct {
	tokens        TokenSource
	logger        *slog.Logger
	conn          *websocket.Conn
	ctx           context.Context
	cancel        context.CancelFunc
	onConnect     func(id string)
	onDisconnect  func(err error)
	onTimerUpdate func(api.TimerUpdate)
	onTaskUpdate  func(api.TaskUpdate)
	onGroupUpdate func(api.GroupUpdate)
	url           string
	id            string
	cfg           Config
	dialMu        sync.Mutex
	mu            sync.RWMutex
	closed        bool
}

// NewClient создает клиент; соединение устанавливается лениво
func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger) (*Client, error) {
	wsURL, err := socketEndpoint(cfg.SocketURL)
	if err != nil {
		return nil, err
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = DefaultReconnectAttempts
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		url:    wsURL,
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// socketEndpoint превращает http(s)://host в ws(s)://host/ws
func socketEndpoint(socketURL string) (string, error) {
	u, err := url.Parse(socketURL)
	if err != nil {
		return "", fmt.Errorf("invalid socket url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid socket url %q: unsupported scheme", socketURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// OnConnect задает обработчик установки соединения
func (c *Client) OnConnect(fn func(id string)) {
	c.mu.Lock()
	c.onConnect = fn
	c.mu.Unlock()
}

// OnDisconnect задает обработчик неожиданного обрыва соединения
func (c *Client) OnDisconnect(fn func(err error)) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

// OnTimerUpdate задает обработчик события timer:update
func (c *Client) OnTimerUpdate(fn func(api.TimerUpdate)) {
	c.mu.Lock()
	c.onTimerUpdate = fn
	c.mu.Unlock()
}

// OnTaskUpdate задает обработчик события task:update
func (c *Client) OnTaskUpdate(fn func(api.TaskUpdate)) {
	c.mu.Lock()
	c.onTaskUpdate = fn
	c.mu.Unlock()
}

// OnGroupUpdate задает обработчик события group:update
func (c *Client) OnGroupUpdate(fn func(api.GroupUpdate)) {
	c.mu.Lock()
	c.onGroupUpdate = fn
	c.mu.Unlock()
}

// Connected сообщает, открыто ли соединение
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// ConnectionID возвращает id текущего соединения, при необходимости подключаясь
func (c *Client) ConnectionID(ctx context.Context) (string, error) {
	c.mu.RLock()
	id := c.id
	c.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	if err := c.Connect(ctx); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id, nil
}

// Connect устанавливает соединение, если оно еще не установлено
func (c *Client) Connect(ctx context.Context) error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.mu.RLock()
	closed, connected := c.closed, c.conn != nil
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if connected {
		return nil
	}

	conn, id, err := c.dial(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "")
		return ErrClosed
	}
	c.conn = conn
	c.id = id
	onConnect := c.onConnect
	c.mu.Unlock()

	c.logger.Debug("Realtime connected", "connection_id", id)
	if onConnect != nil {
		onConnect(id)
	}

	go c.readLoop(conn)
	return nil
}

// dial выполняет handshake и ждет кадр connected
func (c *Client) dial(ctx context.Context) (*websocket.Conn, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()

	header := http.Header{}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read access token: %w", err)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{HTTPHeader: header})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to dial realtime server: %w", err)
	}

	var ev api.Event
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		_ = conn.CloseNow()
		return nil, "", fmt.Errorf("failed to read connected event: %w", err)
	}
	if ev.Event != api.EventConnected {
		_ = conn.Close(websocket.StatusProtocolError, "expected connected event")
		return nil, "", fmt.Errorf("unexpected first event %q", ev.Event)
	}

	var data api.ConnectedData
	if err := json.Unmarshal(ev.Data, &data); err != nil || data.ID == "" {
		_ = conn.Close(websocket.StatusProtocolError, "invalid connected event")
		return nil, "", fmt.Errorf("connected event has no id")
	}
	return conn, data.ID, nil
}

// readLoop читает события до закрытия соединения и запускает переподключение
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var ev api.Event
		err := wsjson.Read(c.ctx, conn, &ev)
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		c.dispatch(ev)
	}
}

func (c *Client) dispatch(ev api.Event) {
	c.mu.RLock()
	onTimer, onTask, onGroup := c.onTimerUpdate, c.onTaskUpdate, c.onGroupUpdate
	c.mu.RUnlock()

	switch ev.Event {
	case api.EventTimerUpdate:
		var u api.TimerUpdate
		if c.decode(ev, &u) && onTimer != nil {
			onTimer(u)
		}
	case api.EventTaskUpdate:
		var u api.TaskUpdate
		if c.decode(ev, &u) && onTask != nil {
			onTask(u)
		}
	case api.EventGroupUpdate:
		var u api.GroupUpdate
		if c.decode(ev, &u) && onGroup != nil {
			onGroup(u)
		}
	default:
		c.logger.Debug("Ignoring realtime event", "event", ev.Event)
	}
}

func (c *Client) decode(ev api.Event, v any) bool {
	if len(ev.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(ev.Data, v); err != nil {
		c.logger.Warn("Malformed realtime event", "event", ev.Event, "error", err)
		return false
	}
	return true
}

func (c *Client) handleDisconnect(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.id = ""
	}
	closed := c.closed
	onDisconnect := c.onDisconnect
	c.mu.Unlock()

	_ = conn.CloseNow()
	if closed {
		return
	}

	c.logger.Warn("Realtime connection lost", "error", err)
	if onDisconnect != nil {
		onDisconnect(err)
	}
	c.reconnect()
}

// reconnect делает до ReconnectAttempts попыток с паузой ReconnectDelay
func (c *Client) reconnect() {
	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}

		err := c.Connect(c.ctx)
		if err == nil {
			return
		}
		if errors.Is(err, ErrClosed) {
			return
		}
		c.logger.Debug("Realtime reconnect failed", "attempt", attempt, "error", err)
	}
	c.logger.Warn("Realtime reconnect attempts exhausted", "attempts", c.cfg.ReconnectAttempts)
}

// Close закрывает соединение и останавливает переподключение
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.id = ""
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close(websocket.StatusNormalClosure, "")
	}
	c.cancel()

	if err != nil {
		// Сервер мог закрыть соединение раньше нас
		c.logger.Debug("Realtime close", "error", err)
	}
	return nil
}
