// Package apitest содержит фейковый TaskTrack API для тестов клиента:
// in-memory пользователи, задачи, группы и таймеры, JWT токены
// и realtime канал поверх websocket.
package apitest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasktrack/pkg/api"
)

// fault - заданный тестом ответ с ошибкой для маршрута
type fault struct {
	message string
	status  int
}

type userRecord struct {
	user     api.User
	password string
}

// Server - фейковый TaskTrack API поверх httptest.Server
type Server struct {
	*httptest.Server

	clock         *Clock
	logger        *slog.Logger
	users         map[string]*userRecord
	refreshTokens map[string]string // token -> user id
	tasks         map[string]*api.Task
	groups        map[string]*api.Group
	timers        []*api.Timer
	conns         map[string]*wsConn
	calls         map[string]int
	faults        map[string]fault
	jwt           JWTConfig
	generation    int
	failRefresh   bool
	mu            sync.Mutex
}

// Option настраивает Server
type Option func(*Server)

// WithClock задает часы сервера (startTime таймеров, срок жизни токенов)
func WithClock(c *Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithLogger задает логгер сервера
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer запускает фейковый API. Вызывающий закрывает его через Close.
func NewServer(opts ...Option) *Server {
	s := &Server{
		clock:         NewClock(time.Time{}),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		users:         make(map[string]*userRecord),
		refreshTokens: make(map[string]string),
		tasks:         make(map[string]*api.Task),
		groups:        make(map[string]*api.Group),
		conns:         make(map[string]*wsConn),
		calls:         make(map[string]int),
		faults:        make(map[string]fault),
		jwt: JWTConfig{
			Secret:         []byte(uuid.NewString()),
			AccessTokenTTL: time.Hour,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = http.StripPrefix("/api", s.countCalls(mux))
	handler = recoveryMiddleware(s.logger)(handler)
	handler = loggingMiddleware(s.logger)(handler)

	root := http.NewServeMux()
	root.Handle("/api/", handler)
	root.HandleFunc("GET /ws", s.handleWebsocket)

	s.Server = httptest.NewServer(root)
	return s
}

// APIURL возвращает базовый адрес API (с префиксом /api)
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh-token", s.handleRefresh)
	mux.HandleFunc("POST /auth/logout", s.authMiddleware(s.handleLogout))
	mux.HandleFunc("GET /auth/profile", s.authMiddleware(s.handleProfile))

	mux.HandleFunc("PATCH /users/profile", s.authMiddleware(s.handleUpdateProfile))
	mux.HandleFunc("POST /users/change-password", s.authMiddleware(s.handleChangePassword))
	mux.HandleFunc("GET /users/dashboard", s.authMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /users/timers", s.authMiddleware(s.handleUserTimers))

	mux.HandleFunc("GET /tasks", s.authMiddleware(s.handleListTasks))
	mux.HandleFunc("POST /tasks", s.authMiddleware(s.handleCreateTask))
	mux.HandleFunc("GET /tasks/{id}", s.authMiddleware(s.handleGetTask))
	mux.HandleFunc("PATCH /tasks/{id}", s.authMiddleware(s.handleUpdateTask))
	mux.HandleFunc("DELETE /tasks/{id}", s.authMiddleware(s.handleDeleteTask))

	mux.HandleFunc("GET /timers/active", s.authMiddleware(s.handleActiveTimer))
	mux.HandleFunc("POST /timers/start", s.authMiddleware(s.handleStartTimer))
	mux.HandleFunc("POST /timers/complete", s.authMiddleware(s.handleCompleteTimer))
	mux.HandleFunc("GET /timers/task/{id}", s.authMiddleware(s.handleTaskTimers))

	mux.HandleFunc("GET /groups", s.authMiddleware(s.handleListGroups))
	mux.HandleFunc("POST /groups", s.authMiddleware(s.handleCreateGroup))
	mux.HandleFunc("POST /groups/join", s.authMiddleware(s.handleJoinGroup))
	mux.HandleFunc("GET /groups/{id}", s.authMiddleware(s.handleGetGroup))
	mux.HandleFunc("PATCH /groups/{id}", s.authMiddleware(s.handleUpdateGroup))
	mux.HandleFunc("DELETE /groups/{id}/members/me", s.authMiddleware(s.handleLeaveGroup))
	mux.HandleFunc("POST /groups/{id}/members", s.authMiddleware(s.handleAddMember))
	mux.HandleFunc("DELETE /groups/{id}/members/{memberId}", s.authMiddleware(s.handleRemoveMember))
	mux.HandleFunc("POST /groups/{id}/members/{memberId}/promote", s.authMiddleware(s.handlePromote))
	mux.HandleFunc("POST /groups/{id}/leaders/{leaderId}/demote", s.authMiddleware(s.handleDemote))
	mux.HandleFunc("POST /groups/{id}/invite", s.authMiddleware(s.handleInvite))
	mux.HandleFunc("GET /groups/{id}/leaderboard", s.authMiddleware(s.handleLeaderboard))
}

// countCalls считает запросы по "METHOD /path" и отвечает ошибкой,
// если для маршрута задан FailRoute
func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.calls[route]++
		f, failing := s.faults[route]
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailRoute заставляет маршрут (например "POST /groups") отвечать status с message.
// status 0 снимает ошибку.
func (s *Server) FailRoute(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.faults, route)
		return
	}
	s.faults[route] = fault{status: status, message: message}
}

// Calls возвращает число запросов, например Calls("POST /auth/refresh-token")
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Clock возвращает часы сервера
func (s *Server) Clock() *Clock {
	return s.clock
}

// ExpireAccessTokens делает все выданные access token недействительными.
// Refresh token остаются рабочими.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// RevokeRefreshTokens делает все refresh token недействительными
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshTokens = make(map[string]string)
	s.mu.Unlock()
}

// FailRefresh заставляет refresh endpoint отвечать 401
func (s *Server) FailRefresh(fail bool) {
	s.mu.Lock()
	s.failRefresh = fail
	s.mu.Unlock()
}

// AddUser создает пользователя и возвращает его
func (s *Server) AddUser(firstName, lastName, email, password string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(firstName, lastName, email, password)
}

func (s *Server) addUserLocked(firstName, lastName, email, password string) api.User {
	now := s.clock.Now()
	u := api.User{
		ID:         newID(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      strings.ToLower(email),
		Groups:     []string{},
		JoinedAt:   &now,
		LastActive: &now,
	}
	s.users[u.ID] = &userRecord{user: u, password: password}
	return u
}

// AddGroup создает группу с лидером leaderID
func (s *Server) AddGroup(leaderID, name string, isPublic bool) api.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.addGroupLocked(leaderID, api.CreateGroupRequest{Name: name, Description: name, IsPublic: isPublic})
}

// AddTask создает задачу в группе
func (s *Server) AddTask(creatorID, groupID, title string) api.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.addTaskLocked(creatorID, api.CreateTaskRequest{
		Title:         title,
		Description:   title,
		GroupID:       groupID,
		Priority:      api.TaskPriorityMedium,
		EstimatedTime: 30,
		DueDate:       s.clock.Now().AddDate(0, 0, 7).Format(time.DateOnly),
	})
}

// ActiveTimerOf возвращает активный таймер пользователя
func (s *Server) ActiveTimerOf(userID string) *api.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.activeTimerLocked(userID); t != nil {
		cp := *t
		return &cp
	}
	return nil
}

// Login выдает пару токенов без HTTP запроса
func (s *Server) Login(userID string) api.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.issueTokensLocked(s.users[userID].user)
	if err != nil {
		panic(err)
	}
	return tokens
}

func (s *Server) issueTokensLocked(u api.User) (api.Tokens, error) {
	access, err := generateAccessToken(s.jwt, u.ID, u.Email, s.generation, s.clock.Now())
	if err != nil {
		return api.Tokens{}, err
	}
	refresh, err := generateRefreshToken()
	if err != nil {
		return api.Tokens{}, err
	}
	s.refreshTokens[refresh] = u.ID
	return api.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Server) activeTimerLocked(userID string) *api.Timer {
	for _, t := range s.timers {
		if t.IsActive && t.User.ID == userID {
			return t
		}
	}
	return nil
}

func (s *Server) userRef(id string) api.Ref {
	rec, ok := s.users[id]
	if !ok {
		return api.Ref{ID: id}
	}
	return api.Ref{
		ID:        id,
		FirstName: rec.user.FirstName,
		LastName:  rec.user.LastName,
		Email:     rec.user.Email,
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// paginate режет срез по page/limit из query и возвращает meta
func paginate[T any](r *http.Request, items []T) ([]T, *api.Meta) {
	p := api.DefaultPagination()
	if v := queryInt(r, "page"); v > 0 {
		p.Page = v
	}
	if v := queryInt(r, "limit"); v > 0 {
		p.Limit = v
	}

	p.TotalItems = len(items)
	p.TotalPages = (len(items) + p.Limit - 1) / p.Limit
	p.HasNextPage = p.Page < p.TotalPages
	p.HasPrevPage = p.Page > 1

	from := min((p.Page-1)*p.Limit, len(items))
	to := min(from+p.Limit, len(items))
	return items[from:to], &api.Meta{Pagination: p}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func sortTimersDesc(timers []api.Timer) {
	sort.SliceStable(timers, func(i, j int) bool {
		return timers[i].StartTime.After(timers[j].StartTime)
	})
}
