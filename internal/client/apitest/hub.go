package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/iudanet/tasktrack/pkg/api"
)

const writeTimeout = 2 * time.Second

type wsConn struct {
	conn   *websocket.Conn
	userID string
}

// handleWebsocket принимает realtime соединение. Первый кадр - connected с id.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket accept failed", "error", err)
		return
	}

	id := uuid.NewString()
	if err := s.writeEvent(r.Context(), conn, api.EventConnected, api.ConnectedData{ID: id}); err != nil {
		_ = conn.CloseNow()
		return
	}

	s.mu.Lock()
	s.conns[id] = &wsConn{conn: conn, userID: claims.UserID}
	s.mu.Unlock()

	// Клиент ничего не присылает: ждем закрытия соединения
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
	_ = conn.CloseNow()
}

// Connections возвращает число открытых realtime соединений
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// DropConnections закрывает все realtime соединения со стороны сервера
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := make([]*wsConn, 0, len(s.conns))
	for id, c := range s.conns {
		conns = append(conns, c)
		delete(s.conns, id)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.conn.Close(websocket.StatusGoingAway, "server restart")
	}
}

// Broadcast рассылает событие всем соединениям
func (s *Server) Broadcast(event string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked(event, data, "")
}

// broadcastLocked рассылает событие всем соединениям, кроме exceptID
// (соединение автора изменения)
func (s *Server) broadcastLocked(event string, data any, exceptID string) {
	// Сериализуем под блокировкой: data ссылается на состояние сервера
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	frame := api.Event{Event: event, Data: payload}

	for id, c := range s.conns {
		if id == exceptID {
			continue
		}
		go func(conn *websocket.Conn) {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				s.logger.Debug("Websocket write failed", "error", err)
			}
		}(c.conn)
	}
}

func (s *Server) writeEvent(ctx context.Context, conn *websocket.Conn, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return wsjson.Write(ctx, conn, api.Event{Event: event, Data: payload})
}
