// Package session implements the WebSocket fan-out layer: one actor per
// connection (Session) feeding a central registry actor (Hub) that resolves
// handler.Destination values to the sockets that should receive them.
//
// Grounded on the teacher's apps/server/internal/gateway/gateway.go
// (Connection/Gateway split, upgrader, readPump/writePump, ping ticker) and
// apps/server/internal/table/table.go (central actor with a ticker-driven
// run loop), generalized from one poker table per connection to per-game
// rooms, a lobby, and per-tournament rooms.
package session

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hiveboardgame/hive/apps/server/internal/handler"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
)

const (
	readLimit      = 65536
	socketTimeout  = 60 * time.Second
	writeTimeout   = 10 * time.Second
	wsPingInterval = 30 * time.Second // protocol-level keepalive, distinct from the app-level latency Ping
)

// Session is one WebSocket connection's actor: it owns the socket and a
// buffered outbound queue, and is otherwise inert until the Hub drives it.
type Session struct {
	ID     string
	UserID uint64

	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	pendingPingNonce uint64
	pingSentAt       time.Time
	lastPongAt       time.Time
	latency          time.Duration
}

func newSession(id string, userID uint64, conn *websocket.Conn, hub *Hub) *Session {
	return &Session{
		ID:         id,
		UserID:     userID,
		conn:       conn,
		send:       make(chan []byte, 256),
		hub:        hub,
		lastPongAt: time.Now(),
	}
}

// run starts the read/write pumps and blocks until the connection closes.
func (s *Session) run() {
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(socketTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(socketTimeout))
		return nil
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[session %s] read error: %v", s.ID, err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		s.hub.handleFrame(s, data)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message rather than blocking a slow reader; a stalled
// client should hit the socket-liveness timeout and get disconnected, not
// stall the hub.
func (s *Session) enqueue(msg wire.Message) {
	data, err := wire.EncodeMessage(msg)
	if err != nil {
		log.Printf("[session %s] encode error: %v", s.ID, err)
		return
	}
	select {
	case s.send <- data:
	default:
		log.Printf("[session %s] send buffer full, dropping message", s.ID)
	}
}

func (s *Session) sendErrorMsg(code handler.Code, field, reason string) {
	s.enqueue(wire.NewError(s.UserID, field, reason, int(code)))
	if code.Fatal() {
		close(s.send)
	}
}

// requestContext builds the context passed to Dispatch for a single frame;
// inbound frames carry no deadline of their own, so a fixed per-request
// budget is applied here rather than threaded from the caller.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
