package session

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hiveboardgame/hive/apps/server/internal/auth"
	"github.com/hiveboardgame/hive/apps/server/internal/handler"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
)

const (
	pingInterval      = 5 * time.Second
	heartbeatInterval = 5 * time.Second
	clientTimeout     = 20 * time.Second // no Pong observed within this window => Disconnect
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub is the central server actor: it holds every membership registry the
// destination model in handler.Destination resolves against, and drives the
// ping/heartbeat/liveness ticker. Registries are protected by one mutex
// rather than run through an event-channel actor loop, matching the
// teacher's gateway.Gateway rather than its table.Table, since membership
// bookkeeping here has no per-room ordering requirement that a mailbox
// would buy.
type Hub struct {
	handler *handler.Handler
	auth    auth.Service

	mu              sync.RWMutex
	sessions        map[string]*Session            // sessionID -> session
	userSessions    map[uint64]map[string]*Session  // userID -> sessions (multi-login)
	gameSessions    map[uuid.UUID]map[string]*Session // gameID -> watching sessions (players + spectators)
	tournamentUsers map[string]map[uint64]bool     // tournamentID -> subscribed users

	nextConnID uint64
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(h *handler.Handler, authService auth.Service) *Hub {
	hub := &Hub{
		handler:         h,
		auth:            authService,
		sessions:        make(map[string]*Session),
		userSessions:    make(map[uint64]map[string]*Session),
		gameSessions:    make(map[uuid.UUID]map[string]*Session),
		tournamentUsers: make(map[string]map[uint64]bool),
		done:            make(chan struct{}),
	}
	go hub.run()
	return hub
}

// ServeWS upgrades an HTTP request to a WebSocket and registers the new
// session. The session token is expected as a "token" query parameter,
// resolved through auth.Service the same way the platform's other HTTP
// handlers authenticate a request.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.nextConnID++
	sessionID := fmt.Sprintf("sess_%d", h.nextConnID)
	h.mu.Unlock()

	s := newSession(sessionID, userID, conn, h)
	h.register(s)
	s.run()
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	if h.userSessions[s.UserID] == nil {
		h.userSessions[s.UserID] = make(map[string]*Session)
	}
	h.userSessions[s.UserID][s.ID] = s
	h.mu.Unlock()
	log.Printf("[Hub] session %s connected (user %d), total=%d", s.ID, s.UserID, len(h.sessions))
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	if peers := h.userSessions[s.UserID]; peers != nil {
		delete(peers, s.ID)
		if len(peers) == 0 {
			delete(h.userSessions, s.UserID)
		}
	}
	for gameID, peers := range h.gameSessions {
		delete(peers, s.ID)
		if len(peers) == 0 {
			delete(h.gameSessions, gameID)
		}
	}
	h.mu.Unlock()
	log.Printf("[Hub] session %s disconnected", s.ID)
}

func (h *Hub) subscribeGame(gameID uuid.UUID, s *Session) {
	h.mu.Lock()
	if h.gameSessions[gameID] == nil {
		h.gameSessions[gameID] = make(map[string]*Session)
	}
	h.gameSessions[gameID][s.ID] = s
	h.mu.Unlock()
}

func (h *Hub) subscribeUserToGame(gameID uuid.UUID, userID uint64) {
	h.mu.RLock()
	peers := h.userSessions[userID]
	sessions := make([]*Session, 0, len(peers))
	for _, s := range peers {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()
	for _, s := range sessions {
		h.subscribeGame(gameID, s)
	}
}

func (h *Hub) subscribeUserToTournament(tournamentID string, userID uint64) {
	h.mu.Lock()
	if h.tournamentUsers[tournamentID] == nil {
		h.tournamentUsers[tournamentID] = make(map[uint64]bool)
	}
	h.tournamentUsers[tournamentID][userID] = true
	h.mu.Unlock()
}

// handleFrame decodes one inbound binary frame and drives it through the
// request handler, then fans the resulting effects out to their
// destinations. Pong frames never reach handler.Dispatch: the RTT/liveness
// bookkeeping they carry is this layer's concern, matching handler.Dispatch's
// own comment that Pong is consumed before it gets there.
func (h *Hub) handleFrame(s *Session, data []byte) {
	cm, err := wire.Decode(data)
	if err != nil || cm.Request == nil {
		s.sendErrorMsg(handler.CodeParseError, "", "malformed request frame")
		return
	}
	req := *cm.Request

	if req.Type == wire.ReqPong {
		h.handlePong(s, req)
		return
	}

	ctx, cancel := requestContext()
	effects, herr := h.handler.Dispatch(ctx, s.ID, s.UserID, req)
	cancel()
	if herr != nil {
		he, _ := herr.(*handler.Error)
		if he != nil {
			s.sendErrorMsg(he.Code, he.Field, he.Reason)
		} else {
			s.sendErrorMsg(handler.CodeInternalError, "", herr.Error())
		}
		return
	}

	h.applySideEffects(s, req, effects)
	h.fanOut(effects)
}

// applySideEffects updates room membership implied by a request's outcome:
// joining a game's spectator room, subscribing a newly-accepted game's two
// players to its room, and subscribing a tournament participant to that
// tournament's room. Membership itself is orthogonal to what handler
// returns, since handler never touches sessions.
func (h *Hub) applySideEffects(s *Session, req wire.Request, effects []handler.Effect) {
	switch req.Type {
	case wire.ReqJoin:
		if id, err := uuid.Parse(req.GameID); err == nil {
			h.subscribeGame(id, s)
		}
	case wire.ReqChallengeAccept:
		for _, e := range effects {
			if e.Msg.GameID == "" {
				continue
			}
			if id, err := uuid.Parse(e.Msg.GameID); err == nil {
				if white, black, ok := h.handler.GamePlayers(id); ok {
					h.subscribeUserToGame(id, white)
					h.subscribeUserToGame(id, black)
				}
			}
		}
	case wire.ReqTournamentCreate, wire.ReqTournamentJoin:
		for _, e := range effects {
			if e.Msg.TournamentID != "" {
				h.subscribeUserToTournament(e.Msg.TournamentID, s.UserID)
			}
		}
	}
}

func (h *Hub) handlePong(s *Session, req wire.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if req.PongNonce != s.pendingPingNonce {
		return
	}
	s.lastPongAt = time.Now()
	s.latency = s.lastPongAt.Sub(s.pingSentAt)
}

// fanOut resolves each effect's Destination against the current membership
// registries and enqueues its Message on every matching session.
func (h *Hub) fanOut(effects []handler.Effect) {
	for _, e := range effects {
		h.fanOutOne(e)
	}
}

func (h *Hub) fanOutOne(e handler.Effect) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch e.Dest.Kind {
	case handler.DestDirect:
		if s, ok := h.sessions[e.Dest.SessionID]; ok {
			s.enqueue(e.Msg)
		}
	case handler.DestGlobal:
		for _, s := range h.sessions {
			s.enqueue(e.Msg)
		}
	case handler.DestGame:
		for _, s := range h.gameSessions[e.Dest.GameID] {
			s.enqueue(e.Msg)
		}
	case handler.DestGameSpectators:
		for _, s := range h.gameSessions[e.Dest.GameID] {
			if s.UserID == e.Dest.White || s.UserID == e.Dest.Black {
				continue
			}
			s.enqueue(e.Msg)
		}
	case handler.DestUser:
		for _, s := range h.userSessions[e.Dest.UserID] {
			s.enqueue(e.Msg)
		}
	case handler.DestTournament:
		for userID := range h.tournamentUsers[e.Dest.TournamentID] {
			for _, s := range h.userSessions[userID] {
				s.enqueue(e.Msg)
			}
		}
	}
}

// run drives the periodic ping, heartbeat, and liveness checks from one
// goroutine, matching the teacher's table.Table.run ticker-actor shape.
func (h *Hub) run() {
	pingTicker := time.NewTicker(pingInterval)
	heartbeatTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()
	defer heartbeatTicker.Stop()

	for {
		select {
		case <-pingTicker.C:
			h.sendPings()
		case <-heartbeatTicker.C:
			h.sendHeartbeats()
		case <-h.done:
			return
		}
	}
}

func (h *Hub) sendPings() {
	now := time.Now()

	h.mu.Lock()
	stale := make([]*Session, 0)
	for _, s := range h.sessions {
		if now.Sub(s.lastPongAt) > clientTimeout {
			stale = append(stale, s)
			continue
		}
		s.pendingPingNonce = rand.Uint64()
		s.pingSentAt = now
		s.enqueue(wire.Message{Type: wire.MsgPing, PingNonce: s.pendingPingNonce, PingValue: s.latency.Milliseconds()})
	}
	h.mu.Unlock()

	for _, s := range stale {
		log.Printf("[Hub] session %s timed out, disconnecting", s.ID)
		s.conn.Close()
	}
}

func (h *Hub) sendHeartbeats() {
	for _, g := range h.handler.LiveTimedGames() {
		h.fanOutOne(handler.Effect{
			Dest: handler.Game(g.GameID),
			Msg: wire.Message{
				Type:           wire.MsgGameUpdate,
				GameUpdateKind: wire.GameUpdateHeartbeat,
				GameID:         g.GameID.String(),
				WhiteLeftMs:    g.WhiteLeftMs,
				BlackLeftMs:    g.BlackLeftMs,
			},
		})
	}
}

// Stop halts the hub's ticker loop; existing sessions are left to close on
// their own read errors.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}
