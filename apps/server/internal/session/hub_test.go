package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hiveboardgame/hive/apps/server/internal/auth"
	"github.com/hiveboardgame/hive/apps/server/internal/handler"
	"github.com/hiveboardgame/hive/apps/server/internal/store"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
)

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, want wire.MessageType) wire.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		cm, err := wire.Decode(data)
		if err != nil || cm.Message == nil {
			t.Fatalf("decode: %v", err)
		}
		if cm.Message.Type == want {
			return *cm.Message
		}
		// Skip unrelated frames (e.g. a Ping that lands mid-test).
	}
}

func send(t *testing.T, conn *websocket.Conn, req wire.Request) {
	t.Helper()
	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func newTestHub(t *testing.T) (*Hub, auth.Service, *httptest.Server) {
	t.Helper()
	authService := auth.NewManager()
	h := handler.New(store.NewMemory())
	hub := NewHub(h, authService)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		hub.Stop()
		srv.Close()
	})
	return hub, authService, srv
}

func TestChallengeAcceptThenMoveFansOutToBothPlayers(t *testing.T) {
	hub, authService, srv := newTestHub(t)
	_ = hub

	creatorID, creatorToken, err := authService.Register("alice", "password123")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	opponentID, opponentToken, err := authService.Register("bob", "password123")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	creatorConn := dial(t, srv, creatorToken)
	defer creatorConn.Close()
	opponentConn := dial(t, srv, opponentToken)
	defer opponentConn.Close()

	send(t, creatorConn, wire.Request{
		Type:   wire.ReqChallengeCreate,
		UserID: opponentID,
		Config: map[string]any{"rated": false},
	})
	creatorMsg := readMessage(t, creatorConn, wire.MsgChallengeUpdate)
	opponentMsg := readMessage(t, opponentConn, wire.MsgChallengeUpdate)
	if creatorMsg.ChallengeID == "" || creatorMsg.ChallengeID != opponentMsg.ChallengeID {
		t.Fatalf("expected matching challenge ids, got %q and %q", creatorMsg.ChallengeID, opponentMsg.ChallengeID)
	}

	send(t, opponentConn, wire.Request{Type: wire.ReqChallengeAccept, ChallengeID: creatorMsg.ChallengeID})
	startA := readMessage(t, creatorConn, wire.MsgGameUpdate)
	startB := readMessage(t, opponentConn, wire.MsgGameUpdate)
	if startA.GameUpdateKind != wire.GameUpdateStart || startB.GameUpdateKind != wire.GameUpdateStart {
		t.Fatalf("expected Start updates, got %+v / %+v", startA, startB)
	}
	if startA.GameID == "" || startA.GameID != startB.GameID {
		t.Fatalf("expected matching game ids, got %q and %q", startA.GameID, startB.GameID)
	}

	send(t, creatorConn, wire.Request{Type: wire.ReqMove, GameID: startA.GameID, Piece: "wS1", Destination: "."})
	moveA := readMessage(t, creatorConn, wire.MsgGameUpdate)
	moveB := readMessage(t, opponentConn, wire.MsgGameUpdate)
	if moveA.GameUpdateKind != wire.GameUpdateMove || moveB.GameUpdateKind != wire.GameUpdateMove {
		t.Fatalf("expected both players to observe the move, got %+v / %+v", moveA, moveB)
	}
	_ = creatorID
}
