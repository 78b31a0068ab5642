// Package handler implements the platform's request demultiplexer: one
// function per wire.RequestType, each returning the set of (Destination,
// Message) effects the session layer should fan out. Handlers never touch a
// websocket connection directly, matching the rest of this package's split
// between "what happened" (handler) and "who gets told" (session).
//
// Grounded on the teacher's gateway.go handleMessage switch, generalized
// from four proto request types to the platform's full request set, and on
// db/src/models/{game,tournament}.rs for the persistence-triggering
// semantics of each operation.
package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/apps/server/internal/store"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/gamecontrol"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
	"github.com/hiveboardgame/hive/hive/tournament"
)

// Effect is one (destination, message) pair a handler wants fanned out.
type Effect struct {
	Dest Destination
	Msg  wire.Message
}

// liveGame is the in-memory mirror of one InProgress game: the
// authoritative state.State/clock.Clock/gamecontrol.Handler the request
// handlers mutate directly, persisted to Store after every successful ply.
type liveGame struct {
	ID           uuid.UUID
	GameType     board.GameType
	Tournament   bool
	Rated        bool
	White, Black uint64
	TournamentID string

	State   *state.State
	Clock   *clock.Clock
	Control *gamecontrol.Handler

	spectators map[string]bool // sessionIDs watching, for GameSpectators fan-out bookkeeping
}

// challenge is an open or targeted game offer awaiting acceptance.
type challenge struct {
	ID         uuid.UUID
	Creator    uint64
	Opponent   uint64 // 0 means open to anyone
	GameType   board.GameType
	Rated      bool
	Tournament bool
	ClockMode  clock.Mode
	TimeBase   time.Duration
	TimeInc    time.Duration
	CreatedAt  time.Time
}

// Handler holds every registry a request might touch: live games,
// outstanding challenges, and running tournaments, plus the durable Store
// behind them.
type Handler struct {
	Store store.Store

	mu          sync.RWMutex
	games       map[uuid.UUID]*liveGame
	challenges  map[uuid.UUID]*challenge
	tournaments map[string]*tournament.Tournament // keyed by tournament.Tournament.ID, a nanoid-style string
}

func New(st store.Store) *Handler {
	return &Handler{
		Store:       st,
		games:       make(map[uuid.UUID]*liveGame),
		challenges:  make(map[uuid.UUID]*challenge),
		tournaments: make(map[string]*tournament.Tournament),
	}
}

// Dispatch demultiplexes one inbound request from userID/sessionID to its
// handler, per the request set described for the session layer's request
// handler. Unknown request types are an internal error, not a client one:
// the wire layer should already have rejected anything it can't decode.
func (h *Handler) Dispatch(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	switch req.Type {
	case wire.ReqMove:
		return h.HandleMove(ctx, sessionID, userID, req)
	case wire.ReqGameControl:
		return h.HandleGameControl(ctx, sessionID, userID, req)
	case wire.ReqJoin:
		return h.HandleJoin(ctx, sessionID, userID, req)
	case wire.ReqChat:
		return h.HandleChat(ctx, sessionID, userID, req)
	case wire.ReqChallengeCreate:
		return h.HandleChallengeCreate(ctx, sessionID, userID, req)
	case wire.ReqChallengeAccept:
		return h.HandleChallengeAccept(ctx, sessionID, userID, req)
	case wire.ReqChallengeCancel:
		return h.HandleChallengeCancel(ctx, sessionID, userID, req)
	case wire.ReqTournamentCreate:
		return h.HandleTournamentCreate(ctx, sessionID, userID, req)
	case wire.ReqTournamentJoin:
		return h.HandleTournamentJoin(ctx, sessionID, userID, req)
	case wire.ReqTournamentLeave:
		return h.HandleTournamentLeave(ctx, sessionID, userID, req)
	case wire.ReqTournamentStart:
		return h.HandleTournamentStart(ctx, sessionID, userID, req)
	case wire.ReqTournamentFinish:
		return h.HandleTournamentFinish(ctx, sessionID, userID, req)
	case wire.ReqTournamentAdjudicate:
		return h.HandleTournamentAdjudicate(ctx, sessionID, userID, req)
	case wire.ReqUserProfile:
		return h.HandleUserProfile(ctx, sessionID, userID, req)
	case wire.ReqGamesSearch:
		return h.HandleGamesSearch(ctx, sessionID, userID, req)
	case wire.ReqPong:
		// Pong is consumed by the session layer's RTT tracker before
		// Dispatch is ever called; reaching here means nothing to do.
		return nil, nil
	default:
		return nil, newError(CodeInternalError, "type", "unhandled request type %q", req.Type)
	}
}

func (h *Handler) speedFor(g *liveGame) rating.Speed {
	return rating.DeriveSpeed(g.Clock.TimeBase, g.Clock.TimeIncrement)
}

func (h *Handler) persistGame(ctx context.Context, g *liveGame) error {
	rec := store.GameRecord{
		ID:           g.ID,
		GameType:     g.GameType,
		Tournament:   g.Tournament,
		Rated:        g.Rated,
		White:        g.White,
		Black:        g.Black,
		History:      g.State.History,
		Status:       g.State.Status,
		Winner:       g.State.Winner,
		Conclusion:   g.State.Conclusion,
		TournamentID: g.TournamentID,
	}
	if err := h.Store.SaveGame(ctx, rec); err != nil {
		return newError(CodeDatabaseError, "", "save game: %v", err)
	}
	return nil
}

// applyRatingResult updates both players' rating rows after a game
// concludes: a Rated game runs the Glicko-2 update, while a casual game only
// moves the played/won/lost/draw counters (via BumpCounters), per the
// platform's "only rated games move the number" rule.
func (h *Handler) applyRatingResult(ctx context.Context, g *liveGame) error {
	speed := h.speedFor(g)
	whiteR, err := h.Store.LoadRating(ctx, g.White, speed)
	if err != nil {
		return newError(CodeDatabaseError, "", "load white rating: %v", err)
	}
	blackR, err := h.Store.LoadRating(ctx, g.Black, speed)
	if err != nil {
		return newError(CodeDatabaseError, "", "load black rating: %v", err)
	}

	var whiteScore, blackScore rating.Result
	switch {
	case g.State.Winner == nil:
		whiteScore, blackScore = rating.Draw, rating.Draw
	case *g.State.Winner == board.White:
		whiteScore, blackScore = rating.Win, rating.Loss
	default:
		whiteScore, blackScore = rating.Loss, rating.Win
	}

	if g.Rated {
		whiteR.Rating, blackR.Rating, _, _ = rating.Settle(whiteR.Rating, blackR.Rating, whiteScore)
	} else {
		whiteR.Rating = rating.BumpCounters(whiteR.Rating, whiteScore)
		blackR.Rating = rating.BumpCounters(blackR.Rating, blackScore)
	}
	if err := h.Store.SaveRating(ctx, whiteR); err != nil {
		return newError(CodeDatabaseError, "", "save white rating: %v", err)
	}
	if err := h.Store.SaveRating(ctx, blackR); err != nil {
		return newError(CodeDatabaseError, "", "save black rating: %v", err)
	}
	return nil
}
