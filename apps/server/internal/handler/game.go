package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/gamecontrol"
	"github.com/hiveboardgame/hive/hive/state"
)

func (h *Handler) lookupGame(idStr string) (*liveGame, *Error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, newError(CodeParseError, "game_id", "malformed game id %q", idStr)
	}
	h.mu.RLock()
	g, ok := h.games[id]
	h.mu.RUnlock()
	if !ok {
		return nil, newError(CodeInternalError, "game_id", "no such game %q", idStr)
	}
	return g, nil
}

// playerColor resolves which side userID is playing in g, or an
// Unauthorized error if they are neither player.
func playerColor(g *liveGame, userID uint64) (board.Color, *Error) {
	switch userID {
	case g.White:
		return board.White, nil
	case g.Black:
		return board.Black, nil
	default:
		return 0, newError(CodeUnauthorized, "user_id", "user %d is not a player in this game", userID)
	}
}

// translateStateErr maps a hive/state error to the wire error taxonomy.
// hive/state doesn't export a typed error enum, so this matches by the
// sentinel values it actually returns.
func translateStateErr(err error) *Error {
	switch err {
	case state.ErrGameOver:
		return newError(CodeGameOver, "game_id", "game already finished")
	case state.ErrInvalidSpawn, state.ErrNotInReserve, state.ErrQueenRequired, state.ErrQueenOpeningForbidden:
		return newError(CodeInvalidSpawn, "destination", "%v", err)
	case state.ErrInvalidMove, state.ErrNotOnBoard:
		return newError(CodeInvalidMove, "destination", "%v", err)
	default:
		return newError(CodeInvalidMove, "destination", "%v", err)
	}
}

// HandleMove applies one ply to a live game: validate turn ownership,
// apply via hive/state, tick the clock, clear any pending control offer the
// move implicitly answers, persist, and fan out the move (or, on a
// terminal transition, the game end) to the room.
func (h *Handler) HandleMove(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	g, gerr := h.lookupGame(req.GameID)
	if gerr != nil {
		return nil, gerr
	}
	color, perr := playerColor(g, userID)
	if perr != nil {
		return nil, perr
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if g.State.Status == state.Finished {
		return nil, newError(CodeGameOver, "game_id", "game already finished")
	}
	if g.State.TurnColor() != color {
		return nil, newError(CodeInvalidMove, "destination", "not %v's turn", color)
	}

	now := time.Now()
	turnBefore := g.State.Turn
	if err := g.State.PlayNotation(req.Piece, req.Destination); err != nil {
		return nil, translateStateErr(err)
	}
	g.Control.AfterMove(color)
	timedOut := g.Clock.Apply(color, turnBefore, now)
	if timedOut {
		winner := color.Opposite()
		_ = g.State.ForceFinish(&winner, state.ConclusionTimeout)
		_ = g.Clock.Stop()
	}

	if err := h.persistGame(ctx, g); err != nil {
		return nil, err
	}

	whiteLeft, _ := g.Clock.Remaining(board.White)
	blackLeft, _ := g.Clock.Remaining(board.Black)

	effects := []Effect{{
		Dest: Game(g.ID),
		Msg: wire.Message{
			Type:           wire.MsgGameUpdate,
			GameUpdateKind: wire.GameUpdateMove,
			GameID:         g.ID.String(),
			Piece:          req.Piece,
			Destination:    req.Destination,
			WhiteLeftMs:    whiteLeft.Milliseconds(),
			BlackLeftMs:    blackLeft.Milliseconds(),
		},
	}}

	if g.State.Status == state.Finished {
		effects = append(effects, h.gameEndEffects(g)...)
		if err := h.settleFinishedGame(ctx, g); err != nil {
			return nil, err
		}
	}
	return effects, nil
}

func (h *Handler) gameEndEffects(g *liveGame) []Effect {
	return []Effect{{
		Dest: Game(g.ID),
		Msg: wire.Message{
			Type:           wire.MsgGameUpdate,
			GameUpdateKind: wire.GameUpdateEnd,
			GameID:         g.ID.String(),
		},
	}}
}

// settleFinishedGame applies rating changes once (idempotency is the
// caller's job: only call this from the transition that just observed
// Status flip to Finished) and persists them, then drops the game from the
// live registry since every future read goes through Store.
func (h *Handler) settleFinishedGame(ctx context.Context, g *liveGame) error {
	if err := h.applyRatingResult(ctx, g); err != nil {
		return err
	}
	delete(h.games, g.ID)
	return nil
}

// translateControlErr maps a hive/gamecontrol error to the wire taxonomy;
// every gamecontrol sentinel is a client precondition violation, never a
// server fault.
func translateControlErr(err error) *Error {
	switch err {
	case gamecontrol.ErrAbortTooLate, gamecontrol.ErrDuplicateOffer, gamecontrol.ErrNoOfferToAccept,
		gamecontrol.ErrWrongTurnForTakeback, gamecontrol.ErrTakebackDisabled, gamecontrol.ErrNoTakebackToAccept,
		gamecontrol.ErrUnknownControl:
		return newError(CodeInvalidGameControl, "control", "%v", err)
	default:
		return newError(CodeInvalidGameControl, "control", "%v", err)
	}
}

var controlByName = map[string]gamecontrol.Control{
	"Resign":          gamecontrol.Resign,
	"Abort":           gamecontrol.Abort,
	"DrawOffer":       gamecontrol.DrawOffer,
	"DrawAccept":      gamecontrol.DrawAccept,
	"DrawReject":      gamecontrol.DrawReject,
	"TakebackRequest": gamecontrol.TakebackRequest,
	"TakebackAccept":  gamecontrol.TakebackAccept,
	"TakebackReject":  gamecontrol.TakebackReject,
}

// HandleGameControl applies one resign/draw/takeback/abort message. Notify
// effects (offers/rejections) fan out to the room only, never to the
// lobby; terminal transitions (Resign, DrawAccept, a clock-expiry Apply
// uncovers) fan out game-end the same way HandleMove's terminal path does.
func (h *Handler) HandleGameControl(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	g, gerr := h.lookupGame(req.GameID)
	if gerr != nil {
		return nil, gerr
	}
	color, perr := playerColor(g, userID)
	if perr != nil {
		return nil, perr
	}
	control, ok := controlByName[req.Control]
	if !ok {
		return nil, newError(CodeInvalidGameControl, "control", "unrecognized control %q", req.Control)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	eff, err := g.Control.Apply(color, control, time.Now())
	if err != nil {
		return nil, translateControlErr(err)
	}

	if eff.Deleted {
		delete(h.games, g.ID)
		return []Effect{{
			Dest: Game(g.ID),
			Msg:  wire.Message{Type: wire.MsgGameUpdate, GameUpdateKind: wire.GameUpdateEnd, GameID: g.ID.String()},
		}}, nil
	}

	if err := h.persistGame(ctx, g); err != nil {
		return nil, err
	}

	effects := []Effect{{
		Dest: Game(g.ID),
		Msg: wire.Message{
			Type:           wire.MsgGameUpdate,
			GameUpdateKind: wire.GameUpdateControl,
			GameID:         g.ID.String(),
			Control:        req.Control,
		},
	}}
	if eff.Finished {
		effects = append(effects, h.gameEndEffects(g)...)
		if err := h.settleFinishedGame(ctx, g); err != nil {
			return nil, err
		}
	}
	return effects, nil
}

// HandleJoin subscribes a session as a spectator of a game room; the
// session layer still decides socket membership, but the handler records
// the spectator for GameSpectators-destination bookkeeping and replies with
// a full snapshot so a reconnecting client doesn't need a second request.
func (h *Handler) HandleJoin(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	g, gerr := h.lookupGame(req.GameID)
	if gerr != nil {
		return nil, gerr
	}
	h.mu.Lock()
	if g.spectators == nil {
		g.spectators = make(map[string]bool)
	}
	g.spectators[sessionID] = true
	h.mu.Unlock()

	whiteLeft, _ := g.Clock.Remaining(board.White)
	blackLeft, _ := g.Clock.Remaining(board.Black)
	return []Effect{{
		Dest: Direct(sessionID),
		Msg: wire.Message{
			Type:           wire.MsgGameUpdate,
			GameUpdateKind: wire.GameUpdateStart,
			GameID:         g.ID.String(),
			WhiteLeftMs:    whiteLeft.Milliseconds(),
			BlackLeftMs:    blackLeft.Milliseconds(),
		},
	}}, nil
}

// HandleChat notifies every session in the game, players and spectators
// alike, that userID sent a chat message; the message text is not carried
// in the notification, and chat never touches Store.
func (h *Handler) HandleChat(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	g, gerr := h.lookupGame(req.GameID)
	if gerr != nil {
		return nil, gerr
	}
	return []Effect{{
		Dest: Game(g.ID),
		Msg: wire.Message{
			Type:   wire.MsgGameUpdate,
			GameID: g.ID.String(),
			UserID: userID,
		},
	}}, nil
}
