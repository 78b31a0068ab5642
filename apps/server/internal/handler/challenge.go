package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/gamecontrol"
	"github.com/hiveboardgame/hive/hive/state"
)

// HandleChallengeCreate opens a new challenge, targeted at a specific
// opponent (req.UserID != 0) or open to anyone. A targeted challenge is
// sent to the creator's session and to the opponent; an open challenge is
// broadcast to every connected session (the creator included) so other
// players can see and accept it.
func (h *Handler) HandleChallengeCreate(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	gameType, rated, clockMode, timeBase, timeInc, cerr := parseChallengeConfig(req.Config)
	if cerr != nil {
		return nil, cerr
	}

	c := &challenge{
		ID:        uuid.New(),
		Creator:   userID,
		Opponent:  req.UserID,
		GameType:  gameType,
		Rated:     rated,
		ClockMode: clockMode,
		TimeBase:  timeBase,
		TimeInc:   timeInc,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.challenges[c.ID] = c
	h.mu.Unlock()

	msg := wire.Message{Type: wire.MsgChallengeUpdate, ChallengeID: c.ID.String(), UserID: userID}
	if c.Opponent != 0 {
		return []Effect{
			{Dest: Direct(sessionID), Msg: msg},
			{Dest: ForUser(c.Opponent), Msg: msg},
		}, nil
	}
	return []Effect{{Dest: Global(), Msg: msg}}, nil
}

func parseChallengeConfig(cfg map[string]any) (board.GameType, bool, clock.Mode, time.Duration, time.Duration, *Error) {
	gameType := board.Base
	if v, ok := cfg["game_type"].(string); ok {
		parsed, err := board.ParseGameType(v)
		if err != nil {
			return 0, false, 0, 0, 0, newError(CodeInvalidTournamentDetails, "game_type", "%v", err)
		}
		gameType = parsed
	}
	rated, _ := cfg["rated"].(bool)
	clockMode := clock.RealTime
	var timeBase, timeInc time.Duration
	if v, ok := cfg["time_base_secs"].(float64); ok {
		timeBase = time.Duration(v) * time.Second
	}
	if v, ok := cfg["time_increment_secs"].(float64); ok {
		timeInc = time.Duration(v) * time.Second
	}
	if timeBase == 0 && timeInc == 0 {
		clockMode = clock.Untimed
	}
	return gameType, rated, clockMode, timeBase, timeInc, nil
}

// HandleChallengeAccept starts a game from an outstanding challenge:
// colors follow creation order (creator White, accepter Black, matching a
// direct 1:1 challenge's natural "who proposed first" convention), every
// other outstanding real-time challenge of either player is withdrawn, the
// live game is registered, and both players are notified a game has started.
func (h *Handler) HandleChallengeAccept(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	id, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return nil, newError(CodeParseError, "challenge_id", "malformed challenge id %q", req.ChallengeID)
	}

	h.mu.Lock()
	c, ok := h.challenges[id]
	if !ok {
		h.mu.Unlock()
		return nil, newError(CodeInternalError, "challenge_id", "no such challenge %q", req.ChallengeID)
	}
	if c.Opponent != 0 && c.Opponent != userID {
		h.mu.Unlock()
		return nil, newError(CodeUnauthorized, "user_id", "challenge is not addressed to user %d", userID)
	}
	delete(h.challenges, id)
	for otherID, other := range h.challenges {
		if other.ClockMode != clock.RealTime {
			continue
		}
		if other.Creator == c.Creator || other.Creator == userID ||
			other.Opponent == c.Creator || other.Opponent == userID {
			delete(h.challenges, otherID)
		}
	}

	g := &liveGame{
		ID:       uuid.New(),
		GameType: c.GameType,
		Rated:    c.Rated,
		White:    c.Creator,
		Black:    userID,
		State:    state.New(c.GameType, false),
		Clock:    clock.New(c.ClockMode, c.TimeBase, c.TimeInc),
	}
	g.Control = &gamecontrol.Handler{State: g.State, Clock: g.Clock, Rated: g.Rated}
	h.games[g.ID] = g
	h.mu.Unlock()

	if err := h.persistGame(ctx, g); err != nil {
		return nil, err
	}

	msg := wire.Message{Type: wire.MsgGameUpdate, GameUpdateKind: wire.GameUpdateStart, GameID: g.ID.String()}
	return []Effect{
		{Dest: ForUser(g.White), Msg: msg},
		{Dest: ForUser(g.Black), Msg: msg},
	}, nil
}

// HandleChallengeCancel withdraws a not-yet-accepted challenge; only its
// creator may cancel it.
func (h *Handler) HandleChallengeCancel(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	id, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return nil, newError(CodeParseError, "challenge_id", "malformed challenge id %q", req.ChallengeID)
	}
	h.mu.Lock()
	c, ok := h.challenges[id]
	if !ok {
		h.mu.Unlock()
		return nil, nil
	}
	if c.Creator != userID {
		h.mu.Unlock()
		return nil, newError(CodeUnauthorized, "user_id", "only the creator may cancel challenge %q", req.ChallengeID)
	}
	delete(h.challenges, id)
	h.mu.Unlock()

	return []Effect{{Dest: Global(), Msg: wire.Message{Type: wire.MsgChallengeUpdate, ChallengeID: id.String()}}}, nil
}
