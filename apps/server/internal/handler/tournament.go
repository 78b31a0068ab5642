package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/apps/server/internal/wire"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/tournament"
)

func translateTournamentErr(err error) *Error {
	switch err {
	case tournament.ErrNotEnoughPlayers:
		return newError(CodeNotEnoughPlayers, "", "%v", err)
	case tournament.ErrNotOrganizer:
		return newError(CodeUnauthorized, "user_id", "%v", err)
	case tournament.ErrSeatsFull:
		return newError(CodeTournamentFull, "", "%v", err)
	case tournament.ErrTooManySeats, tournament.ErrTooManyRounds, tournament.ErrUntimedNotAllowed,
		tournament.ErrNoTiebreakers, tournament.ErrOutsideRatingBand:
		return newError(CodeInvalidTournamentDetails, "", "%v", err)
	default:
		return newError(CodeInvalidTournamentDetails, "", "%v", err)
	}
}

func (h *Handler) lookupTournament(idStr string) (*tournament.Tournament, *Error) {
	h.mu.RLock()
	t, ok := h.tournaments[idStr]
	h.mu.RUnlock()
	if !ok {
		return nil, newError(CodeInternalError, "tournament_id", "no such tournament %q", idStr)
	}
	return t, nil
}

// HandleTournamentCreate registers a new tournament from its config and
// broadcasts its existence to the lobby, the way a new open challenge does.
func (h *Handler) HandleTournamentCreate(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	cfg := req.Config
	name, _ := cfg["name"].(string)
	mode := tournament.RoundRobin
	if v, ok := cfg["mode"].(string); ok && v == "swiss" {
		mode = tournament.Swiss
	}
	seats := intFromConfig(cfg, "seats", 8)
	minSeats := intFromConfig(cfg, "min_seats", 2)
	rounds := intFromConfig(cfg, "rounds", 1)
	timeBase := time.Duration(intFromConfig(cfg, "time_base_secs", 600)) * time.Second
	timeIncrement := time.Duration(intFromConfig(cfg, "time_increment_secs", 5)) * time.Second

	organizer := userUUID(userID)
	t, err := tournament.New(name, organizer, mode, seats, minSeats, rounds,
		clock.RealTime, timeBase, timeIncrement, []tournament.Tiebreaker{tournament.SonnebornBerger})
	if err != nil {
		return nil, translateTournamentErr(err)
	}
	t.ID = uuid.New().String()
	if invite, ok := cfg["invite_only"].(bool); ok {
		t.InviteOnly = invite
	}

	h.mu.Lock()
	h.tournaments[t.ID] = t
	h.mu.Unlock()

	return []Effect{{
		Dest: Global(),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID},
	}}, nil
}

func intFromConfig(cfg map[string]any, key string, fallback int) int {
	if v, ok := cfg[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// userUUID derives a deterministic UUID from a platform user id so
// hive/tournament (which keys players by uuid.UUID, matching the rest of
// this module's domain packages) can be used without introducing a second
// identity scheme for accounts, which remain bare uint64s per auth.Service.
func userUUID(userID uint64) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte{
		byte(userID >> 56), byte(userID >> 48), byte(userID >> 40), byte(userID >> 32),
		byte(userID >> 24), byte(userID >> 16), byte(userID >> 8), byte(userID),
	})
}

// HandleTournamentJoin adds the requesting user to the roster and fans out
// the updated roster to everyone already subscribed to the tournament.
func (h *Handler) HandleTournamentJoin(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	t, terr := h.lookupTournament(req.TournamentID)
	if terr != nil {
		return nil, terr
	}
	player := userUUID(userID)
	playerRating := 1500.0
	if v, ok := req.Config["rating"].(float64); ok {
		playerRating = v
	}

	h.mu.Lock()
	err := t.Join(player, playerRating)
	h.mu.Unlock()
	if err != nil {
		return nil, translateTournamentErr(err)
	}
	return []Effect{{
		Dest: ForTournament(t.ID),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID, UserID: userID},
	}}, nil
}

// HandleTournamentLeave removes the requesting user from the roster.
func (h *Handler) HandleTournamentLeave(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	t, terr := h.lookupTournament(req.TournamentID)
	if terr != nil {
		return nil, terr
	}
	player := userUUID(userID)

	h.mu.Lock()
	err := t.Leave(player)
	h.mu.Unlock()
	if err != nil {
		return nil, translateTournamentErr(err)
	}
	return []Effect{{
		Dest: ForTournament(t.ID),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID, UserID: userID},
	}}, nil
}

// HandleTournamentStart transitions a tournament to InProgress; only the
// organizer may start it. Round-robin pairings are returned by
// tournament.Start directly; Swiss pairings instead flow through the
// separate TRFx/external-pairer path and aren't produced here.
func (h *Handler) HandleTournamentStart(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	t, terr := h.lookupTournament(req.TournamentID)
	if terr != nil {
		return nil, terr
	}
	organizer := userUUID(userID)
	if t.Organizer != organizer {
		return nil, newError(CodeUnauthorized, "user_id", "only the organizer may start this tournament")
	}

	h.mu.Lock()
	_, err := t.Start(time.Now())
	h.mu.Unlock()
	if err != nil {
		return nil, translateTournamentErr(err)
	}
	return []Effect{{
		Dest: ForTournament(t.ID),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID},
	}}, nil
}

// HandleTournamentFinish completes the current round via AdvanceRound: it
// moves to the next round, or marks the tournament Finished when the
// current round is the last configured one.
func (h *Handler) HandleTournamentFinish(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	t, terr := h.lookupTournament(req.TournamentID)
	if terr != nil {
		return nil, terr
	}
	organizer := userUUID(userID)
	if t.Organizer != organizer {
		return nil, newError(CodeUnauthorized, "user_id", "only the organizer may finish this tournament")
	}

	h.mu.Lock()
	t.AdvanceRound()
	h.mu.Unlock()
	return []Effect{{
		Dest: ForTournament(t.ID),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID},
	}}, nil
}

var adjudicationByName = map[string]tournament.AdjudicationResult{
	"WhiteWin":       tournament.AdjudicateWhiteWin,
	"BlackWin":       tournament.AdjudicateBlackWin,
	"Draw":           tournament.AdjudicateDraw,
	"DoubleForfeit":  tournament.AdjudicateDoubleForfeit,
	"Delete":         tournament.AdjudicateDelete,
}

// HandleTournamentAdjudicate lets the organizer force an outcome on a
// stuck game, updating both players' standings.
func (h *Handler) HandleTournamentAdjudicate(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	t, terr := h.lookupTournament(req.TournamentID)
	if terr != nil {
		return nil, terr
	}
	organizer := userUUID(userID)
	result, ok := adjudicationByName[req.AdjudicationResult]
	if !ok {
		return nil, newError(CodeInvalidTournamentDetails, "adjudication_result", "unrecognized result %q", req.AdjudicationResult)
	}

	g, gerr := h.lookupGame(req.GameID)
	if gerr != nil {
		return nil, gerr
	}
	whiteUUID := userUUID(g.White)
	blackUUID := userUUID(g.Black)

	h.mu.Lock()
	err := t.Adjudicate(organizer, whiteUUID, blackUUID, 1500, 1500, result)
	h.mu.Unlock()
	if err != nil {
		return nil, translateTournamentErr(err)
	}
	return []Effect{{
		Dest: ForTournament(t.ID),
		Msg:  wire.Message{Type: wire.MsgTournamentUpdate, TournamentID: t.ID, GameID: g.ID.String()},
	}}, nil
}
