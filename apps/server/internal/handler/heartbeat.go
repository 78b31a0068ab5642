package handler

import (
	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/state"
)

// GameHeartbeat is one in-progress timed game's clock snapshot, reported to
// the session layer's periodic heartbeat broadcast.
type GameHeartbeat struct {
	GameID      uuid.UUID
	WhiteLeftMs int64
	BlackLeftMs int64
}

// LiveTimedGames reports a clock snapshot for every registered game that is
// both InProgress and running a real clock, for the session layer's
// heartbeat ticker to broadcast to each game's room.
func (h *Handler) LiveTimedGames() []GameHeartbeat {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]GameHeartbeat, 0, len(h.games))
	for _, g := range h.games {
		if g.State.Status != state.InProgress || g.Clock.Mode == clock.Untimed {
			continue
		}
		whiteLeft, _ := g.Clock.Remaining(board.White)
		blackLeft, _ := g.Clock.Remaining(board.Black)
		out = append(out, GameHeartbeat{
			GameID:      g.ID,
			WhiteLeftMs: whiteLeft.Milliseconds(),
			BlackLeftMs: blackLeft.Milliseconds(),
		})
	}
	return out
}

// GamePlayers reports the (white, black) user ids for a registered game, for
// the session layer to populate GameSpectators destinations and auto-
// subscribe both players to a new game's room.
func (h *Handler) GamePlayers(id uuid.UUID) (white, black uint64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g, found := h.games[id]
	if !found {
		return 0, 0, false
	}
	return g.White, g.Black, true
}
