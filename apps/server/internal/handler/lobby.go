package handler

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/tournament"
)

// OpenChallenge is a read-only snapshot of one outstanding challenge, for
// the lobby's public listing.
type OpenChallenge struct {
	ID        uuid.UUID
	Creator   uint64
	Opponent  uint64
	GameType  board.GameType
	Rated     bool
	CreatedAt time.Time
}

// OpenChallenges lists every challenge not yet accepted or cancelled,
// newest first, for the lobby's "join a game" listing.
func (h *Handler) OpenChallenges() []OpenChallenge {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]OpenChallenge, 0, len(h.challenges))
	for _, c := range h.challenges {
		out = append(out, OpenChallenge{
			ID: c.ID, Creator: c.Creator, Opponent: c.Opponent,
			GameType: c.GameType, Rated: c.Rated, CreatedAt: c.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ExpireStaleChallenges drops any challenge older than maxAge that nobody
// accepted, mirroring the teacher's idle-table cleanup ticker but scoped to
// unaccepted offers instead of an idle game room (a live game, once
// started, is never subject to this sweep).
func (h *Handler) ExpireStaleChallenges(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for id, c := range h.challenges {
		if c.CreatedAt.Before(cutoff) {
			delete(h.challenges, id)
			removed++
		}
	}
	return removed
}

// Tournaments lists every tournament this process has registered, for the
// lobby's tournament directory.
func (h *Handler) Tournaments() []*tournament.Tournament {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*tournament.Tournament, 0, len(h.tournaments))
	for _, t := range h.tournaments {
		out = append(out, t)
	}
	return out
}
