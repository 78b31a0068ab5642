// Package lobby exposes the platform's public read surface: open
// challenges anyone can accept and the directory of running/upcoming
// tournaments. It owns no game state of its own — every query is a
// snapshot pulled from handler.Handler's in-memory registries — and runs
// the one periodic sweep that registry needs: expiring challenges nobody
// accepted in time.
//
// Grounded on the teacher's lobby.Lobby, which combined table routing with
// an idle-table cleanup ticker; here routing is handler's job (it already
// owns the live-game/challenge/tournament registries) and this package
// keeps only the public-listing and cleanup-ticker responsibilities.
package lobby

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/hiveboardgame/hive/apps/server/internal/handler"
)

const (
	defaultChallengeTTL     = 5 * time.Minute
	defaultCleanupInterval  = 30 * time.Second
)

// Lobby periodically sweeps stale challenges and serves a JSON snapshot of
// open challenges and tournaments.
type Lobby struct {
	handler *handler.Handler

	challengeTTL    time.Duration
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once
}

func New(h *handler.Handler) *Lobby {
	l := &Lobby{
		handler:         h,
		challengeTTL:    defaultChallengeTTL,
		cleanupInterval: defaultCleanupInterval,
		done:            make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *Lobby) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.handler.ExpireStaleChallenges(l.challengeTTL)
		case <-l.done:
			return
		}
	}
}

// Stop halts the cleanup ticker.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// ChallengeView is the public JSON shape of one open challenge.
type ChallengeView struct {
	ID        string    `json:"id"`
	Creator   uint64    `json:"creator"`
	Opponent  uint64    `json:"opponent,omitempty"`
	GameType  string    `json:"game_type"`
	Rated     bool      `json:"rated"`
	CreatedAt time.Time `json:"created_at"`
}

// TournamentView is the public JSON shape of one registered tournament.
type TournamentView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Seats      int    `json:"seats"`
	PlayerCount int   `json:"player_count"`
}

// Snapshot is the full lobby listing served at GET /lobby.
type Snapshot struct {
	Challenges  []ChallengeView  `json:"challenges"`
	Tournaments []TournamentView `json:"tournaments"`
}

func (l *Lobby) snapshot() Snapshot {
	challenges := l.handler.OpenChallenges()
	cv := make([]ChallengeView, len(challenges))
	for i, c := range challenges {
		cv[i] = ChallengeView{
			ID: c.ID.String(), Creator: c.Creator, Opponent: c.Opponent,
			GameType: c.GameType.String(), Rated: c.Rated, CreatedAt: c.CreatedAt,
		}
	}

	tournaments := l.handler.Tournaments()
	tv := make([]TournamentView, len(tournaments))
	for i, t := range tournaments {
		tv[i] = TournamentView{
			ID: t.ID, Name: t.Name, Status: t.Status.String(),
			Seats: t.Seats, PlayerCount: len(t.Players),
		}
	}

	return Snapshot{Challenges: cv, Tournaments: tv}
}

// ServeHTTP serves the current lobby snapshot as JSON.
func (l *Lobby) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(l.snapshot())
}
