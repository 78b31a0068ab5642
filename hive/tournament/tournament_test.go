package tournament

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/clock"
)

func newTestTournament(t *testing.T, seats, minSeats, rounds int) *Tournament {
	t.Helper()
	tr, err := New("Test Open", uuid.New(), RoundRobin, seats, minSeats, rounds, clock.RealTime, 10*time.Minute, 5*time.Second, []Tiebreaker{SonnebornBerger})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestNewRejectsUntimed(t *testing.T) {
	_, err := New("x", uuid.New(), RoundRobin, 4, 2, 1, clock.Untimed, 0, 0, []Tiebreaker{RawPoints})
	if err != ErrUntimedNotAllowed {
		t.Fatalf("expected ErrUntimedNotAllowed, got %v", err)
	}
}

func TestNewRejectsOutOfRangeSeatsAndRounds(t *testing.T) {
	if _, err := New("x", uuid.New(), RoundRobin, 1, 1, 1, clock.RealTime, time.Minute, 0, []Tiebreaker{RawPoints}); err != ErrTooManySeats {
		t.Fatalf("expected ErrTooManySeats, got %v", err)
	}
	if _, err := New("x", uuid.New(), RoundRobin, 4, 2, 17, clock.RealTime, time.Minute, 0, []Tiebreaker{RawPoints}); err != ErrTooManyRounds {
		t.Fatalf("expected ErrTooManyRounds, got %v", err)
	}
}

func TestJoinRespectsSeatsAndBand(t *testing.T) {
	tr := newTestTournament(t, 2, 2, 1)
	tr.BandLower, tr.BandUpper = 1000, 2000
	if err := tr.Join(uuid.New(), 2500); err != ErrOutsideRatingBand {
		t.Fatalf("expected ErrOutsideRatingBand, got %v", err)
	}
	if err := tr.Join(uuid.New(), 1500); err != nil {
		t.Fatal(err)
	}
	if err := tr.Join(uuid.New(), 1600); err != nil {
		t.Fatal(err)
	}
	if err := tr.Join(uuid.New(), 1700); err != ErrSeatsFull {
		t.Fatalf("expected ErrSeatsFull, got %v", err)
	}
}

func TestStartRequiresMinimumSeats(t *testing.T) {
	tr := newTestTournament(t, 4, 4, 1)
	tr.Join(uuid.New(), 1500)
	tr.Join(uuid.New(), 1500)
	if _, err := tr.Start(time.Now()); err != ErrNotEnoughPlayers {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
}

func TestRoundRobinPairsEveryoneTwice(t *testing.T) {
	tr := newTestTournament(t, 3, 3, 1)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	tr.Join(a, 1500)
	tr.Join(b, 1500)
	tr.Join(c, 1500)
	pairings, err := tr.Start(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(pairings) != 6 {
		t.Fatalf("expected 3 players to produce 6 games (3 pairs x 2 colors), got %d", len(pairings))
	}
	seen := make(map[[2]uuid.UUID]bool)
	for _, p := range pairings {
		seen[[2]uuid.UUID{p.White, p.Black}] = true
	}
	if !seen[[2]uuid.UUID{a, b}] || !seen[[2]uuid.UUID{b, a}] {
		t.Fatalf("expected both color assignments for pair (a,b), got %+v", pairings)
	}
}

func TestJoinRejectedAfterStart(t *testing.T) {
	tr := newTestTournament(t, 2, 2, 1)
	tr.Join(uuid.New(), 1500)
	tr.Join(uuid.New(), 1500)
	if _, err := tr.Start(time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := tr.Join(uuid.New(), 1500); err != ErrNotJoinable {
		t.Fatalf("expected ErrNotJoinable, got %v", err)
	}
}

func TestAdjudicateRequiresOrganizer(t *testing.T) {
	tr := newTestTournament(t, 2, 2, 1)
	a, b := uuid.New(), uuid.New()
	tr.Join(a, 1500)
	tr.Join(b, 1500)
	tr.Start(time.Now())
	if err := tr.Adjudicate(uuid.New(), a, b, 1500, 1500, AdjudicateWhiteWin); err != ErrNotOrganizer {
		t.Fatalf("expected ErrNotOrganizer, got %v", err)
	}
	if err := tr.Adjudicate(tr.Organizer, a, b, 1500, 1500, AdjudicateWhiteWin); err != nil {
		t.Fatal(err)
	}
}

func TestAdvanceRoundFinishesAtRoundLimit(t *testing.T) {
	tr := newTestTournament(t, 2, 2, 2)
	tr.CurrentRound = 1
	tr.Status = InProgress
	tr.AdvanceRound()
	if tr.CurrentRound != 2 || tr.Status != InProgress {
		t.Fatalf("expected round 2 still in progress, got round=%d status=%v", tr.CurrentRound, tr.Status)
	}
	tr.AdvanceRound()
	if tr.Status != Finished {
		t.Fatalf("expected tournament finished after reaching round limit, got %v", tr.Status)
	}
}
