package tournament

import (
	"testing"

	"github.com/google/uuid"
)

func TestRawPointsRanksByScore(t *testing.T) {
	one, two, three := uuid.New(), uuid.New(), uuid.New()
	s := New()
	s.AddResult(one, two, 1500, 1500, WinnerWhite)
	s.AddResult(three, one, 1500, 1500, Draw)
	s.EnforceTiebreakers()

	groups := s.Groups()
	if len(groups) != 3 {
		t.Fatalf("expected 3 distinct score groups, got %d: %+v", len(groups), groups)
	}
	if groups[0][0] != one {
		t.Fatalf("expected player one (1.5 points) ranked first, got %+v", groups)
	}
}

// A symmetric three-cycle (one beats two, two beats three, three beats
// one) leaves every player with identical raw points and an identical
// Sonneborn-Berger score too, since each player's single win is against an
// opponent with the same raw points as everyone else's single win.
func TestSonnebornBergerSymmetricCycleStaysTied(t *testing.T) {
	one, two, three := uuid.New(), uuid.New(), uuid.New()
	s := New(SonnebornBerger)

	s.AddResult(one, two, 1500, 1500, WinnerWhite)   // one beats two
	s.AddResult(two, three, 1500, 1500, WinnerWhite)  // two beats three
	s.AddResult(three, one, 1500, 1500, WinnerWhite)  // three beats one
	s.EnforceTiebreakers()

	if got := s.score(one, SonnebornBerger); got != s.score(two, SonnebornBerger) || got != s.score(three, SonnebornBerger) {
		t.Fatalf("expected a symmetric three-cycle to leave all three Sonneborn-Berger scores equal, got one=%v two=%v three=%v",
			s.score(one, SonnebornBerger), s.score(two, SonnebornBerger), s.score(three, SonnebornBerger))
	}
}

func TestHeadToHeadOnlySplitsExistingTieGroup(t *testing.T) {
	one, two, three := uuid.New(), uuid.New(), uuid.New()
	s := New(HeadToHead)
	s.AddResult(one, two, 1500, 1500, WinnerWhite) // one beats two: 1-0
	// three never plays, stays on 0 points, so head-to-head never touches it.
	s.addPlayer(three)
	s.EnforceTiebreakers()

	groups := s.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected two groups (1pt, 0pt), got %+v", groups)
	}
	if len(groups[0]) != 1 || groups[0][0] != one {
		t.Fatalf("expected player one alone in first group, got %+v", groups)
	}
}

func TestWinsAsBlackBreaksTie(t *testing.T) {
	one, two, three, four := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	s := New(WinsAsBlack)
	s.AddResult(three, one, 1500, 1500, WinnerBlack) // one wins playing black
	s.AddResult(two, four, 1500, 1500, WinnerWhite)  // two wins playing white
	s.EnforceTiebreakers()

	groups := s.Groups()
	if len(groups) < 1 || len(groups[0]) != 1 || groups[0][0] != one {
		t.Fatalf("expected the black-side winner ranked above the white-side winner, got %+v", groups)
	}
}

func TestByeCountsRawPointsOnly(t *testing.T) {
	one, two := uuid.New(), uuid.New()
	s := New(SonnebornBerger, HeadToHead)
	s.AddBye(one)
	s.addPlayer(two)
	s.EnforceTiebreakers()

	if got := s.score(one, RawPoints); got != 1.0 {
		t.Fatalf("expected a bye to award 1 raw point, got %v", got)
	}
	if got := s.score(one, SonnebornBerger); got != 0 {
		t.Fatalf("expected a bye to contribute nothing to Sonneborn-Berger, got %v", got)
	}
}

func TestResultsBlankPositionForTiedFollowers(t *testing.T) {
	one, two, three := uuid.New(), uuid.New(), uuid.New()
	s := New()
	s.AddResult(one, two, 1500, 1500, Draw)
	s.addPlayer(three)
	s.EnforceTiebreakers()

	rows := s.Results()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	tiedRows := 0
	for _, r := range rows {
		if r.Position == 0 {
			tiedRows++
		}
	}
	if tiedRows != 1 {
		t.Fatalf("expected exactly one blank-position row among the tied 0.5pt pair, got %d", tiedRows)
	}
}
