package rating

import (
	"math"
	"testing"
	"time"
)

func TestNewSeedsDefaults(t *testing.T) {
	r := New(Blitz)
	if r.Value != 1500 || r.Deviation != 350 || r.Volatility != 0.06 {
		t.Fatalf("unexpected seed values: %+v", r)
	}
}

func TestWinnerGainsLoserLoses(t *testing.T) {
	white := New(Blitz)
	black := New(Blitz)
	newWhite, newBlack, dw, db := Settle(white, black, Win)
	if newWhite.Value <= white.Value {
		t.Errorf("expected white's rating to increase, got %v -> %v", white.Value, newWhite.Value)
	}
	if newBlack.Value >= black.Value {
		t.Errorf("expected black's rating to decrease, got %v -> %v", black.Value, newBlack.Value)
	}
	if dw <= 0 || db >= 0 {
		t.Errorf("expected positive white delta and negative black delta, got %v %v", dw, db)
	}
}

func TestDrawBetweenEqualsLeavesRatingRoughlyUnchanged(t *testing.T) {
	white := New(Blitz)
	black := New(Blitz)
	newWhite, newBlack, _, _ := Settle(white, black, Draw)
	if math.Abs(newWhite.Value-1500) > 1 {
		t.Errorf("expected a draw between equally-rated players to barely move rating, got %v", newWhite.Value)
	}
	if math.Abs(newBlack.Value-1500) > 1 {
		t.Errorf("expected a draw between equally-rated players to barely move rating, got %v", newBlack.Value)
	}
}

func TestDeviationShrinksAfterAGame(t *testing.T) {
	white := New(Blitz)
	black := New(Blitz)
	newWhite, _, _, _ := Settle(white, black, Win)
	if newWhite.Deviation >= white.Deviation {
		t.Errorf("expected deviation to shrink after playing a game, got %v -> %v", white.Deviation, newWhite.Deviation)
	}
}

func TestBumpCountersLeavesRatingUntouched(t *testing.T) {
	r := New(Rapid)
	out := BumpCounters(r, Win)
	if out.Value != r.Value || out.Deviation != r.Deviation || out.Volatility != r.Volatility {
		t.Fatalf("expected casual-game counters to leave rating fields untouched")
	}
	if out.Played != 1 || out.Won != 1 {
		t.Fatalf("expected counters to advance: %+v", out)
	}
}

func TestDeriveSpeedBuckets(t *testing.T) {
	cases := []struct {
		base, inc time.Duration
		want      Speed
	}{
		{0, 0, Untimed},
		{72 * time.Hour, 0, Correspondence},
		{1 * time.Minute, 0, Bullet},
		{5 * time.Minute, 0, Blitz},
		{15 * time.Minute, 0, Rapid},
		{30 * time.Minute, 0, Classical},
	}
	for _, c := range cases {
		if got := DeriveSpeed(c.base, c.inc); got != c.want {
			t.Errorf("DeriveSpeed(%v, %v) = %v, want %v", c.base, c.inc, got, c.want)
		}
	}
}
