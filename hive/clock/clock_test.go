package clock

import (
	"testing"
	"time"

	"github.com/hiveboardgame/hive/hive/board"
)

func TestUntimedNeverTimesOut(t *testing.T) {
	c := New(Untimed, 0, 0)
	if out := c.Apply(board.White, 10, time.Now().Add(time.Hour)); out {
		t.Fatal("untimed clock must never time out")
	}
}

func TestRealTimeDeductsAndIncrements(t *testing.T) {
	base := 5 * time.Minute
	inc := 2 * time.Second
	c := New(RealTime, base, inc)
	start := time.Now()
	c.Start(start)
	// Turn 0 (white's first move) costs nothing per the turn>=2 skip.
	if out := c.Apply(board.White, 0, start.Add(3*time.Second)); out {
		t.Fatal("first ply must not be charged")
	}
	if c.White != base {
		t.Fatalf("expected untouched clock on first ply, got %v", c.White)
	}
	// A later move (turn>=2) deducts elapsed and then adds the increment.
	before := c.White
	moveTime := c.lastInteraction.Add(10 * time.Second)
	c.Apply(board.White, 2, moveTime)
	want := before - 10*time.Second + inc
	if c.White != want {
		t.Fatalf("expected %v after deduct+increment, got %v", want, c.White)
	}
}

func TestRealTimeTimeout(t *testing.T) {
	c := New(RealTime, 5*time.Second, 0)
	start := time.Now()
	c.Start(start)
	c.Apply(board.White, 0, start)
	out := c.Apply(board.White, 2, start.Add(10*time.Second))
	if !out {
		t.Fatal("expected timeout when elapsed exceeds remaining budget")
	}
	if c.White != 0 {
		t.Fatalf("expected clamped-to-zero clock, got %v", c.White)
	}
}

func TestDaysPerMoveRefillsOnlyMover(t *testing.T) {
	inc := 3 * 24 * time.Hour
	c := New(CorrespondenceDaysPerMove, 0, inc)
	start := time.Now()
	c.Start(start)
	c.Apply(board.White, 0, start)
	c.Apply(board.Black, 1, start.Add(time.Hour))
	blackBeforeWhiteMove := c.Black
	c.Apply(board.White, 2, start.Add(2*time.Hour))
	if c.White != inc {
		t.Fatalf("expected white's clock refilled to %v, got %v", inc, c.White)
	}
	if c.Black != blackBeforeWhiteMove {
		t.Fatalf("expected black's clock untouched by white's move, got %v want %v", c.Black, blackBeforeWhiteMove)
	}
}

func TestTotalTimeEachNeverRefills(t *testing.T) {
	c := New(CorrespondenceTotalTimeEach, 24*time.Hour, 0)
	start := time.Now()
	c.Start(start)
	c.Apply(board.White, 0, start)
	before := c.White
	c.Apply(board.White, 2, start.Add(time.Hour))
	if c.White != before-time.Hour {
		t.Fatalf("expected pure deduction with no refill, got %v want %v", c.White, before-time.Hour)
	}
}

func TestStopIsIdempotentGuarded(t *testing.T) {
	c := New(RealTime, time.Minute, 0)
	if err := c.Stop(); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := c.Stop(); err != ErrAlreadyStopped {
		t.Fatalf("expected ErrAlreadyStopped, got %v", err)
	}
}
