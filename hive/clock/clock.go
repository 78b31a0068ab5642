// Package clock implements per-game time accounting: Untimed, Real-time, and
// the two Correspondence sub-modes (DaysPerMove, TotalTimeEach).
//
// Grounded on the reference's game.rs time handling; ported to stdlib
// time.Duration, matching the teacher's own use of stdlib time for table
// timers (apps/server/internal/table/table.go's actionTimeLimitSec).
package clock

import (
	"errors"
	"time"

	"github.com/hiveboardgame/hive/hive/board"
)

var ErrAlreadyStopped = errors.New("clock: already stopped")

// Mode selects how TimeBase/TimeIncrement are interpreted.
type Mode int

const (
	Untimed Mode = iota
	RealTime
	CorrespondenceDaysPerMove
	CorrespondenceTotalTimeEach
)

// Clock tracks each side's remaining time and the timestamp of the last
// interaction used to compute elapsed deltas.
type Clock struct {
	Mode Mode

	TimeBase      time.Duration // TotalTimeEach / RealTime base allowance
	TimeIncrement time.Duration // RealTime increment, or DaysPerMove refill amount

	White time.Duration
	Black time.Duration

	lastInteraction time.Time
	started         bool
	stopped         bool
}

// New builds a clock from the (time_base, time_increment) pair per mode, as
// exercised by the (TimeBase set, TimeIncrement unset) and
// (TimeBase unset, TimeIncrement set) Correspondence sub-modes.
func New(mode Mode, timeBase, timeIncrement time.Duration) *Clock {
	c := &Clock{Mode: mode, TimeBase: timeBase, TimeIncrement: timeIncrement}
	switch mode {
	case RealTime:
		c.White, c.Black = timeBase, timeBase
	case CorrespondenceTotalTimeEach:
		c.White, c.Black = timeBase, timeBase
	case CorrespondenceDaysPerMove:
		c.White, c.Black = timeIncrement, timeIncrement
	}
	return c
}

// Start stamps last_interaction; called once both players confirm ready.
func (c *Clock) Start(now time.Time) {
	c.started = true
	c.lastInteraction = now
}

// Remaining returns the side's remaining budget, or false for Untimed.
func (c *Clock) Remaining(color board.Color) (time.Duration, bool) {
	if c.Mode == Untimed {
		return 0, false
	}
	if color == board.White {
		return c.White, true
	}
	return c.Black, true
}

// Apply deducts elapsed time from the mover's clock for turn >= 2 (the first
// ply of each color never costs time, matching the reference's turn-based
// skip), refills per mode, and reports timeout.
//
// turn is the ply index BEFORE this move is counted (i.e. state.State.Turn
// at the moment Play is called).
func (c *Clock) Apply(mover board.Color, turn int, now time.Time) (timedOut bool) {
	if c.Mode == Untimed {
		return false
	}
	if !c.started {
		c.Start(now)
	}
	if turn < 2 {
		c.lastInteraction = now
		return false
	}
	elapsed := now.Sub(c.lastInteraction)
	remaining := c.deduct(mover, elapsed)
	if remaining <= 0 {
		c.set(mover, 0)
		c.lastInteraction = now
		return true
	}
	c.refill(mover)
	c.lastInteraction = now
	return false
}

func (c *Clock) deduct(color board.Color, d time.Duration) time.Duration {
	if color == board.White {
		c.White -= d
		return c.White
	}
	c.Black -= d
	return c.Black
}

func (c *Clock) set(color board.Color, d time.Duration) {
	if color == board.White {
		c.White = d
	} else {
		c.Black = d
	}
}

// refill applies the per-mode post-move adjustment: RealTime adds the
// increment, DaysPerMove resets the mover's clock to the increment amount
// (never the non-mover's — confirmed against the reference's
// update_gamestate, which only ever touches the side that just played),
// TotalTimeEach and Untimed add nothing.
func (c *Clock) refill(mover board.Color) {
	switch c.Mode {
	case RealTime:
		if mover == board.White {
			c.White += c.TimeIncrement
		} else {
			c.Black += c.TimeIncrement
		}
	case CorrespondenceDaysPerMove:
		c.set(mover, c.TimeIncrement)
	}
}

// CheckTimeout reports whether the side to move has run out of time without
// a move being played — used by the periodic background sweep described in
// the clock-accounting section, independent of Apply (which only fires on
// an actual move).
func (c *Clock) CheckTimeout(toMove board.Color, now time.Time) bool {
	if c.Mode == Untimed || !c.started || c.stopped {
		return false
	}
	elapsed := now.Sub(c.lastInteraction)
	remaining, _ := c.Remaining(toMove)
	return remaining-elapsed <= 0
}

// Stop freezes the clock (resignation, timeout, draw, abort).
func (c *Clock) Stop() error {
	if c.stopped {
		return ErrAlreadyStopped
	}
	c.stopped = true
	return nil
}
