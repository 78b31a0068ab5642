package gamecontrol

import (
	"testing"
	"time"

	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/state"
)

func newHandler() *Handler {
	return &Handler{
		State: state.New(board.Base, false),
		Clock: clock.New(clock.Untimed, 0, 0),
	}
}

func TestResignFinishesWithOpponentAsWinner(t *testing.T) {
	h := newHandler()
	eff, err := h.Apply(board.White, Resign, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !eff.Finished || eff.Winner == nil || *eff.Winner != board.Black {
		t.Fatalf("expected black to win by resignation, got %+v", eff)
	}
	if h.State.Status != state.Finished || h.State.Conclusion != state.ConclusionResigned {
		t.Fatalf("state not finished as Resigned: %+v", h.State)
	}
}

func TestAbortRejectedAfterTurnOne(t *testing.T) {
	h := newHandler()
	if err := h.State.PlayNotation("wS1", "."); err != nil {
		t.Fatal(err)
	}
	if err := h.State.PlayNotation("bS1", "wS1-"); err != nil {
		t.Fatal(err)
	}
	if err := h.State.PlayNotation("wA1", "-wS1"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Apply(board.White, Abort, time.Now()); err != ErrAbortTooLate {
		t.Fatalf("expected ErrAbortTooLate, got %v", err)
	}
}

func TestDrawOfferAcceptReject(t *testing.T) {
	h := newHandler()
	if _, err := h.Apply(board.White, DrawOffer, time.Now()); err != nil {
		t.Fatal(err)
	}
	// The offering side cannot accept its own offer.
	if _, err := h.Apply(board.White, DrawAccept, time.Now()); err != ErrNoOfferToAccept {
		t.Fatalf("expected ErrNoOfferToAccept, got %v", err)
	}
	eff, err := h.Apply(board.Black, DrawAccept, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !eff.Finished || h.State.Conclusion != state.ConclusionDrawAgreed {
		t.Fatalf("expected a drawn game, got %+v", eff)
	}
}

// A literal repeat of the same sender's same control is swallowed by the
// idempotency guard before the duplicate-offer check ever runs; a genuinely
// new DrawOffer from the same sender while their prior offer is still
// outstanding (separated by some other control in between) is what actually
// trips ErrDuplicateOffer.
func TestDuplicateOfferRejected(t *testing.T) {
	h := newHandler()
	h.WhiteTakeback, h.BlackTakeback = TakebackAlways, TakebackAlways
	if _, err := h.Apply(board.White, DrawOffer, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Apply(board.Black, TakebackRequest, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Apply(board.White, DrawOffer, time.Now()); err != ErrDuplicateOffer {
		t.Fatalf("expected ErrDuplicateOffer, got %v", err)
	}
}

func TestIdempotentRepeatIsIgnored(t *testing.T) {
	h := newHandler()
	if _, err := h.Apply(board.White, DrawOffer, time.Now()); err != nil {
		t.Fatal(err)
	}
	eff, err := h.Apply(board.White, DrawOffer, time.Now())
	if err != nil {
		t.Fatalf("expected the repeated identical control to be silently ignored, got %v", err)
	}
	if eff != (Effect{}) {
		t.Fatalf("expected a zero Effect for the ignored repeat, got %+v", eff)
	}
}

func TestTakebackRequiresOpponentsTurn(t *testing.T) {
	h := newHandler()
	h.WhiteTakeback, h.BlackTakeback = TakebackAlways, TakebackAlways
	// It is White's turn (turn 0); White may not request a takeback now.
	if _, err := h.Apply(board.White, TakebackRequest, time.Now()); err != ErrWrongTurnForTakeback {
		t.Fatalf("expected ErrWrongTurnForTakeback, got %v", err)
	}
	if _, err := h.Apply(board.Black, TakebackRequest, time.Now()); err != nil {
		t.Fatalf("black requesting a takeback on white's turn should be allowed: %v", err)
	}
}

func TestTakebackDisabledBySetting(t *testing.T) {
	h := newHandler()
	h.WhiteTakeback, h.BlackTakeback = TakebackNever, TakebackAlways
	if _, err := h.Apply(board.Black, TakebackRequest, time.Now()); err != ErrTakebackDisabled {
		t.Fatalf("expected ErrTakebackDisabled, got %v", err)
	}
}

func TestTakebackAcceptUndoesLastMove(t *testing.T) {
	h := newHandler()
	h.WhiteTakeback, h.BlackTakeback = TakebackAlways, TakebackAlways
	if err := h.State.PlayNotation("wS1", "."); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Apply(board.White, TakebackRequest, time.Now()); err != nil {
		t.Fatal(err)
	}
	eff, err := h.Apply(board.Black, TakebackAccept, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if eff.UndoCount != 1 || h.State.Turn != 0 {
		t.Fatalf("expected one move undone back to turn 0, got %+v turn=%d", eff, h.State.Turn)
	}
}

func TestAfterMoveRejectsUnansweredDrawOffer(t *testing.T) {
	h := newHandler()
	if _, err := h.Apply(board.Black, DrawOffer, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := h.State.PlayNotation("wS1", "."); err != nil {
		t.Fatal(err)
	}
	h.AfterMove(board.White)
	if _, err := h.Apply(board.White, DrawAccept, time.Now()); err != ErrNoOfferToAccept {
		t.Fatalf("expected the offer to have been implicitly rejected by the move, got %v", err)
	}
}
