// Package gamecontrol layers the resign/draw/takeback/abort sub-protocol on
// top of a hive/state.State and hive/clock.Clock.
//
// Grounded on the reference's game.rs control-history handling, adapted to
// an explicit Handler + Effect return value (no hidden mutation of fields
// the caller can't see) matching the teacher's preference for plain
// request/response returns over in-place side channels.
package gamecontrol

import (
	"errors"
	"time"

	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/state"
)

var (
	ErrAbortTooLate         = errors.New("gamecontrol: abort is only allowed on turn 0 or 1")
	ErrDuplicateOffer       = errors.New("gamecontrol: sender already has an unanswered draw offer")
	ErrNoOfferToAccept      = errors.New("gamecontrol: no unanswered draw offer from the opponent")
	ErrWrongTurnForTakeback = errors.New("gamecontrol: takeback may only be requested on the opponent's turn")
	ErrTakebackDisabled     = errors.New("gamecontrol: takeback is disabled by one or both players' settings")
	ErrNoTakebackToAccept   = errors.New("gamecontrol: no unanswered takeback request from the opponent")
	ErrUnknownControl       = errors.New("gamecontrol: unrecognized control")
)

// Control is one game-control protocol message.
type Control int

const (
	Resign Control = iota
	Abort
	DrawOffer
	DrawAccept
	DrawReject
	TakebackRequest
	TakebackAccept
	TakebackReject
)

func (c Control) String() string {
	switch c {
	case Resign:
		return "Resign"
	case Abort:
		return "Abort"
	case DrawOffer:
		return "DrawOffer"
	case DrawAccept:
		return "DrawAccept"
	case DrawReject:
		return "DrawReject"
	case TakebackRequest:
		return "TakebackRequest"
	case TakebackAccept:
		return "TakebackAccept"
	case TakebackReject:
		return "TakebackReject"
	default:
		return "Control(?)"
	}
}

// TakebackPolicy is a per-user setting governing whether they allow takebacks.
type TakebackPolicy int

const (
	TakebackAlways TakebackPolicy = iota
	TakebackCasualOnly
	TakebackNever
)

func (p TakebackPolicy) allows(rated bool) bool {
	switch p {
	case TakebackAlways:
		return true
	case TakebackCasualOnly:
		return !rated
	default:
		return false
	}
}

// Entry is one turn-tagged control-history record.
type Entry struct {
	Turn    int
	Color   board.Color
	Control Control
}

// Effect describes the externally-visible consequence of one Apply call, for
// the caller (request handler / session layer) to persist and fan out.
type Effect struct {
	Deleted    bool // Abort: the game record should be discarded, no rating
	Finished   bool
	Winner     *board.Color // nil on a finished Draw
	Conclusion state.Conclusion
	Notify     bool // an offer/request/rejection the opponent should see
	UndoCount  int  // TakebackAccept: how many history entries were reverted
}

// Handler layers the control sub-protocol over one game's State and Clock.
type Handler struct {
	State *state.State
	Clock *clock.Clock
	Rated bool

	WhiteTakeback TakebackPolicy
	BlackTakeback TakebackPolicy

	History []Entry

	pendingDrawOffer   *board.Color
	pendingTakebackReq *board.Color
	lastControl        *Entry
}

// Apply validates and applies one control message from color, per the
// preconditions and effects table. A control identical to the immediately
// prior one (same sender, same control) is silently ignored (idempotency
// guard), returning a zero Effect and nil error. now is used only to defer
// Resign/DrawAccept to an already-expired clock (see CheckTimeoutLocked).
func (h *Handler) Apply(color board.Color, control Control, now time.Time) (Effect, error) {
	if h.lastControl != nil && h.lastControl.Color == color && h.lastControl.Control == control {
		return Effect{}, nil
	}

	var eff Effect
	switch control {
	case Resign:
		if h.CheckTimeoutLocked(now) {
			return Effect{Finished: true, Conclusion: state.ConclusionTimeout}, nil
		}
		winner := color.Opposite()
		if err := h.State.ForceFinish(&winner, state.ConclusionResigned); err != nil {
			return Effect{}, err
		}
		h.Clock.Stop()
		eff = Effect{Finished: true, Winner: &winner, Conclusion: state.ConclusionResigned}

	case Abort:
		if h.State.Turn > 1 {
			return Effect{}, ErrAbortTooLate
		}
		eff = Effect{Deleted: true}

	case DrawOffer:
		if h.pendingDrawOffer != nil && *h.pendingDrawOffer == color {
			return Effect{}, ErrDuplicateOffer
		}
		c := color
		h.pendingDrawOffer = &c
		eff = Effect{Notify: true}

	case DrawAccept:
		if h.pendingDrawOffer == nil || *h.pendingDrawOffer == color {
			return Effect{}, ErrNoOfferToAccept
		}
		if h.CheckTimeoutLocked(now) {
			h.pendingDrawOffer = nil
			return Effect{Finished: true, Conclusion: state.ConclusionTimeout}, nil
		}
		if err := h.State.ForceFinish(nil, state.ConclusionDrawAgreed); err != nil {
			return Effect{}, err
		}
		h.Clock.Stop()
		h.pendingDrawOffer = nil
		eff = Effect{Finished: true, Conclusion: state.ConclusionDrawAgreed}

	case DrawReject:
		if h.pendingDrawOffer == nil || *h.pendingDrawOffer == color {
			return Effect{}, ErrNoOfferToAccept
		}
		h.pendingDrawOffer = nil
		eff = Effect{Notify: true}

	case TakebackRequest:
		if color == h.State.TurnColor() {
			return Effect{}, ErrWrongTurnForTakeback
		}
		if !h.takebackAllowed() {
			return Effect{}, ErrTakebackDisabled
		}
		c := color
		h.pendingTakebackReq = &c
		eff = Effect{Notify: true}

	case TakebackAccept:
		if h.pendingTakebackReq == nil || *h.pendingTakebackReq == color {
			return Effect{}, ErrNoTakebackToAccept
		}
		popped, err := h.State.Undo()
		if err != nil {
			return Effect{}, err
		}
		h.pendingTakebackReq = nil
		eff = Effect{UndoCount: popped}

	case TakebackReject:
		if h.pendingTakebackReq == nil || *h.pendingTakebackReq == color {
			return Effect{}, ErrNoTakebackToAccept
		}
		h.pendingTakebackReq = nil
		eff = Effect{Notify: true}

	default:
		return Effect{}, ErrUnknownControl
	}

	entry := Entry{Turn: h.State.Turn, Color: color, Control: control}
	h.History = append(h.History, entry)
	h.lastControl = &entry
	return eff, nil
}

func (h *Handler) takebackAllowed() bool {
	return h.WhiteTakeback.allows(h.Rated) && h.BlackTakeback.allows(h.Rated)
}

// AfterMove implicitly rejects any unanswered draw offer or takeback
// request directed at mover: playing a move is itself an answer. Call this
// after a successful state.State.Play/PlayNotation.
func (h *Handler) AfterMove(mover board.Color) {
	opponent := mover.Opposite()
	if h.pendingDrawOffer != nil && *h.pendingDrawOffer == opponent {
		h.pendingDrawOffer = nil
		entry := Entry{Turn: h.State.Turn, Color: mover, Control: DrawReject}
		h.History = append(h.History, entry)
		h.lastControl = &entry
	}
	if h.pendingTakebackReq != nil && *h.pendingTakebackReq == opponent {
		h.pendingTakebackReq = nil
		entry := Entry{Turn: h.State.Turn, Color: mover, Control: TakebackReject}
		h.History = append(h.History, entry)
		h.lastControl = &entry
	}
}

// CheckTimeoutLocked defers Resign/DrawAccept to an already-expired clock:
// if either side's time is exhausted, it finishes the game via the timeout
// path instead and returns true, so the caller should not proceed with the
// originally requested control.
func (h *Handler) CheckTimeoutLocked(now time.Time) bool {
	for _, c := range [2]board.Color{board.White, board.Black} {
		if h.Clock.CheckTimeout(c, now) {
			winner := c.Opposite()
			_ = h.State.ForceFinish(&winner, state.ConclusionTimeout)
			_ = h.Clock.Stop()
			return true
		}
	}
	return false
}

