// Package state implements the authoritative per-game turn engine: it wraps
// a board.Board with turn/color bookkeeping, move/spawn/pass validation,
// notation-based history, and terminal-state (win/draw/repetition) detection.
//
// Grounded on the reference engine's state.rs game_status handling, adapted
// to Go's explicit-error style.
package state

import (
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/position"
)

// Conclusion records why a finished game ended.
type Conclusion int

const (
	ConclusionNone Conclusion = iota
	ConclusionBoard
	ConclusionResigned
	ConclusionTimeout
	ConclusionDrawAgreed
	ConclusionRepetition
	ConclusionForfeit
	ConclusionAdjudicated
)

func (c Conclusion) String() string {
	switch c {
	case ConclusionBoard:
		return "Board"
	case ConclusionResigned:
		return "Resigned"
	case ConclusionTimeout:
		return "Timeout"
	case ConclusionDrawAgreed:
		return "DrawAgreed"
	case ConclusionRepetition:
		return "Repetition"
	case ConclusionForfeit:
		return "Forfeit"
	case ConclusionAdjudicated:
		return "Adjudicated"
	default:
		return "None"
	}
}

// Status is the coarse lifecycle stage of a game.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "InProgress"
	case Finished:
		return "Finished"
	default:
		return "NotStarted"
	}
}

// HistoryEntry is one recorded ply in canonical notation: the piece token and
// its destination token ("pass" entries carry an empty Destination).
type HistoryEntry struct {
	Piece       string
	Destination string
}

var (
	colorWhite = board.White
	colorBlack = board.Black
)

type zobristRecord struct {
	color board.Color
	hash  uint64
}

// State is one game's authoritative turn machine.
type State struct {
	Board      *board.Board
	GameType   board.GameType
	Tournament bool
	Turn       int
	Status     Status
	Winner     *board.Color
	Conclusion Conclusion
	History    []HistoryEntry

	zobristHistory []zobristRecord
}

// New starts a fresh game of the given type. Tournament forbids opening the
// first two plies with a Queen placement.
func New(gameType board.GameType, tournament bool) *State {
	return &State{
		Board:      board.New(),
		GameType:   gameType,
		Tournament: tournament,
		Status:     NotStarted,
	}
}

// TurnColor is the color to move: White on even plies, Black on odd.
func (s *State) TurnColor() board.Color {
	if s.Turn%2 == 0 {
		return board.White
	}
	return board.Black
}

// QueenAllowed reports whether the side to move may open with a Queen
// placement: tournament rules forbid it on the very first ply of either
// color (turn 0 and turn 1).
func (s *State) QueenAllowed() bool {
	if !s.Tournament {
		return true
	}
	return s.Turn > 1
}

// destinationNotation renders the canonical destination token for target,
// computed against the board BEFORE the move is applied.
func (s *State) destinationNotation(target position.Position) string {
	if len(s.History) == 0 {
		return "."
	}
	targetStack := s.Board.Get(target)
	pre := targetStack.Pieces()
	if len(pre) > 0 {
		return board.FormatClimb(pre[len(pre)-1])
	}
	for _, n := range target.Neighbors() {
		if !s.Board.Occupied(n) {
			continue
		}
		nStack := s.Board.Get(n)
		top, _ := nStack.Top()
		dir := n.Direction(target)
		return board.FormatDestination(top, dir)
	}
	return "."
}

func (s *State) appendHistory(pieceTok, destTok string) {
	s.History = append(s.History, HistoryEntry{Piece: pieceTok, Destination: destTok})
}

// Play applies one ply: spawning piece if it has never been placed, or
// relocating it otherwise. It is the caller's job to have resolved the
// destination token (via Board.ParseDestination) to target first.
func (s *State) Play(piece board.Piece, target position.Position) error {
	if s.Status == Finished {
		return ErrGameOver
	}
	if piece.Color != s.TurnColor() {
		return ErrOutOfTurn
	}
	var err error
	if s.Board.PieceAlreadyPlayed(piece) {
		err = s.turnMove(piece, target)
	} else {
		err = s.turnSpawn(piece, target)
	}
	if err != nil {
		return err
	}
	s.Turn++
	s.afterPly()
	return nil
}

// PlayNotation parses and applies one ply from its canonical notation
// tokens. destTok is ignored for the literal piece token "pass".
func (s *State) PlayNotation(pieceTok, destTok string) error {
	if pieceTok == "pass" {
		return s.playPass()
	}
	piece, err := board.ParsePiece(pieceTok)
	if err != nil {
		return err
	}
	target, err := s.Board.ParseDestination(destTok)
	if err != nil {
		return err
	}
	return s.Play(piece, target)
}

func (s *State) turnSpawn(piece board.Piece, target position.Position) error {
	if !s.QueenAllowed() && piece.Bug == board.Queen {
		return ErrQueenOpeningForbidden
	}
	if board.QueenRequired(s.Turn, piece.Color, s.Board.QueenPlayed(piece.Color)) && piece.Bug != board.Queen {
		return ErrQueenRequired
	}
	if piece.Order < 1 || piece.Order > s.GameType.BugsCount(piece.Bug) {
		return ErrNotInReserve
	}
	if !s.Board.Spawnable(piece.Color, target) {
		return ErrInvalidSpawn
	}
	notation := s.destinationNotation(target)
	s.Board.Spawn(piece, target)
	s.appendHistory(piece.Notation(), notation)
	return nil
}

func (s *State) turnMove(piece board.Piece, target position.Position) error {
	from, ok := s.Board.PositionOf(piece)
	if !ok {
		return ErrNotOnBoard
	}
	if !s.Board.IsValidMove(s.TurnColor(), s.GameType, s.Turn, piece, target) {
		return ErrInvalidMove
	}
	notation := s.destinationNotation(target)
	if err := s.Board.MovePiece(piece, from, target); err != nil {
		return err
	}
	s.appendHistory(piece.Notation(), notation)
	return nil
}

func (s *State) playPass() error {
	if s.Status == Finished {
		return ErrGameOver
	}
	color := s.TurnColor()
	if !s.Board.IsShutout(color, s.GameType, s.Turn) {
		return ErrInvalidPass
	}
	s.appendHistory("pass", "")
	s.Turn++
	s.afterPly()
	return nil
}

// afterPly runs every post-move transition: status promotion, terminal
// result detection, repetition detection, and recursive auto-pass when the
// new side to move is shut out.
func (s *State) afterPly() {
	s.recordZobrist()
	if s.Status == NotStarted {
		s.Status = InProgress
	}
	switch s.Board.GameResultFor() {
	case board.WinnerWhite:
		s.finish(&colorWhite, ConclusionBoard)
		return
	case board.WinnerBlack:
		s.finish(&colorBlack, ConclusionBoard)
		return
	case board.Draw:
		s.finish(nil, ConclusionBoard)
		return
	}
	if s.isTripleRepetition() {
		s.finish(nil, ConclusionRepetition)
		return
	}
	color := s.TurnColor()
	if s.Board.IsShutout(color, s.GameType, s.Turn) {
		s.appendHistory("pass", "")
		s.Turn++
		s.afterPly()
	}
}

func (s *State) finish(winner *board.Color, conclusion Conclusion) {
	s.Status = Finished
	s.Winner = winner
	s.Conclusion = conclusion
}

// ForceFinish ends the game for a reason outside the board itself (resign,
// timeout, draw agreement, forfeit, adjudication); used by hive/gamecontrol
// and the request handler's clock-timeout path. It refuses to re-finish an
// already-finished game.
func (s *State) ForceFinish(winner *board.Color, conclusion Conclusion) error {
	if s.Status == Finished {
		return ErrGameOver
	}
	s.finish(winner, conclusion)
	return nil
}

func (s *State) recordZobrist() {
	s.zobristHistory = append(s.zobristHistory, zobristRecord{color: s.TurnColor(), hash: s.Board.ZobristHash()})
}

func (s *State) isTripleRepetition() bool {
	cur := zobristRecord{color: s.TurnColor(), hash: s.Board.ZobristHash()}
	count := 0
	for _, r := range s.zobristHistory {
		if r == cur {
			count++
		}
	}
	return count >= 3
}

// Undo reverts the most recently played ply (and any trailing auto-pass that
// followed it), rebuilding state from the truncated history. Returns the
// number of history entries removed.
func (s *State) Undo() (int, error) {
	if len(s.History) == 0 {
		return 0, ErrNoHistory
	}
	truncated := s.History[:len(s.History)-1]
	popped := 1
	if len(truncated) > 0 && truncated[len(truncated)-1].Piece == "pass" {
		truncated = truncated[:len(truncated)-1]
		popped++
	}
	rebuilt, err := NewFromHistory(s.GameType, s.Tournament, truncated)
	if err != nil {
		return 0, err
	}
	*s = *rebuilt
	return popped, nil
}

// NewFromHistory replays history from an empty board, validating every ply
// exactly as Play/PlayNotation would. Used for game-load and for Undo.
func NewFromHistory(gameType board.GameType, tournament bool, history []HistoryEntry) (*State, error) {
	s := New(gameType, tournament)
	for _, h := range history {
		if err := s.PlayNotation(h.Piece, h.Destination); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// InferTournament reports whether a raw history is consistent with
// tournament rules having been in effect: true unless one of the
// first two plies is a Queen placement.
func InferTournament(history []HistoryEntry) bool {
	for i := 0; i < len(history) && i < 2; i++ {
		if isQueenPlacement(history[i]) {
			return false
		}
	}
	return true
}

func isQueenPlacement(h HistoryEntry) bool {
	if h.Piece == "pass" {
		return false
	}
	p, err := board.ParsePiece(h.Piece)
	return err == nil && p.Bug == board.Queen
}
