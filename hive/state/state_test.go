package state

import (
	"testing"

	"github.com/hiveboardgame/hive/hive/board"
)

func TestNewGamePlaysFirstTwoSpawns(t *testing.T) {
	s := New(board.Base, false)
	if err := s.PlayNotation("wS1", "."); err != nil {
		t.Fatalf("first spawn: %v", err)
	}
	if err := s.PlayNotation("bS1", "wS1-"); err != nil {
		t.Fatalf("second spawn: %v", err)
	}
	if s.Turn != 2 {
		t.Fatalf("expected turn 2, got %d", s.Turn)
	}
	if s.TurnColor() != board.White {
		t.Fatalf("expected white to move, got %v", s.TurnColor())
	}
	if s.Status != InProgress {
		t.Fatalf("expected InProgress after two plies, got %v", s.Status)
	}
}

func TestTournamentForbidsOpeningQueen(t *testing.T) {
	s := New(board.Base, true)
	if err := s.PlayNotation("wQ", "."); err != ErrQueenOpeningForbidden {
		t.Fatalf("expected ErrQueenOpeningForbidden, got %v", err)
	}
}

func TestQueenRequiredOnFourthOwnTurn(t *testing.T) {
	s := New(board.Base, false)
	moves := [][2]string{
		{"wS1", "."}, {"bS1", "wS1-"},
		{"wA1", "-wS1"}, {"bA1", "bS1-"},
		{"wG1", "wA1\\"}, {"bG1", "bA1-"},
	}
	for _, m := range moves {
		if err := s.PlayNotation(m[0], m[1]); err != nil {
			t.Fatalf("setup move %v: %v", m, err)
		}
	}
	// White's 4th placement must be the Queen.
	if err := s.PlayNotation("wL1", "wG1\\"); err != ErrQueenRequired {
		t.Fatalf("expected ErrQueenRequired, got %v", err)
	}
	if err := s.PlayNotation("wQ", "wG1\\"); err != nil {
		t.Fatalf("queen placement should succeed: %v", err)
	}
}

func TestUndoRestoresPriorState(t *testing.T) {
	s := New(board.Base, false)
	if err := s.PlayNotation("wS1", "."); err != nil {
		t.Fatal(err)
	}
	if err := s.PlayNotation("bS1", "wS1-"); err != nil {
		t.Fatal(err)
	}
	if popped, err := s.Undo(); err != nil || popped != 1 {
		t.Fatalf("undo: popped=%d err=%v", popped, err)
	}
	if s.Turn != 1 {
		t.Fatalf("expected turn 1 after undo, got %d", s.Turn)
	}
	if len(s.History) != 1 {
		t.Fatalf("expected 1 history entry after undo, got %d", len(s.History))
	}
}

func TestNewFromHistoryReplaysDeterministically(t *testing.T) {
	s := New(board.Base, false)
	moves := [][2]string{
		{"wS1", "."}, {"bS1", "wS1-"},
		{"wA1", "-wS1"}, {"bA1", "bS1-"},
	}
	for _, m := range moves {
		if err := s.PlayNotation(m[0], m[1]); err != nil {
			t.Fatalf("play %v: %v", m, err)
		}
	}
	replayed, err := NewFromHistory(board.Base, false, s.History)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.Turn != s.Turn {
		t.Fatalf("replayed turn %d != original %d", replayed.Turn, s.Turn)
	}
	if replayed.Board.ZobristHash() != s.Board.ZobristHash() {
		t.Fatalf("replayed hash != original hash")
	}
}

func TestInferTournamentFalseWhenOpeningQueen(t *testing.T) {
	h := []HistoryEntry{{Piece: "wQ", Destination: "."}, {Piece: "bS1", Destination: "wQ-"}}
	if InferTournament(h) {
		t.Fatal("expected InferTournament to be false when the opening ply is a Queen placement")
	}
	h2 := []HistoryEntry{{Piece: "wS1", Destination: "."}, {Piece: "bS1", Destination: "wS1-"}}
	if !InferTournament(h2) {
		t.Fatal("expected InferTournament to be true when neither opening ply is a Queen placement")
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	s := New(board.Base, false)
	if err := s.PlayNotation("bS1", "."); err != ErrOutOfTurn {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
}
