package board

import (
	"testing"

	"github.com/hiveboardgame/hive/hive/position"
)

func TestInsertRemoveNeighborCountInvariant(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	b.Spawn(Piece{Color: White, Bug: Queen, Order: 1}, origin)
	if err := b.Check(); err != nil {
		t.Fatal(err)
	}
	n1 := origin.To(position.E)
	b.Spawn(Piece{Color: Black, Bug: Queen, Order: 1}, n1)
	if err := b.Check(); err != nil {
		t.Fatal(err)
	}
	b.Remove(n1)
	if err := b.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestPieceOffsetRoundTrip(t *testing.T) {
	for _, c := range []Color{White, Black} {
		for bug := Ant; bug <= Spider; bug++ {
			for order := 1; order <= 3; order++ {
				p := Piece{Color: c, Bug: bug, Order: order}
				got := OffsetToPiece(p.Offset())
				if got != p {
					t.Errorf("OffsetToPiece(Offset(%v)) = %v", p, got)
				}
			}
		}
	}
}

func TestPieceNotationRoundTrip(t *testing.T) {
	cases := []Piece{
		{Color: White, Bug: Ant, Order: 1},
		{Color: Black, Bug: Grasshopper, Order: 3},
		{Color: White, Bug: Queen, Order: 1},
	}
	for _, p := range cases {
		tok := p.Notation()
		got, err := ParsePiece(tok)
		if err != nil {
			t.Fatalf("ParsePiece(%q): %v", tok, err)
		}
		if got != p {
			t.Errorf("ParsePiece(%q) = %v, want %v", tok, got, p)
		}
	}
}

func TestSpawnableFirstTwoPlacements(t *testing.T) {
	b := New()
	if !b.Spawnable(White, position.InitialSpawn()) {
		t.Fatal("first placement must be allowed at the initial cell")
	}
	if b.Spawnable(White, position.InitialSpawn().To(position.E)) {
		t.Fatal("first placement must NOT be allowed off the initial cell")
	}
	b.Spawn(Piece{Color: White, Bug: Queen, Order: 1}, position.InitialSpawn())

	for _, n := range position.InitialSpawn().Neighbors() {
		if !b.Spawnable(Black, n) {
			t.Errorf("second placement should be allowed adjacent to the first piece at %v", n)
		}
	}
	if b.Spawnable(Black, position.InitialSpawn()) {
		t.Fatal("second placement must not reuse the occupied initial cell")
	}
}

func TestSpawnableRejectsOpponentTouch(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	b.Spawn(Piece{Color: White, Bug: Queen, Order: 1}, origin)
	n := origin.To(position.E)
	b.Spawn(Piece{Color: Black, Bug: Queen, Order: 1}, n)

	// A cell touching both white's queen and black's queen is not spawnable
	// for either side (must not touch the opposite color).
	for _, p := range origin.Neighbors() {
		if p == n {
			continue
		}
		if p.IsNeighbor(n) {
			if b.Spawnable(White, p) {
				t.Errorf("expected %v (touches black) to be unspawnable for white", p)
			}
		}
	}
}

func TestMovePieceRejectsCoveredPiece(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	bottom := Piece{Color: White, Bug: Beetle, Order: 1}
	top := Piece{Color: White, Bug: Beetle, Order: 2}
	b.Spawn(bottom, origin)
	b.Insert(top, origin)

	if err := b.MovePiece(bottom, origin, origin.To(position.E)); err != ErrCoveredPiece {
		t.Fatalf("expected ErrCoveredPiece, got %v", err)
	}
}

func TestGameResultQueenSurrounded(t *testing.T) {
	b := New()
	wq := Piece{Color: White, Bug: Queen, Order: 1}
	origin := position.InitialSpawn()
	b.Spawn(wq, origin)
	order := 1
	for _, n := range origin.Neighbors() {
		b.Spawn(Piece{Color: Black, Bug: Ant, Order: order}, n)
		order++
		if order > 3 {
			order = 1
		}
	}
	if b.GameResultFor() != WinnerBlack {
		t.Fatalf("expected WinnerBlack with white's queen fully surrounded")
	}
}

// Straight-line three-in-a-row: the middle piece is an articulation point
// and must be pinned; the two ends are not.
func TestPinDetectionThreeInARow(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	a := Piece{Color: White, Bug: Ant, Order: 1}
	mid := Piece{Color: White, Bug: Ant, Order: 2}
	c := Piece{Color: White, Bug: Ant, Order: 3}
	b.Spawn(a, origin)
	b.Spawn(mid, origin.To(position.E))
	b.Spawn(c, origin.To(position.E).To(position.E))

	if !b.IsPinned(mid) {
		t.Error("middle piece of a 3-in-a-row should be pinned")
	}
	if b.IsPinned(a) {
		t.Error("end piece should not be pinned")
	}
	if b.IsPinned(c) {
		t.Error("end piece should not be pinned")
	}
}

func TestPinDetectionStackedPieceNeverPinned(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	bottom := Piece{Color: White, Bug: Beetle, Order: 1}
	top := Piece{Color: White, Bug: Beetle, Order: 2}
	b.Spawn(bottom, origin)
	b.Insert(top, origin)
	a := Piece{Color: White, Bug: Ant, Order: 1}
	c := Piece{Color: White, Bug: Ant, Order: 2}
	b.Spawn(a, origin.To(position.E))
	b.Spawn(c, origin.To(position.W))
	// bottom piece would be an articulation point, but height 2 > 1 so it's
	// never reported pinned.
	if b.IsPinned(bottom) {
		t.Error("a stacked piece (height > 1) must never be reported pinned")
	}
}
