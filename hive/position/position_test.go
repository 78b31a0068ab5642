package position

import "testing"

func TestNewWrapsNegative(t *testing.T) {
	p := New(-1, -1)
	want := Position{Q: BoardSize - 1, R: BoardSize - 1}
	if p != want {
		t.Fatalf("New(-1,-1) = %v, want %v", p, want)
	}
}

func TestToAndIsNeighbor(t *testing.T) {
	origin := InitialSpawn()
	for _, d := range AllDirections {
		n := origin.To(d)
		if !origin.IsNeighbor(n) {
			t.Errorf("To(%v) = %v not reported as neighbor of %v", d, n, origin)
		}
		if n == origin {
			t.Errorf("To(%v) returned origin itself", d)
		}
	}
}

func TestIsNeighborWrapsAroundEdge(t *testing.T) {
	edge := New(0, 0)
	wrapped := New(BoardSize-1, 0)
	if !edge.IsNeighbor(wrapped) {
		t.Fatalf("expected wrap-around adjacency between %v and %v", edge, wrapped)
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	origin := InitialSpawn()
	for _, d := range AllDirections {
		n := origin.To(d)
		got := origin.Direction(n)
		if got != d {
			t.Errorf("Direction(To(%v)) = %v, want %v", d, got, d)
		}
	}
}

func TestDirectionPanicsOnNonNeighbor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-neighbor Direction call")
		}
	}()
	origin := InitialSpawn()
	far := New(origin.Q+5, origin.R+5)
	origin.Direction(far)
}

func TestNeighborsAreSixDistinctCells(t *testing.T) {
	origin := InitialSpawn()
	ns := origin.Neighbors()
	seen := make(map[Position]bool)
	for _, n := range ns {
		if seen[n] {
			t.Fatalf("duplicate neighbor %v", n)
		}
		seen[n] = true
		if n == origin {
			t.Fatalf("neighbor equals origin")
		}
	}
	if len(seen) != 6 {
		t.Fatalf("got %d distinct neighbors, want 6", len(seen))
	}
}

func TestCommonAdjacentAreSharedNeighbors(t *testing.T) {
	origin := InitialSpawn()
	for _, d := range AllDirections {
		n := origin.To(d)
		c1, c2 := origin.CommonAdjacent(n)
		if !origin.IsNeighbor(c1) || !n.IsNeighbor(c1) {
			t.Errorf("direction %v: c1=%v not adjacent to both", d, c1)
		}
		if !origin.IsNeighbor(c2) || !n.IsNeighbor(c2) {
			t.Errorf("direction %v: c2=%v not adjacent to both", d, c2)
		}
		if c1 == c2 {
			t.Errorf("direction %v: common adjacent cells collapsed to one", d)
		}
	}
}

func TestAllCoversFullBoard(t *testing.T) {
	all := All()
	if len(all) != BoardSize*BoardSize {
		t.Fatalf("All() returned %d positions, want %d", len(all), BoardSize*BoardSize)
	}
}
