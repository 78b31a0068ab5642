package board

import (
	"sort"
	"testing"

	"github.com/hiveboardgame/hive/hive/position"
)

func posSet(ps []position.Position) map[position.Position]bool {
	m := make(map[position.Position]bool, len(ps))
	for _, p := range ps {
		m[p] = true
	}
	return m
}

func sortedStrings(ps []position.Position) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

// A lone queen with a single neighbor has exactly two crawl destinations:
// the two cells common to it and its neighbor.
func TestQueenCrawlSingleNeighbor(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	q := Piece{Color: White, Bug: Queen, Order: 1}
	b.Spawn(q, origin)
	other := Piece{Color: Black, Bug: Ant, Order: 1}
	n := origin.To(position.E)
	b.Spawn(other, n)

	dests := b.crawl(origin)
	if len(dests) != 2 {
		t.Fatalf("expected 2 crawl destinations, got %d: %v", len(dests), dests)
	}
	c1, c2 := origin.CommonAdjacent(n)
	set := posSet(dests)
	if !set[c1] || !set[c2] {
		t.Errorf("expected destinations %v, %v, got %v", c1, c2, dests)
	}
}

// Fully gated: origin surrounded on all six sides so both common cells of
// each occupied neighbor are themselves occupied -> zero crawl
// destinations.
func TestQueenCrawlFullyGated(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	q := Piece{Color: White, Bug: Queen, Order: 1}
	b.Spawn(q, origin)
	i := 1
	for _, d := range position.AllDirections {
		b.Spawn(Piece{Color: Black, Bug: Ant, Order: (i-1)%3 + 1}, origin.To(d))
		i++
	}
	dests := b.crawl(origin)
	if len(dests) != 0 {
		t.Fatalf("expected 0 crawl destinations when fully surrounded, got %v", dests)
	}
}

func TestGrasshopperStraightLineJump(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	hopper := Piece{Color: White, Bug: Grasshopper, Order: 1}
	b.Spawn(hopper, origin)
	n1 := origin.To(position.E)
	n2 := n1.To(position.E)
	b.Spawn(Piece{Color: Black, Bug: Ant, Order: 1}, n1)
	b.Spawn(Piece{Color: Black, Bug: Ant, Order: 2}, n2)

	dests := b.grasshopperMoves(origin)
	want := n2.To(position.E)
	set := posSet(dests)
	if !set[want] {
		t.Fatalf("expected grasshopper to land at %v, got %v", want, dests)
	}
	if len(dests) != 1 {
		t.Fatalf("expected exactly one direction with a neighbor, got %v", dests)
	}
}

func TestGrasshopperNoNeighborsNoMoves(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	b.Spawn(Piece{Color: White, Bug: Grasshopper, Order: 1}, origin)
	if dests := b.grasshopperMoves(origin); len(dests) != 0 {
		t.Fatalf("expected no moves for an isolated grasshopper, got %v", dests)
	}
}

func TestAntReachesAroundTheHive(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	ant := Piece{Color: White, Bug: Ant, Order: 1}
	b.Spawn(ant, origin)
	// Build a small ring so the ant has multiple negative-space cells
	// reachable by crawling.
	ring := []position.Position{
		origin.To(position.E),
		origin.To(position.E).To(position.SE),
		origin.To(position.SW),
	}
	for i, p := range ring {
		b.Spawn(Piece{Color: Black, Bug: Ant, Order: i + 1}, p)
	}
	dests := b.antMoves(origin)
	if len(dests) == 0 {
		t.Fatal("expected the ant to have reachable negative-space destinations")
	}
	for _, d := range dests {
		if d == origin {
			t.Error("ant destinations must not include its own origin")
		}
	}
}

func TestBeetleClimbsOntoNeighbor(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	beetle := Piece{Color: White, Bug: Beetle, Order: 1}
	b.Spawn(beetle, origin)
	n := origin.To(position.E)
	target := Piece{Color: Black, Bug: Ant, Order: 1}
	b.Spawn(target, n)

	dests := b.beetleMoves(origin)
	set := posSet(dests)
	if !set[n] {
		t.Fatalf("expected beetle to be able to climb onto %v, got %v", n, dests)
	}
}

func TestBeetleOnTopDescendsToEmptyGround(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	bottom := Piece{Color: Black, Bug: Ant, Order: 1}
	beetle := Piece{Color: White, Bug: Beetle, Order: 1}
	b.Spawn(bottom, origin)
	b.Insert(beetle, origin)

	dests := b.beetleMoves(origin)
	found := false
	for _, n := range origin.Neighbors() {
		if !b.occupied(n) && posSet(dests)[n] {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected beetle on top of the hive to be able to descend, got %v", dests)
	}
}

func TestPillbugThrowsUnpinnedGroundNeighbor(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	pillbug := Piece{Color: White, Bug: Pillbug, Order: 1}
	donor := Piece{Color: Black, Bug: Ant, Order: 1}
	donorPos := origin.To(position.E)
	// Spawn the donor first so the pillbug, not the donor, is last_moved.
	b.Spawn(donor, donorPos)
	b.Spawn(pillbug, origin)

	throws := b.pillbugThrow(origin)
	tos, ok := throws[donor]
	if !ok || len(tos) == 0 {
		t.Fatalf("expected pillbug to be able to throw the unpinned neighbor, got %v", throws)
	}
}

func TestPillbugCannotThrowLastMovedPiece(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	pillbug := Piece{Color: White, Bug: Pillbug, Order: 1}
	b.Spawn(pillbug, origin)
	donor := Piece{Color: Black, Bug: Ant, Order: 1}
	donorPos := origin.To(position.E)
	b.Spawn(donor, donorPos) // donor becomes last_moved via Spawn/Insert

	throws := b.pillbugThrow(origin)
	if _, ok := throws[donor]; ok {
		t.Fatalf("expected last-moved piece to be excluded from pillbug throw targets")
	}
}

func TestMosquitoGroundLevelBorrowsAdjacentMoves(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	mosquito := Piece{Color: White, Bug: Mosquito, Order: 1}
	b.Spawn(mosquito, origin)
	n := origin.To(position.E)
	b.Spawn(Piece{Color: Black, Bug: Ant, Order: 1}, n)

	mosquitoDests := posSet(b.mosquitoMoves(origin))
	beetleDests := posSet(b.beetleMoves(origin)) // a beetle at the same spot would only climb/crawl
	if len(mosquitoDests) == 0 {
		t.Fatal("expected mosquito adjacent to an ant to gain crawl-like destinations")
	}
	_ = beetleDests
}

func TestMosquitoAdjacentToMosquitoContributesNothing(t *testing.T) {
	b := New()
	origin := position.InitialSpawn()
	m1 := Piece{Color: White, Bug: Mosquito, Order: 1}
	b.Spawn(m1, origin)
	m2 := Piece{Color: Black, Bug: Mosquito, Order: 1}
	b.Spawn(m2, origin.To(position.E))

	dests := b.mosquitoMoves(origin)
	if len(dests) != 0 {
		t.Fatalf("mosquito-adjacent-to-mosquito should contribute no moves, got %v", dests)
	}
}
