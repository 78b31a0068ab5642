// Package board implements the Hive playing surface: per-cell stacks of
// pieces, incremental neighbor-occupancy counts, pin (articulation point)
// detection, gating, reserve accounting, and per-bug move generation.
//
// Grounded on the reference engine's board.rs and bug.rs.
package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hiveboardgame/hive/hive/position"
)

var (
	ErrCoveredPiece = errors.New("board: piece is covered and cannot move")
	ErrNotOnBoard   = errors.New("board: piece is not on the board")
	ErrPinned       = errors.New("board: piece is pinned")
	ErrNotSpawnable = errors.New("board: position is not spawnable for this color")
)

const numCells = position.BoardSize * position.BoardSize

func cellIndex(p position.Position) int {
	return p.Q*position.BoardSize + p.R
}

// GameResult is the terminal outcome derived from Queen-surround state.
type GameResult int

const (
	Unknown GameResult = iota
	WinnerWhite
	WinnerBlack
	Draw
)

// Board is the authoritative playing surface for one game.
type Board struct {
	cells         [numCells]BugStack
	neighborCount [numCells]uint8
	positions     [NumIdentities]position.Position
	placed        [NumIdentities]bool
	pinned        [NumIdentities]bool

	lastMovedPiece Piece
	hasLastMoved   bool
	lastMovedPos   position.Position

	lastFrom    position.Position
	hasLastFrom bool
	lastTo      position.Position
	hasLastTo   bool

	zobristHash uint64
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

func (b *Board) at(p position.Position) *BugStack {
	return &b.cells[cellIndex(p)]
}

// Get returns the stack at p (read-only view).
func (b *Board) Get(p position.Position) BugStack {
	return b.cells[cellIndex(p)]
}

func (b *Board) NeighborCount(p position.Position) int {
	return int(b.neighborCount[cellIndex(p)])
}

func (b *Board) occupied(p position.Position) bool {
	return !b.cells[cellIndex(p)].Empty()
}

// Occupied reports whether p has any piece on it.
func (b *Board) Occupied(p position.Position) bool { return b.occupied(p) }

// Level returns the stack height at p (0 if empty).
func (b *Board) Level(p position.Position) int {
	return b.cells[cellIndex(p)].Size()
}

// PositionOf returns the position of piece and true, or false if it has not
// been placed yet.
func (b *Board) PositionOf(piece Piece) (position.Position, bool) {
	off := piece.Offset()
	return b.positions[off], b.placed[off]
}

// PieceAlreadyPlayed reports whether piece has been placed on the board.
func (b *Board) PieceAlreadyPlayed(piece Piece) bool {
	return b.placed[piece.Offset()]
}

// IsTopPiece reports whether piece is the top of the stack at its own recorded position.
func (b *Board) IsTopPiece(piece Piece) bool {
	pos, ok := b.PositionOf(piece)
	if !ok {
		return false
	}
	top, ok := b.cells[cellIndex(pos)].Top()
	return ok && top == piece
}

func (b *Board) IsBottomPiece(piece Piece) bool {
	pos, ok := b.PositionOf(piece)
	if !ok {
		return false
	}
	bottom, ok := b.cells[cellIndex(pos)].Bottom()
	return ok && bottom == piece
}

// IsPinned reports whether piece is pinned: it sits alone (stack height 1)
// at an articulation point of the occupied-positions graph.
func (b *Board) IsPinned(piece Piece) bool {
	pos, ok := b.PositionOf(piece)
	if !ok {
		return false
	}
	return b.pinned[piece.Offset()] && b.cells[cellIndex(pos)].Size() == 1
}

// LastMoved returns the piece moved on the previous ply, if any. The Pillbug
// rule forbids moving it again this turn (but not throwing it).
func (b *Board) LastMoved() (Piece, bool) {
	return b.lastMovedPiece, b.hasLastMoved
}

// LastMove returns the (from, to) of the previous ply; from is absent for a spawn.
func (b *Board) LastMove() (from position.Position, hasFrom bool, to position.Position, hasTo bool) {
	return b.lastFrom, b.hasLastFrom, b.lastTo, b.hasLastTo
}

// ZobristHash is the running incremental hash of the current configuration.
func (b *Board) ZobristHash() uint64 { return b.zobristHash }

// neighborCountAdjust bumps the neighbor count of every neighbor of p by delta.
func (b *Board) neighborCountAdjust(p position.Position, delta int) {
	for _, n := range p.Neighbors() {
		idx := cellIndex(n)
		b.neighborCount[idx] = uint8(int(b.neighborCount[idx]) + delta)
	}
}

// Insert places piece at pos (pushing onto any existing stack), updates
// position/neighbor bookkeeping, records it as last_moved, and recomputes pins.
func (b *Board) Insert(piece Piece, pos position.Position) {
	stack := b.at(pos)
	wasEmpty := stack.Empty()
	depth := stack.Size()
	stack.push(piece)
	b.positions[piece.Offset()] = pos
	b.placed[piece.Offset()] = true
	if wasEmpty {
		b.neighborCountAdjust(pos, 1)
	}
	b.zobristHash ^= zobristEntry(pos, piece, depth)
	b.lastMovedPiece = piece
	b.hasLastMoved = true
	b.lastMovedPos = pos
	b.recomputePinned()
}

// Remove pops and returns the top piece at pos; panics if pos is empty,
// mirroring the reference's invariant that callers only remove occupied cells.
func (b *Board) Remove(pos position.Position) Piece {
	stack := b.at(pos)
	depth := stack.Size() - 1
	top := stack.pop()
	b.zobristHash ^= zobristEntry(pos, top, depth)
	b.placed[top.Offset()] = false
	if stack.Empty() {
		b.neighborCountAdjust(pos, -1)
	}
	return top
}

// MovePiece relocates piece from `from` to `to`. Returns ErrCoveredPiece if
// piece is not the top of `from`.
func (b *Board) MovePiece(piece Piece, from, to position.Position) error {
	top, ok := b.at(from).Top()
	if !ok || top != piece {
		return ErrCoveredPiece
	}
	b.Remove(from)
	b.Insert(piece, to)
	b.lastFrom, b.hasLastFrom = from, true
	b.lastTo, b.hasLastTo = to, true
	return nil
}

// Spawn places a brand-new piece at pos (no `from`).
func (b *Board) Spawn(piece Piece, pos position.Position) {
	b.Insert(piece, pos)
	b.hasLastFrom = false
	b.lastTo, b.hasLastTo = pos, true
}

// NeighborIsA reports whether any neighbor of pos has bug as its top piece.
func (b *Board) NeighborIsA(pos position.Position, bug Bug) bool {
	for _, n := range pos.Neighbors() {
		if top, ok := b.at(n).Top(); ok && top.Bug == bug {
			return true
		}
	}
	return false
}

// Gated reports whether sliding at level from p to q (both neighbors) is
// blocked: both cells common to p and q have stacks at least `level` tall.
func (b *Board) Gated(level int, p, q position.Position) bool {
	c1, c2 := p.CommonAdjacent(q)
	return b.Level(c1) >= level && b.Level(c2) >= level
}

// PositionsAvailableAround returns the unoccupied neighbors of pos.
func (b *Board) PositionsAvailableAround(pos position.Position) []position.Position {
	var out []position.Position
	for _, n := range pos.Neighbors() {
		if !b.occupied(n) {
			out = append(out, n)
		}
	}
	return out
}

// PositionsTakenAround returns the occupied neighbors of pos.
func (b *Board) PositionsTakenAround(pos position.Position) []position.Position {
	var out []position.Position
	for _, n := range pos.Neighbors() {
		if b.occupied(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsNegativeSpace reports whether pos is unoccupied but adjacent to the hive.
func (b *Board) IsNegativeSpace(pos position.Position) bool {
	if b.occupied(pos) {
		return false
	}
	for _, n := range pos.Neighbors() {
		if b.occupied(n) {
			return true
		}
	}
	return false
}

// NegativeSpace returns every unoccupied cell adjacent to the hive.
func (b *Board) NegativeSpace() []position.Position {
	var out []position.Position
	for _, p := range position.All() {
		if b.IsNegativeSpace(p) {
			out = append(out, p)
		}
	}
	return out
}

// QueenPlayed reports whether color's Queen has been placed.
func (b *Board) QueenPlayed(color Color) bool {
	return b.placed[Piece{Color: color, Bug: Queen, Order: 1}.Offset()]
}

// QueenRequired reports whether color's Queen must be the move played this
// turn: each side's fourth move (ply index 6 for White, 7 for Black, 0-based)
// forces the Queen if it has not yet been placed.
func QueenRequired(turn int, color Color, queenPlayed bool) bool {
	if queenPlayed {
		return false
	}
	if color == White {
		return turn == 6
	}
	return turn == 7
}

// Reserve returns remaining spawnable counts per bug for color, given gameType.
func (b *Board) Reserve(color Color, gameType GameType) map[Bug]int {
	out := make(map[Bug]int)
	for _, bug := range []Bug{Ant, Beetle, Grasshopper, Ladybug, Mosquito, Pillbug, Queen, Spider} {
		total := gameType.BugsCount(bug)
		if total == 0 {
			continue
		}
		used := 0
		for order := 1; order <= total; order++ {
			if b.placed[(Piece{Color: color, Bug: bug, Order: order}).Offset()] {
				used++
			}
		}
		if remaining := total - used; remaining > 0 {
			out[bug] = remaining
		}
	}
	return out
}

// Spawnable reports whether color may place a new piece at pos.
//
// First placement: must be the fixed initial cell.
// Second placement (either color, 1 piece on board): must be adjacent to it.
// Thereafter: pos must have no opposite-color neighbor on top, and (since the
// hive must stay connected and grow from itself) at least one same-color or
// neutral touching neighbor — enforced simply as "any occupied neighbor, none
// of which belongs to the opponent".
func (b *Board) Spawnable(color Color, pos position.Position) bool {
	total := b.totalPieces()
	if total == 0 {
		return pos == position.InitialSpawn()
	}
	if b.occupied(pos) {
		return false
	}
	if total == 1 {
		return b.IsNegativeSpace(pos)
	}
	if !b.IsNegativeSpace(pos) {
		return false
	}
	for _, n := range pos.Neighbors() {
		if top, ok := b.at(n).Top(); ok && top.Color != color {
			return false
		}
	}
	return true
}

// SpawnablePositions returns every position color may legally spawn into.
func (b *Board) SpawnablePositions(color Color) []position.Position {
	var out []position.Position
	if b.totalPieces() == 0 {
		return []position.Position{position.InitialSpawn()}
	}
	for _, p := range b.NegativeSpace() {
		if b.Spawnable(color, p) {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) totalPieces() int {
	n := 0
	for i := range b.placed {
		if b.placed[i] {
			n++
		}
	}
	return n
}

// AllTakenPositions returns every occupied position, in stable order.
func (b *Board) AllTakenPositions() []position.Position {
	var out []position.Position
	for _, p := range position.All() {
		if b.occupied(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsValidMove reports whether moving piece to target is legal for the side
// whose turn it is (color), i.e. appears in Moves(color, ...)[piece]. This
// correctly accounts for pin/last-moved restrictions and Pillbug throws of
// the opponent's pieces, unlike a raw per-bug destination lookup.
func (b *Board) IsValidMove(color Color, gameType GameType, turn int, piece Piece, target position.Position) bool {
	for _, d := range b.Moves(color, gameType, turn)[piece] {
		if d == target {
			return true
		}
	}
	return false
}

// GameResultFor derives the terminal state from Queen-surround counts.
func (b *Board) GameResultFor() GameResult {
	whiteSurrounded := b.queenSurrounded(White)
	blackSurrounded := b.queenSurrounded(Black)
	switch {
	case whiteSurrounded && blackSurrounded:
		return Draw
	case whiteSurrounded:
		return WinnerBlack
	case blackSurrounded:
		return WinnerWhite
	default:
		return Unknown
	}
}

func (b *Board) queenSurrounded(color Color) bool {
	queen := Piece{Color: color, Bug: Queen, Order: 1}
	pos, ok := b.PositionOf(queen)
	if !ok {
		return false
	}
	return b.NeighborCount(pos) == 6
}

// IsShutout reports whether color has no legal move and no legal spawn.
func (b *Board) IsShutout(color Color, gameType GameType, turn int) bool {
	if len(b.Moves(color, gameType, turn)) > 0 {
		return false
	}
	reserve := b.Reserve(color, gameType)
	if len(reserve) == 0 {
		return true
	}
	return len(b.SpawnablePositions(color)) == 0
}

// Check verifies the neighbor_count invariant holds everywhere; used by tests.
func (b *Board) Check() error {
	for _, p := range position.All() {
		want := 0
		for _, n := range p.Neighbors() {
			if b.occupied(n) {
				want++
			}
		}
		if got := b.NeighborCount(p); got != want {
			return fmt.Errorf("board: neighbor_count[%v] = %d, want %d", p, got, want)
		}
	}
	return nil
}

// recomputePinned runs an articulation-point DFS over the bottom piece of
// every occupied stack and marks pinned[] for each cut vertex.
func (b *Board) recomputePinned() {
	for i := range b.pinned {
		b.pinned[i] = false
	}
	taken := b.AllTakenPositions()
	if len(taken) < 3 {
		return
	}
	visited := make(map[position.Position]bool, len(taken))
	depth := make(map[position.Position]int, len(taken))
	low := make(map[position.Position]int, len(taken))
	parent := make(map[position.Position]position.Position, len(taken))
	hasParent := make(map[position.Position]bool, len(taken))

	var dfs func(p position.Position, d int)
	rootChildren := 0
	root := taken[0]
	dfs = func(p position.Position, d int) {
		visited[p] = true
		depth[p] = d
		low[p] = d
		children := 0
		for _, n := range p.Neighbors() {
			if !b.occupied(n) {
				continue
			}
			if !visited[n] {
				children++
				if p == root {
					rootChildren++
				}
				parent[n] = p
				hasParent[n] = true
				dfs(n, d+1)
				if low[n] < low[p] {
					low[p] = low[n]
				}
				if p != root && low[n] >= depth[p] {
					b.markPinned(p)
				}
			} else if !hasParent[p] || n != parent[p] {
				if depth[n] < low[p] {
					low[p] = depth[n]
				}
			}
		}
	}
	dfs(root, 0)
	if rootChildren > 1 {
		b.markPinned(root)
	}
}

func (b *Board) markPinned(p position.Position) {
	bottom, ok := b.at(p).Bottom()
	if !ok {
		return
	}
	b.pinned[bottom.Offset()] = true
}

// Moves returns every (piece, destination) pair legal for color this turn.
func (b *Board) Moves(color Color, gameType GameType, turn int) map[Piece][]position.Position {
	out := make(map[Piece][]position.Position)
	for _, pos := range b.AllTakenPositions() {
		top, ok := b.at(pos).Top()
		if !ok || top.Color != color {
			continue
		}
		if b.hasLastMoved && b.lastMovedPiece == top {
			continue
		}
		if b.IsPinned(top) {
			continue
		}
		dests := b.destinationsFor(top, pos)
		if len(dests) > 0 {
			out[top] = dests
		}
	}
	// Pillbug / mosquito-as-pillbug throw abilities apply even to the
	// last-moved or pinned piece: the throw is an ability, not a move, and
	// it can relocate either side's piece.
	for _, pos := range b.AllTakenPositions() {
		top, ok := b.at(pos).Top()
		if !ok || top.Color != color {
			continue
		}
		if !b.pillbugCapable(pos, top, gameType) {
			continue
		}
		for donor, tos := range b.pillbugThrow(pos) {
			out[donor] = dedupePositions(append(out[donor], tos...))
		}
	}
	return out
}

func dedupePositions(in []position.Position) []position.Position {
	seen := make(map[position.Position]bool, len(in))
	out := in[:0]
	for _, p := range in {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func sortedPositions(in []position.Position) []position.Position {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Q != in[j].Q {
			return in[i].Q < in[j].Q
		}
		return in[i].R < in[j].R
	})
	return in
}
