package board

import "github.com/hiveboardgame/hive/hive/position"

// destinationsFor dispatches to the per-bug generator. The piece is assumed
// to already have passed the pinned/last-moved/covered checks its caller
// (Board.Moves) is responsible for.
func (b *Board) destinationsFor(piece Piece, pos position.Position) []position.Position {
	return b.bugMoves(piece.Bug, pos)
}

func (b *Board) bugMoves(bug Bug, pos position.Position) []position.Position {
	switch bug {
	case Queen, Pillbug:
		return b.crawl(pos)
	case Ant:
		return b.antMoves(pos)
	case Spider:
		return b.spiderMoves(pos)
	case Grasshopper:
		return b.grasshopperMoves(pos)
	case Beetle:
		return b.beetleMoves(pos)
	case Ladybug:
		return b.ladybugMoves(pos)
	case Mosquito:
		return b.mosquitoMoves(pos)
	default:
		return nil
	}
}

// simulateRemoved temporarily pops the top piece at pos (the piece "in
// flight"), runs fn against the resulting board, then restores it. Used by
// the multi-hop generators (Ant, Spider) whose own origin cell must read as
// vacated while they explore.
func (b *Board) simulateRemoved(pos position.Position, fn func()) {
	s := b.at(pos)
	top, ok := s.Top()
	if !ok {
		fn()
		return
	}
	s.pop()
	fn()
	s.push(top)
}

// crawl returns the ground-level slide destinations from pos: for every
// occupied neighbor, the unoccupied cell(s) common to pos and that neighbor,
// provided the slide isn't gated at level 1.
func (b *Board) crawl(pos position.Position) []position.Position {
	var out []position.Position
	seen := make(map[position.Position]bool)
	for _, n := range pos.Neighbors() {
		if !b.occupied(n) {
			continue
		}
		c1, c2 := pos.CommonAdjacent(n)
		for _, c := range [2]position.Position{c1, c2} {
			if seen[c] || b.occupied(c) {
				continue
			}
			if b.Gated(1, pos, c) {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// climb returns occupied neighbors pos can step onto (or above), provided
// the climb isn't gated at the neighbor's own level + 1.
func (b *Board) climb(pos position.Position) []position.Position {
	var out []position.Position
	for _, n := range pos.Neighbors() {
		if !b.occupied(n) {
			continue
		}
		lvl := b.Level(n)
		if b.Gated(lvl+1, pos, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// descend returns neighbors strictly lower than pos's own stack, provided
// the move isn't gated at pos's current level.
func (b *Board) descend(pos position.Position) []position.Position {
	var out []position.Position
	myLevel := b.Level(pos)
	for _, n := range pos.Neighbors() {
		if b.Level(n) >= myLevel {
			continue
		}
		if b.Gated(myLevel, pos, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// antMoves is the transitive closure of crawl over negative space, with the
// ant itself removed from the board for the whole computation.
func (b *Board) antMoves(pos position.Position) []position.Position {
	var out []position.Position
	b.simulateRemoved(pos, func() {
		visited := map[position.Position]bool{pos: true}
		queue := []position.Position{pos}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range b.crawl(cur) {
				if visited[n] {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
				out = append(out, n)
			}
		}
	})
	return out
}

// spiderMoves is exactly three consecutive crawl steps, each into a cell not
// previously visited in this path (including the origin), deduplicated.
func (b *Board) spiderMoves(pos position.Position) []position.Position {
	seen := make(map[position.Position]bool)
	var out []position.Position
	b.simulateRemoved(pos, func() {
		var rec func(cur position.Position, visited map[position.Position]bool, depth int)
		rec = func(cur position.Position, visited map[position.Position]bool, depth int) {
			if depth == 3 {
				if !seen[cur] {
					seen[cur] = true
					out = append(out, cur)
				}
				return
			}
			for _, n := range b.crawl(cur) {
				if visited[n] {
					continue
				}
				nv := make(map[position.Position]bool, len(visited)+1)
				for k := range visited {
					nv[k] = true
				}
				nv[n] = true
				rec(n, nv, depth+1)
			}
		}
		rec(pos, map[position.Position]bool{pos: true}, 0)
	})
	return out
}

// grasshopperMoves flies in a straight line over occupied cells in each
// direction that has a neighbor, landing on the first unoccupied cell.
func (b *Board) grasshopperMoves(pos position.Position) []position.Position {
	var out []position.Position
	for _, d := range position.AllDirections {
		n := pos.To(d)
		if !b.occupied(n) {
			continue
		}
		cur := n
		for b.occupied(cur) {
			cur = cur.To(d)
		}
		out = append(out, cur)
	}
	return out
}

// beetleMoves climbs onto any reachable adjacent stack; additionally crawls
// at ground level, or descends when already elevated.
func (b *Board) beetleMoves(pos position.Position) []position.Position {
	out := b.climb(pos)
	if b.Level(pos) == 1 {
		out = append(out, b.crawl(pos)...)
	} else {
		out = append(out, b.descend(pos)...)
	}
	return dedupePositions(out)
}

// ladybugMoves climbs twice across the top of the hive then descends into an
// unoccupied cell other than its own origin.
func (b *Board) ladybugMoves(pos position.Position) []position.Position {
	seen := make(map[position.Position]bool)
	var out []position.Position
	for _, first := range b.climb(pos) {
		for _, second := range b.climb(first) {
			if second == pos {
				continue
			}
			for _, third := range b.descend(second) {
				if third == pos || b.occupied(third) {
					continue
				}
				if !seen[third] {
					seen[third] = true
					out = append(out, third)
				}
			}
		}
	}
	return out
}

// mosquitoMoves borrows the move generator of each distinct adjacent bug
// type when at ground level (Mosquito-adjacent-Mosquito contributes
// nothing); otherwise it behaves exactly as a Beetle.
func (b *Board) mosquitoMoves(pos position.Position) []position.Position {
	if b.Level(pos) != 1 {
		return b.beetleMoves(pos)
	}
	seen := make(map[position.Position]bool)
	var out []position.Position
	for _, n := range pos.Neighbors() {
		top, ok := b.at(n).Top()
		if !ok || top.Bug == Mosquito {
			continue
		}
		for _, d := range b.bugMoves(top.Bug, pos) {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// pillbugThrow returns, for every eligible ground-level adjacent piece
// (unpinned, not last-moved, not blocked by gating on either leg), the set
// of unoccupied cells adjacent to pos it could be relocated to. Keyed by the
// piece being thrown, not by the Pillbug/Mosquito doing the throwing.
func (b *Board) pillbugThrow(pos position.Position) map[Piece][]position.Position {
	out := make(map[Piece][]position.Position)
	var tos []position.Position
	for _, n := range pos.Neighbors() {
		if b.occupied(n) {
			continue
		}
		if b.Gated(2, pos, n) {
			continue
		}
		tos = append(tos, n)
	}
	if len(tos) == 0 {
		return out
	}
	for _, donor := range pos.Neighbors() {
		top, ok := b.at(donor).Top()
		if !ok {
			continue
		}
		if b.Level(donor) > 1 {
			continue
		}
		if b.hasLastMoved && b.lastMovedPiece == top {
			continue
		}
		if b.IsPinned(top) {
			continue
		}
		if b.Gated(2, donor, pos) {
			continue
		}
		cp := make([]position.Position, len(tos))
		copy(cp, tos)
		out[top] = cp
	}
	return out
}

// pillbugCapable reports whether the top piece at pos may exercise the
// throw ability this turn: it is a Pillbug, or a Mosquito at ground level
// adjacent to a Pillbug (and the game type carries Pillbug at all).
func (b *Board) pillbugCapable(pos position.Position, piece Piece, gameType GameType) bool {
	if piece.Bug == Pillbug {
		return true
	}
	return piece.Bug == Mosquito && gameType.HasPillbug() && b.Level(pos) == 1 && b.NeighborIsA(pos, Pillbug)
}
