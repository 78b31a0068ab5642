package board

import "github.com/hiveboardgame/hive/hive/position"

// Zobrist hashing gives every (position, piece, stack-depth) triple a fixed
// pseudo-random 64-bit value; Board XORs the relevant entry in and out on
// every Insert/Remove, so ZobristHash is always the running hash of the
// exact board configuration, including stacking. State uses it to detect
// triple repetition (see hive/state).
//
// The reference implementation stubs this feature out entirely (its
// hashes() always returns an empty vector); SPEC_FULL.md documents the
// decision to make it live here instead. A fixed-seed splitmix64 generator
// is used rather than math/rand so the table is reproducible across Go
// versions without depending on math/rand's internal algorithm.

const maxZobristDepth = 8

var zobristTable [numCells][NumIdentities][maxZobristDepth]uint64

func init() {
	var state uint64 = 0x9E3779B97F4A7C15
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for c := 0; c < numCells; c++ {
		for p := 0; p < NumIdentities; p++ {
			for d := 0; d < maxZobristDepth; d++ {
				zobristTable[c][p][d] = next()
			}
		}
	}
}

func zobristEntry(pos position.Position, piece Piece, depth int) uint64 {
	if depth >= maxZobristDepth {
		depth = maxZobristDepth - 1
	}
	return zobristTable[cellIndex(pos)][piece.Offset()][depth]
}
