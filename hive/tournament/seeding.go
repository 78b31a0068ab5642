package tournament

import (
	"sort"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/rating"
)

// Certainty buckets a player's rating deviation into a coarse confidence
// class for initial Swiss seeding. The reference (db/src/models/tournament.rs,
// generate_initial_seeding) sorts by a Certainty::from_deviation(...) value
// before rating, but the pack's retrieved Rust sources never include the
// Certainty type's own definition (only its call site) — see DESIGN.md's
// Open Question entry. These three buckets and thresholds are a from-scratch
// but conventional choice: a fresh Glicko-2 rating starts at deviation 350
// and tightens towards roughly the 50-75 range after a few dozen games, so
// Established/Developing/Provisional split along those usual milestones.
type Certainty int

const (
	CertaintyEstablished Certainty = iota // deviation <= 75: treated as most certain, seeded first
	CertaintyDeveloping                   // deviation <= 150
	CertaintyProvisional                  // deviation > 150: freshest ratings, seeded last
)

// FromDeviation buckets a Glicko-2 deviation into a Certainty class.
func FromDeviation(deviation float64) Certainty {
	switch {
	case deviation <= 75:
		return CertaintyEstablished
	case deviation <= 150:
		return CertaintyDeveloping
	default:
		return CertaintyProvisional
	}
}

// SeedEntry is one player's initial-seeding input.
type SeedEntry struct {
	Player uuid.UUID
	Rating rating.Rating
}

// GenerateInitialSeeding orders players for round 1 pairing: lower Glicko-2
// deviation (higher Certainty) first, then higher rating value breaks ties
// within the same certainty bucket — matching generate_initial_seeding's
// "sort by certainty, then by rating descending" rule.
func GenerateInitialSeeding(entries []SeedEntry) []uuid.UUID {
	sorted := make([]SeedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := FromDeviation(sorted[i].Rating.Deviation), FromDeviation(sorted[j].Rating.Deviation)
		if ci != cj {
			return ci < cj
		}
		return sorted[i].Rating.Value > sorted[j].Rating.Value
	})
	out := make([]uuid.UUID, len(sorted))
	for i, e := range sorted {
		out[i] = e.Player
	}
	return out
}
