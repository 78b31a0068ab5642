// Package tournament implements lifecycle, round-robin and Swiss pairing,
// TRFx generation/external-pairer invocation, and standings/tiebreaker
// computation for multiplayer events.
//
// standings.go is grounded on the reference's shared_types/src/standings.rs,
// ported from HashMap/HashSet-keyed mutation to explicit insertion-ordered
// slices so that tie-group member order is reproducible run to run (Go maps
// iterate in randomized order; the reference's own HashSet iteration order
// is just as unspecified, so this is a determinism improvement, not a
// behavior change).
package tournament

import "github.com/google/uuid"

// Tiebreaker is one standings criterion, applied in the listed order.
type Tiebreaker int

const (
	RawPoints Tiebreaker = iota
	HeadToHead
	WinsAsBlack
	SonnebornBerger
)

func (t Tiebreaker) String() string {
	switch t {
	case RawPoints:
		return "RawPoints"
	case HeadToHead:
		return "HeadToHead"
	case WinsAsBlack:
		return "WinsAsBlack"
	case SonnebornBerger:
		return "SonnebornBerger"
	default:
		return "Tiebreaker(?)"
	}
}

// GameResult is one pairing's outcome, from the tournament's point of view.
type GameResult int

const (
	Unknown GameResult = iota
	Draw
	WinnerWhite
	WinnerBlack
	DoubleForfeit
)

// Pairing is one recorded game between two tournament participants. A bye
// is modeled as a Pairing with a nil Black (see Standings.AddBye, reached
// through Tournament.RecordBye) — RawPoints counts it, HeadToHead/SonnebornBerger
// skip it since it has no "other" player.
type Pairing struct {
	White, Black         uuid.UUID
	HasBlack             bool
	WhiteElo, BlackElo   float64
	Result               GameResult
}

func (p Pairing) other(player uuid.UUID) (uuid.UUID, bool) {
	switch player {
	case p.White:
		return p.Black, p.HasBlack
	case p.Black:
		if p.HasBlack {
			return p.White, true
		}
	}
	return uuid.UUID{}, false
}

// Standings accumulates pairings and computes the tiebreaker-sorted groups.
type Standings struct {
	Tiebreakers []Tiebreaker

	players   []uuid.UUID
	playerSet map[uuid.UUID]bool
	scores    map[uuid.UUID]map[Tiebreaker]float64
	pairings  map[uuid.UUID][]Pairing
	groups    [][]uuid.UUID
}

// New starts an empty standings table. RawPoints is always the first
// tiebreaker applied (the base score), matching the reference's implicit
// behavior of computing raw points before any configured tiebreaker runs.
func New(tiebreakers ...Tiebreaker) *Standings {
	all := append([]Tiebreaker{RawPoints}, tiebreakers...)
	return &Standings{
		Tiebreakers: all,
		playerSet:   make(map[uuid.UUID]bool),
		scores:      make(map[uuid.UUID]map[Tiebreaker]float64),
		pairings:    make(map[uuid.UUID][]Pairing),
	}
}

func (s *Standings) addPlayer(p uuid.UUID) {
	if !s.playerSet[p] {
		s.playerSet[p] = true
		s.players = append(s.players, p)
	}
}

// AddResult records one finished bye-less pairing.
func (s *Standings) AddResult(white, black uuid.UUID, whiteElo, blackElo float64, result GameResult) {
	s.addPlayer(white)
	s.addPlayer(black)
	p := Pairing{White: white, Black: black, HasBlack: true, WhiteElo: whiteElo, BlackElo: blackElo, Result: result}
	s.pairings[white] = append(s.pairings[white], p)
	s.pairings[black] = append(s.pairings[black], p)
}

// AddBye records a bye: the player scores raw points as a win but
// contributes nothing to HeadToHead or SonnebornBerger.
func (s *Standings) AddBye(player uuid.UUID) {
	s.addPlayer(player)
	s.pairings[player] = append(s.pairings[player], Pairing{White: player, HasBlack: false, Result: WinnerWhite})
}

func (s *Standings) score(player uuid.UUID, t Tiebreaker) float64 {
	if m, ok := s.scores[player]; ok {
		if v, ok := m[t]; ok {
			return v
		}
	}
	return 0
}

func (s *Standings) setScore(player uuid.UUID, t Tiebreaker, v float64) {
	if s.scores[player] == nil {
		s.scores[player] = make(map[Tiebreaker]float64)
	}
	if _, ok := s.scores[player][t]; !ok {
		s.scores[player][t] = v
	}
}

// EnforceTiebreakers computes every configured tiebreaker in order and
// produces the final grouped standings.
func (s *Standings) EnforceTiebreakers() {
	for _, t := range s.Tiebreakers {
		switch t {
		case RawPoints:
			s.computeRawPoints()
			s.computeRawStandings()
		case SonnebornBerger:
			s.computeSonnebornBerger()
			s.updateStandings(SonnebornBerger)
		case WinsAsBlack:
			s.computeWinsAsBlack()
			s.updateStandings(WinsAsBlack)
		case HeadToHead:
			s.computeHeadToHead()
			s.updateStandings(HeadToHead)
		}
	}
}

func (s *Standings) computeRawPoints() {
	for _, player := range s.players {
		s.setScore(player, RawPoints, s.rawPointsFor(player))
	}
}

func (s *Standings) rawPointsFor(player uuid.UUID) float64 {
	points := 0.0
	for _, p := range s.pairings[player] {
		switch p.Result {
		case Draw:
			points += 0.5
		case WinnerWhite:
			if p.White == player {
				points += 1.0
			}
		case WinnerBlack:
			if p.HasBlack && p.Black == player {
				points += 1.0
			}
		}
	}
	return points
}

func (s *Standings) computeRawStandings() {
	type scored struct {
		player uuid.UUID
		score  float64
	}
	list := make([]scored, len(s.players))
	for i, p := range s.players {
		list[i] = scored{p, s.score(p, RawPoints)}
	}
	stableSortDesc(list, func(a scored) float64 { return a.score })
	s.groups = groupByScore(list, func(a scored) (uuid.UUID, float64) { return a.player, a.score })
}

// updateStandings re-splits every existing tie group of size > 1 by the
// given tiebreaker, replacing that group with its own sub-groups in place.
func (s *Standings) updateStandings(t Tiebreaker) {
	var next [][]uuid.UUID
	type scored struct {
		player uuid.UUID
		score  float64
	}
	for _, group := range s.groups {
		if len(group) <= 1 {
			next = append(next, group)
			continue
		}
		list := make([]scored, len(group))
		for i, p := range group {
			list[i] = scored{p, s.score(p, t)}
		}
		stableSortDesc(list, func(a scored) float64 { return a.score })
		sub := groupByScore(list, func(a scored) (uuid.UUID, float64) { return a.player, a.score })
		next = append(next, sub...)
	}
	s.groups = next
}

func (s *Standings) computeHeadToHead() {
	h2h := make(map[uuid.UUID]float64)
	for _, group := range s.groups {
		if len(group) > 1 {
			for i := 0; i < len(group); i++ {
				for j := i + 1; j < len(group); j++ {
					one, two := group[i], group[j]
					r1, r2 := s.headToHeadPair(one, two)
					h2h[one] += r1
					h2h[two] += r2
				}
			}
		}
		for _, p := range group {
			s.setScore(p, HeadToHead, h2h[p])
		}
	}
}

func (s *Standings) headToHeadPair(one, two uuid.UUID) (float64, float64) {
	results := make(map[uuid.UUID]float64)
	for _, p := range s.pairingsBetween(one, two) {
		switch p.Result {
		case Unknown, DoubleForfeit:
		case Draw:
			results[p.White] += 0.5
			if p.HasBlack {
				results[p.Black] += 0.5
			}
		case WinnerWhite:
			results[p.White] += 1.0
		case WinnerBlack:
			if p.HasBlack {
				results[p.Black] += 1.0
			}
		}
	}
	return results[one], results[two]
}

func (s *Standings) pairingsBetween(one, two uuid.UUID) []Pairing {
	var out []Pairing
	for _, p := range s.pairings[one] {
		if other, ok := p.other(one); ok && other == two {
			out = append(out, p)
		}
	}
	return out
}

func (s *Standings) computeSonnebornBerger() {
	for _, player := range s.players {
		s.setScore(player, SonnebornBerger, s.sonnebornBergerFor(player))
	}
}

func (s *Standings) sonnebornBergerFor(player uuid.UUID) float64 {
	points := 0.0
	for _, opponent := range s.players {
		if opponent == player {
			continue
		}
		for _, p := range s.pairingsBetween(player, opponent) {
			opponentPoints := s.score(opponent, RawPoints)
			switch {
			case p.Result == Draw:
				points += 0.5 * opponentPoints
			case p.Result == WinnerWhite && p.White == player:
				points += opponentPoints
			case p.Result == WinnerBlack && p.HasBlack && p.Black == player:
				points += opponentPoints
			}
		}
	}
	return points
}

func (s *Standings) computeWinsAsBlack() {
	for _, player := range s.players {
		s.setScore(player, WinsAsBlack, s.winsAsBlackFor(player))
	}
}

func (s *Standings) winsAsBlackFor(player uuid.UUID) float64 {
	wins := 0.0
	for _, p := range s.pairings[player] {
		if p.HasBlack && p.Black == player && p.Result == WinnerBlack {
			wins += 1.0
		}
	}
	return wins
}

// Groups returns the final ranked tie groups (rank order, each inner slice
// a tied group) after EnforceTiebreakers.
func (s *Standings) Groups() [][]uuid.UUID { return s.groups }

// Row is one player's line in the final standings table.
type Row struct {
	Player   uuid.UUID
	Position int // 0 for every player after the first in its tie group
	Scores   map[Tiebreaker]float64
}

// Results flattens Groups into position-numbered rows, leaving Position at
// 0 for every player after the first within a tie group (displayed as a
// blank rank), matching the reference's results().
func (s *Standings) Results() []Row {
	var out []Row
	position := 0
	for _, group := range s.groups {
		for i, player := range group {
			position++
			pos := 0
			if i == 0 {
				pos = position
			}
			out = append(out, Row{Player: player, Position: pos, Scores: cloneScores(s.scores[player])})
		}
	}
	return out
}

func cloneScores(in map[Tiebreaker]float64) map[Tiebreaker]float64 {
	out := make(map[Tiebreaker]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func stableSortDesc[T any](list []T, key func(T) float64) {
	insertionSortStableDesc(list, key)
}

// insertionSortStableDesc is a small stable descending sort; the lists here
// (tournament field sizes) never approach a size where O(n^2) matters.
func insertionSortStableDesc[T any](list []T, key func(T) float64) {
	for i := 1; i < len(list); i++ {
		j := i
		for j > 0 && key(list[j-1]) < key(list[j]) {
			list[j-1], list[j] = list[j], list[j-1]
			j--
		}
	}
}

func groupByScore[T any](list []T, extract func(T) (uuid.UUID, float64)) [][]uuid.UUID {
	var out [][]uuid.UUID
	var cur []uuid.UUID
	var curScore float64
	first := true
	for _, item := range list {
		id, score := extract(item)
		if first || score != curScore {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			curScore = score
			first = false
		}
		cur = append(cur, id)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
