package tournament

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/clock"
)

// Mode is the pairing algorithm for a tournament's rounds.
type Mode int

const (
	RoundRobin Mode = iota
	Swiss
)

// Status is a tournament's lifecycle stage.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Finished:
		return "Finished"
	default:
		return "Status(?)"
	}
}

var (
	ErrAlreadyStarted     = errors.New("tournament: already started")
	ErrNotEnoughPlayers   = errors.New("tournament: fewer than the minimum required seats joined")
	ErrTooManySeats       = errors.New("tournament: seats must be between 2 and 16")
	ErrTooManyRounds      = errors.New("tournament: rounds must be between 1 and 16")
	ErrUntimedNotAllowed  = errors.New("tournament: tournaments may not use an untimed clock")
	ErrNoTiebreakers      = errors.New("tournament: at least one tiebreaker is required")
	ErrAlreadyJoined      = errors.New("tournament: player already joined")
	ErrSeatsFull          = errors.New("tournament: no seats remaining")
	ErrNotJoinable        = errors.New("tournament: joining is only allowed before the tournament starts")
	ErrOutsideRatingBand  = errors.New("tournament: player rating is outside the tournament's band")
	ErrNotOrganizer       = errors.New("tournament: only the organizer may perform this action")
	ErrNotInProgress      = errors.New("tournament: tournament is not in progress")
	ErrUnknownPlayer      = errors.New("tournament: player is not a tournament participant")
)

// Tournament is one multiplayer event: its configuration, participant
// roster, and round-by-round progress.
type Tournament struct {
	ID          string // nanoid
	Name        string
	Organizer   uuid.UUID
	Mode        Mode
	Seeding     SeedingMode
	Status      Status
	InviteOnly  bool

	MinSeats int
	Seats    int
	Rounds   int

	ClockMode     clock.Mode
	TimeBase      time.Duration
	TimeIncrement time.Duration

	BandLower float64 // 0 means unbounded
	BandUpper float64 // 0 means unbounded

	RoundDuration time.Duration // Swiss: time allotted per round before forced pairing
	StartsAt      *time.Time

	Tiebreakers []Tiebreaker

	Players         []uuid.UUID
	playerSet       map[uuid.UUID]bool
	InitialSeeding  []uuid.UUID
	CurrentRound    int

	Standings *Standings
}

// New validates and constructs a tournament configuration. Thresholds
// (2-16 seats, 1-16 rounds) mirror the reference's tournament creation
// validation in db/src/models/tournament.rs.
func New(name string, organizer uuid.UUID, mode Mode, seats, minSeats, rounds int, clockMode clock.Mode, timeBase, timeIncrement time.Duration, tiebreakers []Tiebreaker) (*Tournament, error) {
	if seats < 2 || seats > 16 || minSeats < 2 || minSeats > seats {
		return nil, ErrTooManySeats
	}
	if rounds < 1 || rounds > 16 {
		return nil, ErrTooManyRounds
	}
	if clockMode == clock.Untimed {
		return nil, ErrUntimedNotAllowed
	}
	if len(tiebreakers) == 0 {
		return nil, ErrNoTiebreakers
	}
	return &Tournament{
		Name:          name,
		Organizer:     organizer,
		Mode:          mode,
		Status:        NotStarted,
		MinSeats:      minSeats,
		Seats:         seats,
		Rounds:        rounds,
		ClockMode:     clockMode,
		TimeBase:      timeBase,
		TimeIncrement: timeIncrement,
		Tiebreakers:   tiebreakers,
		playerSet:     make(map[uuid.UUID]bool),
	}, nil
}

// Join adds a player to the roster, validating seat count and rating band.
// Only allowed while NotStarted, matching the reference's join-tournament
// guard.
func (t *Tournament) Join(player uuid.UUID, playerRating float64) error {
	if t.Status != NotStarted {
		return ErrNotJoinable
	}
	if t.playerSet[player] {
		return ErrAlreadyJoined
	}
	if len(t.Players) >= t.Seats {
		return ErrSeatsFull
	}
	if t.BandLower > 0 && playerRating < t.BandLower {
		return ErrOutsideRatingBand
	}
	if t.BandUpper > 0 && playerRating > t.BandUpper {
		return ErrOutsideRatingBand
	}
	t.playerSet[player] = true
	t.Players = append(t.Players, player)
	return nil
}

// Leave removes a player from the roster. Only allowed while NotStarted.
func (t *Tournament) Leave(player uuid.UUID) error {
	if t.Status != NotStarted {
		return ErrNotJoinable
	}
	if !t.playerSet[player] {
		return ErrUnknownPlayer
	}
	delete(t.playerSet, player)
	for i, p := range t.Players {
		if p == player {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			break
		}
	}
	return nil
}

// GamePairing is one game that Start/NextRound expects the caller to create.
type GamePairing struct {
	White, Black uuid.UUID
	Round        int
}

// Start transitions NotStarted -> InProgress and, for RoundRobin, returns
// every round's pairings up front (Swiss instead requires the separate
// TRFx/pairer flow in seeding.go/trfx.go driven round by round).
func (t *Tournament) Start(now time.Time) ([]GamePairing, error) {
	if t.Status != NotStarted {
		return nil, ErrAlreadyStarted
	}
	if len(t.Players) < t.MinSeats {
		return nil, ErrNotEnoughPlayers
	}
	t.Status = InProgress
	t.StartsAt = &now
	t.CurrentRound = 1
	t.Standings = New(t.Tiebreakers...)
	for _, p := range t.Players {
		t.Standings.addPlayer(p)
	}

	if t.Mode == RoundRobin {
		return t.roundRobinPairings(), nil
	}
	return nil, nil
}

// roundRobinPairings implements round_robin_start: every unordered pair of
// players gets two games, white/black reversed, both counted as round 1
// (round-robin tournaments here run all games concurrently rather than in
// discrete synchronized rounds, matching the reference's single-pass
// generation of the full pairing set at start time).
func (t *Tournament) roundRobinPairings() []GamePairing {
	var out []GamePairing
	for i := 0; i < len(t.Players); i++ {
		for j := i + 1; j < len(t.Players); j++ {
			a, b := t.Players[i], t.Players[j]
			out = append(out, GamePairing{White: a, Black: b, Round: 1})
			out = append(out, GamePairing{White: b, Black: a, Round: 1})
		}
	}
	return out
}

// RecordResult feeds one finished game's outcome into the running standings.
func (t *Tournament) RecordResult(white, black uuid.UUID, whiteElo, blackElo float64, result GameResult) {
	if t.Standings == nil {
		t.Standings = New(t.Tiebreakers...)
	}
	t.Standings.AddResult(white, black, whiteElo, blackElo, result)
}

// RecordBye feeds a Swiss bye into the running standings.
func (t *Tournament) RecordBye(player uuid.UUID) {
	if t.Standings == nil {
		t.Standings = New(t.Tiebreakers...)
	}
	t.Standings.AddBye(player)
}

// Results computes the final tiebreaker-ordered standings.
func (t *Tournament) Results() []Row {
	if t.Standings == nil {
		return nil
	}
	t.Standings.EnforceTiebreakers()
	return t.Standings.Results()
}

// AdjudicationResult is an organizer-forced outcome for a stuck game.
type AdjudicationResult int

const (
	AdjudicateWhiteWin AdjudicationResult = iota
	AdjudicateBlackWin
	AdjudicateDraw
	AdjudicateDoubleForfeit
	AdjudicateDelete
)

// Adjudicate lets the organizer force a result on a game that cannot
// otherwise conclude (e.g. an abandoned Swiss pairing), matching the
// reference's organizer-only adjudication action.
func (t *Tournament) Adjudicate(by uuid.UUID, white, black uuid.UUID, whiteElo, blackElo float64, result AdjudicationResult) error {
	if by != t.Organizer {
		return ErrNotOrganizer
	}
	if t.Status != InProgress {
		return ErrNotInProgress
	}
	switch result {
	case AdjudicateDelete:
		return nil
	case AdjudicateWhiteWin:
		t.RecordResult(white, black, whiteElo, blackElo, WinnerWhite)
	case AdjudicateBlackWin:
		t.RecordResult(white, black, whiteElo, blackElo, WinnerBlack)
	case AdjudicateDraw:
		t.RecordResult(white, black, whiteElo, blackElo, Draw)
	case AdjudicateDoubleForfeit:
		t.RecordResult(white, black, whiteElo, blackElo, DoubleForfeit)
	}
	return nil
}

// AdvanceRound moves a Swiss tournament to its next round, or finishes the
// tournament once the configured round count is reached.
func (t *Tournament) AdvanceRound() {
	if t.CurrentRound >= t.Rounds {
		t.Status = Finished
		return
	}
	t.CurrentRound++
}
