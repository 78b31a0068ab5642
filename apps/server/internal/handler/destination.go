package handler

import "github.com/google/uuid"

// DestinationKind selects which fan-out rule a Destination resolves to in
// the session layer, matching the destination model described for the
// platform's WebSocket fan-out.
type DestinationKind int

const (
	// DestDirect targets the single session that submitted the request.
	DestDirect DestinationKind = iota
	// DestGlobal targets every connected session (lobby-wide broadcasts).
	DestGlobal
	// DestGame targets every session watching a game, players included.
	DestGame
	// DestGameSpectators targets every session watching a game EXCEPT the
	// two playing it.
	DestGameSpectators
	// DestUser targets every session belonging to one user (multi-tab).
	DestUser
	// DestTournament targets every session subscribed to a tournament.
	DestTournament
)

// Destination names where one Effect's Message should be fanned out. The
// session layer is the only package that resolves a Destination to actual
// socket writes; handler never touches a connection directly.
type Destination struct {
	Kind DestinationKind

	SessionID    string
	GameID       uuid.UUID
	White, Black uint64
	UserID       uint64
	TournamentID string // tournament.Tournament.ID is a bare nanoid-style string, not a UUID
}

func Direct(sessionID string) Destination {
	return Destination{Kind: DestDirect, SessionID: sessionID}
}

func Global() Destination {
	return Destination{Kind: DestGlobal}
}

func Game(id uuid.UUID) Destination {
	return Destination{Kind: DestGame, GameID: id}
}

func GameSpectators(id uuid.UUID, white, black uint64) Destination {
	return Destination{Kind: DestGameSpectators, GameID: id, White: white, Black: black}
}

func ForUser(userID uint64) Destination {
	return Destination{Kind: DestUser, UserID: userID}
}

func ForTournament(id string) Destination {
	return Destination{Kind: DestTournament, TournamentID: id}
}
