// Package store persists games (with their tournament id) and ratings behind a small
// interface with sqlite and postgres implementations, the same dual-backend
// shape as apps/server/internal/auth's SQLiteManager/PostgresManager.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
)

var ErrNotFound = errors.New("store: record not found")

// GameRecord is one persisted game, enough to reconstruct a hive/state.State
// via state.NewFromHistory and resume play.
type GameRecord struct {
	ID         uuid.UUID
	GameType   board.GameType
	Tournament bool
	Rated      bool
	White      uint64
	Black      uint64
	History    []state.HistoryEntry
	Status     state.Status
	Winner     *board.Color
	Conclusion state.Conclusion
	TournamentID string // empty if not a tournament game; tournament.Tournament.ID is a bare nanoid-style string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingRecord is one user's persisted Glicko-2 row for one speed bucket.
type RatingRecord struct {
	UserID uint64
	Speed  rating.Speed
	Rating rating.Rating
}

// Store is the persistence contract consumed by the session/handler layer.
// Every method borrows and releases its own connection/transaction for the
// duration of the call, per spec §4.I's "request handlers own the database
// connection they borrow for the duration of one request" policy.
type Store interface {
	SaveGame(ctx context.Context, g GameRecord) error
	LoadGame(ctx context.Context, id uuid.UUID) (GameRecord, error)
	ListGamesForUser(ctx context.Context, userID uint64) ([]GameRecord, error)
	ListUnfinishedTimedGames(ctx context.Context) ([]GameRecord, error)
	// DeleteGamesForUser removes every game where userID played either side,
	// reporting how many rows were removed, for the cleanup-test-data CLI.
	DeleteGamesForUser(ctx context.Context, userID uint64) (int, error)

	LoadRating(ctx context.Context, userID uint64, speed rating.Speed) (RatingRecord, error)
	SaveRating(ctx context.Context, r RatingRecord) error

	Close() error
}

func newRatingIfMissing(userID uint64, speed rating.Speed) RatingRecord {
	return RatingRecord{UserID: userID, Speed: speed, Rating: rating.New(speed)}
}
