package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
)

func TestMemoryStoreSaveLoadGameRoundTrips(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	ctx := context.Background()

	g := GameRecord{
		ID:       uuid.New(),
		GameType: board.Base,
		Rated:    true,
		White:    1,
		Black:    2,
		History:  []state.HistoryEntry{{Piece: "wS1", Destination: "."}},
		Status:   state.InProgress,
	}
	if err := s.SaveGame(ctx, g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.LoadGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.White != g.White || got.Black != g.Black || len(got.History) != 1 {
		t.Fatalf("LoadGame mismatch: %+v", got)
	}
}

func TestMemoryStoreLoadGameMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	if _, err := s.LoadGame(context.Background(), uuid.New()); err != ErrNotFound {
		t.Fatalf("LoadGame on missing id = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListGamesForUser(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	ctx := context.Background()

	g1 := GameRecord{ID: uuid.New(), White: 1, Black: 2, Status: state.InProgress}
	g2 := GameRecord{ID: uuid.New(), White: 3, Black: 1, Status: state.Finished}
	g3 := GameRecord{ID: uuid.New(), White: 4, Black: 5, Status: state.InProgress}
	for _, g := range []GameRecord{g1, g2, g3} {
		if err := s.SaveGame(ctx, g); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}
	got, err := s.ListGamesForUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListGamesForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListGamesForUser(1) len = %d, want 2", len(got))
	}
}

func TestMemoryStoreListUnfinishedTimedGamesExcludesFinished(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	ctx := context.Background()

	inProgress := GameRecord{ID: uuid.New(), Status: state.InProgress}
	finished := GameRecord{ID: uuid.New(), Status: state.Finished}
	if err := s.SaveGame(ctx, inProgress); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame(ctx, finished); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.ListUnfinishedTimedGames(ctx)
	if err != nil {
		t.Fatalf("ListUnfinishedTimedGames: %v", err)
	}
	if len(got) != 1 || got[0].ID != inProgress.ID {
		t.Fatalf("ListUnfinishedTimedGames = %+v, want only %v", got, inProgress.ID)
	}
}

func TestMemoryStoreLoadRatingDefaultsWhenMissing(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	r, err := s.LoadRating(context.Background(), 42, rating.Blitz)
	if err != nil {
		t.Fatalf("LoadRating: %v", err)
	}
	if r.Rating.Value != 1500 || r.Rating.Played != 0 {
		t.Fatalf("LoadRating default = %+v, want fresh 1500 rating", r.Rating)
	}
}

func TestMemoryStoreSaveRatingThenLoadReturnsSaved(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	ctx := context.Background()

	r := RatingRecord{UserID: 7, Speed: rating.Blitz, Rating: rating.New(rating.Blitz)}
	r.Rating.Value = 1612.4
	r.Rating.Played = 3
	if err := s.SaveRating(ctx, r); err != nil {
		t.Fatalf("SaveRating: %v", err)
	}
	got, err := s.LoadRating(ctx, 7, rating.Blitz)
	if err != nil {
		t.Fatalf("LoadRating: %v", err)
	}
	if got.Rating.Value != 1612.4 || got.Rating.Played != 3 {
		t.Fatalf("LoadRating after save = %+v, want value 1612.4 played 3", got.Rating)
	}
}
