// Command hiveseed populates a database with test users and finished games,
// for exercising the platform's listing/rating/search paths against
// realistic data.
//
// Grounded on original_source/scripts/src/seed.rs's run_seed_database: the
// same testuserN/hivegame naming convention and the same shape (create N
// users, play games_per_user games each against a random opponent, resign
// every game so ratings settle). The original wraps the whole operation in
// one diesel transaction; store.Store's per-call-connection contract has no
// equivalent of a cross-table transaction, so this tool instead tracks what
// it created and deletes every seeded game (via DeleteGamesForUser) if any
// step fails partway through — a compensating rollback rather than a true
// one, documented in DESIGN.md.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/apps/server/internal/auth"
	"github.com/hiveboardgame/hive/apps/server/internal/store"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/clock"
	"github.com/hiveboardgame/hive/hive/gamecontrol"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
)

func main() {
	users := flag.Int("users", 10, "number of test users to create")
	gamesPerUser := flag.Int("games-per-user", 5, "number of finished games to create per user")
	databaseURL := flag.String("database-url", "", "postgres connection string (overrides HIVE_DB_DRIVER env)")
	flag.Parse()

	if *users <= 0 || *gamesPerUser <= 0 {
		log.Fatalf("hiveseed: --users and --games-per-user must be positive")
	}

	authService, _, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("hiveseed: init auth service: %v", err)
	}
	defer authService.Close()

	gameStore, err := openStore(*databaseURL)
	if err != nil {
		log.Fatalf("hiveseed: init game store: %v", err)
	}
	defer gameStore.Close()

	ctx := context.Background()
	userIDs, err := createTestUsers(authService, *users)
	if err != nil {
		log.Fatalf("hiveseed: create users: %v", err)
	}
	log.Printf("hiveseed: created %d users", len(userIDs))

	createdGames, err := playTestGames(ctx, gameStore, userIDs, *gamesPerUser)
	if err != nil {
		log.Printf("hiveseed: seeding failed, rolling back games: %v", err)
		rollback(ctx, gameStore, userIDs)
		os.Exit(1)
	}
	log.Printf("hiveseed: created %d games", createdGames)
}

func openStore(databaseURL string) (store.Store, error) {
	if databaseURL == "" {
		s, _, err := store.NewFromEnv()
		return s, err
	}
	return store.NewPostgres(databaseURL)
}

func createTestUsers(authService auth.Service, n int) ([]uint64, error) {
	ids := make([]uint64, 0, n)
	for i := 1; i <= n; i++ {
		username := fmt.Sprintf("testuser%d", i)
		userID, _, err := authService.Register(username, "hivegame")
		if err != nil {
			return ids, fmt.Errorf("register %s: %w", username, err)
		}
		ids = append(ids, userID)
	}
	return ids, nil
}

func playTestGames(ctx context.Context, st store.Store, userIDs []uint64, gamesPerUser int) (int, error) {
	total := 0
	for _, userID := range userIDs {
		for i := 0; i < gamesPerUser; i++ {
			opponent := randomOpponent(userID, userIDs)
			white, black := userID, opponent
			if rand.Intn(2) == 0 {
				white, black = black, white
			}
			if err := playOneGame(ctx, st, white, black); err != nil {
				return total, fmt.Errorf("game %d for user %d: %w", i+1, userID, err)
			}
			total++
		}
	}
	return total, nil
}

func randomOpponent(userID uint64, userIDs []uint64) uint64 {
	if len(userIDs) == 1 {
		return userID
	}
	for {
		candidate := userIDs[rand.Intn(len(userIDs))]
		if candidate != userID {
			return candidate
		}
	}
}

// playOneGame plays the same two-ply opening hive/state's own test suite
// exercises (a spawn for each side), then has White resign so the game
// settles with a real Glicko-2 outcome instead of sitting InProgress.
func playOneGame(ctx context.Context, st store.Store, white, black uint64) error {
	s := state.New(board.Base, false)
	if err := s.PlayNotation("wS1", "."); err != nil {
		return err
	}
	if err := s.PlayNotation("bS1", "wS1-"); err != nil {
		return err
	}

	clk := clockForSeed()
	ctrl := &gamecontrol.Handler{State: s, Clock: clk, Rated: true}
	if _, err := ctrl.Apply(board.White, gamecontrol.Resign, timeNow()); err != nil {
		return err
	}

	rec := store.GameRecord{
		ID: newGameID(), GameType: board.Base, Rated: true,
		White: white, Black: black, History: s.History,
		Status: s.Status, Winner: s.Winner, Conclusion: s.Conclusion,
	}
	if err := st.SaveGame(ctx, rec); err != nil {
		return err
	}
	return settleRatings(ctx, st, white, black, s)
}

func settleRatings(ctx context.Context, st store.Store, white, black uint64, s *state.State) error {
	speed := rating.Blitz
	whiteR, err := st.LoadRating(ctx, white, speed)
	if err != nil {
		return err
	}
	blackR, err := st.LoadRating(ctx, black, speed)
	if err != nil {
		return err
	}

	var whiteScore rating.Result
	switch {
	case s.Winner == nil:
		whiteScore = rating.Draw
	case *s.Winner == board.White:
		whiteScore = rating.Win
	default:
		whiteScore = rating.Loss
	}
	whiteR.Rating, blackR.Rating, _, _ = rating.Settle(whiteR.Rating, blackR.Rating, whiteScore)

	if err := st.SaveRating(ctx, whiteR); err != nil {
		return err
	}
	return st.SaveRating(ctx, blackR)
}

// clockForSeed builds an Untimed clock, which is never started: seeded games never
// run out the board, so there's nothing for real time controls to account
// for.
func clockForSeed() *clock.Clock {
	return clock.New(clock.Untimed, 0, 0)
}

func timeNow() time.Time {
	return time.Now()
}

func newGameID() uuid.UUID {
	return uuid.New()
}

func rollback(ctx context.Context, st store.Store, userIDs []uint64) {
	for _, id := range userIDs {
		if _, err := st.DeleteGamesForUser(ctx, id); err != nil {
			log.Printf("hiveseed: rollback: delete games for user %d: %v", id, err)
		}
	}
}
