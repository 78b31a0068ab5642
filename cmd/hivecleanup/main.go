// Command hivecleanup removes games belonging to hiveseed's testuserN
// accounts, for resetting a test database between runs without dropping it.
//
// Grounded on original_source/scripts/src/seed.rs's companion
// run_cleanup_test_data: both walk the same testuserN naming convention
// this tool's sibling (cmd/hiveseed) created, and both report how many rows
// they touched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hiveboardgame/hive/apps/server/internal/auth"
	"github.com/hiveboardgame/hive/apps/server/internal/store"
)

func main() {
	users := flag.Int("users", 10, "number of testuserN accounts to sweep (must cover every account hiveseed created)")
	databaseURL := flag.String("database-url", "", "postgres connection string (overrides HIVE_DB_DRIVER env)")
	flag.Parse()

	if *users <= 0 {
		log.Fatalf("hivecleanup: --users must be positive")
	}

	authService, _, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("hivecleanup: init auth service: %v", err)
	}
	defer authService.Close()

	gameStore, err := openStore(*databaseURL)
	if err != nil {
		log.Fatalf("hivecleanup: init game store: %v", err)
	}
	defer gameStore.Close()

	ctx := context.Background()
	removed, failures := cleanupTestData(ctx, authService, gameStore, *users)
	log.Printf("hivecleanup: removed %d games", removed)
	if failures > 0 {
		log.Printf("hivecleanup: %d account(s) failed to clean up", failures)
		os.Exit(1)
	}
}

func openStore(databaseURL string) (store.Store, error) {
	if databaseURL == "" {
		s, _, err := store.NewFromEnv()
		return s, err
	}
	return store.NewPostgres(databaseURL)
}

// cleanupTestData walks every testuserN account hiveseed could have
// created, resolving each to its account id via login (no separate lookup
// API exists on auth.Service) and deleting its games. A login failure for
// a given index just means hiveseed never created that account; it is not
// treated as a cleanup failure.
func cleanupTestData(ctx context.Context, authService auth.Service, st store.Store, users int) (removed, failures int) {
	for i := 1; i <= users; i++ {
		username := fmt.Sprintf("testuser%d", i)
		userID, _, err := authService.Login(username, "hivegame")
		if err != nil {
			continue
		}
		n, err := st.DeleteGamesForUser(ctx, userID)
		if err != nil {
			log.Printf("hivecleanup: delete games for %s: %v", username, err)
			failures++
			continue
		}
		removed += n
	}
	return removed, failures
}
