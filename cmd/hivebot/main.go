// Command hivebot runs the bot relay adapter (apps/server/internal/botrelay)
// against a running hiveserver, the Go counterpart to hive-hydra's binary.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hiveboardgame/hive/apps/server/internal/botrelay"
)

func main() {
	cfg, err := botrelay.LoadFromEnv()
	if err != nil {
		log.Fatalf("hivebot: %v", err)
	}
	if len(cfg.Bots) == 0 {
		log.Fatalf("hivebot: no bots configured (set HIVE_BOT_NAMES)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("hivebot: starting %d bot(s) against %s", len(cfg.Bots), cfg.BaseURL)
	botrelay.New(cfg).Run(ctx)
	log.Printf("hivebot: shutting down")
}
