package botrelay

import (
	"context"
	"log"
	"time"
)

const (
	pollInterval    = 1 * time.Second
	cleanupInterval = 2 * time.Second
)

// turn is one queued bot move, pairing the game needing a move with the bot
// account and token that owns it. Grounded on hive-hydra's BotGameTurn.
type turn struct {
	game  Game
	hash  uint64
	bot   BotConfig
	token string
}

// Relay runs the producer/consumer pipeline described in SPEC_FULL.md's
// "Bot relay adapter": one producer per configured bot polling challenges
// and pending games, and a bounded-concurrency consumer pool spawning the
// local engine per turn. The consumer's concurrency cap is a buffered
// channel used as a counting semaphore, the same channel-as-semaphore idiom
// apps/server/internal/session's Session.send buffering already uses for
// bounded work, rather than pulling in a separate semaphore package.
type Relay struct {
	client  *Client
	cfg     Config
	tracker *TurnTracker
}

func New(cfg Config) *Relay {
	return &Relay{client: NewClient(cfg.BaseURL), cfg: cfg, tracker: NewTurnTracker()}
}

// Run blocks until ctx is cancelled, running one producer goroutine per bot
// and a single consumer loop, matching hive-hydra's main().
func (r *Relay) Run(ctx context.Context) {
	queue := make(chan turn, r.cfg.QueueCapacity)
	sem := make(chan struct{}, r.cfg.MaxConcurrentProcesses)

	go r.cleanupLoop(ctx)

	for _, bot := range r.cfg.Bots {
		go r.producerLoop(ctx, bot, queue)
	}

	r.consumerLoop(ctx, queue, sem)
}

func (r *Relay) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tracker.Cleanup()
		}
	}
}

func (r *Relay) producerLoop(ctx context.Context, bot BotConfig, queue chan<- turn) {
	token, err := r.client.Auth(ctx, bot.Email, bot.Password)
	if err != nil {
		log.Printf("botrelay: bot %s: auth failed: %v", bot.Name, err)
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx, bot, token, queue)
		}
	}
}

func (r *Relay) pollOnce(ctx context.Context, bot BotConfig, token string, queue chan<- turn) {
	challengeIDs, err := r.client.Challenges(ctx, token)
	if err != nil {
		log.Printf("botrelay: bot %s: list challenges: %v", bot.Name, err)
	}
	for _, id := range challengeIDs {
		if err := r.client.AcceptChallenge(ctx, id, token); err != nil {
			log.Printf("botrelay: bot %s: accept challenge %s: %v", bot.Name, id, err)
		}
	}

	games, err := r.client.PendingGames(ctx, token)
	if err != nil {
		log.Printf("botrelay: bot %s: list pending games: %v", bot.Name, err)
		return
	}
	for _, g := range games {
		hash := g.Hash()
		if r.tracker.Tracked(hash) {
			continue
		}
		r.tracker.Processing(hash)
		select {
		case queue <- turn{game: g, hash: hash, bot: bot, token: token}:
		default:
			log.Printf("botrelay: bot %s: queue full, dropping turn for game %s", bot.Name, g.Identifier())
			r.tracker.Processed(hash)
		}
	}
}

func (r *Relay) consumerLoop(ctx context.Context, queue <-chan turn, sem chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-queue:
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			go func(t turn) {
				defer func() { <-sem }()
				r.processTurn(ctx, t)
			}(t)
		}
	}
}

func (r *Relay) processTurn(ctx context.Context, t turn) {
	defer r.tracker.Processed(t.hash)

	bestmove, err := runEngine(ctx, t.bot.EngineCommand, t.bot.BestmoveArgs, t.game.GameString())
	if err != nil {
		log.Printf("botrelay: bot %s: engine error for game %s: %v", t.bot.Name, t.game.Identifier(), err)
		return
	}

	if err := r.client.PlayMove(ctx, t.game.Identifier(), bestmove, t.token); err != nil {
		log.Printf("botrelay: bot %s: play move %q for game %s: %v", t.bot.Name, bestmove, t.game.Identifier(), err)
		return
	}
	log.Printf("botrelay: bot %s played %q in game %s", t.bot.Name, bestmove, t.game.Identifier())
}
