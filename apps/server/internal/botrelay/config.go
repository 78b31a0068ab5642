// Package botrelay drives one or more bot accounts against the platform's
// public bot HTTP surface (/api/v1/bot/...), the same job hive-hydra's
// producer/consumer pipeline does: poll for challenges and pending-turn
// games, spawn a local engine process per turn, and play its bestmove back.
//
// This package talks to the server only through the HTTP client in
// client.go; it never reaches into handler/session/store directly, mirroring
// hive-hydra's own separation (the relay is an external collaborator, not
// part of the server binary).
package botrelay

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// BotConfig is one configured bot account plus the engine command used to
// pick its moves. Grounded on hive-hydra's config::BotConfig.
type BotConfig struct {
	Name          string
	Email         string
	Password      string
	EngineCommand string
	BestmoveArgs  []string
}

// Config is the whole relay's configuration, grounded on hive-hydra's
// config::Config (base_url, max_concurrent_processes, queue_capacity, bots).
type Config struct {
	BaseURL                string
	MaxConcurrentProcesses int
	QueueCapacity          int
	Bots                   []BotConfig
}

const (
	defaultMaxConcurrentProcesses = 4
	defaultQueueCapacity          = 32
)

// LoadFromEnv builds a Config from HIVE_BOT_* environment variables, the
// same env-driven convention apps/server/internal/store's NewFromEnv and
// apps/server/internal/auth's NewServiceFromEnv use. Bots are described by
// HIVE_BOT_NAMES (comma-separated) plus, per name N, HIVE_BOT_N_EMAIL,
// HIVE_BOT_N_PASSWORD, HIVE_BOT_N_ENGINE, and HIVE_BOT_N_ENGINE_ARGS
// (space-separated).
func LoadFromEnv() (Config, error) {
	cfg := Config{
		BaseURL:                envOr("HIVE_BOT_BASE_URL", "http://localhost:18080"),
		MaxConcurrentProcesses: defaultMaxConcurrentProcesses,
		QueueCapacity:          defaultQueueCapacity,
	}
	if v := os.Getenv("HIVE_BOT_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("botrelay: invalid HIVE_BOT_MAX_CONCURRENCY: %w", err)
		}
		cfg.MaxConcurrentProcesses = n
	}
	if v := os.Getenv("HIVE_BOT_QUEUE_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("botrelay: invalid HIVE_BOT_QUEUE_CAPACITY: %w", err)
		}
		cfg.QueueCapacity = n
	}

	names := splitNonEmpty(os.Getenv("HIVE_BOT_NAMES"), ",")
	for _, name := range names {
		upper := envKeySafe(name)
		bot := BotConfig{
			Name:          name,
			Email:         os.Getenv("HIVE_BOT_" + upper + "_EMAIL"),
			Password:      os.Getenv("HIVE_BOT_" + upper + "_PASSWORD"),
			EngineCommand: os.Getenv("HIVE_BOT_" + upper + "_ENGINE"),
			BestmoveArgs:  splitNonEmpty(os.Getenv("HIVE_BOT_"+upper+"_ENGINE_ARGS"), " "),
		}
		if bot.Email == "" || bot.Password == "" || bot.EngineCommand == "" {
			return Config{}, fmt.Errorf("botrelay: bot %q missing email/password/engine configuration", name)
		}
		cfg.Bots = append(cfg.Bots, bot)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitNonEmpty(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envKeySafe(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
