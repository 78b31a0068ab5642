package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
	"database/sql"
)

const defaultLocalStoreDBName = "hive_local.db"

// NewSQLite opens (and migrates) a sqlite-backed Store, matching
// auth.NewSQLiteManager's connection-pool/pragma/bootstrap idiom.
func NewSQLite(dbPath string) (Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("store: empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteStoreSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqlStore{db: db, dialect: sqliteDialect()}, nil
}

// NewSQLiteFromEnv resolves the database path from HIVE_DB_PATH, falling
// back to the OS user-config directory like auth's sqlite path resolution.
func NewSQLiteFromEnv() (Store, error) {
	if v := strings.TrimSpace(os.Getenv("HIVE_DB_PATH")); v != "" {
		return NewSQLite(filepath.Clean(v))
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewSQLite(filepath.Join(dir, "Hive", defaultLocalStoreDBName))
}

func ensureSQLiteStoreSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    game_type INTEGER NOT NULL,
    tournament INTEGER NOT NULL,
    rated INTEGER NOT NULL,
    white_id INTEGER NOT NULL,
    black_id INTEGER NOT NULL,
    history TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL,
    winner TEXT,
    conclusion INTEGER NOT NULL,
    tournament_id TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_games_white ON games(white_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_black ON games(black_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_status ON games(status)`,
		`
CREATE TABLE IF NOT EXISTS ratings (
    user_id INTEGER NOT NULL,
    speed INTEGER NOT NULL,
    value REAL NOT NULL,
    deviation REAL NOT NULL,
    volatility REAL NOT NULL,
    played INTEGER NOT NULL DEFAULT 0,
    won INTEGER NOT NULL DEFAULT 0,
    lost INTEGER NOT NULL DEFAULT 0,
    drawn INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, speed)
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
