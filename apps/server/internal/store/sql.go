package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/board"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
)

// sqlStore implements Store over database/sql, shared by the sqlite and
// postgres constructors; the only difference between the two backends is
// the driver name, placeholder style, and schema bootstrap, all captured by
// the dialect passed to newSQLStore.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// dialect captures the handful of SQL differences between sqlite and
// postgres that this package's queries touch.
type dialect struct {
	name        string
	placeholder func(n int) string // 1-based arg position
	upsertGame  string
	upsertRating string
}

func sqliteDialect() dialect {
	return dialect{
		name:        "sqlite",
		placeholder: func(n int) string { return "?" },
		upsertGame: `
INSERT INTO games (id, game_type, tournament, rated, white_id, black_id, history, status, winner, conclusion, tournament_id, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  history = excluded.history, status = excluded.status, winner = excluded.winner,
  conclusion = excluded.conclusion, updated_at_ms = excluded.updated_at_ms
`,
		upsertRating: `
INSERT INTO ratings (user_id, speed, value, deviation, volatility, played, won, lost, drawn)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, speed) DO UPDATE SET
  value = excluded.value, deviation = excluded.deviation, volatility = excluded.volatility,
  played = excluded.played, won = excluded.won, lost = excluded.lost, drawn = excluded.drawn
`,
	}
}

func postgresDialect() dialect {
	return dialect{
		name: "postgres",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		upsertGame: `
INSERT INTO games (id, game_type, tournament, rated, white_id, black_id, history, status, winner, conclusion, tournament_id, created_at_ms, updated_at_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
  history = excluded.history, status = excluded.status, winner = excluded.winner,
  conclusion = excluded.conclusion, updated_at_ms = excluded.updated_at_ms
`,
		upsertRating: `
INSERT INTO ratings (user_id, speed, value, deviation, volatility, played, won, lost, drawn)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, speed) DO UPDATE SET
  value = excluded.value, deviation = excluded.deviation, volatility = excluded.volatility,
  played = excluded.played, won = excluded.won, lost = excluded.lost, drawn = excluded.drawn
`,
	}
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func colorToString(c *board.Color) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.String(), Valid: true}
}

func stringToColor(ns sql.NullString) (*board.Color, error) {
	if !ns.Valid {
		return nil, nil
	}
	switch ns.String {
	case "White":
		c := board.White
		return &c, nil
	case "Black":
		c := board.Black
		return &c, nil
	default:
		return nil, fmt.Errorf("store: unknown color %q", ns.String)
	}
}

func (s *sqlStore) SaveGame(ctx context.Context, g GameRecord) error {
	nowMs := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx, s.dialect.upsertGame,
		g.ID.String(), int(g.GameType), g.Tournament, g.Rated,
		g.White, g.Black, encodeHistory(g.History), int(g.Status),
		colorToString(g.Winner), int(g.Conclusion), g.TournamentID, nowMs, nowMs)
	return err
}

func (s *sqlStore) LoadGame(ctx context.Context, id uuid.UUID) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, game_type, tournament, rated, white_id, black_id, history, status, winner, conclusion, tournament_id
FROM games WHERE id = `+s.dialect.placeholder(1), id.String())
	return s.scanGame(row)
}

func (s *sqlStore) scanGame(row *sql.Row) (GameRecord, error) {
	var (
		idStr, tournamentID, historyStr string
		gameType, status, conclusion    int
		tournament, rated               bool
		white, black                    uint64
		winner                          sql.NullString
	)
	if err := row.Scan(&idStr, &gameType, &tournament, &rated, &white, &black, &historyStr, &status, &winner, &conclusion, &tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GameRecord{}, ErrNotFound
		}
		return GameRecord{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return GameRecord{}, err
	}
	history, err := decodeHistory(historyStr)
	if err != nil {
		return GameRecord{}, err
	}
	winnerColor, err := stringToColor(winner)
	if err != nil {
		return GameRecord{}, err
	}
	return GameRecord{
		ID: id, GameType: board.GameType(gameType), Tournament: tournament, Rated: rated,
		White: white, Black: black, History: history, Status: state.Status(status),
		Winner: winnerColor, Conclusion: state.Conclusion(conclusion), TournamentID: tournamentID,
	}, nil
}

func (s *sqlStore) ListGamesForUser(ctx context.Context, userID uint64) ([]GameRecord, error) {
	p1, p2 := s.dialect.placeholder(1), s.dialect.placeholder(2)
	rows, err := s.db.QueryContext(ctx, `
SELECT id, game_type, tournament, rated, white_id, black_id, history, status, winner, conclusion, tournament_id
FROM games WHERE white_id = `+p1+` OR black_id = `+p2, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanGames(rows)
}

func (s *sqlStore) ListUnfinishedTimedGames(ctx context.Context) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, game_type, tournament, rated, white_id, black_id, history, status, winner, conclusion, tournament_id
FROM games WHERE status != `+s.dialect.placeholder(1), int(state.Finished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanGames(rows)
}

func (s *sqlStore) scanGames(rows *sql.Rows) ([]GameRecord, error) {
	var out []GameRecord
	for rows.Next() {
		var (
			idStr, tournamentID, historyStr string
			gameType, status, conclusion    int
			tournament, rated               bool
			white, black                    uint64
			winner                          sql.NullString
		)
		if err := rows.Scan(&idStr, &gameType, &tournament, &rated, &white, &black, &historyStr, &status, &winner, &conclusion, &tournamentID); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		history, err := decodeHistory(historyStr)
		if err != nil {
			return nil, err
		}
		winnerColor, err := stringToColor(winner)
		if err != nil {
			return nil, err
		}
		out = append(out, GameRecord{
			ID: id, GameType: board.GameType(gameType), Tournament: tournament, Rated: rated,
			White: white, Black: black, History: history, Status: state.Status(status),
			Winner: winnerColor, Conclusion: state.Conclusion(conclusion), TournamentID: tournamentID,
		})
	}
	return out, rows.Err()
}

func (s *sqlStore) DeleteGamesForUser(ctx context.Context, userID uint64) (int, error) {
	p1, p2 := s.dialect.placeholder(1), s.dialect.placeholder(2)
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE white_id = `+p1+` OR black_id = `+p2, userID, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *sqlStore) LoadRating(ctx context.Context, userID uint64, speed rating.Speed) (RatingRecord, error) {
	p1, p2 := s.dialect.placeholder(1), s.dialect.placeholder(2)
	row := s.db.QueryRowContext(ctx, `
SELECT value, deviation, volatility, played, won, lost, drawn
FROM ratings WHERE user_id = `+p1+` AND speed = `+p2, userID, int(speed))
	var r RatingRecord
	r.UserID, r.Speed = userID, speed
	err := row.Scan(&r.Rating.Value, &r.Rating.Deviation, &r.Rating.Volatility, &r.Rating.Played, &r.Rating.Won, &r.Rating.Lost, &r.Rating.Drawn)
	if errors.Is(err, sql.ErrNoRows) {
		return newRatingIfMissing(userID, speed), nil
	}
	if err != nil {
		return RatingRecord{}, err
	}
	r.Rating.Speed = speed
	return r, nil
}

func (s *sqlStore) SaveRating(ctx context.Context, r RatingRecord) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsertRating,
		r.UserID, int(r.Speed), r.Rating.Value, r.Rating.Deviation, r.Rating.Volatility,
		r.Rating.Played, r.Rating.Won, r.Rating.Lost, r.Rating.Drawn)
	return err
}
