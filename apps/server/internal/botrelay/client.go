package botrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"
)

const apiTimeout = 10 * time.Second

// APIError reports a non-2xx response from the bot HTTP surface, mirroring
// hive-hydra's ApiError::Server{status_code, message}.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("botrelay: api error: %d - %s", e.StatusCode, e.Message)
}

// Game is one pending-turn game as the /bot/games/pending endpoint reports
// it, matching hive-hydra's HiveGame (only the fields the relay needs).
type Game struct {
	ID               string `json:"id"`
	OpponentUsername string `json:"opponent_username"`
	GameType         string `json:"game_type"`
	GameStatus       string `json:"game_status"`
	PlayerTurn       string `json:"player_turn"`
	History          string `json:"history"`
	Nanoid           string `json:"nanoid"`
}

// Hash reproduces hive-hydra's HiveGame::hash: a fingerprint of the fields
// that change between turns, used by TurnTracker to skip games already
// queued for this same position.
func (g Game) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(g.ID))
	h.Write([]byte(g.GameType))
	h.Write([]byte(g.GameStatus))
	h.Write([]byte(g.PlayerTurn))
	h.Write([]byte(g.History))
	return h.Sum64()
}

// Identifier prefers the tournament-facing nanoid over the raw id, matching
// hive-hydra's process_turn game_identifier fallback.
func (g Game) Identifier() string {
	if g.Nanoid != "" {
		return g.Nanoid
	}
	return g.ID
}

// GameString reproduces hive-hydra's HiveGame::game_string: the
// semicolon-joined "<type>;<status>;<turn>;<history>" blob the local engine
// expects on stdin, with the same "no trailing semicolon" and
// "no leading-space-before-semicolon" normalization as the original.
func (g Game) GameString() string {
	if g.History == "" {
		return fmt.Sprintf("%s;%s;%s", g.GameType, g.GameStatus, "White[1]")
	}
	cleaned := trimTrailingSemicolons(collapseSpaceSemicolon(g.History))
	return fmt.Sprintf("%s;%s;%s;%s", g.GameType, g.GameStatus, g.PlayerTurn, cleaned)
}

func collapseSpaceSemicolon(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' && i+1 < len(s) && s[i+1] == ';' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func trimTrailingSemicolons(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ';' {
		end--
	}
	return s[:end]
}

// Client is a small HTTP client for the platform's bot endpoints, grounded
// on hive-hydra's HiveGameApi.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{httpClient: &http.Client{Timeout: apiTimeout}, baseURL: baseURL}
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Auth exchanges email/password for a bearer token via POST /api/v1/auth/token.
func (c *Client) Auth(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Data.Token, nil
}

// Challenges lists outstanding challenge ids for this bot via
// GET /api/v1/bot/challenges/.
func (c *Client) Challenges(ctx context.Context, token string) ([]string, error) {
	var resp struct {
		Data struct {
			Challenges []struct {
				ChallengeID string `json:"challenge_id"`
			} `json:"challenges"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/bot/challenges/", token, nil, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Data.Challenges))
	for _, ch := range resp.Data.Challenges {
		ids = append(ids, ch.ChallengeID)
	}
	return ids, nil
}

// AcceptChallenge accepts one challenge via GET /api/v1/bot/challenge/accept/{id}.
func (c *Client) AcceptChallenge(ctx context.Context, challengeID, token string) error {
	return c.do(ctx, http.MethodGet, "/api/v1/bot/challenge/accept/"+challengeID, token, nil, nil)
}

// PendingGames lists games waiting on this bot's move via
// GET /api/v1/bot/games/pending.
func (c *Client) PendingGames(ctx context.Context, token string) ([]Game, error) {
	var resp struct {
		Data struct {
			Games []Game `json:"games"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/bot/games/pending", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Games, nil
}

// PlayMove submits a move via POST /api/v1/bot/games/play.
func (c *Client) PlayMove(ctx context.Context, gameID, moveNotation, token string) error {
	body := map[string]string{"game_id": gameID, "piece_pos": moveNotation}
	return c.do(ctx, http.MethodPost, "/api/v1/bot/games/play", token, body, nil)
}
