package handler

import (
	"context"

	"github.com/hiveboardgame/hive/apps/server/internal/wire"
)

// HandleGamesSearch looks up a user's historical games from Store and
// replies to the requesting session with the ids of every game found; the
// game records themselves are not included in the reply.
func (h *Handler) HandleGamesSearch(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	target := userID
	if v, ok := req.SearchFilters["user_id"].(float64); ok {
		target = uint64(v)
	}
	games, err := h.Store.ListGamesForUser(ctx, target)
	if err != nil {
		return nil, newError(CodeDatabaseError, "", "search games: %v", err)
	}
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID.String()
	}
	return []Effect{{
		Dest: Direct(sessionID),
		Msg:  wire.Message{Type: wire.MsgUserStatus, UserID: target, GameIDs: ids},
	}}, nil
}
