package handler

import (
	"context"

	"github.com/hiveboardgame/hive/apps/server/internal/wire"
	"github.com/hiveboardgame/hive/hive/rating"
)

// HandleUserProfile loads a user's rating row for every speed bucket and
// replies only to the requesting session with a UserStatus message naming
// that user; the rating values themselves are not carried in the reply.
func (h *Handler) HandleUserProfile(ctx context.Context, sessionID string, userID uint64, req wire.Request) ([]Effect, error) {
	target := req.UserID
	if target == 0 {
		target = userID
	}
	for _, speed := range []rating.Speed{
		rating.Untimed, rating.Correspondence, rating.Classical, rating.Rapid, rating.Blitz, rating.Bullet,
	} {
		if _, err := h.Store.LoadRating(ctx, target, speed); err != nil {
			return nil, newError(CodeDatabaseError, "", "load rating: %v", err)
		}
	}
	return []Effect{{
		Dest: Direct(sessionID),
		Msg:  wire.Message{Type: wire.MsgUserStatus, UserID: target, Online: true},
	}}, nil
}
