package store

import (
	"context"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hiveboardgame/hive/hive/rating"
)

const (
	defaultGameCacheSize   = 2048
	defaultRatingCacheSize = 4096
)

// cachedStore fronts a Store with a bounded LRU of hot GameRecord/RatingRecord
// snapshots, so a busy room actor re-reading its own in-progress game or a
// player's current rating during matchmaking doesn't round-trip the database
// on every lookup. Writes go through to the backing Store first and only
// populate the cache once persisted, so a crash mid-write never leaves the
// cache ahead of disk.
type cachedStore struct {
	Store
	games   *lru.Cache[uuid.UUID, GameRecord]
	ratings *lru.Cache[ratingKey, RatingRecord]
}

// WithCache wraps backing with bounded read-through caches for games and
// ratings, matching the read/write paths hottest for an active room: game
// state on every move, rating lookups on matchmaking and game end.
func WithCache(backing Store) (Store, error) {
	games, err := lru.New[uuid.UUID, GameRecord](defaultGameCacheSize)
	if err != nil {
		return nil, err
	}
	ratings, err := lru.New[ratingKey, RatingRecord](defaultRatingCacheSize)
	if err != nil {
		return nil, err
	}
	return &cachedStore{Store: backing, games: games, ratings: ratings}, nil
}

func (c *cachedStore) SaveGame(ctx context.Context, g GameRecord) error {
	if err := c.Store.SaveGame(ctx, g); err != nil {
		return err
	}
	c.games.Add(g.ID, g)
	return nil
}

func (c *cachedStore) LoadGame(ctx context.Context, id uuid.UUID) (GameRecord, error) {
	if g, ok := c.games.Get(id); ok {
		return g, nil
	}
	g, err := c.Store.LoadGame(ctx, id)
	if err != nil {
		return GameRecord{}, err
	}
	c.games.Add(id, g)
	return g, nil
}

func (c *cachedStore) DeleteGamesForUser(ctx context.Context, userID uint64) (int, error) {
	n, err := c.Store.DeleteGamesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	// A deletion can remove any subset of the bounded cache's entries; purging
	// outright is simpler than tracking which ids it affected for an
	// operation the cleanup CLI only ever runs against a test database.
	c.games.Purge()
	return n, nil
}

func (c *cachedStore) LoadRating(ctx context.Context, userID uint64, speed rating.Speed) (RatingRecord, error) {
	key := ratingKey{userID, speed}
	if r, ok := c.ratings.Get(key); ok {
		return r, nil
	}
	r, err := c.Store.LoadRating(ctx, userID, speed)
	if err != nil {
		return RatingRecord{}, err
	}
	c.ratings.Add(key, r)
	return r, nil
}

func (c *cachedStore) SaveRating(ctx context.Context, r RatingRecord) error {
	if err := c.Store.SaveRating(ctx, r); err != nil {
		return err
	}
	c.ratings.Add(ratingKey{r.UserID, r.Speed}, r)
	return nil
}

func (c *cachedStore) Close() error {
	return c.Store.Close()
}
