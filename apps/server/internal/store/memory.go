package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/rating"
	"github.com/hiveboardgame/hive/hive/state"
)

// memoryStore is an in-process Store for tests and the CLI seed/cleanup
// tools, matching auth.NewManager's in-memory sibling to the DB-backed
// managers.
type memoryStore struct {
	mu       sync.RWMutex
	games    map[uuid.UUID]GameRecord
	ratings  map[ratingKey]RatingRecord
}

type ratingKey struct {
	userID uint64
	speed  rating.Speed
}

func NewMemory() Store {
	return &memoryStore{
		games:   make(map[uuid.UUID]GameRecord),
		ratings: make(map[ratingKey]RatingRecord),
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SaveGame(_ context.Context, g GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memoryStore) LoadGame(_ context.Context, id uuid.UUID) (GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return GameRecord{}, ErrNotFound
	}
	return g, nil
}

func (m *memoryStore) ListGamesForUser(_ context.Context, userID uint64) ([]GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []GameRecord
	for _, g := range m.games {
		if g.White == userID || g.Black == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryStore) ListUnfinishedTimedGames(_ context.Context) ([]GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []GameRecord
	for _, g := range m.games {
		if g.Status != state.Finished {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteGamesForUser(_ context.Context, userID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, g := range m.games {
		if g.White == userID || g.Black == userID {
			delete(m.games, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryStore) LoadRating(_ context.Context, userID uint64, speed rating.Speed) (RatingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.ratings[ratingKey{userID, speed}]; ok {
		return r, nil
	}
	return newRatingIfMissing(userID, speed), nil
}

func (m *memoryStore) SaveRating(_ context.Context, r RatingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[ratingKey{r.UserID, r.Speed}] = r
	return nil
}
