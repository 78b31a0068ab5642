package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hiveboardgame/hive/hive/rating"
)

type countingStore struct {
	Store
	loadGameCalls int
}

func (c *countingStore) LoadGame(ctx context.Context, id uuid.UUID) (GameRecord, error) {
	c.loadGameCalls++
	return c.Store.LoadGame(ctx, id)
}

func TestCachedStoreLoadGameServesFromCacheAfterFirstLoad(t *testing.T) {
	inner := &countingStore{Store: NewMemory()}
	cached, err := WithCache(inner)
	if err != nil {
		t.Fatalf("WithCache: %v", err)
	}
	g := GameRecord{ID: uuid.New(), White: 1, Black: 2}
	if err := cached.SaveGame(context.Background(), g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if inner.loadGameCalls != 0 {
		t.Fatalf("SaveGame should not hit LoadGame, got %d calls", inner.loadGameCalls)
	}
	if _, err := cached.LoadGame(context.Background(), g.ID); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if inner.loadGameCalls != 0 {
		t.Fatalf("LoadGame after SaveGame should be served from cache, got %d backing calls", inner.loadGameCalls)
	}
}

func TestCachedStoreLoadRatingPopulatesCacheOnMiss(t *testing.T) {
	cached, err := WithCache(NewMemory())
	if err != nil {
		t.Fatalf("WithCache: %v", err)
	}
	ctx := context.Background()
	first, err := cached.LoadRating(ctx, 9, rating.Blitz)
	if err != nil {
		t.Fatalf("LoadRating: %v", err)
	}
	second, err := cached.LoadRating(ctx, 9, rating.Blitz)
	if err != nil {
		t.Fatalf("LoadRating: %v", err)
	}
	if first.Rating.Value != second.Rating.Value {
		t.Fatalf("cached LoadRating mismatch: %v vs %v", first, second)
	}
}
