package botrelay

import (
	"sync"
	"time"
)

type turnState int

const (
	stateProcessing turnState = iota
	stateProcessed
)

// TurnTracker deduplicates in-flight game hashes so a producer poll that
// races ahead of the consumer never queues the same position twice.
// Grounded on hive-hydra's turn_tracker::TurnTracker; processed entries are
// swept periodically by Cleanup rather than removed immediately, giving the
// next poll cycle a chance to observe the position hasn't changed yet.
type TurnTracker struct {
	mu      sync.Mutex
	entries map[uint64]turnEntry
}

type turnEntry struct {
	state   turnState
	touched time.Time
}

// processedRetention is how long a processed hash stays tracked before
// Cleanup drops it, long enough to span one producer poll cycle.
const processedRetention = 2 * time.Second

func NewTurnTracker() *TurnTracker {
	return &TurnTracker{entries: make(map[uint64]turnEntry)}
}

// Tracked reports whether hash is already queued, mid-flight, or processed
// but not yet swept by Cleanup.
func (t *TurnTracker) Tracked(hash uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[hash]
	return ok
}

// Processing marks hash as queued/in-flight.
func (t *TurnTracker) Processing(hash uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[hash] = turnEntry{state: stateProcessing, touched: time.Now()}
}

// Processed marks hash as done; Cleanup will evict it after processedRetention.
func (t *TurnTracker) Processed(hash uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[hash] = turnEntry{state: stateProcessed, touched: time.Now()}
}

// Cleanup drops processed entries older than processedRetention, the same
// role hive-hydra's periodic cleanup_tracker.cleanup() loop plays.
func (t *TurnTracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	for hash, e := range t.entries {
		if e.state == stateProcessed && now.Sub(e.touched) > processedRetention {
			delete(t.entries, hash)
		}
	}
}
