// Package dedupe tracks which timeline events have already been accepted
// so re-sent feed batches are ingested at most once.
package dedupe

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/okian/courtside/internal/domain/model"
)

const defaultMaxSize = 50000

// Deduper records seen event keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets a key so the event can be retried, e.g. after queue
	// backpressure.
	Unrecord(ctx context.Context, key string)

	// Size returns the number of keys currently remembered.
	Size() int64
}

// Key identifies an event within a game. Identical re-sends share a key;
// a corrected event at the same index does not, so it reaches the store
// and replaces the original.
func Key(gameID string, ev model.TimelineEvent) string { //nolint:gocritic // hugeParam: events are values
	h := fnv.New64a()
	b, err := json.Marshal(ev)
	if err != nil {
		b = []byte(ev.Description)
	}
	_, _ = h.Write(b)
	return fmt.Sprintf("%s:%d:%016x", gameID, ev.Index, h.Sum64())
}

// inMemoryDeduper keeps keys in a map. In bounded mode a ring of keys in
// insertion order evicts the oldest entry when full.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // key -> ring slot, -1 in unbounded mode
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

// SeenAndRecord implements Deduper.SeenAndRecord.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[key] = -1
		return false
	}

	// the slot holds the oldest key once the ring has wrapped
	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = key
	d.seen[key] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

// Unrecord implements Deduper.Unrecord.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.seen[key]
	if !ok {
		return
	}
	delete(d.seen, key)
	if slot >= 0 {
		d.ring[slot] = ""
	}
}

// Size implements Deduper.Size.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
