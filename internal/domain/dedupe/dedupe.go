// Package dedupe tracks dataset fingerprints so refreshes that produce an
// unchanged dataset do not publish a new snapshot.
package dedupe

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/okian/scout/internal/domain/model"
)

const defaultCapacity = 128

// Field and record separators for fingerprint serialization.
const (
	fieldSep  = '\x1f'
	recordSep = '\x1e'
)

// Fingerprint returns a stable FNV-1a hash of the dataset content. Record
// order matters: providers emit deterministic order, so a reordered dataset
// counts as changed.
func Fingerprint(records []model.Player) uint64 {
	h := fnv.New64a()
	for _, p := range records {
		fmt.Fprintf(h, "%s%c%s%c%s%c%s%c%s%c%d%c%g%c%d%c%g%c%d%c%d%c%g%c%g%c%g%c%g%c%g%c",
			p.ID, fieldSep, p.Name, fieldSep, p.Position, fieldSep, p.Team, fieldSep, p.League, fieldSep,
			p.Age, fieldSep, p.Price, fieldSep, p.Minutes, fieldSep, p.TotalPoints, fieldSep,
			p.Goals, fieldSep, p.Assists, fieldSep,
			p.Form, fieldSep, p.Influence, fieldSep, p.Creativity, fieldSep, p.Threat, fieldSep,
			p.ICTIndex, recordSep)
	}
	return h.Sum64()
}

// Tracker remembers recently seen fingerprints with a bounded memory
// footprint. When the capacity is exceeded the oldest fingerprint is
// evicted first. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	capacity int
	seen     map[uint64]struct{}
	order    []uint64
	next     int
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithCapacity bounds the number of remembered fingerprints. Values <= 0
// keep the default.
func WithCapacity(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// New creates a fingerprint tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[uint64]struct{}, t.capacity)
	t.order = make([]uint64, 0, t.capacity)
	return t
}

// Seen records fp and reports whether it was already tracked.
func (t *Tracker) Seen(fp uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[fp]; ok {
		return true
	}
	if len(t.order) < t.capacity {
		t.order = append(t.order, fp)
	} else {
		// Ring is full: reuse the oldest slot.
		delete(t.seen, t.order[t.next])
		t.order[t.next] = fp
		t.next = (t.next + 1) % t.capacity
	}
	t.seen[fp] = struct{}{}
	return false
}

// Forget drops fp so a later refresh with the same content is processed
// again. Callers use it to roll back a Seen when publishing the snapshot
// fails afterwards.
func (t *Tracker) Forget(fp uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[fp]; !ok {
		return
	}
	delete(t.seen, fp)
	for i, v := range t.order {
		if v != fp {
			continue
		}
		t.order = append(t.order[:i], t.order[i+1:]...)
		if i < t.next {
			t.next--
		}
		break
	}
	if t.next >= len(t.order) {
		t.next = 0
	}
}

// Size returns the number of tracked fingerprints.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
