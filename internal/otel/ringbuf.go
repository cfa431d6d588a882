package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize holds the last few hundred commands with their render passes.
const DefaultRingSize = 1024

// RingBuffer keeps the most recent events in memory for the debug overlay.
// All methods are safe for concurrent use.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event
	next   int // slot the next Push writes
	full   bool
}

// NewRingBuffer returns a buffer holding up to size events. A non-positive
// size means DefaultRingSize.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{events: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full. Extra is copied so the
// caller may reuse its map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	r.events[r.next] = e
	r.next++
	if r.next == len(r.events) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
}

// Snapshot copies every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(r.len())
}

// Last copies the n most recent events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(n)
}

// LastOf returns the most recent event of kind.
func (r *RingBuffer) LastOf(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i <= r.len(); i++ {
		e := r.events[r.slot(-i)]
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.len()
}

func (r *RingBuffer) Cap() int { return len(r.events) }

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range r.Snapshot() {
		counts[e.Kind]++
	}
	return counts
}

// CommandStats counts buffered selection commands by name, split into
// those that changed the selection and no-ops.
func (r *RingBuffer) CommandStats() (applied, noop map[string]int) {
	applied = make(map[string]int)
	noop = make(map[string]int)
	for _, e := range r.Snapshot() {
		switch e.Kind {
		case KindCommand:
			applied[e.Command]++
		case KindCommandNoop:
			noop[e.Command]++
		}
	}
	return applied, noop
}

func (r *RingBuffer) len() int {
	if r.full {
		return len(r.events)
	}
	return r.next
}

// slot maps an offset relative to next onto the backing array.
func (r *RingBuffer) slot(offset int) int {
	n := len(r.events)
	return ((r.next+offset)%n + n) % n
}

// tail copies the n newest events. Caller holds r.mu.
func (r *RingBuffer) tail(n int) []Event {
	n = min(n, r.len())
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	for i := range out {
		out[i] = r.events[r.slot(i-n)]
	}
	return out
}
