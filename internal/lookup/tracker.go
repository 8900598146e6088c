package lookup

import (
	"context"
	"sync"
	"time"
)

// Tracker keeps at most one lookup live. Beginning a new lookup cancels the
// unfinished previous one.
type Tracker struct {
	mu      sync.Mutex
	timeout time.Duration
	seq     uint64
	cancel  context.CancelFunc
}

// NewTracker creates a Tracker whose lookups are bounded by timeout.
func NewTracker(timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{timeout: timeout}
}

// Begin cancels any in-flight lookup and returns the id and context of a new
// one.
func (t *Tracker) Begin(parent context.Context) (uint64, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	ctx, cancel := context.WithTimeout(parent, t.timeout)
	t.cancel = cancel
	return t.seq, ctx
}

// Finish releases the context of lookup id if it is still the current one.
func (t *Tracker) Finish(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == t.seq && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Current returns the id of the most recently begun lookup.
func (t *Tracker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Cancel aborts the current lookup, if any.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
