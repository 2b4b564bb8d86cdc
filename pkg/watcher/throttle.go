package watcher

import (
	"sync"
	"time"
)

// DefaultQuantum approximates one display refresh at 60Hz.
const DefaultQuantum = 16 * time.Millisecond

// Throttler forwards at most one value per quantum, on the trailing edge.
//
// The first Trigger after an idle period arms a timer; Triggers that arrive
// before it fires only replace the pending value. When the timer fires the
// most recent value is delivered, so the state at the end of a burst is never
// lost. Deliveries never overlap and arrive in trigger order.
type Throttler[T any] struct {
	quantum time.Duration
	fire    func(T)

	fireMu sync.Mutex // held for the duration of every delivery

	mu        sync.Mutex
	latest    T
	pending   bool
	timer     *time.Timer
	seq       uint64
	stopped   bool
	coalesced uint64
	fired     uint64
}

// NewThrottler creates a Throttler that calls fire with the latest value once
// per quantum. A non-positive quantum selects DefaultQuantum.
func NewThrottler[T any](quantum time.Duration, fire func(T)) *Throttler[T] {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	return &Throttler[T]{quantum: quantum, fire: fire}
}

// Trigger records v as the latest value and schedules delivery if none is
// pending. It never blocks on delivery.
func (t *Throttler[T]) Trigger(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.latest = v
	if t.pending {
		t.coalesced++
		return
	}
	t.pending = true
	t.seq++
	seq := t.seq
	t.timer = time.AfterFunc(t.quantum, func() { t.deliver(seq) })
}

// Flush delivers the pending value now instead of waiting for the timer.
// It reports whether a value was delivered.
func (t *Throttler[T]) Flush() bool {
	t.mu.Lock()
	if !t.pending || t.stopped {
		t.mu.Unlock()
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	seq := t.seq
	t.mu.Unlock()
	return t.deliver(seq)
}

func (t *Throttler[T]) deliver(seq uint64) bool {
	// Taking fireMu before claiming the value keeps deliveries ordered: the
	// next quantum cannot be armed until this one has cleared pending.
	t.fireMu.Lock()
	defer t.fireMu.Unlock()

	t.mu.Lock()
	if seq != t.seq || !t.pending || t.stopped {
		t.mu.Unlock()
		return false
	}
	v := t.latest
	t.pending = false
	t.timer = nil
	t.fired++
	t.mu.Unlock()

	t.fire(v)
	return true
}

// Stop cancels any pending delivery and ignores later Triggers.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.seq++
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a value is waiting for the next quantum.
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Quantum returns the scheduling interval.
func (t *Throttler[T]) Quantum() time.Duration {
	return t.quantum
}

// ThrottleStats counts deliveries and values replaced before delivery.
type ThrottleStats struct {
	Fired     uint64
	Coalesced uint64
}

// Stats returns the throttler counters.
func (t *Throttler[T]) Stats() ThrottleStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ThrottleStats{Fired: t.fired, Coalesced: t.coalesced}
}
