// Package watcher provides event coalescing (debounce and throttle) and file
// watching with fallback polling.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period for file events.
const DefaultDebounceDuration = 150 * time.Millisecond

// DefaultMaxWait caps how long a watcher's debouncer may postpone a change
// while events keep arriving.
const DefaultMaxWait = time.Second

// Debouncer runs fire once events stop for the quiet period. With a max
// wait, a burst that never goes quiet still fires at most that long after
// its first event, so a file rewritten continuously is not starved.
type Debouncer struct {
	quiet   time.Duration
	maxWait time.Duration
	fire    func()

	mu         sync.Mutex
	timer      *time.Timer
	gen        uint64
	burstStart time.Time
	triggers   uint64
	fired      uint64
}

// DebounceOption configures a Debouncer.
type DebounceOption func(*Debouncer)

// WithMaxWait bounds the delay from a burst's first event. Zero or negative
// means unbounded.
func WithMaxWait(d time.Duration) DebounceOption {
	return func(db *Debouncer) { db.maxWait = d }
}

// NewDebouncer creates a Debouncer calling fire. A non-positive quiet period
// selects DefaultDebounceDuration.
func NewDebouncer(quiet time.Duration, fire func(), opts ...DebounceOption) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultDebounceDuration
	}
	db := &Debouncer{quiet: quiet, fire: fire}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Trigger records an event and pushes the deadline out by the quiet period,
// never past the burst's max wait.
func (db *Debouncer) Trigger() {
	now := time.Now()

	db.mu.Lock()
	defer db.mu.Unlock()

	db.triggers++
	if db.timer == nil {
		db.burstStart = now
	} else {
		db.timer.Stop()
	}

	delay := db.quiet
	if db.maxWait > 0 {
		if left := db.burstStart.Add(db.maxWait).Sub(now); left < delay {
			delay = max(left, 0)
		}
	}

	db.gen++
	gen := db.gen
	db.timer = time.AfterFunc(delay, func() { db.expire(gen) })
}

func (db *Debouncer) expire(gen uint64) {
	db.mu.Lock()
	// A timer stopped too late still runs; only the newest one may fire.
	if gen != db.gen {
		db.mu.Unlock()
		return
	}
	db.timer = nil
	db.fired++
	db.mu.Unlock()

	db.fire()
}

// Cancel discards the pending burst.
func (db *Debouncer) Cancel() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.gen++
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}

// Pending reports whether a burst is waiting to fire.
func (db *Debouncer) Pending() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.timer != nil
}

// Quiet returns the quiet period.
func (db *Debouncer) Quiet() time.Duration {
	return db.quiet
}

// DebounceStats counts events seen and callbacks run.
type DebounceStats struct {
	Triggers uint64
	Fired    uint64
}

// Stats returns the counters.
func (db *Debouncer) Stats() DebounceStats {
	db.mu.Lock()
	defer db.mu.Unlock()
	return DebounceStats{Triggers: db.triggers, Fired: db.fired}
}
