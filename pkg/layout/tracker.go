package layout

import (
	"errors"
	"sync"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
)

// ErrNilListener is returned when registering a nil Listener.
var ErrNilListener = errors.New("nil layout listener")

// Listener receives the new descriptor and the sample that produced it.
type Listener func(model.Descriptor, model.SizeSample)

// Tracker classifies every incoming sample and notifies listeners only when
// the breakpoint level changes. Width or height changes inside one level are
// absorbed.
//
// Notifications are delivered in order, outside the state lock: listeners
// may call Current, Stats, OnChange and Remove, but must not call Observe or
// Attach on the same Tracker.
type Tracker struct {
	deliverMu sync.Mutex // orders notifications; held while listeners run

	mu        sync.Mutex
	last      model.Descriptor
	lastSize  model.SizeSample
	seen      bool
	changes   uint64
	observed  uint64
	listeners *registry.Registry[Listener]
}

// NewTracker creates a Tracker with no listeners and no notified level.
func NewTracker() *Tracker {
	return &Tracker{listeners: registry.New[Listener]()}
}

// OnChange registers l. Listeners run in registration order.
func (t *Tracker) OnChange(l Listener) (registry.Handle, error) {
	if l == nil {
		return 0, ErrNilListener
	}
	return t.listeners.Add(l)
}

// Attach registers l and, if a sample has already been observed, delivers
// the current descriptor to it before returning.
func (t *Tracker) Attach(l Listener) (registry.Handle, error) {
	if l == nil {
		return 0, ErrNilListener
	}
	t.deliverMu.Lock()
	defer t.deliverMu.Unlock()

	h, err := t.listeners.Add(l)
	if err != nil {
		return 0, err
	}
	if d, s, ok := t.Current(); ok {
		l(d, s)
	}
	return h, nil
}

// Remove unregisters a listener. It is a no-op for unknown handles.
func (t *Tracker) Remove(h registry.Handle) {
	t.listeners.Remove(h)
}

// Observe feeds one sample. It returns true when listeners were notified.
// The first observed sample always notifies.
func (t *Tracker) Observe(s model.SizeSample) bool {
	t.deliverMu.Lock()
	defer t.deliverMu.Unlock()

	t.mu.Lock()
	t.observed++
	t.lastSize = s
	d := ClassifySample(s)
	if t.seen && d.Level == t.last.Level {
		t.mu.Unlock()
		return false
	}
	t.seen = true
	t.last = d
	t.changes++
	t.mu.Unlock()

	t.listeners.Each(func(_ registry.Handle, l Listener) {
		l(d, s)
	})
	return true
}

// Current returns the last notified descriptor and the most recent sample.
// ok is false until the first sample is observed.
func (t *Tracker) Current() (d model.Descriptor, s model.SizeSample, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.lastSize, t.seen
}

// TrackerStats counts observed samples and emitted level changes.
type TrackerStats struct {
	Observed uint64
	Changes  uint64
}

// Stats returns the tracker counters.
func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerStats{Observed: t.observed, Changes: t.changes}
}

// Close drops every listener.
func (t *Tracker) Close() {
	t.listeners.Close()
}
