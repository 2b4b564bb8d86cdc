// Package window composes a sampler and a breakpoint tracker into a single
// responsive-window object: hosts attach layout listeners and receive a new
// descriptor whenever the breakpoint level changes.
package window

import (
	"sync"

	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
)

// Window owns one Sampler and one Tracker. Several Windows may coexist, each
// over its own environment.
type Window struct {
	sampler *sampler.Sampler
	tracker *layout.Tracker

	mu     sync.Mutex
	handle sampler.Handle
	open   bool
}

// New builds a Window over env. Call Start to begin sampling.
func New(env sampler.Environment, opts ...sampler.Option) *Window {
	return &Window{
		sampler: sampler.New(env, opts...),
		tracker: layout.NewTracker(),
	}
}

// Start attaches the sampler to its environment and feeds the tracker. The
// tracker observes the current size before Start returns.
func (w *Window) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.sampler.Start(); err != nil {
		return err
	}
	h, err := w.sampler.Subscribe(func(s model.SizeSample) { w.tracker.Observe(s) })
	if err != nil {
		return err
	}
	w.handle = h
	w.open = true
	return nil
}

// OnLayout registers l for breakpoint changes. If the window has a layout
// already, l receives it immediately.
func (w *Window) OnLayout(l layout.Listener) (registry.Handle, error) {
	return w.tracker.Attach(l)
}

// Detach removes a layout listener.
func (w *Window) Detach(h registry.Handle) {
	w.tracker.Remove(h)
}

// Layout returns the current descriptor and the sample it was last
// observed with. ok is false before Start.
func (w *Window) Layout() (model.Descriptor, model.SizeSample, bool) {
	return w.tracker.Current()
}

// Resize forwards a host resize notification, for hosts that push sizes
// themselves rather than through Environment.Watch.
func (w *Window) Resize(s model.SizeSample) {
	w.sampler.OnResize(s)
}

// Flush delivers a pending resize without waiting for the quantum.
func (w *Window) Flush() bool {
	return w.sampler.Flush()
}

// Sampler exposes the underlying sampler for raw size subscriptions.
func (w *Window) Sampler() *sampler.Sampler {
	return w.sampler
}

// Stats bundles sampler and tracker counters.
type Stats struct {
	Sampler sampler.Stats
	Tracker layout.TrackerStats
}

// Stats returns the current counters.
func (w *Window) Stats() Stats {
	return Stats{Sampler: w.sampler.Stats(), Tracker: w.tracker.Stats()}
}

// Close detaches from the environment and drops all listeners.
func (w *Window) Close() {
	w.mu.Lock()
	if w.open {
		w.sampler.Unsubscribe(w.handle)
		w.open = false
	}
	w.mu.Unlock()

	w.sampler.Close()
	w.tracker.Close()
}
