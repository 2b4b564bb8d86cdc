// Package sampler turns a host's high-frequency resize notifications into a
// throttled stream of size samples delivered to registered callbacks.
//
// A Sampler never fails on the read path: when the host environment cannot
// report its size, the configured fallback sample (zero by default) is used
// and the next successful notification corrects it.
package sampler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
	"github.com/Dicklesworthstone/winsize/pkg/watcher"
)

// Environment is the host port: a synchronous size query plus a push source
// of resize notifications.
type Environment interface {
	// Size reads the current viewport size.
	Size() (model.SizeSample, error)

	// Watch starts delivering resize notifications to onResize until the
	// returned stop function is called. onResize may be called at any rate
	// and from any goroutine.
	Watch(onResize func(model.SizeSample)) (stop func(), err error)
}

// Callback receives size samples.
type Callback func(model.SizeSample)

// Handle identifies a subscription.
type Handle = registry.Handle

// Sampler coalesces resize notifications and fans samples out to
// subscribers in registration order.
//
// Deliveries are serialized, so a subscriber never sees samples out of
// order. Callbacks may call Unsubscribe, but must not call Subscribe or
// Flush on the same Sampler.
type Sampler struct {
	env      Environment
	fallback atomic.Pointer[model.SizeSample]
	logger   *log.Logger
	quantum  time.Duration

	throttle *watcher.Throttler[model.SizeSample]
	subs     *registry.Registry[Callback]

	// deliverMu serializes initial deliveries from Subscribe with throttled
	// deliveries.
	deliverMu sync.Mutex

	mu      sync.Mutex
	started bool
	closed  bool
	stopEnv func()

	degraded      atomic.Bool
	delivered     atomic.Uint64
	degradedReads atomic.Uint64
	resizes       atomic.Uint64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithQuantum sets the coalescing interval. Non-positive values select
// watcher.DefaultQuantum.
func WithQuantum(d time.Duration) Option {
	return func(s *Sampler) { s.quantum = d }
}

// WithFallback sets the sample reported while the environment is unavailable.
func WithFallback(fallback model.SizeSample) Option {
	return func(s *Sampler) { s.SetFallback(fallback) }
}

// WithLogger sets the logger; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Sampler over env. It does not attach to resize notifications
// until Start. A nil env behaves as a permanently unavailable environment.
func New(env Environment, opts ...Option) *Sampler {
	s := &Sampler{
		env:    env,
		logger: log.Default(),
		subs:   registry.New[Callback](),
	}
	s.fallback.Store(&model.SizeSample{})
	for _, opt := range opts {
		opt(s)
	}
	s.throttle = watcher.NewThrottler(s.quantum, s.dispatch)
	s.quantum = s.throttle.Quantum()
	return s
}

// Start attaches to the environment's resize notifications.
//
// A failure to attach is logged and leaves the sampler in a degraded mode
// where only CurrentMetrics and manual OnResize calls produce samples.
func (s *Sampler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	if s.env == nil {
		s.logger.Warn("no size environment; samples will use the fallback", "fallback", s.Fallback())
		return nil
	}
	stop, err := s.env.Watch(s.OnResize)
	if err != nil {
		s.logger.Warn("resize notifications unavailable", "err", err)
		return nil
	}
	s.stopEnv = stop
	s.logger.Debug("sampler started", "quantum", s.quantum)
	return nil
}

// SetFallback replaces the sample reported while the environment is
// unavailable.
func (s *Sampler) SetFallback(fallback model.SizeSample) {
	f := fallback.Normalize()
	s.fallback.Store(&f)
}

// Fallback returns the sample reported while the environment is unavailable.
func (s *Sampler) Fallback() model.SizeSample {
	return *s.fallback.Load()
}

// CurrentMetrics reads the environment synchronously. It never fails; an
// unavailable environment yields the fallback sample.
func (s *Sampler) CurrentMetrics() model.SizeSample {
	if s.env == nil {
		s.markDegraded(nil)
		return s.Fallback()
	}
	sample, err := s.env.Size()
	if err != nil {
		s.markDegraded(err)
		return s.Fallback()
	}
	if s.degraded.CompareAndSwap(true, false) {
		s.logger.Info("size environment available again", "size", sample)
	}
	return sample.Normalize()
}

func (s *Sampler) markDegraded(err error) {
	s.degradedReads.Add(1)
	if s.degraded.CompareAndSwap(false, true) {
		s.logger.Warn("size environment unavailable, using fallback", "fallback", s.Fallback(), "err", err)
	}
}

// OnResize is the entry point for native resize notifications. Samples
// within one quantum are coalesced and only the last is delivered.
func (s *Sampler) OnResize(sample model.SizeSample) {
	s.resizes.Add(1)
	s.throttle.Trigger(sample.Normalize())
}

// Subscribe registers cb and delivers the current size to it before
// returning.
func (s *Sampler) Subscribe(cb Callback) (Handle, error) {
	if cb == nil {
		return 0, ErrNilCallback
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	h, err := s.subs.Add(cb)
	if err != nil {
		return 0, ErrClosed
	}
	cb(s.CurrentMetrics())
	s.delivered.Add(1)
	return h, nil
}

// Unsubscribe removes a subscription. Samples still waiting for their
// quantum will not reach it. It reports whether h was registered.
func (s *Sampler) Unsubscribe(h Handle) bool {
	return s.subs.Remove(h)
}

// Flush delivers a pending sample immediately rather than at the end of the
// quantum. Hosts that drive their own frame loop call it once per frame.
func (s *Sampler) Flush() bool {
	return s.throttle.Flush()
}

func (s *Sampler) dispatch(sample model.SizeSample) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.subs.Each(func(_ registry.Handle, cb Callback) {
		cb(sample)
		s.delivered.Add(1)
	})
}

// Subscribers returns the number of active subscriptions.
func (s *Sampler) Subscribers() int {
	return s.subs.Len()
}

// Quantum returns the coalescing interval in use.
func (s *Sampler) Quantum() time.Duration {
	return s.quantum
}

// Stats summarizes sampler activity.
type Stats struct {
	Resizes       uint64 // native notifications received
	Coalesced     uint64 // notifications replaced before delivery
	Batches       uint64 // throttled deliveries
	Delivered     uint64 // callback invocations, including initial deliveries
	DegradedReads uint64 // size reads that fell back
	Subscribers   int
}

// Stats returns a snapshot of the counters.
func (s *Sampler) Stats() Stats {
	ts := s.throttle.Stats()
	return Stats{
		Resizes:       s.resizes.Load(),
		Coalesced:     ts.Coalesced,
		Batches:       ts.Fired,
		Delivered:     s.delivered.Load(),
		DegradedReads: s.degradedReads.Load(),
		Subscribers:   s.subs.Len(),
	}
}

// Close detaches from the environment, drops pending samples and removes
// all subscribers. It is safe to call more than once.
func (s *Sampler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stopEnv
	s.stopEnv = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	s.throttle.Stop()
	s.subs.Close()
	s.logger.Debug("sampler closed")
}
