package sampler_test

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/winsize/pkg/environment"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type collector struct {
	mu      sync.Mutex
	samples []model.SizeSample
}

func (c *collector) add(s model.SizeSample) {
	c.mu.Lock()
	c.samples = append(c.samples, s)
	c.mu.Unlock()
}

func (c *collector) get() []model.SizeSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.SizeSample, len(c.samples))
	copy(out, c.samples)
	return out
}

func newSampler(t *testing.T, env sampler.Environment, quantum time.Duration) *sampler.Sampler {
	t.Helper()
	s := sampler.New(env, sampler.WithQuantum(quantum), sampler.WithLogger(quietLogger()))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSubscribeDeliversCurrentSize(t *testing.T) {
	env := environment.NewManual(1024, 768)
	s := newSampler(t, env, time.Hour)

	var c collector
	if _, err := s.Subscribe(c.add); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	got := c.get()
	if len(got) != 1 {
		t.Fatalf("deliveries on subscribe = %d, want 1", len(got))
	}
	if got[0] != (model.SizeSample{Width: 1024, Height: 768}) {
		t.Errorf("initial sample = %v", got[0])
	}
}

func TestBurstCoalescedToLast(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Hour)

	var c collector
	s.Subscribe(c.add)

	for w := 101; w <= 150; w++ {
		env.Resize(w, 100)
	}
	if !s.Flush() {
		t.Fatal("Flush delivered nothing")
	}
	if s.Flush() {
		t.Error("second Flush delivered again")
	}

	got := c.get()
	if len(got) != 2 {
		t.Fatalf("deliveries = %v, want initial + one coalesced", got)
	}
	if got[1].Width != 150 {
		t.Errorf("coalesced sample width = %d, want 150", got[1].Width)
	}

	stats := s.Stats()
	if stats.Resizes != 50 || stats.Batches != 1 || stats.Coalesced != 49 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestTrailingEdgeFiresOnTimer(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, 10*time.Millisecond)

	var c collector
	s.Subscribe(c.add)

	for w := 101; w <= 110; w++ {
		env.Resize(w, 100)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(c.get()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	got := c.get()
	if len(got) < 2 {
		t.Fatal("quantum expired without a delivery")
	}
	if got[len(got)-1].Width != 110 {
		t.Errorf("last delivered width = %d, want 110", got[len(got)-1].Width)
	}
}

func TestRegistrationOrder(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Hour)

	var mu sync.Mutex
	var order []string
	record := func(name string) sampler.Callback {
		return func(model.SizeSample) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}
	s.Subscribe(record("a"))
	s.Subscribe(record("b"))
	s.Subscribe(record("c"))

	mu.Lock()
	order = nil
	mu.Unlock()

	env.Resize(200, 100)
	if !s.Flush() {
		t.Fatal("Flush delivered nothing")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestUnsubscribeDropsPending(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Hour)

	var c collector
	h, _ := s.Subscribe(c.add)

	env.Resize(500, 100) // scheduled, not delivered yet
	if !s.Unsubscribe(h) {
		t.Fatal("Unsubscribe reported unknown handle")
	}
	s.Flush()
	env.Resize(900, 100)
	s.Flush()

	if got := c.get(); len(got) != 1 {
		t.Errorf("deliveries = %v, want only the initial sample", got)
	}
	if s.Unsubscribe(h) {
		t.Error("second Unsubscribe should report false")
	}
}

func TestUnsubscribeFromCallback(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Hour)

	var h sampler.Handle
	calls := 0
	h, _ = s.Subscribe(func(model.SizeSample) {
		calls++
		if calls == 2 {
			s.Unsubscribe(h)
		}
	})

	env.Resize(200, 100)
	s.Flush()
	env.Resize(300, 100)
	s.Flush()

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDegradedEnvironment(t *testing.T) {
	env := environment.Unavailable{}
	s := sampler.New(env,
		sampler.WithFallback(model.SizeSample{Width: 320, Height: 240}),
		sampler.WithLogger(quietLogger()))
	defer s.Close()

	if err := s.Start(); err != nil {
		t.Fatalf("Start on unavailable env returned %v", err)
	}

	got := s.CurrentMetrics()
	if got.Width != 320 || got.Height != 240 {
		t.Errorf("CurrentMetrics = %v, want fallback", got)
	}

	var c collector
	if _, err := s.Subscribe(c.add); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if samples := c.get(); len(samples) != 1 || samples[0].Width != 320 {
		t.Errorf("initial sample = %v", samples)
	}
	if s.Stats().DegradedReads != 2 {
		t.Errorf("DegradedReads = %d, want 2", s.Stats().DegradedReads)
	}
}

func TestRecoversAfterUnavailable(t *testing.T) {
	env := environment.NewManual(800, 600)
	s := newSampler(t, env, time.Hour)

	env.SetUnavailable(nil)
	if got := s.CurrentMetrics(); got.Width != 0 {
		t.Errorf("degraded CurrentMetrics = %v, want zero", got)
	}
	env.Resize(900, 600)
	if got := s.CurrentMetrics(); got.Width != 900 {
		t.Errorf("recovered CurrentMetrics = %v, want 900", got)
	}
}

func TestNilEnvironment(t *testing.T) {
	s := sampler.New(nil, sampler.WithLogger(quietLogger()))
	defer s.Close()
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := s.CurrentMetrics(); got != (model.SizeSample{}) {
		t.Errorf("CurrentMetrics = %v, want zero", got)
	}
}

func TestLifecycleErrors(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := sampler.New(env, sampler.WithLogger(quietLogger()))

	if _, err := s.Subscribe(nil); !errors.Is(err, sampler.ErrNilCallback) {
		t.Errorf("Subscribe(nil) err = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, sampler.ErrAlreadyStarted) {
		t.Errorf("second Start err = %v", err)
	}
	if env.Watchers() != 1 {
		t.Errorf("env watchers = %d, want 1", env.Watchers())
	}

	s.Close()
	s.Close()

	if env.Watchers() != 0 {
		t.Errorf("env watchers after Close = %d, want 0", env.Watchers())
	}
	if _, err := s.Subscribe(func(model.SizeSample) {}); !errors.Is(err, sampler.ErrClosed) {
		t.Errorf("Subscribe after Close err = %v", err)
	}
	if err := s.Start(); !errors.Is(err, sampler.ErrClosed) {
		t.Errorf("Start after Close err = %v", err)
	}
}

func TestNegativeSizesNormalized(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Hour)

	var c collector
	s.Subscribe(c.add)
	s.OnResize(model.SizeSample{Width: -10, Height: -5})
	s.Flush()

	got := c.get()
	if last := got[len(got)-1]; last != (model.SizeSample{}) {
		t.Errorf("last sample = %v, want 0x0", last)
	}
}

func TestConcurrentSubscribeAndResize(t *testing.T) {
	env := environment.NewManual(100, 100)
	s := newSampler(t, env, time.Millisecond)

	var steady collector
	s.Subscribe(steady.add)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	final := make(chan int, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := 100
		for {
			select {
			case <-stop:
				final <- w
				return
			default:
				w++
				env.Resize(w, 100)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		var got atomic.Int32
		h, err := s.Subscribe(func(model.SizeSample) { got.Add(1) })
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
		if got.Load() == 0 {
			t.Error("no synchronous delivery on Subscribe")
		}
		time.Sleep(time.Millisecond)
		s.Unsubscribe(h)
	}

	close(stop)
	wg.Wait()
	last := <-final
	s.Flush()

	samples := steady.get()
	for j := 2; j < len(samples); j++ {
		if samples[j].Width < samples[j-1].Width {
			t.Fatalf("out-of-order delivery at %d: %d after %d", j, samples[j].Width, samples[j-1].Width)
		}
	}
	if samples[len(samples)-1].Width != last {
		t.Errorf("final delivered width = %d, want %d", samples[len(samples)-1].Width, last)
	}
}
