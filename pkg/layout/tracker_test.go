package layout

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
)

func TestTrackerSuppressesSameLevel(t *testing.T) {
	tr := NewTracker()
	var levels []int
	if _, err := tr.OnChange(func(d model.Descriptor, _ model.SizeSample) {
		levels = append(levels, d.Level)
	}); err != nil {
		t.Fatalf("OnChange: %v", err)
	}

	for _, w := range []int{300, 700, 650, 1700} {
		tr.Observe(model.SizeSample{Width: w, Height: 600})
	}

	want := []int{0, 2, 7}
	if len(levels) != len(want) {
		t.Fatalf("notifications = %v, want %v", levels, want)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("notification %d: level %d, want %d", i, levels[i], want[i])
		}
	}

	stats := tr.Stats()
	if stats.Observed != 4 || stats.Changes != 3 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestTrackerCurrent(t *testing.T) {
	tr := NewTracker()
	if _, _, ok := tr.Current(); ok {
		t.Fatal("Current ok before any sample")
	}

	tr.Observe(model.SizeSample{Width: 700, Height: 400})
	tr.Observe(model.SizeSample{Width: 720, Height: 410})

	d, s, ok := tr.Current()
	if !ok {
		t.Fatal("Current not ok after samples")
	}
	if d.Level != 2 {
		t.Errorf("level = %d, want 2", d.Level)
	}
	if s.Width != 720 || s.Height != 410 {
		t.Errorf("last sample = %v, want 720x410", s)
	}
}

func TestTrackerListenerOrderAndRemove(t *testing.T) {
	tr := NewTracker()
	var calls []string
	tr.OnChange(func(model.Descriptor, model.SizeSample) { calls = append(calls, "first") })
	h, _ := tr.OnChange(func(model.Descriptor, model.SizeSample) { calls = append(calls, "second") })

	tr.Observe(model.SizeSample{Width: 100})
	tr.Remove(h)
	tr.Observe(model.SizeSample{Width: 900})

	want := []string{"first", "second", "first"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, calls[i], want[i])
		}
	}
}

func TestTrackerNilListener(t *testing.T) {
	if _, err := NewTracker().OnChange(nil); err != ErrNilListener {
		t.Errorf("err = %v, want ErrNilListener", err)
	}
}

func TestTrackerAttachDeliversCurrent(t *testing.T) {
	tr := NewTracker()

	calls := 0
	tr.Attach(func(model.Descriptor, model.SizeSample) { calls++ })
	if calls != 0 {
		t.Fatalf("Attach before any sample delivered %d times", calls)
	}

	tr.Observe(model.SizeSample{Width: 1000, Height: 700})

	var got model.Descriptor
	tr.Attach(func(d model.Descriptor, _ model.SizeSample) { got = d })
	if got.Level != 4 {
		t.Errorf("attached listener got level %d, want 4", got.Level)
	}
}

func TestTrackerListenerReadsState(t *testing.T) {
	tr := NewTracker()

	type seen struct {
		level   int
		changes uint64
		ok      bool
	}
	var reads []seen
	read := func(model.Descriptor, model.SizeSample) {
		d, _, ok := tr.Current()
		reads = append(reads, seen{level: d.Level, changes: tr.Stats().Changes, ok: ok})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := tr.OnChange(read); err != nil {
			t.Errorf("OnChange: %v", err)
		}
		tr.Observe(model.SizeSample{Width: 300})
		tr.Observe(model.SizeSample{Width: 1700})
		if _, err := tr.Attach(read); err != nil {
			t.Errorf("Attach: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener reading Current or Stats blocked the tracker")
	}

	want := []seen{{0, 1, true}, {7, 2, true}, {7, 2, true}}
	if len(reads) != len(want) {
		t.Fatalf("reads = %+v, want %+v", reads, want)
	}
	for i := range want {
		if reads[i] != want[i] {
			t.Errorf("read %d = %+v, want %+v", i, reads[i], want[i])
		}
	}
}

func TestTrackerListenerCanRemoveItself(t *testing.T) {
	tr := NewTracker()

	calls := 0
	var h registry.Handle
	h, _ = tr.OnChange(func(model.Descriptor, model.SizeSample) {
		calls++
		tr.Remove(h)
	})

	tr.Observe(model.SizeSample{Width: 300})
	tr.Observe(model.SizeSample{Width: 700})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
