package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

func TestReadTraceSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"at_ms":0,"width":300,"height":600}`,
		``,
		`not json`,
		`{"at_ms":20,"width":700,"height":600}`,
	}, "\n")

	entries, err := ReadTrace(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Sample() != (model.SizeSample{Width: 700, Height: 600}) {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[1].At() != 20*time.Millisecond {
		t.Errorf("At = %v", entries[1].At())
	}
}

func TestBursts(t *testing.T) {
	entries := []Entry{
		{AtMS: 0, Width: 1},
		{AtMS: 5, Width: 2},
		{AtMS: 15, Width: 3},
		{AtMS: 16, Width: 4},
		{AtMS: 100, Width: 5},
	}

	bursts := Bursts(entries, 16*time.Millisecond)
	want := [][]int{{1, 2, 3}, {4}, {5}}
	if len(bursts) != len(want) {
		t.Fatalf("got %d bursts, want %d", len(bursts), len(want))
	}
	for i, b := range bursts {
		if len(b) != len(want[i]) {
			t.Fatalf("burst %d = %+v, want widths %v", i, b, want[i])
		}
		for j, e := range b {
			if e.Width != want[i][j] {
				t.Errorf("burst %d[%d] width = %d, want %d", i, j, e.Width, want[i][j])
			}
		}
	}

	if Bursts(nil, time.Second) != nil {
		t.Error("Bursts(nil) should be nil")
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 40 * time.Millisecond, 90 * time.Millisecond}
	i := 0
	rec.now = func() time.Time {
		ts := base.Add(offsets[i])
		i++
		return ts
	}

	for _, w := range []int{300, 700, 1700} {
		if err := rec.Record(model.SizeSample{Width: w, Height: 500}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if rec.Count() != 3 {
		t.Errorf("Count = %d", rec.Count())
	}

	path := filepath.Join(t.TempDir(), "trace.jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadTrace(path)
	if err != nil {
		t.Fatalf("LoadTrace: %v", err)
	}
	if len(entries) != 3 || entries[2].AtMS != 90 || entries[2].Width != 1700 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestLoadTraceMissing(t *testing.T) {
	if _, err := LoadTrace(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing trace")
	}
}
