package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/loader"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{name: "empty", values: nil, want: Summary{}},
		{name: "single", values: []float64{4}, want: Summary{Count: 1, Mean: 4, P50: 4, P95: 4, Max: 4}},
		{name: "unsorted", values: []float64{5, 1, 3}, want: Summary{Count: 3, Mean: 3, StdDev: 2, P50: 3, P95: 5, Max: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if got.Count != tt.want.Count || !near(got.Mean, tt.want.Mean) || !near(got.StdDev, tt.want.StdDev) ||
				!near(got.P50, tt.want.P50) || !near(got.P95, tt.want.P95) || !near(got.Max, tt.want.Max) {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestAnalyzeTrace(t *testing.T) {
	entries := []loader.Entry{
		{AtMS: 0, Width: 300},
		{AtMS: 5, Width: 320},
		{AtMS: 10, Width: 340},
		{AtMS: 40, Width: 700},
		{AtMS: 60, Width: 650},
		{AtMS: 100, Width: 1700},
		{AtMS: 300, Width: 1700},
	}

	r := AnalyzeTrace(entries, 16*time.Millisecond)

	if r.Entries != 7 || r.Bursts != 5 {
		t.Fatalf("entries=%d bursts=%d, want 7 and 5", r.Entries, r.Bursts)
	}
	if r.Duration != 300*time.Millisecond {
		t.Errorf("duration = %v", r.Duration)
	}
	if r.BurstSize.Max != 3 || r.BurstSize.Count != 5 {
		t.Errorf("burst size = %+v", r.BurstSize)
	}
	if r.Changes != 2 {
		t.Errorf("changes = %d, want 2", r.Changes)
	}

	want := []LevelDwell{
		{Level: 0, Name: "xs", Time: 30 * time.Millisecond},
		{Level: 2, Name: "md", Time: 60 * time.Millisecond},
		{Level: 7, Name: "full", Time: 200 * time.Millisecond},
	}
	if len(r.Dwell) != len(want) {
		t.Fatalf("dwell = %+v, want %+v", r.Dwell, want)
	}
	for i := range want {
		if r.Dwell[i] != want[i] {
			t.Errorf("dwell[%d] = %+v, want %+v", i, r.Dwell[i], want[i])
		}
	}
}

func TestAnalyzeEmptyTrace(t *testing.T) {
	r := AnalyzeTrace(nil, time.Second)
	if r.Bursts != 0 || r.Changes != 0 || len(r.Dwell) != 0 {
		t.Errorf("empty trace report = %+v", r)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
