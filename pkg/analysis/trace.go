// Package analysis summarizes resize traces: how bursty the size source is
// and how long the layout dwells at each breakpoint.
package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/loader"
)

// Summary describes a distribution of values.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // Sample standard deviation; 0 for fewer than 2 values
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// LevelDwell is the time a trace spent at one breakpoint level.
type LevelDwell struct {
	Level int           `json:"level"`
	Name  string        `json:"name"`
	Time  time.Duration `json:"time_ns"`
}

// TraceReport summarizes a trace under a given quantum.
type TraceReport struct {
	Entries   int           `json:"entries"`
	Bursts    int           `json:"bursts"`
	Quantum   time.Duration `json:"quantum_ns"`
	Duration  time.Duration `json:"duration_ns"`
	BurstSize Summary       `json:"burst_size"`  // Notifications coalesced per delivery
	IntervalM Summary       `json:"interval_ms"` // Gap between consecutive notifications
	Changes   int           `json:"changes"`     // Breakpoint transitions after coalescing
	Dwell     []LevelDwell  `json:"dwell"`       // Only levels the trace visited, by level
}

// Summarize computes a Summary. values is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// AnalyzeTrace groups entries into bursts by quantum and reports burst
// sizes, notification intervals, and per-level dwell time of the coalesced
// stream. The last burst's level dwells until the final entry.
func AnalyzeTrace(entries []loader.Entry, quantum time.Duration) TraceReport {
	report := TraceReport{Entries: len(entries), Quantum: quantum}
	if len(entries) == 0 {
		return report
	}

	bursts := loader.Bursts(entries, quantum)
	report.Bursts = len(bursts)
	report.Duration = entries[len(entries)-1].At() - entries[0].At()

	sizes := make([]float64, len(bursts))
	for i, b := range bursts {
		sizes[i] = float64(len(b))
	}
	report.BurstSize = Summarize(sizes)

	if len(entries) > 1 {
		gaps := make([]float64, 0, len(entries)-1)
		for i := 1; i < len(entries); i++ {
			gaps = append(gaps, float64(entries[i].AtMS-entries[i-1].AtMS))
		}
		report.IntervalM = Summarize(gaps)
	}

	dwell := make(map[int]time.Duration)
	level := layout.Level(bursts[0][len(bursts[0])-1].Width)
	since := bursts[0][len(bursts[0])-1].At()
	for _, b := range bursts[1:] {
		last := b[len(b)-1]
		next := layout.Level(last.Width)
		if next == level {
			continue
		}
		dwell[level] += last.At() - since
		level, since = next, last.At()
		report.Changes++
	}
	dwell[level] += entries[len(entries)-1].At() - since

	for lvl := 0; lvl <= layout.MaxLevel; lvl++ {
		if d, ok := dwell[lvl]; ok {
			report.Dwell = append(report.Dwell, LevelDwell{Level: lvl, Name: layout.LevelName(lvl), Time: d})
		}
	}
	return report
}
