// Package loader reads and writes resize traces: JSONL files with one size
// sample per line, stamped with its offset from the start of recording.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// Entry is one recorded resize notification.
type Entry struct {
	AtMS   int64 `json:"at_ms"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// Sample returns the entry's size.
func (e Entry) Sample() model.SizeSample {
	return model.SizeSample{Width: e.Width, Height: e.Height}
}

// At returns the entry offset as a duration.
func (e Entry) At() time.Duration {
	return time.Duration(e.AtMS) * time.Millisecond
}

// LoadTrace reads a trace file.
func LoadTrace(path string) ([]Entry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no trace found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer file.Close()

	return ReadTrace(file)
}

// ReadTrace decodes JSONL entries from r. Blank and malformed lines are
// skipped; entries are returned in file order.
func ReadTrace(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading trace: %w", err)
	}
	return entries, nil
}

// Bursts groups entries into consecutive windows of length quantum,
// measured from the first entry of each window. Every burst is what a
// throttled sampler would coalesce into one delivery.
func Bursts(entries []Entry, quantum time.Duration) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	if quantum <= 0 {
		quantum = time.Millisecond
	}

	var out [][]Entry
	start := entries[0].At()
	cur := []Entry{entries[0]}
	for _, e := range entries[1:] {
		if e.At()-start < quantum {
			cur = append(cur, e)
			continue
		}
		out = append(out, cur)
		start = e.At()
		cur = []Entry{e}
	}
	return append(out, cur)
}

// Recorder appends entries to a trace. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	enc   *json.Encoder
	start time.Time
	now   func() time.Time
	count int
}

// NewRecorder writes entries to w, stamping offsets from the first Record.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w), now: time.Now}
}

// Record appends s to the trace.
func (r *Recorder) Record(s model.SizeSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.count == 0 {
		r.start = now
	}
	r.count++
	return r.enc.Encode(Entry{
		AtMS:   now.Sub(r.start).Milliseconds(),
		Width:  s.Width,
		Height: s.Height,
	})
}

// Count returns the number of recorded entries.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
