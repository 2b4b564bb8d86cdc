//go:build !unix

package environment

import (
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

func (t *Terminal) size() (model.SizeSample, error) {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return model.SizeSample{}, err
	}
	return t.Cells(cols, rows), nil
}

// No SIGWINCH here; poll and report only real changes.
func (t *Terminal) watch(changed func()) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(t.pollInterval)
		defer ticker.Stop()
		last, _ := t.size()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				cur, err := t.size()
				if err != nil || cur == last {
					continue
				}
				last = cur
				changed()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
