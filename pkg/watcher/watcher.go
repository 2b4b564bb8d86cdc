package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when fsnotify is unavailable.
const DefaultPollInterval = 2 * time.Second

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Watcher calls onChange after the watched file is written, created, renamed
// over, or removed. Bursts of events are debounced. When fsnotify cannot be
// set up the watcher falls back to polling the file's mtime and size.
type Watcher struct {
	path         string
	debounce     time.Duration
	maxWait      time.Duration
	debouncer    *Debouncer
	pollInterval time.Duration
	forcePoll    bool
	logger       *log.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	polling  bool
	lastMod  time.Time
	lastSize int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithDebounceMaxWait bounds how long a continuous stream of events can
// postpone onChange. The default is DefaultMaxWait; zero disables the bound.
func WithDebounceMaxWait(d time.Duration) Option {
	return func(w *Watcher) { w.maxWait = d }
}

// WithPollInterval sets the polling interval used by the fallback.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling skips fsnotify entirely. Useful on network filesystems.
func WithPolling() Option {
	return func(w *Watcher) { w.forcePoll = true }
}

// WithLogger sets the logger; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for path. It does not start watching.
func NewWatcher(path string, onChange func(), opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watcher: empty path")
	}
	if onChange == nil {
		return nil, errors.New("watcher: nil callback")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:         abs,
		maxWait:      DefaultMaxWait,
		pollInterval: DefaultPollInterval,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce, onChange, WithMaxWait(w.maxWait))
	return w, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.lastMod, w.lastSize = statFile(w.path)

	if !w.forcePoll {
		fsw, err := w.newFSWatcher()
		if err == nil {
			w.fsw = fsw
			w.started = true
			go w.runFS(fsw, w.stopCh, w.doneCh)
			return nil
		}
		w.logger.Warn("fsnotify unavailable, polling instead", "path", w.path, "err", err)
	}

	w.polling = true
	w.started = true
	go w.runPoll(w.stopCh, w.doneCh)
	return nil
}

func (w *Watcher) newFSWatcher() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors and atomic writers replace the file, which
	// drops a watch placed on the file itself.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// runFS owns fsw until done is closed; Stop closes fsw only afterwards.
func (w *Watcher) runFS(fsw *fsnotify.Watcher, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("file event", "path", w.path, "op", ev.Op.String())
			w.debouncer.Trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "err", err)
		}
	}
}

func (w *Watcher) runPoll(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			mod, size := statFile(w.path)
			w.mu.Lock()
			changed := !mod.Equal(w.lastMod) || size != w.lastSize
			w.lastMod, w.lastSize = mod, size
			w.mu.Unlock()
			if changed {
				w.debouncer.Trigger()
			}
		}
	}
}

// Stop ends watching and waits for the background goroutine. Pending
// debounced callbacks are cancelled.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done

	w.mu.Lock()
	fsw := w.fsw
	w.fsw = nil
	w.polling = false
	w.mu.Unlock()
	if fsw != nil {
		fsw.Close()
	}
	w.debouncer.Cancel()
}

// IsPolling reports whether the polling fallback is in use.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

func statFile(path string) (time.Time, int64) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, -1
	}
	return info.ModTime(), info.Size()
}
