// Package registry provides an ordered, concurrency-safe collection of
// subscriber values addressed by opaque handles.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("registry closed")

// Handle identifies one registration. The zero Handle is never issued.
type Handle uint64

type entry[T any] struct {
	handle Handle
	value  T
	active atomic.Bool
}

// Registry keeps values in insertion order. Iteration order is notification
// order. All methods are safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	next    Handle
	entries []*entry[T]
	closed  bool
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends v and returns its handle.
func (r *Registry[T]) Add(v T) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	r.next++
	e := &entry[T]{handle: r.next, value: v}
	e.active.Store(true)
	r.entries = append(r.entries, e)
	return e.handle, nil
}

// Remove deletes the registration for h. It reports whether h was present;
// removing an unknown or already removed handle is a no-op.
func (r *Registry[T]) Remove(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.handle != h {
			continue
		}
		// Deactivate before unlinking so a walk holding an older snapshot
		// skips it.
		e.active.Store(false)
		r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
		return true
	}
	return false
}

// Each calls fn for every registered value in insertion order.
//
// The walk runs over a snapshot taken at call time, without holding the
// registry lock, so fn may call Add or Remove. Entries removed before the
// walk reaches them are skipped; entries added during the walk are not
// visited.
func (r *Registry[T]) Each(fn func(Handle, T)) {
	for _, e := range r.snapshot() {
		if !e.active.Load() {
			continue
		}
		fn(e.handle, e.value)
	}
}

// Lookup returns the value registered under h.
func (r *Registry[T]) Lookup(h Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.handle == h {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

// IsActive reports whether h is still registered.
func (r *Registry[T]) IsActive(h Handle) bool {
	_, ok := r.Lookup(h)
	return ok
}

// Len returns the number of registered values.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Handles returns the registered handles in insertion order.
func (r *Registry[T]) Handles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handle, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handle
	}
	return out
}

// Close removes every registration and rejects further Adds.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, e := range r.entries {
		e.active.Store(false)
	}
	r.entries = nil
}

func (r *Registry[T]) snapshot() []*entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entry[T], len(r.entries))
	copy(out, r.entries)
	return out
}
