package environment

import (
	"errors"
	"sync"

	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
)

// ErrUnavailable is reported by environments that cannot read a size.
var ErrUnavailable = errors.New("size environment unavailable")

// Manual is an environment whose size is set by the caller. Resize notifies
// watchers synchronously on the calling goroutine.
type Manual struct {
	mu       sync.RWMutex
	size     model.SizeSample
	err      error
	watchers *registry.Registry[func(model.SizeSample)]
}

// NewManual creates a Manual environment with an initial size.
func NewManual(width, height int) *Manual {
	return &Manual{
		size:     model.SizeSample{Width: width, Height: height},
		watchers: registry.New[func(model.SizeSample)](),
	}
}

// Size returns the last size set, or the error set by SetUnavailable.
func (m *Manual) Size() (model.SizeSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return model.SizeSample{}, m.err
	}
	return m.size, nil
}

// Watch registers onResize for future Resize calls.
func (m *Manual) Watch(onResize func(model.SizeSample)) (func(), error) {
	if onResize == nil {
		return nil, errors.New("nil resize callback")
	}
	h, err := m.watchers.Add(onResize)
	if err != nil {
		return nil, err
	}
	return func() { m.watchers.Remove(h) }, nil
}

// Resize sets the size, clears any unavailability and notifies watchers.
func (m *Manual) Resize(width, height int) {
	s := model.SizeSample{Width: width, Height: height}
	m.mu.Lock()
	m.size = s
	m.err = nil
	m.mu.Unlock()

	m.watchers.Each(func(_ registry.Handle, fn func(model.SizeSample)) {
		fn(s)
	})
}

// SetUnavailable makes Size fail with err (ErrUnavailable when nil) until the
// next Resize.
func (m *Manual) SetUnavailable(err error) {
	if err == nil {
		err = ErrUnavailable
	}
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Watchers returns the number of attached watchers.
func (m *Manual) Watchers() int {
	return m.watchers.Len()
}

// Static reports a fixed size and never notifies.
type Static model.SizeSample

// Size returns the fixed size.
func (s Static) Size() (model.SizeSample, error) {
	return model.SizeSample(s), nil
}

// Watch is a no-op.
func (Static) Watch(func(model.SizeSample)) (func(), error) {
	return func() {}, nil
}

// Unavailable never reports a size.
type Unavailable struct {
	Err error
}

// Size always fails.
func (u Unavailable) Size() (model.SizeSample, error) {
	if u.Err != nil {
		return model.SizeSample{}, u.Err
	}
	return model.SizeSample{}, ErrUnavailable
}

// Watch always fails.
func (u Unavailable) Watch(func(model.SizeSample)) (func(), error) {
	_, err := u.Size()
	return nil, err
}
