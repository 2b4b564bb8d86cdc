package sampler

import "errors"

var (
	// ErrClosed is returned when using a sampler after Close.
	ErrClosed = errors.New("sampler closed")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("sampler already started")

	// ErrNilCallback is returned by Subscribe for a nil callback.
	ErrNilCallback = errors.New("nil sample callback")
)
