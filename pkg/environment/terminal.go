package environment

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// Default cell metrics used to turn a cell grid into an approximate pixel
// size when the terminal does not report pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// ErrNotTerminal is returned when the file is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Terminal measures a terminal device. Samples are in pixels: the kernel's
// pixel size when the terminal reports one, otherwise columns and rows
// multiplied by the cell metrics.
type Terminal struct {
	fd           int
	cellWidth    int
	cellHeight   int
	pollInterval time.Duration
	logger       *log.Logger
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithCellSize overrides the cell metrics.
func WithCellSize(width, height int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.cellWidth = width
		}
		if height > 0 {
			t.cellHeight = height
		}
	}
}

// WithTerminalPollInterval sets the polling interval on platforms without
// SIGWINCH.
func WithTerminalPollInterval(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithTerminalLogger sets the logger.
func WithTerminalLogger(l *log.Logger) TerminalOption {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTerminal measures f, typically os.Stdout.
func NewTerminal(f *os.File, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		fd:           int(f.Fd()),
		cellWidth:    DefaultCellWidth,
		cellHeight:   DefaultCellHeight,
		pollInterval: 250 * time.Millisecond,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Size reads the terminal size.
func (t *Terminal) Size() (model.SizeSample, error) {
	if !term.IsTerminal(t.fd) {
		return model.SizeSample{}, ErrNotTerminal
	}
	return t.size()
}

// Cells converts a column/row count to a pixel sample with the configured
// cell metrics.
func (t *Terminal) Cells(cols, rows int) model.SizeSample {
	return CellsToSample(cols, rows, t.cellWidth, t.cellHeight)
}

// CellsToSample converts a cell grid to an approximate pixel size.
func CellsToSample(cols, rows, cellWidth, cellHeight int) model.SizeSample {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	return model.SizeSample{Width: cols * cellWidth, Height: rows * cellHeight}.Normalize()
}

// Watch delivers a fresh size on every terminal resize.
func (t *Terminal) Watch(onResize func(model.SizeSample)) (func(), error) {
	if onResize == nil {
		return nil, errors.New("nil resize callback")
	}
	if !term.IsTerminal(t.fd) {
		return nil, ErrNotTerminal
	}
	return t.watch(func() {
		s, err := t.size()
		if err != nil {
			t.logger.Debug("terminal size read failed", "err", err)
			return
		}
		onResize(s)
	}), nil
}
