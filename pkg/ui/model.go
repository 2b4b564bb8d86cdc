// Package ui implements the interactive responsive-window viewer.
//
// The viewer is a bubbletea host for the sampler: terminal resizes arrive as
// tea.WindowSizeMsg, are converted from cells to pixels and pushed into a
// Manual environment. Layout changes flow back into the program as messages.
package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/winsize/pkg/environment"
	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/model"
	"github.com/Dicklesworthstone/winsize/pkg/registry"
	"github.com/Dicklesworthstone/winsize/pkg/sampler"
	"github.com/Dicklesworthstone/winsize/pkg/window"
)

// layoutMsg carries a breakpoint change from the tracker.
type layoutMsg struct {
	desc   model.Descriptor
	sample model.SizeSample
	at     time.Time
}

// sizeMsg carries every coalesced size sample.
type sizeMsg model.SizeSample

// Options configures the viewer.
type Options struct {
	CellWidth  int
	CellHeight int

	// Copy writes text to the clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
}

// Model is the bubbletea model for the viewer.
type Model struct {
	win *window.Window
	env *environment.Manual

	keys    KeyMap
	help    help.Model
	overlay HelpOverlayModel

	cellWidth  int
	cellHeight int
	width      int
	height     int

	desc       model.Descriptor
	layoutSize model.SizeSample
	sample     model.SizeSample
	haveLayout bool
	changes    int
	lastChange time.Time

	showGrid  bool
	status    string
	statusErr bool

	msgs       chan tea.Msg
	layoutH    registry.Handle
	sizeH      sampler.Handle
	copyToClip func(string) error
}

// NewModel creates a viewer over a started window. env must be the Manual
// environment the window samples, so terminal resizes reach it.
func NewModel(win *window.Window, env *environment.Manual, opts Options) (Model, error) {
	if opts.CellWidth <= 0 {
		opts.CellWidth = environment.DefaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = environment.DefaultCellHeight
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	keys := DefaultKeyMap()
	m := Model{
		win:        win,
		env:        env,
		keys:       keys,
		help:       help.New(),
		overlay:    NewHelpOverlayModel(keys),
		cellWidth:  opts.CellWidth,
		cellHeight: opts.CellHeight,
		showGrid:   true,
		msgs:       make(chan tea.Msg, 64),
		copyToClip: opts.Copy,
	}

	var err error
	m.layoutH, err = win.OnLayout(func(d model.Descriptor, s model.SizeSample) {
		m.send(layoutMsg{desc: d, sample: s, at: time.Now()})
	})
	if err != nil {
		return Model{}, fmt.Errorf("failed to attach layout listener: %w", err)
	}
	m.sizeH, err = win.Sampler().Subscribe(func(s model.SizeSample) {
		m.send(sizeMsg(s))
	})
	if err != nil {
		win.Detach(m.layoutH)
		return Model{}, fmt.Errorf("failed to subscribe to sizes: %w", err)
	}
	return m, nil
}

// send never blocks the sampler; when the program lags, size updates are
// dropped first since a newer one always follows.
func (m Model) send(msg tea.Msg) {
	select {
	case m.msgs <- msg:
	default:
		if _, ok := msg.(layoutMsg); ok {
			// Layout changes must not be lost: make room.
			select {
			case <-m.msgs:
			default:
			}
			select {
			case m.msgs <- msg:
			default:
			}
		}
	}
}

func (m Model) waitForMsg() tea.Cmd {
	return func() tea.Msg {
		return <-m.msgs
	}
}

// Close detaches the viewer's listeners from the window.
func (m Model) Close() {
	m.win.Detach(m.layoutH)
	m.win.Sampler().Unsubscribe(m.sizeH)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForMsg()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.overlay.SetSize(msg.Width, msg.Height)
		px := environment.CellsToSample(msg.Width, msg.Height, m.cellWidth, m.cellHeight)
		m.env.Resize(px.Width, px.Height)
		return m, nil

	case layoutMsg:
		m.desc = msg.desc
		m.layoutSize = msg.sample
		m.haveLayout = true
		m.changes++
		m.lastChange = msg.at
		return m, m.waitForMsg()

	case sizeMsg:
		m.sample = model.SizeSample(msg)
		return m, m.waitForMsg()

	case tea.KeyMsg:
		if m.overlay.IsVisible() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.overlay.Toggle()
		case key.Matches(msg, m.keys.Grid):
			m.showGrid = !m.showGrid
		case key.Matches(msg, m.keys.Copy):
			m.copyLayout()
		}
	}
	return m, nil
}

type clipPayload struct {
	Layout model.Descriptor `json:"layout"`
	Size   model.SizeSample `json:"size"`
}

func (m *Model) copyLayout() {
	if !m.haveLayout {
		m.status, m.statusErr = "no layout yet", true
		return
	}
	b, err := json.Marshal(clipPayload{Layout: m.desc, Size: m.sample})
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	if err := m.copyToClip(string(b)); err != nil {
		m.status, m.statusErr = fmt.Sprintf("clipboard: %v", err), true
		return
	}
	m.status, m.statusErr = "layout copied to clipboard", false
}

// View implements tea.Model.
func (m Model) View() string {
	if m.overlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}
	if !m.haveLayout {
		return MutedStyle.Render("waiting for first size sample…")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render("winsize"), " ",
		RenderLevelBadge(m.desc, layout.LevelName(m.desc.Level)), " ",
		RenderClassBadge(m.desc.SizeClass))

	info := m.renderInfo()
	stats := m.renderStats()

	var body string
	if m.width > 0 && m.width < BreakpointNarrow {
		body = lipgloss.JoinVertical(lipgloss.Left, info, stats)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, info, " ", stats)
	}

	parts := []string{header, body}
	if m.showGrid {
		gridWidth := m.width - PanelPadding
		if gridWidth < MinBoxWidth {
			gridWidth = MinBoxWidth
		}
		parts = append(parts, PanelStyle.Render(RenderGrid(m.desc, m.sample.Width, gridWidth)))
	}
	if m.status != "" {
		style := StatusStyle
		if m.statusErr {
			style = ErrorStyle
		}
		parts = append(parts, style.Render(truncate(m.status, max(m.width, MinBoxWidth))))
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

func (m Model) renderInfo() string {
	lo, hi := layout.LevelRange(m.desc.Level)
	span := fmt.Sprintf("%d–%dpx", lo, hi-1)
	if hi < 0 {
		span = fmt.Sprintf("≥%dpx", lo)
	}
	lines := []string{
		row("viewport", fmt.Sprintf("%s px", m.sample)),
		row("cells", fmt.Sprintf("%dx%d", m.width, m.height)),
		row("level", fmt.Sprintf("%d (%s)", m.desc.Level, span)),
		row("class", m.desc.SizeClass.String()),
		row("columns", fmt.Sprint(m.desc.GridColumns)),
		row("gutter", fmt.Sprintf("%dpx", m.desc.Gutter)),
	}
	style := PanelStyle
	if !m.lastChange.IsZero() && time.Since(m.lastChange) < time.Second {
		style = FocusedPanelStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStats() string {
	st := m.win.Stats()
	lines := []string{
		row("changes", fmt.Sprint(m.changes)),
		row("resizes", fmt.Sprint(st.Sampler.Resizes)),
		row("batches", fmt.Sprint(st.Sampler.Batches)),
		row("coalesced", fmt.Sprint(st.Sampler.Coalesced)),
		row("quantum", m.win.Sampler().Quantum().String()),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}
