package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/winsize/pkg/layout"
)

// HelpOverlayModel shows the breakpoint legend and key bindings
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	keys    KeyMap
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{keys: keys}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.MarginBottom(1).Render("Responsive Window Help"))
	b.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(ColorSubtext)

	b.WriteString(sectionStyle.Render("BREAKPOINTS") + "\n")
	for level := 0; level <= layout.MaxLevel; level++ {
		lo, hi := layout.LevelRange(level)
		d := layout.ForLevel(level)
		span := fmt.Sprintf("%d-%dpx", lo, hi-1)
		if hi < 0 {
			span = fmt.Sprintf("≥%dpx", lo)
		}
		b.WriteString("  " + keyStyle.Render(fmt.Sprintf("L%d %s", level, layout.LevelName(level))) +
			descStyle.Render(fmt.Sprintf("%-12s %-6s %2d cols  %dpx gutter", span, d.SizeClass, d.GridColumns, d.Gutter)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("KEYS") + "\n")
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		b.WriteString("  " + keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n")
	}

	b.WriteString("\n")
	hintStyle := lipgloss.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBgHighlight).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
