package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")

	// Size class colors
	ColorClassSmall    = lipgloss.Color("#50FA7B")
	ColorClassMedium   = lipgloss.Color("#8BE9FD")
	ColorClassLarge    = lipgloss.Color("#BD93F9")
	ColorClassSmallBg  = lipgloss.Color("#1A3D2A")
	ColorClassMediumBg = lipgloss.Color("#1A3344")
	ColorClassLargeBg  = lipgloss.Color("#2A1A3D")
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default bordered panel
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight).
			Padding(0, 1)

	// FocusedPanelStyle highlights the panel that just changed
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(10)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

func classColors(c model.SizeClass) (fg, bg lipgloss.Color) {
	switch c {
	case model.SizeSmall:
		return ColorClassSmall, ColorClassSmallBg
	case model.SizeMedium:
		return ColorClassMedium, ColorClassMediumBg
	default:
		return ColorClassLarge, ColorClassLargeBg
	}
}

// RenderClassBadge returns a styled size class badge, e.g. " MEDIUM ".
func RenderClassBadge(c model.SizeClass) string {
	fg, bg := classColors(c)
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(c.String()))
}

// RenderLevelBadge returns a styled breakpoint level badge, e.g. " L4 xl ".
func RenderLevelBadge(d model.Descriptor, name string) string {
	fg, bg := classColors(d.SizeClass)
	return lipgloss.NewStyle().
		Foreground(bg).
		Background(fg).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("L%d %s", d.Level, name))
}
