package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// RenderGrid draws the descriptor's column grid scaled to width cells.
// Gutters are scaled by the same factor as the viewport, with a minimum of
// one cell so columns stay distinguishable.
func RenderGrid(d model.Descriptor, viewportWidth, width int) string {
	cols := d.GridColumns
	if cols <= 0 || width < cols*2 {
		return MutedStyle.Render("(too narrow for grid preview)")
	}

	gutter := 1
	if viewportWidth > 0 {
		if g := d.Gutter * width / viewportWidth; g > gutter {
			gutter = g
		}
	}
	colWidth := (width - gutter*(cols-1)) / cols
	if colWidth < 1 {
		gutter, colWidth = 1, (width-(cols-1))/cols
	}
	if colWidth < 1 {
		return MutedStyle.Render("(too narrow for grid preview)")
	}

	fg, bg := classColors(d.SizeClass)
	cell := lipgloss.NewStyle().Background(bg).Foreground(fg)
	gap := strings.Repeat(" ", gutter)

	var rows []string
	for r := 0; r < MinGridHeight; r++ {
		var b strings.Builder
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(gap)
			}
			label := ""
			if r == MinGridHeight/2 && width >= BreakpointMedium {
				label = fmt.Sprint(c + 1)
			}
			b.WriteString(cell.Render(center(label, colWidth)))
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// center pads s to exactly width display cells, truncating if needed.
func center(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	pad := width - runewidth.StringWidth(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// truncate shortens s to width display cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
