package ui

// Terminal layout breakpoints for the viewer itself, in cells.
// These are unrelated to the pixel breakpoints being displayed.
const (
	// BreakpointNarrow is the width below which panels stack vertically.
	BreakpointNarrow = 80

	// BreakpointMedium is the width above which the grid preview shows
	// column numbers.
	BreakpointMedium = 100
)

// Box and panel dimension constraints.
const (
	// MinBoxWidth is the minimum width for bordered content boxes.
	MinBoxWidth = 20

	// MinGridHeight is the height of the grid preview.
	MinGridHeight = 3

	// PanelPadding is the border plus padding subtracted from panel widths.
	PanelPadding = 4
)
