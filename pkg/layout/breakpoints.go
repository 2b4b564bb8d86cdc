// Package layout maps viewport widths to responsive layout descriptors.
//
// The thresholds follow the Material responsive-UI breakpoints. The upper
// five thresholds are shifted down by ScrollbarAllowance so that a desktop
// window with a visible vertical scrollbar lands in the same bracket as one
// without.
package layout

import "github.com/Dicklesworthstone/winsize/pkg/model"

// ScrollbarAllowance is subtracted from the thresholds at and above 960px.
const ScrollbarAllowance = 16

// Width thresholds. A width equal to a threshold belongs to the upper level.
const (
	BreakpointXSmall = 480
	BreakpointSmall  = 600
	BreakpointMedium = 840
	BreakpointLarge  = 960 - ScrollbarAllowance
	BreakpointXLarge = 1280 - ScrollbarAllowance
	BreakpointWide   = 1440 - ScrollbarAllowance
	BreakpointFull   = 1600 - ScrollbarAllowance
)

// MaxLevel is the level assigned to every width at or above BreakpointFull.
const MaxLevel = 7

// thresholds[i] is the lowest width classified as level i+1.
var thresholds = [MaxLevel]int{
	BreakpointXSmall,
	BreakpointSmall,
	BreakpointMedium,
	BreakpointLarge,
	BreakpointXLarge,
	BreakpointWide,
	BreakpointFull,
}

// Grid columns per size class.
const (
	ColumnsSmall  = 4
	ColumnsMedium = 8
	ColumnsLarge  = 12
)

// Gutter widths.
const (
	GutterNarrow = 16
	GutterWide   = 24
)

// Thresholds returns a copy of the level boundaries, lowest first.
func Thresholds() []int {
	out := make([]int, len(thresholds))
	copy(out, thresholds[:])
	return out
}

// LevelRange returns the half-open width interval [lo, hi) for a level.
// hi is -1 for MaxLevel, which is unbounded. Out-of-range levels are clamped.
func LevelRange(level int) (lo, hi int) {
	level = clampLevel(level)
	if level > 0 {
		lo = thresholds[level-1]
	}
	if level == MaxLevel {
		return lo, -1
	}
	return lo, thresholds[level]
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// LevelName is the short label used in UI badges.
func LevelName(level int) string {
	switch clampLevel(level) {
	case 0:
		return "xs"
	case 1:
		return "sm"
	case 2:
		return "md"
	case 3:
		return "lg"
	case 4:
		return "xl"
	case 5:
		return "xxl"
	case 6:
		return "wide"
	default:
		return "full"
	}
}

// ClassOf coarsens a breakpoint level into a size class.
func ClassOf(level int) model.SizeClass {
	switch {
	case level < 2:
		return model.SizeSmall
	case level == 2:
		return model.SizeMedium
	default:
		return model.SizeLarge
	}
}

// ColumnsFor returns the grid column count for a size class.
func ColumnsFor(c model.SizeClass) int {
	switch c {
	case model.SizeSmall:
		return ColumnsSmall
	case model.SizeMedium:
		return ColumnsMedium
	default:
		return ColumnsLarge
	}
}

// GutterFor returns the gutter width for a size class.
//
// Gutter depends on the class alone. An alternate rule (narrow gutter when the
// smaller window dimension is under 600) is intentionally not applied.
func GutterFor(c model.SizeClass) int {
	if c == model.SizeSmall {
		return GutterNarrow
	}
	return GutterWide
}
