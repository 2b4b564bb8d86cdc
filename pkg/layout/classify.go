package layout

import "github.com/Dicklesworthstone/winsize/pkg/model"

// Level returns the breakpoint level (0..MaxLevel) for a width.
// Negative widths are treated as zero.
func Level(width int) int {
	for i, t := range thresholds {
		if width < t {
			return i
		}
	}
	return MaxLevel
}

// Classify computes the layout descriptor for a width. It is pure and total.
func Classify(width int) model.Descriptor {
	return ForLevel(Level(width))
}

// ForLevel builds the descriptor for a breakpoint level.
func ForLevel(level int) model.Descriptor {
	level = clampLevel(level)
	class := ClassOf(level)
	return model.Descriptor{
		Level:       level,
		SizeClass:   class,
		GridColumns: ColumnsFor(class),
		Gutter:      GutterFor(class),
	}
}

// ClassifySample classifies a sample by its width; height is ignored.
func ClassifySample(s model.SizeSample) model.Descriptor {
	return Classify(s.Width)
}
