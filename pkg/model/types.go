package model

import (
	"fmt"
	"strings"
)

// SizeSample is a viewport measurement in pixels (or cells, for terminal hosts).
// Samples are values; consumers may keep them without copying.
type SizeSample struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String renders the sample as WIDTHxHEIGHT.
func (s SizeSample) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Normalize clamps negative dimensions to zero.
func (s SizeSample) Normalize() SizeSample {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}

// SizeClass is the coarse grouping of breakpoint levels
type SizeClass int

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeLarge
)

// String returns the lowercase class name
func (c SizeClass) String() string {
	switch c {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return fmt.Sprintf("sizeclass(%d)", int(c))
	}
}

// IsValid reports whether the class is one of the defined values
func (c SizeClass) IsValid() bool {
	return c >= SizeSmall && c <= SizeLarge
}

// MarshalText encodes the class by name so JSON and YAML output stay readable.
func (c SizeClass) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid size class %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses a class name (case-insensitive).
func (c *SizeClass) UnmarshalText(text []byte) error {
	parsed, err := ParseSizeClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseSizeClass converts a name such as "medium" to a SizeClass.
func ParseSizeClass(s string) (SizeClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	default:
		return SizeSmall, fmt.Errorf("unknown size class %q", s)
	}
}

// Descriptor is the layout derived from a viewport width.
// It is computed, never stored authoritatively.
type Descriptor struct {
	Level       int       `json:"breakpoint"`
	SizeClass   SizeClass `json:"size_class"`
	GridColumns int       `json:"grid_columns"`
	Gutter      int       `json:"gutter"`
}

// IsSmall reports level < 2
func (d Descriptor) IsSmall() bool { return d.SizeClass == SizeSmall }

// IsMedium reports level == 2
func (d Descriptor) IsMedium() bool { return d.SizeClass == SizeMedium }

// IsLarge reports level > 2
func (d Descriptor) IsLarge() bool { return d.SizeClass == SizeLarge }

// String renders a compact one-line summary, e.g. "L4 large 12col/24px".
func (d Descriptor) String() string {
	return fmt.Sprintf("L%d %s %dcol/%dpx", d.Level, d.SizeClass, d.GridColumns, d.Gutter)
}
