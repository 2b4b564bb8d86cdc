// Package export renders breakpoint charts and serves them for local preview.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/winsize/pkg/layout"
	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// ChartOptions controls the breakpoint chart.
type ChartOptions struct {
	// Width and Height of the SVG canvas.
	Width  int
	Height int

	// MaxViewport is the widest viewport drawn; the last level extends to it.
	MaxViewport int

	// Marks are viewport widths highlighted with a vertical marker.
	Marks []int

	Title string
}

// DefaultChartOptions returns a 960x220 chart covering 0..1920px.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:       960,
		Height:      220,
		MaxViewport: 1920,
		Title:       "Responsive breakpoints",
	}
}

const (
	chartMargin = 20
	bandTop     = 50
	bandHeight  = 90
)

var classFill = map[model.SizeClass]string{
	model.SizeSmall:  "#50FA7B",
	model.SizeMedium: "#8BE9FD",
	model.SizeLarge:  "#BD93F9",
}

// WriteChart draws one band per breakpoint level, colored by size class and
// labelled with the level's grid columns and gutter.
func WriteChart(w io.Writer, opts ChartOptions) error {
	if opts.Width <= 2*chartMargin || opts.Height <= bandTop+bandHeight {
		return fmt.Errorf("chart too small: %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxViewport <= layout.BreakpointFull {
		opts.MaxViewport = layout.BreakpointFull + 200
	}

	plot := opts.Width - 2*chartMargin
	x := func(px int) int {
		if px > opts.MaxViewport {
			px = opts.MaxViewport
		}
		return chartMargin + px*plot/opts.MaxViewport
	}

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(opts.Title)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#282A36")
	canvas.Text(chartMargin, 30, opts.Title, "fill:#F8F8F2;font-family:monospace;font-size:16px")

	for level := 0; level <= layout.MaxLevel; level++ {
		lo, hi := layout.LevelRange(level)
		if hi < 0 {
			hi = opts.MaxViewport
		}
		d := layout.ForLevel(level)
		x0, x1 := x(lo), x(hi)

		canvas.Rect(x0, bandTop, x1-x0, bandHeight,
			fmt.Sprintf("fill:%s;fill-opacity:0.35;stroke:#44475A", classFill[d.SizeClass]))
		label := "fill:#F8F8F2;font-family:monospace;font-size:11px;text-anchor:middle"
		mid := (x0 + x1) / 2
		canvas.Text(mid, bandTop+20, fmt.Sprintf("L%d", level), label)
		canvas.Text(mid, bandTop+40, d.SizeClass.String(), label)
		canvas.Text(mid, bandTop+60, fmt.Sprintf("%dcol", d.GridColumns), label)
		canvas.Text(mid, bandTop+80, fmt.Sprintf("%dpx", d.Gutter), label)

		if level > 0 {
			canvas.Text(x0, bandTop+bandHeight+16, fmt.Sprint(lo),
				"fill:#BFBFBF;font-family:monospace;font-size:10px;text-anchor:middle")
		}
	}

	for _, m := range opts.Marks {
		mx := x(m)
		canvas.Line(mx, bandTop-8, mx, bandTop+bandHeight+4, "stroke:#FF5555;stroke-width:2")
		canvas.Text(mx, bandTop-12, fmt.Sprintf("%dpx → L%d", m, layout.Level(m)),
			"fill:#FF5555;font-family:monospace;font-size:10px;text-anchor:middle")
	}

	canvas.End()
	return nil
}

const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title>
<style>body{background:#1E1F29;margin:2em}img{max-width:100%%}</style></head>
<body><img src="%s" alt="%s"></body>
</html>
`

// ChartFile is the chart's file name inside a bundle.
const ChartFile = "breakpoints.svg"

// WriteBundle writes index.html and the chart into dir, creating it if needed.
func WriteBundle(dir string, opts ChartOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, ChartFile))
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	if err := WriteChart(f, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	index := fmt.Sprintf(indexHTML, opts.Title, ChartFile, opts.Title)
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0o644); err != nil {
		return fmt.Errorf("failed to write index.html: %w", err)
	}
	return nil
}
