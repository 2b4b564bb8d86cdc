package layout

import (
	"testing"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		width int
		level int
	}{
		{-100, 0},
		{0, 0},
		{479, 0},
		{480, 1},
		{599, 1},
		{600, 2},
		{839, 2},
		{840, 3},
		{943, 3},
		{944, 4},
		{1263, 4},
		{1264, 5},
		{1423, 5},
		{1424, 6},
		{1583, 6},
		{1584, 7},
		{1600, 7},
		{10000, 7},
	}

	for _, tt := range tests {
		if got := Level(tt.width); got != tt.level {
			t.Errorf("Level(%d) = %d, want %d", tt.width, got, tt.level)
		}
	}
}

func TestDerivedFieldsByClass(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		class   model.SizeClass
		columns int
		gutter  int
	}{
		{"level 0", 0, model.SizeSmall, 4, 16},
		{"level 1", 1, model.SizeSmall, 4, 16},
		{"level 2", 2, model.SizeMedium, 8, 24},
		{"level 3", 3, model.SizeLarge, 12, 24},
		{"level 7", 7, model.SizeLarge, 12, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForLevel(tt.level)
			if d.Level != tt.level {
				t.Errorf("Level = %d, want %d", d.Level, tt.level)
			}
			if d.SizeClass != tt.class {
				t.Errorf("SizeClass = %v, want %v", d.SizeClass, tt.class)
			}
			if d.GridColumns != tt.columns {
				t.Errorf("GridColumns = %d, want %d", d.GridColumns, tt.columns)
			}
			if d.Gutter != tt.gutter {
				t.Errorf("Gutter = %d, want %d", d.Gutter, tt.gutter)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Classify(0).Level
	for w := 1; w <= 2000; w++ {
		cur := Classify(w).Level
		if cur < prev {
			t.Fatalf("level decreased at width %d: %d -> %d", w, prev, cur)
		}
		prev = cur
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for _, w := range []int{0, 480, 777, 944, 1700} {
		if a, b := Classify(w), Classify(w); a != b {
			t.Errorf("Classify(%d) not deterministic: %v vs %v", w, a, b)
		}
	}
}

func TestClassifySampleIgnoresHeight(t *testing.T) {
	a := ClassifySample(model.SizeSample{Width: 700, Height: 10})
	b := ClassifySample(model.SizeSample{Width: 700, Height: 5000})
	if a != b {
		t.Errorf("height changed descriptor: %v vs %v", a, b)
	}
}

func TestLevelRange(t *testing.T) {
	for level := 0; level <= MaxLevel; level++ {
		lo, hi := LevelRange(level)
		if Level(lo) != level {
			t.Errorf("Level(lo=%d) = %d, want %d", lo, Level(lo), level)
		}
		if hi == -1 {
			if level != MaxLevel {
				t.Errorf("level %d unbounded", level)
			}
			continue
		}
		if Level(hi-1) != level || Level(hi) != level+1 {
			t.Errorf("level %d range [%d,%d) inconsistent", level, lo, hi)
		}
	}
}

func TestThresholdsCopy(t *testing.T) {
	th := Thresholds()
	th[0] = 1
	if Level(100) != 0 {
		t.Error("Thresholds returned shared backing array")
	}
}
