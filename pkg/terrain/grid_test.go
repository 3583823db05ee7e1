package terrain

import (
	"testing"

	"github.com/chewxy/math32"
)

func ascending(n int, start, step float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = start + float32(i)*step
	}
	return out
}

func flatGrid(t *testing.T, rows, cols int, h float32) *Grid {
	t.Helper()
	heights := make([]float32, rows*cols)
	for i := range heights {
		heights[i] = h
	}
	g, err := NewGrid(ascending(cols, 0, 1), ascending(rows, 0, 1), heights)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name    string
		x, y, h []float32
	}{
		{"empty x", nil, ascending(3, 0, 1), make([]float32, 0)},
		{"empty y", ascending(3, 0, 1), nil, make([]float32, 0)},
		{"wrong height count", ascending(3, 0, 1), ascending(2, 0, 1), make([]float32, 5)},
		{"x not ascending", []float32{0, 2, 1}, ascending(2, 0, 1), make([]float32, 6)},
		{"x repeated value", []float32{0, 1, 1}, ascending(2, 0, 1), make([]float32, 6)},
		{"y not ascending", ascending(3, 0, 1), []float32{5, 4}, make([]float32, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.x, tt.y, tt.h); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewGridCopiesInput(t *testing.T) {
	x := ascending(3, 0, 1)
	y := ascending(2, 0, 1)
	h := make([]float32, 6)
	g, err := NewGrid(x, y, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	h[0] = 99
	x[0] = -5
	if g.Height(0, 0) != 0 {
		t.Errorf("grid aliases caller's height array")
	}
	if g.X(0) != 0 {
		t.Errorf("grid aliases caller's axis array")
	}
}

func TestBoundingBoxPadAndClamp(t *testing.T) {
	g := flatGrid(t, 10, 10, 0) // axes 0..9

	tests := []struct {
		name                   string
		minX, maxX, minY, maxY float32
		want                   Box
	}{
		{"interior gets one cell pad", 3, 5, 3, 5, Box{MinC: 2, MaxC: 6, MinR: 2, MaxR: 6}},
		{"pad clamps at origin", 0, 2, 0, 2, Box{MinC: 0, MaxC: 3, MinR: 0, MaxR: 3}},
		{"pad clamps at far edge", 8, 9, 8, 9, Box{MinC: 7, MaxC: 9, MinR: 7, MaxR: 9}},
		{"whole grid", 0, 9, 0, 9, Box{MinC: 0, MaxC: 9, MinR: 0, MaxR: 9}},
		{"between samples", 3.2, 3.8, 3.2, 3.8, Box{MinC: 3, MaxC: 4, MinR: 3, MaxR: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.BoundingBox(tt.minX, tt.maxX, tt.minY, tt.maxY)
			if got != tt.want {
				t.Errorf("BoundingBox = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxOutsideExtent(t *testing.T) {
	g := flatGrid(t, 10, 10, 0)

	tests := []struct {
		name                   string
		minX, maxX, minY, maxY float32
	}{
		{"left of grid", -20, -10, 3, 5},
		{"right of grid", 15, 20, 3, 5},
		{"below grid", 3, 5, -20, -10},
		{"above grid", 3, 5, 15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.BoundingBox(tt.minX, tt.maxX, tt.minY, tt.maxY)
			if !got.Empty() {
				t.Errorf("BoundingBox = %+v, want empty", got)
			}
		})
	}
}

func TestCutCopiesHeights(t *testing.T) {
	g := flatGrid(t, 4, 4, 7)
	cut := g.Cut(Box{MinC: 1, MaxC: 2, MinR: 1, MaxR: 2})
	if cut.Rows() != 2 || cut.Cols() != 2 {
		t.Fatalf("cut is %dx%d, want 2x2", cut.Rows(), cut.Cols())
	}
	cut.Heights[0] = -1
	if g.Height(1, 1) != 7 {
		t.Error("mutating a cut changed the source grid")
	}
}

func TestCutEmptyBox(t *testing.T) {
	g := flatGrid(t, 4, 4, 0)
	cut := g.Cut(EmptyBox)
	if len(cut.Heights) != 0 || cut.Rows() != 0 || cut.Cols() != 0 {
		t.Errorf("empty cut has cells: %+v", cut)
	}
}

func TestCutValues(t *testing.T) {
	heights := make([]float32, 12) // 3 rows x 4 cols
	for i := range heights {
		heights[i] = float32(i)
	}
	g, err := NewGrid(ascending(4, 0, 1), ascending(3, 0, 1), heights)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cut := g.Cut(Box{MinC: 1, MaxC: 3, MinR: 1, MaxR: 2})
	want := []float32{5, 6, 7, 9, 10, 11}
	for i, w := range want {
		if cut.Heights[i] != w {
			t.Errorf("Heights[%d] = %g, want %g", i, cut.Heights[i], w)
		}
	}
	if cut.X[0] != 1 || cut.Y[0] != 1 {
		t.Errorf("cut axes start at (%g, %g), want (1, 1)", cut.X[0], cut.Y[0])
	}
}

func TestWithRegionLeavesOutsideUntouched(t *testing.T) {
	heights := make([]float32, 16)
	for i := range heights {
		heights[i] = float32(i)
	}
	g, err := NewGrid(ascending(4, 0, 1), ascending(4, 0, 1), heights)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	b := Box{MinC: 1, MaxC: 2, MinR: 1, MaxR: 2}
	region := []float32{100, 101, 102, 103}
	out := g.WithRegion(b, region)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			i := r*4 + c
			inside := r >= 1 && r <= 2 && c >= 1 && c <= 2
			if inside {
				continue
			}
			if out[i] != heights[i] {
				t.Errorf("cell (%d,%d) = %g, want untouched %g", r, c, out[i], heights[i])
			}
		}
	}
	if out[5] != 100 || out[6] != 101 || out[9] != 102 || out[10] != 103 {
		t.Errorf("region not written: %v", out)
	}
}

func TestSetHeightsRejectsWrongLength(t *testing.T) {
	g := flatGrid(t, 3, 3, 0)
	if err := g.SetHeights(make([]float32, 4)); err == nil {
		t.Error("expected error for wrong-length array")
	}
	if err := g.SetHeights(make([]float32, 9)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMaxMin(t *testing.T) {
	nan := math32.NaN()
	tests := []struct {
		name             string
		heights          []float32
		mask             []bool
		wantMax, wantMin float32
	}{
		{"plain", []float32{3, 1, 2}, []bool{true, true, true}, 3, 1},
		{"mask excludes", []float32{3, 1, 2}, []bool{false, true, true}, 2, 1},
		{"missing ignored", []float32{3, nan, 1}, []bool{true, true, true}, 3, 1},
		{"single cell", []float32{5}, []bool{true}, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			max, min := MaxMin(tt.heights, tt.mask)
			if max != tt.wantMax || min != tt.wantMin {
				t.Errorf("MaxMin = (%g, %g), want (%g, %g)", max, min, tt.wantMax, tt.wantMin)
			}
		})
	}
}

func TestMaxMinEmptySelection(t *testing.T) {
	nan := math32.NaN()
	for _, tt := range []struct {
		name    string
		heights []float32
		mask    []bool
	}{
		{"no cells", nil, nil},
		{"all masked out", []float32{1, 2}, []bool{false, false}},
		{"all missing", []float32{nan, nan}, []bool{true, true}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			max, min := MaxMin(tt.heights, tt.mask)
			if !math32.IsNaN(max) || !math32.IsNaN(min) {
				t.Errorf("MaxMin = (%g, %g), want (NaN, NaN)", max, min)
			}
		})
	}
}
