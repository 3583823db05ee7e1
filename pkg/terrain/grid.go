package terrain

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
)

// Grid is a 2D height raster. Heights are stored row-major: the cell at
// row r, column c has coordinates (X[c], Y[r]) and height Heights[r*Cols()+c].
// Both axes are strictly ascending. A height of NaN means the cell is
// missing.
type Grid struct {
	x       []float32
	y       []float32
	heights []float32
}

// NewGrid builds a grid from two strictly ascending axes and a row-major
// height array of length len(y)*len(x). The slices are copied.
func NewGrid(x, y, heights []float32) (*Grid, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("terrain: empty axis (cols=%d, rows=%d)", len(x), len(y))
	}
	if len(heights) != len(x)*len(y) {
		return nil, fmt.Errorf("terrain: height array has %d cells, want %d (%dx%d)",
			len(heights), len(x)*len(y), len(y), len(x))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("terrain: x axis not strictly ascending at index %d", i)
		}
	}
	for i := 1; i < len(y); i++ {
		if !(y[i] > y[i-1]) {
			return nil, fmt.Errorf("terrain: y axis not strictly ascending at index %d", i)
		}
	}
	g := &Grid{
		x:       append([]float32(nil), x...),
		y:       append([]float32(nil), y...),
		heights: append([]float32(nil), heights...),
	}
	return g, nil
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return len(g.y) }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return len(g.x) }

// X returns the x coordinate of column c.
func (g *Grid) X(c int) float32 { return g.x[c] }

// Y returns the y coordinate of row r.
func (g *Grid) Y(r int) float32 { return g.y[r] }

// Height returns the height of the cell at row r, column c.
func (g *Grid) Height(r, c int) float32 { return g.heights[r*len(g.x)+c] }

// CloneHeights returns a copy of the full height array.
func (g *Grid) CloneHeights() []float32 {
	return append([]float32(nil), g.heights...)
}

// Clone returns a deep copy sharing no storage with the original.
func (g *Grid) Clone() *Grid {
	return &Grid{
		x:       append([]float32(nil), g.x...),
		y:       append([]float32(nil), g.y...),
		heights: append([]float32(nil), g.heights...),
	}
}

// SetHeights swaps in a new full-size height array. This is the only
// mutation point of a grid; callers hand in a freshly computed array so
// no reader ever observes a partial write.
func (g *Grid) SetHeights(heights []float32) error {
	if len(heights) != len(g.heights) {
		return fmt.Errorf("terrain: height array has %d cells, want %d", len(heights), len(g.heights))
	}
	g.heights = heights
	return nil
}

// Box is an inclusive index range over a grid: columns MinC..MaxC and
// rows MinR..MaxR. The zero box is not meaningful; use EmptyBox for a
// range that selects nothing.
type Box struct {
	MinC, MaxC int
	MinR, MaxR int
}

// EmptyBox selects no cells.
var EmptyBox = Box{MinC: 0, MaxC: -1, MinR: 0, MaxR: -1}

// Empty reports whether the box selects no cells.
func (b Box) Empty() bool { return b.MaxC < b.MinC || b.MaxR < b.MinR }

// Rows returns the number of rows the box covers.
func (b Box) Rows() int {
	if b.Empty() {
		return 0
	}
	return b.MaxR - b.MinR + 1
}

// Cols returns the number of columns the box covers.
func (b Box) Cols() int {
	if b.Empty() {
		return 0
	}
	return b.MaxC - b.MinC + 1
}

// BoundingBox returns the index range covering the coordinate rectangle
// [minX,maxX]x[minY,maxY], padded by one cell on every side so boundary
// cells are always included, then clamped to the grid. A rectangle
// entirely outside the grid extent yields EmptyBox.
func (g *Grid) BoundingBox(minX, maxX, minY, maxY float32) Box {
	if maxX < g.x[0] || minX > g.x[len(g.x)-1] ||
		maxY < g.y[0] || minY > g.y[len(g.y)-1] {
		return EmptyBox
	}
	minC, maxC := axisRange(g.x, minX, maxX)
	minR, maxR := axisRange(g.y, minY, maxY)
	return Box{MinC: minC, MaxC: maxC, MinR: minR, MaxR: maxR}
}

// axisRange finds the padded, clamped index range of [lo,hi] on a
// strictly ascending axis using binary search.
func axisRange(axis []float32, lo, hi float32) (int, int) {
	first := sort.Search(len(axis), func(i int) bool { return axis[i] >= lo })
	last := sort.Search(len(axis), func(i int) bool { return axis[i] > hi }) - 1
	first-- // pad
	last++
	if first < 0 {
		first = 0
	}
	if last > len(axis)-1 {
		last = len(axis) - 1
	}
	return first, last
}

// Cut is a rectangular crop of a grid. Its height array is always a
// copy: slicing a backing array shared with the full grid would alias
// storage, and every engine operation mutates its cut in place before
// writing it back.
type Cut struct {
	Box     Box
	X       []float32 // axis values for the covered columns
	Y       []float32 // axis values for the covered rows
	Heights []float32 // row-major copy, Box.Rows() x Box.Cols()
}

// Cut crops the grid to the given box. An empty box yields a cut with
// no cells.
func (g *Grid) Cut(b Box) *Cut {
	if b.Empty() {
		return &Cut{Box: EmptyBox}
	}
	rows, cols := b.Rows(), b.Cols()
	c := &Cut{
		Box:     b,
		X:       g.x[b.MinC : b.MaxC+1],
		Y:       g.y[b.MinR : b.MaxR+1],
		Heights: make([]float32, rows*cols),
	}
	for r := 0; r < rows; r++ {
		src := (b.MinR+r)*len(g.x) + b.MinC
		copy(c.Heights[r*cols:(r+1)*cols], g.heights[src:src+cols])
	}
	return c
}

// Rows returns the number of rows in the cut.
func (c *Cut) Rows() int { return c.Box.Rows() }

// Cols returns the number of columns in the cut.
func (c *Cut) Cols() int { return c.Box.Cols() }

// Index returns the flat index of row r, column c within the cut.
func (c *Cut) Index(r, col int) int { return r*c.Cols() + col }

// WithRegion returns a copy of the full height array with the box region
// overwritten by the given row-major values. Cells outside the box are
// bit-identical to the current array.
func (g *Grid) WithRegion(b Box, region []float32) []float32 {
	out := g.CloneHeights()
	if b.Empty() {
		return out
	}
	cols := b.Cols()
	for r := 0; r < b.Rows(); r++ {
		dst := (b.MinR+r)*len(g.x) + b.MinC
		copy(out[dst:dst+cols], region[r*cols:(r+1)*cols])
	}
	return out
}

// MaxMin reduces the masked cells of a height array to (max, min),
// ignoring missing values. An empty or all-missing selection yields
// (NaN, NaN).
func MaxMin(heights []float32, mask []bool) (float32, float32) {
	max, min := math32.NaN(), math32.NaN()
	seen := false
	for i, keep := range mask {
		if !keep || math32.IsNaN(heights[i]) {
			continue
		}
		h := heights[i]
		if !seen {
			max, min = h, h
			seen = true
			continue
		}
		if h > max {
			max = h
		}
		if h < min {
			min = h
		}
	}
	return max, min
}
