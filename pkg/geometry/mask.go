package geometry

import "github.com/mjard/relief/pkg/terrain"

// Mask tests every cell of a grid cut for strict containment in the
// polygon (z dropped) and returns a row-major boolean mask with the
// cut's shape. Boundary cells are excluded.
func Mask(cut *terrain.Cut, p *Polygon) []bool {
	mask := make([]bool, cut.Rows()*cut.Cols())
	if p.Len() < 3 {
		return mask
	}
	// Cheap reject: cells outside the polygon's extent can never be
	// inside, and a cut is often much wider than the polygon.
	minX, minY, maxX, maxY := p.Bounds()
	for r := 0; r < cut.Rows(); r++ {
		y := cut.Y[r]
		if y <= minY || y >= maxY {
			continue
		}
		for c := 0; c < cut.Cols(); c++ {
			x := cut.X[c]
			if x <= minX || x >= maxX {
				continue
			}
			mask[cut.Index(r, c)] = p.Contains(x, y)
		}
	}
	return mask
}

// Xor combines two masks of identical shape into their symmetric
// difference: the ring of cells covered by exactly one of them.
func Xor(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] != b[i]
	}
	return out
}

// And intersects two masks of identical shape.
func And(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}
