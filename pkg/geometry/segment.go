package geometry

import "math"

// Segment predicates are evaluated in float64: vertex storage is
// float32, but the cross products below square the coordinate range and
// would lose the sign near-degenerate configurations need.

// orient returns the cross product (b-a) x (c-a): positive when c is
// left of a->b, negative when right, zero when collinear.
func orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// onSegment reports whether (px, py) lies on the closed segment a-b.
func onSegment(ax, ay, bx, by, px, py float64) bool {
	if orient(ax, ay, bx, by, px, py) != 0 {
		return false
	}
	return math.Min(ax, bx) <= px && px <= math.Max(ax, bx) &&
		math.Min(ay, by) <= py && py <= math.Max(ay, by)
}

// segmentsIntersect reports whether segments a-b and c-d share any
// point, including collinear overlap and endpoint touches. Callers are
// responsible for excluding edges that legitimately share a vertex.
func segmentsIntersect(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	d1 := orient(cx, cy, dx, dy, ax, ay)
	d2 := orient(cx, cy, dx, dy, bx, by)
	d3 := orient(ax, ay, bx, by, cx, cy)
	d4 := orient(ax, ay, bx, by, dx, dy)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(cx, cy, dx, dy, ax, ay) {
		return true
	}
	if d2 == 0 && onSegment(cx, cy, dx, dy, bx, by) {
		return true
	}
	if d3 == 0 && onSegment(ax, ay, bx, by, cx, cy) {
		return true
	}
	if d4 == 0 && onSegment(ax, ay, bx, by, dx, dy) {
		return true
	}
	return false
}
