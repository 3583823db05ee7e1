package geometry

import (
	"fmt"
	"math"
)

// Buffer returns a new polygon offset outward from p by distance (in
// map units). The input winding is normalized to counter-clockwise
// first, then every edge is shifted along its outward normal and
// adjacent offset edges are re-intersected to form the new ring.
//
// Fails with TooFewPoints for open rings and NotPlanar for
// self-intersecting input.
func (p *Polygon) Buffer(distance float32) (*Polygon, error) {
	n := len(p.vertices)
	if n < 3 {
		return nil, &Error{
			Kind:   TooFewPoints,
			Detail: fmt.Sprintf("buffer needs a closed ring, have %d points", n),
		}
	}
	if !p.planar {
		return nil, &Error{Kind: NotPlanar, Detail: "cannot buffer a self-intersecting ring"}
	}

	pts := make([][2]float64, n)
	for i, v := range p.vertices {
		pts[i] = [2]float64{float64(v.X), float64(v.Y)}
	}
	if p.signedArea() < 0 {
		// Clockwise input: reverse so outward normals point outward.
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	d := float64(distance)
	// Offset line for every edge, as origin point plus direction.
	type line struct {
		px, py float64 // point on the offset line
		dx, dy float64 // edge direction
	}
	lines := make([]line, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx := pts[j][0] - pts[i][0]
		dy := pts[j][1] - pts[i][1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			// Degenerate edge; repeated points are rejected at insert,
			// so this only guards hand-built rings.
			lines[i] = line{px: pts[i][0], py: pts[i][1], dx: 1, dy: 0}
			continue
		}
		// Outward normal of a counter-clockwise ring points right of
		// the edge direction: (dy, -dx).
		nx, ny := dy/length, -dx/length
		lines[i] = line{px: pts[i][0] + nx*d, py: pts[i][1] + ny*d, dx: dx, dy: dy}
	}

	out := &Polygon{
		ID:         NewPolygonID(),
		Name:       p.Name + "+buffer",
		drawHeight: p.drawHeight,
		planar:     true,
	}
	for i := 0; i < n; i++ {
		// Vertex i of the ring is the meet of the offset lines of the
		// incoming edge (i-1) and the outgoing edge (i).
		prev := lines[(i+n-1)%n]
		cur := lines[i]
		x, y, ok := lineIntersection(prev.px, prev.py, prev.dx, prev.dy, cur.px, cur.py, cur.dx, cur.dy)
		if !ok {
			// Parallel edges: the offset point itself is the meet.
			x, y = cur.px, cur.py
		}
		out.vertices = append(out.vertices, Vertex{
			X: float32(x), Y: float32(y), Z: p.drawHeight,
		})
	}
	out.recomputePlanar()
	return out, nil
}

// lineIntersection intersects two infinite lines given in point plus
// direction form. ok is false when the lines are (near) parallel.
func lineIntersection(p1x, p1y, d1x, d1y, p2x, p2y, d2x, d2y float64) (float64, float64, bool) {
	den := d1x*d2y - d1y*d2x
	if math.Abs(den) < 1e-12 {
		return 0, 0, false
	}
	t := ((p2x-p1x)*d2y - (p2y-p1y)*d2x) / den
	return p1x + t*d1x, p1y + t*d1y, true
}
