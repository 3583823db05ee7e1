// Package geometry provides the polygon model for Relief: ordered vertex
// lists with incremental planarity and self-intersection tracking, grid
// containment masks, and outward buffering.
//
// "Planar" here means the polygon's closed boundary is free of
// self-intersections, not geometric flatness; the z coordinate of every
// vertex is a constant draw-height offset.
package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// PolygonID is an opaque identifier for a registered polygon. IDs are
// never reused, so a stale reference held by a filter can never alias a
// recreated polygon.
type PolygonID string

// ZeroPolygonID is the zero value of PolygonID.
const ZeroPolygonID PolygonID = ""

// NewPolygonID returns a fresh unique polygon ID.
func NewPolygonID() PolygonID {
	return PolygonID(uuid.NewString())
}

// IsZero reports whether the ID is unset.
func (id PolygonID) IsZero() bool { return id == ZeroPolygonID }

// Short returns an abbreviated form for log and error messages.
func (id PolygonID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Vertex is a polygon vertex. Z is the fixed draw-height offset, not a
// topographic height.
type Vertex struct {
	X, Y, Z float32
}

// Polygon is an ordered sequence of vertices forming a closed ring once
// three or more points exist. Invariants maintained at insertion time:
// no two vertices are numerically identical, and no inserted edge
// crosses an existing edge. The closing edge is allowed to cross (the
// user may still be drawing); it only clears the planar flag.
type Polygon struct {
	ID   PolygonID
	Name string

	drawHeight float32
	vertices   []Vertex
	planar     bool
}

// New creates an empty polygon drawn at the given height offset.
func New(name string, drawHeight float32) *Polygon {
	return &Polygon{
		ID:         NewPolygonID(),
		Name:       name,
		drawHeight: drawHeight,
		planar:     true,
	}
}

// Len returns the number of vertices.
func (p *Polygon) Len() int { return len(p.vertices) }

// IsPlanar reports whether the closed boundary is free of
// self-intersections. Recomputed after every mutation by testing the
// closing edge only.
func (p *Polygon) IsPlanar() bool { return p.planar }

// Vertices returns a copy of the vertex list.
func (p *Polygon) Vertices() []Vertex {
	return append([]Vertex(nil), p.vertices...)
}

// Clone returns a deep copy with the same ID, sharing no storage with
// the original.
func (p *Polygon) Clone() *Polygon {
	return &Polygon{
		ID:         p.ID,
		Name:       p.Name,
		drawHeight: p.drawHeight,
		vertices:   append([]Vertex(nil), p.vertices...),
		planar:     p.planar,
	}
}

// Add appends a vertex at (x, y). It fails with RepeatedPoint if the
// point duplicates an existing vertex, and with SelfIntersection if the
// new edge would cross an existing edge; in both cases the polygon is
// left unchanged.
func (p *Polygon) Add(x, y float32) error {
	for i, v := range p.vertices {
		if v.X == x && v.Y == y {
			return &Error{
				Kind:   RepeatedPoint,
				Detail: fmt.Sprintf("point (%g, %g) duplicates vertex %d", x, y, i),
			}
		}
	}
	n := len(p.vertices)
	if n >= 2 {
		// The new edge runs from the current last vertex to the new
		// point. It is adjacent to edge n-2 (shared endpoint), so only
		// earlier edges can properly cross it.
		a := p.vertices[n-1]
		for i := 0; i+1 <= n-2; i++ {
			if segmentsIntersect(
				float64(a.X), float64(a.Y), float64(x), float64(y),
				float64(p.vertices[i].X), float64(p.vertices[i].Y),
				float64(p.vertices[i+1].X), float64(p.vertices[i+1].Y),
			) {
				return &Error{
					Kind:   SelfIntersection,
					Detail: fmt.Sprintf("edge to (%g, %g) crosses edge %d", x, y, i),
				}
			}
		}
	}
	p.vertices = append(p.vertices, Vertex{X: x, Y: y, Z: p.drawHeight})
	p.recomputePlanar()
	return nil
}

// RemoveLast removes the most recently added vertex, if any.
func (p *Polygon) RemoveLast() {
	if len(p.vertices) == 0 {
		return
	}
	p.vertices = p.vertices[:len(p.vertices)-1]
	p.recomputePlanar()
}

// recomputePlanar tests the implicit closing edge against the
// non-adjacent edges. Interior edges cannot cross each other (enforced
// at insertion), so this cheap incremental check is sufficient.
func (p *Polygon) recomputePlanar() {
	n := len(p.vertices)
	if n < 3 {
		p.planar = true
		return
	}
	// Closing edge: last vertex back to first. Edges 0 and n-2 share an
	// endpoint with it and are skipped.
	last, first := p.vertices[n-1], p.vertices[0]
	for i := 1; i+1 <= n-2; i++ {
		if segmentsIntersect(
			float64(last.X), float64(last.Y), float64(first.X), float64(first.Y),
			float64(p.vertices[i].X), float64(p.vertices[i].Y),
			float64(p.vertices[i+1].X), float64(p.vertices[i+1].Y),
		) {
			p.planar = false
			return
		}
	}
	p.planar = true
}

// ValidateRing checks that the polygon is a usable closed ring: at
// least three vertices and a planar boundary. Every transformation and
// interpolation runs this before touching any grid data.
func (p *Polygon) ValidateRing() error {
	if len(p.vertices) < 3 {
		return &Error{
			Kind:   TooFewPoints,
			Detail: fmt.Sprintf("polygon %s has %d points, need at least 3", p.ID.Short(), len(p.vertices)),
		}
	}
	if !p.planar {
		return &Error{
			Kind:   NotPlanar,
			Detail: fmt.Sprintf("polygon %s self-intersects", p.ID.Short()),
		}
	}
	return nil
}

// Bounds returns the axis-aligned extent of the polygon. An empty
// polygon yields NaN bounds.
func (p *Polygon) Bounds() (minX, minY, maxX, maxY float32) {
	if len(p.vertices) == 0 {
		nan := math32.NaN()
		return nan, nan, nan, nan
	}
	minX, maxX = p.vertices[0].X, p.vertices[0].X
	minY, maxY = p.vertices[0].Y, p.vertices[0].Y
	for _, v := range p.vertices[1:] {
		minX = math32.Min(minX, v.X)
		maxX = math32.Max(maxX, v.X)
		minY = math32.Min(minY, v.Y)
		maxY = math32.Max(maxY, v.Y)
	}
	return minX, minY, maxX, maxY
}

// Contains reports whether (x, y) lies strictly inside the closed
// polygon. Points on the boundary are outside.
func (p *Polygon) Contains(x, y float32) bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}
	px, py := float64(x), float64(y)
	// Boundary points are excluded explicitly: even-odd ray casting
	// classifies them arbitrarily otherwise.
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if onSegment(
			float64(p.vertices[i].X), float64(p.vertices[i].Y),
			float64(p.vertices[j].X), float64(p.vertices[j].Y),
			px, py,
		) {
			return false
		}
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := float64(p.vertices[i].X), float64(p.vertices[i].Y)
		xj, yj := float64(p.vertices[j].X), float64(p.vertices[j].Y)
		if (yi > py) != (yj > py) &&
			px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// signedArea returns the shoelace area of the closed ring: positive for
// counter-clockwise winding.
func (p *Polygon) signedArea() float64 {
	var sum float64
	n := len(p.vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(p.vertices[i].X)*float64(p.vertices[j].Y) -
			float64(p.vertices[j].X)*float64(p.vertices[i].Y)
	}
	return sum / 2
}
