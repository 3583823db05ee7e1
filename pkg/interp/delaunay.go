package interp

import (
	"fmt"
	"math"
)

// site is one known sample for triangulation.
type site struct {
	x, y float64
	v    float32
}

// triangle indexes three sites. Circumcircle parameters are cached at
// construction since every insertion tests them.
type triangle struct {
	a, b, c int
	cx, cy  float64 // circumcenter
	rr      float64 // squared circumradius, +Inf when degenerate
}

// tin is a triangulated irregular network over the known sites.
type tin struct {
	sites     []site
	triangles []triangle
}

// triangulate builds a Delaunay triangulation with the Bowyer-Watson
// incremental algorithm: seed a super-triangle enclosing all sites,
// insert sites one at a time re-triangulating the cavity of triangles
// whose circumcircle contains the new site, and finally drop every
// triangle touching the super-triangle.
func triangulate(sites []site) (*tin, error) {
	if len(sites) < 3 {
		return &tin{sites: sites}, nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range sites {
		minX = math.Min(minX, s.x)
		maxX = math.Max(maxX, s.x)
		minY = math.Min(minY, s.y)
		maxY = math.Max(maxY, s.y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	// Super-triangle vertices are appended after the real sites; any
	// index >= len(sites) marks a synthetic corner.
	all := append(append([]site(nil), sites...),
		site{x: midX - 20*span, y: midY - span},
		site{x: midX, y: midY + 20*span},
		site{x: midX + 20*span, y: midY - span},
	)
	n := len(sites)

	t := &tin{sites: all}
	super, err := t.makeTriangle(n, n+1, n+2)
	if err != nil {
		return nil, err
	}
	triangles := []triangle{super}

	for i := 0; i < n; i++ {
		s := all[i]

		bad := make([]bool, len(triangles))
		type edge struct{ p, q int }
		edgeCount := make(map[edge]int)
		for ti, tr := range triangles {
			dx, dy := s.x-tr.cx, s.y-tr.cy
			if dx*dx+dy*dy < tr.rr {
				bad[ti] = true
				for _, e := range [][2]int{{tr.a, tr.b}, {tr.b, tr.c}, {tr.c, tr.a}} {
					p, q := e[0], e[1]
					if p > q {
						p, q = q, p
					}
					edgeCount[edge{p, q}]++
				}
			}
		}

		kept := triangles[:0:0]
		for ti, tr := range triangles {
			if !bad[ti] {
				kept = append(kept, tr)
			}
		}
		triangles = kept

		// The cavity boundary consists of the edges seen exactly once.
		for e, count := range edgeCount {
			if count != 1 {
				continue
			}
			tr, err := t.makeTriangle(e.p, e.q, i)
			if err != nil {
				return nil, err
			}
			triangles = append(triangles, tr)
		}
	}

	for _, tr := range triangles {
		if tr.a < n && tr.b < n && tr.c < n {
			t.triangles = append(t.triangles, tr)
		}
	}
	return t, nil
}

// makeTriangle builds a triangle with cached circumcircle.
func (t *tin) makeTriangle(a, b, c int) (triangle, error) {
	if a == b || b == c || a == c {
		return triangle{}, fmt.Errorf("interp: degenerate triangle (%d, %d, %d)", a, b, c)
	}
	pa, pb, pc := t.sites[a], t.sites[b], t.sites[c]
	d := 2 * (pa.x*(pb.y-pc.y) + pb.x*(pc.y-pa.y) + pc.x*(pa.y-pb.y))
	tr := triangle{a: a, b: b, c: c}
	if math.Abs(d) < 1e-12 {
		tr.rr = math.Inf(1)
		return tr, nil
	}
	aa := pa.x*pa.x + pa.y*pa.y
	bb := pb.x*pb.x + pb.y*pb.y
	cc := pc.x*pc.x + pc.y*pc.y
	tr.cx = (aa*(pb.y-pc.y) + bb*(pc.y-pa.y) + cc*(pa.y-pb.y)) / d
	tr.cy = (aa*(pc.x-pb.x) + bb*(pa.x-pc.x) + cc*(pb.x-pa.x)) / d
	dx, dy := tr.cx-pa.x, tr.cy-pa.y
	tr.rr = dx*dx + dy*dy
	return tr, nil
}

// valueAt evaluates the TIN at (x, y) by barycentric interpolation
// within the containing triangle. ok is false outside the convex hull.
func (t *tin) valueAt(x, y float64) (float32, bool) {
	const eps = 1e-9
	for _, tr := range t.triangles {
		pa, pb, pc := t.sites[tr.a], t.sites[tr.b], t.sites[tr.c]
		den := (pb.y-pc.y)*(pa.x-pc.x) + (pc.x-pb.x)*(pa.y-pc.y)
		if den == 0 {
			continue
		}
		w1 := ((pb.y-pc.y)*(x-pc.x) + (pc.x-pb.x)*(y-pc.y)) / den
		w2 := ((pc.y-pa.y)*(x-pc.x) + (pa.x-pc.x)*(y-pc.y)) / den
		w3 := 1 - w1 - w2
		if w1 < -eps || w2 < -eps || w3 < -eps {
			continue
		}
		return float32(w1*float64(pa.v) + w2*float64(pb.v) + w3*float64(pc.v)), true
	}
	return 0, false
}
