package interp

import (
	"math"
	"testing"
)

func TestTriangulateSquare(t *testing.T) {
	sites := []site{
		{x: 0, y: 0, v: 0},
		{x: 4, y: 0, v: 4},
		{x: 4, y: 4, v: 8},
		{x: 0, y: 4, v: 4},
	}
	tin, err := triangulate(sites)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	if len(tin.triangles) != 2 {
		t.Fatalf("square triangulates into %d triangles, want 2", len(tin.triangles))
	}

	// The site values lie on the plane v = x + y, so any interior point
	// interpolates back onto it.
	for _, pt := range [][2]float64{{1, 1}, {2, 2}, {3, 0.5}, {0.5, 3}} {
		v, ok := tin.valueAt(pt[0], pt[1])
		if !ok {
			t.Fatalf("valueAt(%g, %g) outside hull", pt[0], pt[1])
		}
		want := pt[0] + pt[1]
		if math.Abs(float64(v)-want) > 1e-5 {
			t.Errorf("valueAt(%g, %g) = %g, want %g", pt[0], pt[1], v, want)
		}
	}
}

func TestValueAtVertices(t *testing.T) {
	sites := []site{
		{x: 0, y: 0, v: 1},
		{x: 5, y: 0, v: 2},
		{x: 0, y: 5, v: 3},
	}
	tin, err := triangulate(sites)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	for _, s := range sites {
		v, ok := tin.valueAt(s.x, s.y)
		if !ok || v != s.v {
			t.Errorf("valueAt(%g, %g) = %g, %v, want %g", s.x, s.y, v, ok, s.v)
		}
	}
}

func TestValueAtOutsideHull(t *testing.T) {
	sites := []site{
		{x: 0, y: 0, v: 1},
		{x: 5, y: 0, v: 2},
		{x: 0, y: 5, v: 3},
	}
	tin, err := triangulate(sites)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	if _, ok := tin.valueAt(10, 10); ok {
		t.Error("point outside the hull should not resolve")
	}
	if _, ok := tin.valueAt(-1, -1); ok {
		t.Error("point outside the hull should not resolve")
	}
}

func TestTriangulateTooFewSites(t *testing.T) {
	for n := 0; n < 3; n++ {
		sites := make([]site, n)
		for i := range sites {
			sites[i] = site{x: float64(i), y: 0, v: 1}
		}
		tin, err := triangulate(sites)
		if err != nil {
			t.Fatalf("%d sites: %v", n, err)
		}
		if len(tin.triangles) != 0 {
			t.Errorf("%d sites yield %d triangles", n, len(tin.triangles))
		}
		if _, ok := tin.valueAt(0, 0); ok {
			t.Errorf("%d sites: valueAt should not resolve", n)
		}
	}
}
