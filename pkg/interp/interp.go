// Package interp fills the band between a polygon and its outward
// buffer with spatially interpolated heights. The band ("ring") is the
// set of cells inside the buffered polygon but outside the original
// one; ring cells are blanked and then refilled from the surrounding
// known cells with the chosen method, or smoothed in place by a
// gaussian pass.
package interp

import (
	"fmt"

	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/terrain"
)

// Method enumerates the closed set of interpolation methods.
type Method int

const (
	// Linear interpolates over a Delaunay triangulation of the known
	// cells; cells outside the convex hull stay missing.
	Linear Method = iota + 1
	// Nearest copies the value of the nearest known cell.
	Nearest
	// Cubic blends the nearest known cells with a cubic distance
	// falloff.
	Cubic
	// Smooth applies a fixed-kernel gaussian blur and keeps the result
	// for ring cells only.
	Smooth
)

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	case Cubic:
		return "cubic"
	case Smooth:
		return "smooth"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a method name from the DSL or the frontend.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "nearest":
		return Nearest, nil
	case "cubic":
		return Cubic, nil
	case "smooth":
		return Smooth, nil
	}
	return 0, fmt.Errorf("interp: unknown method %q", name)
}

// DistanceError reports a non-positive buffer distance.
type DistanceError struct {
	Distance float32
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("interp: invalid buffer distance %g: must be positive", e.Distance)
}

// Interpolation is a short-lived value object bound to a grid model and
// a polygon by id, resolved by the scene coordinator at apply time.
// Distance is the outward buffer width in map units.
type Interpolation struct {
	Model    terrain.ModelID
	Polygon  geometry.PolygonID
	Method   Method
	Distance float32
}

// ModelID returns the bound grid model id.
func (in Interpolation) ModelID() terrain.ModelID { return in.Model }

// PolygonID returns the bound polygon id.
func (in Interpolation) PolygonID() geometry.PolygonID { return in.Polygon }

// Validate checks the polygon, the buffer distance and the method
// before any mutation.
func (in Interpolation) Validate(p *geometry.Polygon) error {
	if err := p.ValidateRing(); err != nil {
		return err
	}
	if !(in.Distance > 0) {
		return &DistanceError{Distance: in.Distance}
	}
	switch in.Method {
	case Linear, Nearest, Cubic, Smooth:
		return nil
	}
	return fmt.Errorf("interp: unknown method %s", in.Method)
}

// Apply computes a new full-size height array for the grid. The
// buffered polygon's padded bounding box is cut out, the ring mask is
// derived as externalMask XOR internalMask, and the box is filled (or
// smoothed) accordingly. A buffer polygon entirely outside the grid
// leaves the array unmodified.
func (in Interpolation) Apply(g *terrain.Grid, p *geometry.Polygon) ([]float32, error) {
	external, err := p.Buffer(in.Distance)
	if err != nil {
		return nil, err
	}
	minX, minY, maxX, maxY := external.Bounds()
	box := g.BoundingBox(minX, maxX, minY, maxY)
	if box.Empty() {
		return g.CloneHeights(), nil
	}
	cut := g.Cut(box)
	maskExternal := geometry.Mask(cut, external)
	maskInternal := geometry.Mask(cut, p)
	ring := geometry.Xor(maskExternal, maskInternal)

	if in.Method == Smooth {
		blurred := gaussianSmooth(cut.Heights, cut.Rows(), cut.Cols())
		for i, inRing := range ring {
			if inRing {
				cut.Heights[i] = blurred[i]
			}
		}
		return g.WithRegion(cut.Box, cut.Heights), nil
	}

	for i, inRing := range ring {
		if inRing {
			cut.Heights[i] = terrain.Missing()
		}
	}
	if err := fillMissing(cut, in.Method); err != nil {
		return nil, err
	}
	return g.WithRegion(cut.Box, cut.Heights), nil
}
