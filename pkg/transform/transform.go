// Package transform implements the height transformations of Relief:
// linear rescaling and fill-with-missing, scoped to the cells strictly
// inside a polygon that also pass a filter chain. A transformation is a
// short-lived value object holding ids only; the scene coordinator
// resolves them and hands in the actual grid and polygon.
//
// Apply never mutates the grid: it returns a fresh full-size height
// array with changes confined to the polygon's padded bounding box.
package transform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/filter"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/terrain"
)

// Transformation is the closed set of height transformations. The two
// implementations are Linear and FillMissing; the scene coordinator
// dispatches through this interface.
type Transformation interface {
	ModelID() terrain.ModelID
	PolygonID() geometry.PolygonID

	// Validate checks the transformation against its resolved polygon
	// before any mutation. Errors here guarantee the grid is untouched.
	Validate(p *geometry.Polygon) error

	// Apply computes a new full-size height array for the grid. It
	// assumes Validate has passed.
	Apply(g *terrain.Grid, p *geometry.Polygon, res filter.Resolver) ([]float32, error)
}

// RangeError reports a target range with min above max.
type RangeError struct {
	Min, Max float32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("transform: invalid height range [%g, %g]: min exceeds max", e.Min, e.Max)
}

// scope computes the shared selection of both transformations: the
// polygon's padded bounding box, a copied cut of the grid, and the mask
// of cells strictly inside the polygon that also pass the filter chain.
// Filters only narrow within the bounding box; they never expand it.
func scope(g *terrain.Grid, p *geometry.Polygon, filters filter.Chain, res filter.Resolver) (*terrain.Cut, []bool, error) {
	minX, minY, maxX, maxY := p.Bounds()
	box := g.BoundingBox(minX, maxX, minY, maxY)
	cut := g.Cut(box)
	if box.Empty() {
		return cut, nil, nil
	}
	mask := geometry.Mask(cut, p)
	passed, err := filters.Evaluate(cut, res)
	if err != nil {
		return nil, nil, err
	}
	return cut, geometry.And(mask, passed), nil
}

// Linear remaps the heights of the selected cells onto the target range
// [MinHeight, MaxHeight], preserving their relative order.
type Linear struct {
	Model     terrain.ModelID
	Polygon   geometry.PolygonID
	MinHeight float32
	MaxHeight float32
	Filters   filter.Chain
}

// ModelID returns the bound grid model id.
func (t Linear) ModelID() terrain.ModelID { return t.Model }

// PolygonID returns the bound polygon id.
func (t Linear) PolygonID() geometry.PolygonID { return t.Polygon }

// Validate checks the polygon and the target range.
func (t Linear) Validate(p *geometry.Polygon) error {
	if err := p.ValidateRing(); err != nil {
		return err
	}
	if t.MinHeight > t.MaxHeight {
		return &RangeError{Min: t.MinHeight, Max: t.MaxHeight}
	}
	return nil
}

// Apply rescales the selected cells. The current extremes are computed
// over the selection ignoring missing values; a degenerate selection
// (all equal, or nothing but missing values) collapses every selected
// cell to the midpoint of the target range.
func (t Linear) Apply(g *terrain.Grid, p *geometry.Polygon, res filter.Resolver) ([]float32, error) {
	cut, mask, err := scope(g, p, t.Filters, res)
	if err != nil {
		return nil, err
	}
	if cut.Box.Empty() {
		return g.CloneHeights(), nil
	}
	curMax, curMin := terrain.MaxMin(cut.Heights, mask)
	switch {
	case math32.IsNaN(curMin) || curMin == curMax:
		mid := (t.MinHeight + t.MaxHeight) / 2
		for i, keep := range mask {
			if keep {
				cut.Heights[i] = mid
			}
		}
	default:
		scale := (t.MaxHeight - t.MinHeight) / (curMax - curMin)
		for i, keep := range mask {
			if !keep || terrain.IsMissing(cut.Heights[i]) {
				continue
			}
			cut.Heights[i] = (cut.Heights[i]-curMin)*scale + t.MinHeight
		}
	}
	return g.WithRegion(cut.Box, cut.Heights), nil
}

// FillMissing sets every selected cell to the missing-value sentinel.
type FillMissing struct {
	Model   terrain.ModelID
	Polygon geometry.PolygonID
	Filters filter.Chain
}

// ModelID returns the bound grid model id.
func (t FillMissing) ModelID() terrain.ModelID { return t.Model }

// PolygonID returns the bound polygon id.
func (t FillMissing) PolygonID() geometry.PolygonID { return t.Polygon }

// Validate checks the polygon. FillMissing has no height range.
func (t FillMissing) Validate(p *geometry.Polygon) error {
	return p.ValidateRing()
}

// Apply blanks the selected cells.
func (t FillMissing) Apply(g *terrain.Grid, p *geometry.Polygon, res filter.Resolver) ([]float32, error) {
	cut, mask, err := scope(g, p, t.Filters, res)
	if err != nil {
		return nil, err
	}
	if cut.Box.Empty() {
		return g.CloneHeights(), nil
	}
	for i, keep := range mask {
		if keep {
			cut.Heights[i] = terrain.Missing()
		}
	}
	return g.WithRegion(cut.Box, cut.Heights), nil
}
