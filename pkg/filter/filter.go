// Package filter provides composable boolean predicates over grid
// cells. A Chain is evaluated as the left-to-right intersection of an
// all-true mask with each filter's contribution: Inside restricts to a
// polygon, Outside strictly excludes one, and the height filters keep
// the cells on one side of a limit.
package filter

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/terrain"
)

// Kind enumerates the closed set of filter variants. The zero value is
// deliberately invalid so an uninitialized filter fails loudly instead
// of silently passing every cell.
type Kind int

const (
	// HeightBelow keeps cells with height <= limit.
	HeightBelow Kind = iota + 1
	// HeightAbove keeps cells with height >= limit.
	HeightAbove
	// Inside keeps cells strictly inside the referenced polygon.
	Inside
	// Outside keeps cells on or outside the referenced polygon boundary.
	Outside
)

func (k Kind) String() string {
	switch k {
	case HeightBelow:
		return "height-below"
	case HeightAbove:
		return "height-above"
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Filter is one predicate in a chain. Construct values with the New*
// functions; a zero Filter has an unknown kind.
type Filter struct {
	kind    Kind
	limit   float32
	polygon geometry.PolygonID
}

// NewHeightBelow keeps cells with height <= limit.
func NewHeightBelow(limit float32) Filter {
	return Filter{kind: HeightBelow, limit: limit}
}

// NewHeightAbove keeps cells with height >= limit.
func NewHeightAbove(limit float32) Filter {
	return Filter{kind: HeightAbove, limit: limit}
}

// NewInside keeps cells strictly inside the referenced polygon.
func NewInside(id geometry.PolygonID) Filter {
	return Filter{kind: Inside, polygon: id}
}

// NewOutside keeps cells outside the referenced polygon.
func NewOutside(id geometry.PolygonID) Filter {
	return Filter{kind: Outside, polygon: id}
}

// Kind returns the filter's variant.
func (f Filter) Kind() Kind { return f.kind }

// Limit returns the height limit of a height filter.
func (f Filter) Limit() float32 { return f.limit }

// Polygon returns the referenced polygon id of a containment filter.
func (f Filter) Polygon() geometry.PolygonID { return f.polygon }

// Resolver resolves polygon ids against the owning registry. Filters
// hold ids, never direct references; a dangling id surfaces as a
// PolygonMissing error at evaluation time.
type Resolver interface {
	Polygon(id geometry.PolygonID) (*geometry.Polygon, bool)
}

// Chain is an ordered list of filters combined by intersection.
type Chain []Filter

// Evaluate computes the chain's mask over a grid cut, ANDing each
// filter's contribution into an initially all-true mask in list order.
func (c Chain) Evaluate(cut *terrain.Cut, res Resolver) ([]bool, error) {
	mask := make([]bool, cut.Rows()*cut.Cols())
	for i := range mask {
		mask[i] = true
	}
	for _, f := range c {
		switch f.kind {
		case HeightBelow:
			for i, h := range cut.Heights {
				// NaN compares false, so missing cells drop out here.
				mask[i] = mask[i] && h <= f.limit && !math32.IsNaN(h)
			}
		case HeightAbove:
			for i, h := range cut.Heights {
				mask[i] = mask[i] && h >= f.limit && !math32.IsNaN(h)
			}
		case Inside:
			poly, ok := res.Polygon(f.polygon)
			if !ok {
				return nil, &Error{Kind: PolygonMissing, Polygon: f.polygon}
			}
			inside := geometry.Mask(cut, poly)
			for i := range mask {
				mask[i] = mask[i] && inside[i]
			}
		case Outside:
			poly, ok := res.Polygon(f.polygon)
			if !ok {
				return nil, &Error{Kind: PolygonMissing, Polygon: f.polygon}
			}
			inside := geometry.Mask(cut, poly)
			for i := range mask {
				mask[i] = mask[i] && !inside[i]
			}
		default:
			return nil, &Error{Kind: UnknownKind, Detail: f.kind.String()}
		}
	}
	return mask, nil
}
