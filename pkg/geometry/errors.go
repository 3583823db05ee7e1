package geometry

import "fmt"

// ErrorKind classifies geometry failures.
type ErrorKind int

const (
	// TooFewPoints: the operation needs a closed polygon (>= 3 vertices).
	TooFewPoints ErrorKind = iota + 1
	// NotPlanar: the polygon's closed boundary self-intersects.
	NotPlanar
	// SelfIntersection: inserting a vertex would cross an existing edge.
	SelfIntersection
	// RepeatedPoint: inserting a vertex numerically identical to an
	// existing one.
	RepeatedPoint
)

func (k ErrorKind) String() string {
	switch k {
	case TooFewPoints:
		return "too few points"
	case NotPlanar:
		return "not planar"
	case SelfIntersection:
		return "self intersection"
	case RepeatedPoint:
		return "repeated point"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a typed geometry failure. All geometry errors are raised
// during validation or vertex insertion, strictly before any grid
// mutation.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "geometry: " + e.Kind.String()
	}
	return fmt.Sprintf("geometry: %s: %s", e.Kind, e.Detail)
}

// IsKind reports whether err is a geometry Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ge, ok := err.(*Error)
	return ok && ge.Kind == kind
}
