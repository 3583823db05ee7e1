package filter

import (
	"fmt"

	"github.com/mjard/relief/pkg/geometry"
)

// ErrKind classifies filter failures.
type ErrKind int

const (
	// UnknownKind: the filter variant is not one of the closed set.
	// This is a programming error and fails the whole operation; it is
	// never silently skipped.
	UnknownKind ErrKind = iota + 1
	// PolygonMissing: a containment filter references a polygon id that
	// no longer resolves.
	PolygonMissing
)

// Error is a typed filter failure.
type Error struct {
	Kind    ErrKind
	Polygon geometry.PolygonID
	Detail  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownKind:
		return fmt.Sprintf("filter: unknown filter kind %s", e.Detail)
	case PolygonMissing:
		return fmt.Sprintf("filter: referenced polygon %s no longer exists", e.Polygon.Short())
	default:
		return fmt.Sprintf("filter: error kind %d", int(e.Kind))
	}
}

// IsKind reports whether err is a filter Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
