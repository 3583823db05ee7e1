package scene

import "fmt"

// ScopeKind classifies id-resolution failures.
type ScopeKind int

const (
	// ModelNotFound: the grid model id does not resolve.
	ModelNotFound ScopeKind = iota + 1
	// PolygonNotFound: the polygon id does not resolve.
	PolygonNotFound
	// DrawIDNotFound: the id is in neither registry, so it has no draw
	// order position.
	DrawIDNotFound
)

// ScopeError reports an id that failed to resolve against the scene
// registries. Mutating operations resolve everything up front and fail
// with this error before touching any array.
type ScopeError struct {
	Kind ScopeKind
	ID   string
}

func (e *ScopeError) Error() string {
	switch e.Kind {
	case ModelNotFound:
		return fmt.Sprintf("scene: model %s not found", short(e.ID))
	case PolygonNotFound:
		return fmt.Sprintf("scene: polygon %s not found", short(e.ID))
	case DrawIDNotFound:
		return fmt.Sprintf("scene: id %s not in draw order", short(e.ID))
	default:
		return fmt.Sprintf("scene: scope error %d for %s", int(e.Kind), short(e.ID))
	}
}

// IsScope reports whether err is a ScopeError of the given kind.
func IsScope(err error, kind ScopeKind) bool {
	se, ok := err.(*ScopeError)
	return ok && se.Kind == kind
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
