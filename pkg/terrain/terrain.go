// Package terrain defines the gridded elevation data model for Relief.
// A Grid owns a row-major float32 height raster plus two ascending
// coordinate axes. Missing heights are represented by the IEEE NaN
// sentinel throughout the engine.
package terrain

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// ModelID is an opaque identifier for a registered grid model.
// IDs are never reused: a deleted-then-recreated model always receives
// a fresh ID, so stale references cannot alias.
type ModelID string

// ZeroModelID is the zero value of ModelID.
const ZeroModelID ModelID = ""

// NewModelID returns a fresh unique model ID.
func NewModelID() ModelID {
	return ModelID(uuid.NewString())
}

// IsZero reports whether the ID is unset.
func (id ModelID) IsZero() bool { return id == ZeroModelID }

// Short returns an abbreviated form for log and error messages.
func (id ModelID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Missing returns the missing-value sentinel.
func Missing() float32 { return math32.NaN() }

// IsMissing reports whether h is the missing-value sentinel.
func IsMissing(h float32) bool { return math32.IsNaN(h) }

// Model is a registered grid with identity and a display name.
type Model struct {
	ID   ModelID
	Name string
	Grid *Grid
}
