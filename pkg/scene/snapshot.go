package scene

import (
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/terrain"
)

// Snapshot is a deep copy of the scene's registries and draw order,
// detached from the coordinator that produced it. Snapshots stage
// speculative edits: seed a scratch coordinator from one, mutate the
// scratch freely, and restore its snapshot into the live scene only if
// the edits should stick.
type Snapshot struct {
	models    map[terrain.ModelID]*terrain.Model
	polygons  map[geometry.PolygonID]*geometry.Polygon
	drawOrder []string
}

// Snapshot captures a deep copy of the current scene state. Model and
// polygon ids are preserved, so references held by filters stay valid
// across a restore.
func (s *Coordinator) Snapshot() *Snapshot {
	snap := &Snapshot{
		models:    make(map[terrain.ModelID]*terrain.Model, len(s.models)),
		polygons:  make(map[geometry.PolygonID]*geometry.Polygon, len(s.polygons)),
		drawOrder: append([]string(nil), s.drawOrder...),
	}
	for id, m := range s.models {
		snap.models[id] = &terrain.Model{ID: m.ID, Name: m.Name, Grid: m.Grid.Clone()}
	}
	for id, p := range s.polygons {
		snap.polygons[id] = p.Clone()
	}
	return snap
}

// Restore replaces the scene state with the snapshot's. The coordinator
// takes ownership of the snapshot, which must not be restored twice.
// Callers holding model or polygon pointers must re-resolve them by id
// afterwards.
func (s *Coordinator) Restore(snap *Snapshot) {
	s.models = snap.models
	s.polygons = snap.polygons
	s.drawOrder = snap.drawOrder
}

// Scratch returns an independent coordinator seeded with a copy of the
// current scene. Edits to the scratch never reach the receiver; callers
// commit them explicitly with Restore and must Close the scratch when
// done with it.
func (s *Coordinator) Scratch() *Coordinator {
	c := New(s.cfg)
	c.Restore(s.Snapshot())
	return c
}
