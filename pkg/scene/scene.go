// Package scene owns the registries of grid models and polygons and
// dispatches transformations and interpolations against them. The
// coordinator is not safe for concurrent use: the surrounding
// application serializes calls, and at most one transformation or
// interpolation may be in flight against a given model at a time.
// Heavy array work can be pushed to the task pool; results are swapped
// into models only from DrainCompleted on the caller's goroutine, so no
// reader ever observes a partially written array.
package scene

import (
	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/filter"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/interp"
	"github.com/mjard/relief/pkg/terrain"
	"github.com/mjard/relief/pkg/transform"
)

// DefaultPolygonDrawHeight lifts polygon outlines slightly above the
// terrain so the renderer does not z-fight them against the surface.
const DefaultPolygonDrawHeight = 0.1

// Config is the immutable configuration of a coordinator, passed at
// construction.
type Config struct {
	// PolygonDrawHeight is the z offset assigned to polygon vertices.
	// Zero selects DefaultPolygonDrawHeight; a negative value pins
	// outlines to the surface at offset 0.
	PolygonDrawHeight float32
	// Workers is the size of the task pool; 0 picks a default.
	Workers int
}

// Coordinator registers grid models and polygons, applies
// transformations and interpolations atomically, and tracks draw order
// for the renderer.
type Coordinator struct {
	cfg       Config
	models    map[terrain.ModelID]*terrain.Model
	polygons  map[geometry.PolygonID]*geometry.Polygon
	drawOrder []string // string(ModelID) and string(PolygonID), back to front
	pool      *TaskPool
}

// New creates a coordinator with the given configuration.
func New(cfg Config) *Coordinator {
	switch {
	case cfg.PolygonDrawHeight == 0:
		cfg.PolygonDrawHeight = DefaultPolygonDrawHeight
	case cfg.PolygonDrawHeight < 0:
		cfg.PolygonDrawHeight = 0
	}
	return &Coordinator{
		cfg:      cfg,
		models:   make(map[terrain.ModelID]*terrain.Model),
		polygons: make(map[geometry.PolygonID]*geometry.Polygon),
		pool:     NewTaskPool(cfg.Workers),
	}
}

// Close stops the task pool workers.
func (s *Coordinator) Close() { s.pool.Close() }

// AddModel registers a grid under a fresh model id.
func (s *Coordinator) AddModel(name string, g *terrain.Grid) terrain.ModelID {
	m := &terrain.Model{ID: terrain.NewModelID(), Name: name, Grid: g}
	s.models[m.ID] = m
	s.drawOrder = append(s.drawOrder, string(m.ID))
	return m.ID
}

// RemoveModel deletes a grid model.
func (s *Coordinator) RemoveModel(id terrain.ModelID) error {
	if _, ok := s.models[id]; !ok {
		return &ScopeError{Kind: ModelNotFound, ID: string(id)}
	}
	delete(s.models, id)
	s.dropDraw(string(id))
	return nil
}

// Model resolves a model id.
func (s *Coordinator) Model(id terrain.ModelID) (*terrain.Model, bool) {
	m, ok := s.models[id]
	return m, ok
}

// Models returns all registered models in draw order.
func (s *Coordinator) Models() []*terrain.Model {
	out := make([]*terrain.Model, 0, len(s.models))
	for _, id := range s.drawOrder {
		if m, ok := s.models[terrain.ModelID(id)]; ok {
			out = append(out, m)
		}
	}
	return out
}

// CreatePolygon registers a new empty polygon at the configured draw
// height. Points are added incrementally through the polygon itself.
func (s *Coordinator) CreatePolygon(name string) *geometry.Polygon {
	p := geometry.New(name, s.cfg.PolygonDrawHeight)
	s.polygons[p.ID] = p
	s.drawOrder = append(s.drawOrder, string(p.ID))
	return p
}

// DeletePolygon removes a polygon. Filters still holding its id will
// fail with PolygonMissing on their next evaluation; the id is never
// reused.
func (s *Coordinator) DeletePolygon(id geometry.PolygonID) error {
	if _, ok := s.polygons[id]; !ok {
		return &ScopeError{Kind: PolygonNotFound, ID: string(id)}
	}
	delete(s.polygons, id)
	s.dropDraw(string(id))
	return nil
}

// Polygon resolves a polygon id. Implements filter.Resolver.
func (s *Coordinator) Polygon(id geometry.PolygonID) (*geometry.Polygon, bool) {
	p, ok := s.polygons[id]
	return p, ok
}

// Polygons returns all registered polygons in draw order.
func (s *Coordinator) Polygons() []*geometry.Polygon {
	out := make([]*geometry.Polygon, 0, len(s.polygons))
	for _, id := range s.drawOrder {
		if p, ok := s.polygons[geometry.PolygonID(id)]; ok {
			out = append(out, p)
		}
	}
	return out
}

var _ filter.Resolver = (*Coordinator)(nil)

// dropDraw removes an id from the draw order.
func (s *Coordinator) dropDraw(id string) {
	for i, did := range s.drawOrder {
		if did == id {
			s.drawOrder = append(s.drawOrder[:i], s.drawOrder[i+1:]...)
			return
		}
	}
}

// resolve looks up the model and polygon a transformation or
// interpolation is bound to, failing fast before any mutation.
func (s *Coordinator) resolve(mid terrain.ModelID, pid geometry.PolygonID) (*terrain.Model, *geometry.Polygon, error) {
	m, ok := s.models[mid]
	if !ok {
		return nil, nil, &ScopeError{Kind: ModelNotFound, ID: string(mid)}
	}
	p, ok := s.polygons[pid]
	if !ok {
		return nil, nil, &ScopeError{Kind: PolygonNotFound, ID: string(pid)}
	}
	return m, p, nil
}

// ApplyTransformation resolves, validates and applies a transformation
// synchronously. On any error the model is untouched.
func (s *Coordinator) ApplyTransformation(t transform.Transformation) error {
	m, p, err := s.resolve(t.ModelID(), t.PolygonID())
	if err != nil {
		return err
	}
	if err := t.Validate(p); err != nil {
		return err
	}
	heights, err := t.Apply(m.Grid, p, s)
	if err != nil {
		return err
	}
	return m.Grid.SetHeights(heights)
}

// ApplyInterpolation resolves, validates and applies an interpolation
// synchronously. On any error the model is untouched.
func (s *Coordinator) ApplyInterpolation(in interp.Interpolation) error {
	m, p, err := s.resolve(in.ModelID(), in.PolygonID())
	if err != nil {
		return err
	}
	if err := in.Validate(p); err != nil {
		return err
	}
	heights, err := in.Apply(m.Grid, p)
	if err != nil {
		return err
	}
	return m.Grid.SetHeights(heights)
}

// SubmitTransformation validates up front and schedules the array work
// on the pool. The new array is swapped into the model when the handle
// completes in DrainCompleted.
func (s *Coordinator) SubmitTransformation(t transform.Transformation) (*Handle, error) {
	m, p, err := s.resolve(t.ModelID(), t.PolygonID())
	if err != nil {
		return nil, err
	}
	if err := t.Validate(p); err != nil {
		return nil, err
	}
	grid := m.Grid
	return s.pool.Submit(
		func() ([]float32, error) { return t.Apply(grid, p, s) },
		func(heights []float32) error { return grid.SetHeights(heights) },
	), nil
}

// SubmitInterpolation validates up front and schedules the array work
// on the pool.
func (s *Coordinator) SubmitInterpolation(in interp.Interpolation) (*Handle, error) {
	m, p, err := s.resolve(in.ModelID(), in.PolygonID())
	if err != nil {
		return nil, err
	}
	if err := in.Validate(p); err != nil {
		return nil, err
	}
	grid := m.Grid
	return s.pool.Submit(
		func() ([]float32, error) { return in.Apply(grid, p) },
		func(heights []float32) error { return grid.SetHeights(heights) },
	), nil
}

// DrainCompleted commits every finished unit of work and returns its
// handles. This is the single-threaded completion point: array swaps
// happen here and nowhere else.
func (s *Coordinator) DrainCompleted() []*Handle {
	return s.pool.DrainCompleted()
}

// MaxMinHeight reduces the cells strictly inside the polygon (within
// its padded bounding box) to their extremes, ignoring missing values.
// An empty selection yields (NaN, NaN).
func (s *Coordinator) MaxMinHeight(mid terrain.ModelID, pid geometry.PolygonID) (max, min float32, err error) {
	m, p, err := s.resolve(mid, pid)
	if err != nil {
		return 0, 0, err
	}
	if p.Len() < 3 {
		return math32.NaN(), math32.NaN(), nil
	}
	minX, minY, maxX, maxY := p.Bounds()
	box := m.Grid.BoundingBox(minX, maxX, minY, maxY)
	if box.Empty() {
		return math32.NaN(), math32.NaN(), nil
	}
	cut := m.Grid.Cut(box)
	mask := geometry.Mask(cut, p)
	max, min = terrain.MaxMin(cut.Heights, mask)
	return max, min, nil
}

// ChangeDrawPriority moves the model or polygon with the given id to
// newIndex in the draw order. The index is clamped to the valid range.
func (s *Coordinator) ChangeDrawPriority(id string, newIndex int) error {
	cur := -1
	for i, did := range s.drawOrder {
		if did == id {
			cur = i
			break
		}
	}
	if cur < 0 {
		return &ScopeError{Kind: DrawIDNotFound, ID: id}
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(s.drawOrder)-1 {
		newIndex = len(s.drawOrder) - 1
	}
	s.drawOrder = append(s.drawOrder[:cur], s.drawOrder[cur+1:]...)
	s.drawOrder = append(s.drawOrder[:newIndex],
		append([]string{id}, s.drawOrder[newIndex:]...)...)
	return nil
}

// DrawOrder returns the current back-to-front draw order.
func (s *Coordinator) DrawOrder() []string {
	return append([]string(nil), s.drawOrder...)
}
