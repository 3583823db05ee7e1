package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/filter"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/interp"
	"github.com/mjard/relief/pkg/mesh"
	"github.com/mjard/relief/pkg/scene"
	"github.com/mjard/relief/pkg/script"
	"github.com/mjard/relief/pkg/terrain"
	"github.com/mjard/relief/pkg/transform"
)

// colorPalette assigns distinct colors to terrain models in the viewport.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// outlineColor is the fixed color for polygon outlines.
const outlineColor = "#F5F5F5"

// App is the Wails backend. It exposes the scene coordinator and the
// Lisp console to the frontend via bindings. Wails serializes binding
// calls, which satisfies the coordinator's single-caller requirement.
type App struct {
	ctx    context.Context
	coord  *scene.Coordinator
	engine *script.Engine
}

// NewApp creates a new App with a scene coordinator and script engine.
func NewApp() *App {
	coord := scene.New(scene.Config{})
	return &App{
		coord:  coord,
		engine: script.NewEngine(coord),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown stops the coordinator's worker pool.
func (a *App) shutdown(ctx context.Context) {
	a.coord.Close()
}

// ---------------------------------------------------------------------------
// Frontend payload types
// ---------------------------------------------------------------------------

// GridPayload is an imported height raster. Axes are strictly ascending
// coordinates; heights are row-major, rows*cols values. Cells equal to
// MissingValue (when set) are stored as missing, since JSON cannot
// carry NaN.
type GridPayload struct {
	Name         string    `json:"name"`
	X            []float64 `json:"x"`
	Y            []float64 `json:"y"`
	Heights      []float64 `json:"heights"`
	MissingValue *float64  `json:"missingValue,omitempty"`
}

// FilterPayload is one cell filter in a chain.
type FilterPayload struct {
	Kind    string  `json:"kind"` // height-below, height-above, inside, outside
	Limit   float64 `json:"limit,omitempty"`
	Polygon string  `json:"polygon,omitempty"`
}

// LinearPayload requests a linear height remap inside a polygon.
type LinearPayload struct {
	Model   string          `json:"model"`
	Polygon string          `json:"polygon"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
	Filters []FilterPayload `json:"filters,omitempty"`
}

// FillMissingPayload requests clearing cells inside a polygon.
type FillMissingPayload struct {
	Model   string          `json:"model"`
	Polygon string          `json:"polygon"`
	Filters []FilterPayload `json:"filters,omitempty"`
}

// InterpolationPayload requests re-interpolation of a polygon's buffer
// ring. Method is one of linear, nearest, cubic, smooth.
type InterpolationPayload struct {
	Model    string  `json:"model"`
	Polygon  string  `json:"polygon"`
	Method   string  `json:"method"`
	Distance float64 `json:"distance"`
}

// HeightRange is the result of a max/min query. Empty is set when no
// cell lies inside the polygon, since JSON cannot carry NaN.
type HeightRange struct {
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Empty bool    `json:"empty"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// Outlines carry vertices only and an empty index list; the frontend
// renders them as line strips.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	ID       string    `json:"id"`
	Color    string    `json:"color"`
	Outline  bool      `json:"outline"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the console evaluation result returned to the frontend.
type EvalResult struct {
	Output string          `json:"output"`
	Errors []EvalErrorData `json:"errors"`
}

// ---------------------------------------------------------------------------
// Model and polygon bindings
// ---------------------------------------------------------------------------

// ImportGrid registers a height raster and returns its model id.
func (a *App) ImportGrid(p GridPayload) (string, error) {
	x := toFloat32s(p.X)
	y := toFloat32s(p.Y)
	heights := toFloat32s(p.Heights)
	if p.MissingValue != nil {
		sentinel := float32(*p.MissingValue)
		for i, h := range heights {
			if h == sentinel {
				heights[i] = terrain.Missing()
			}
		}
	}
	g, err := terrain.NewGrid(x, y, heights)
	if err != nil {
		return "", err
	}
	id := a.coord.AddModel(p.Name, g)
	return string(id), nil
}

// RemoveModel deletes a grid model.
func (a *App) RemoveModel(id string) error {
	return a.coord.RemoveModel(terrain.ModelID(id))
}

// CreatePolygon registers a new empty polygon and returns its id.
func (a *App) CreatePolygon(name string) string {
	return string(a.coord.CreatePolygon(name).ID)
}

// AddPolygonPoint appends a vertex to a polygon. Rejected points
// (repeats, self-intersections) leave the polygon unchanged.
func (a *App) AddPolygonPoint(id string, x, y float64) error {
	p, ok := a.coord.Polygon(geometry.PolygonID(id))
	if !ok {
		return fmt.Errorf("polygon %s not found", id)
	}
	return p.Add(float32(x), float32(y))
}

// RemovePolygonPoint drops a polygon's most recent vertex.
func (a *App) RemovePolygonPoint(id string) error {
	p, ok := a.coord.Polygon(geometry.PolygonID(id))
	if !ok {
		return fmt.Errorf("polygon %s not found", id)
	}
	p.RemoveLast()
	return nil
}

// DeletePolygon removes a polygon.
func (a *App) DeletePolygon(id string) error {
	return a.coord.DeletePolygon(geometry.PolygonID(id))
}

// ChangeDrawPriority moves a model or polygon in the draw order.
func (a *App) ChangeDrawPriority(id string, index int) error {
	return a.coord.ChangeDrawPriority(id, index)
}

// ---------------------------------------------------------------------------
// Editing bindings
// ---------------------------------------------------------------------------

// ApplyLinear remaps the heights inside a polygon onto [min, max].
func (a *App) ApplyLinear(p LinearPayload) error {
	chain, err := toChain(p.Filters)
	if err != nil {
		return err
	}
	return a.coord.ApplyTransformation(transform.Linear{
		Model:     terrain.ModelID(p.Model),
		Polygon:   geometry.PolygonID(p.Polygon),
		MinHeight: float32(p.Min),
		MaxHeight: float32(p.Max),
		Filters:   chain,
	})
}

// ApplyFillMissing clears the cells inside a polygon.
func (a *App) ApplyFillMissing(p FillMissingPayload) error {
	chain, err := toChain(p.Filters)
	if err != nil {
		return err
	}
	return a.coord.ApplyTransformation(transform.FillMissing{
		Model:   terrain.ModelID(p.Model),
		Polygon: geometry.PolygonID(p.Polygon),
		Filters: chain,
	})
}

// ApplyInterpolation re-interpolates the buffer ring around a polygon.
func (a *App) ApplyInterpolation(p InterpolationPayload) error {
	method, err := interp.ParseMethod(p.Method)
	if err != nil {
		return err
	}
	return a.coord.ApplyInterpolation(interp.Interpolation{
		Model:    terrain.ModelID(p.Model),
		Polygon:  geometry.PolygonID(p.Polygon),
		Method:   method,
		Distance: float32(p.Distance),
	})
}

// MaxMin reports the height extremes inside a polygon.
func (a *App) MaxMin(model, polygon string) (HeightRange, error) {
	max, min, err := a.coord.MaxMinHeight(terrain.ModelID(model), geometry.PolygonID(polygon))
	if err != nil {
		return HeightRange{}, err
	}
	if math32.IsNaN(max) {
		return HeightRange{Empty: true}, nil
	}
	return HeightRange{Max: float64(max), Min: float64(min)}, nil
}

// ---------------------------------------------------------------------------
// Rendering and console bindings
// ---------------------------------------------------------------------------

// Scene tessellates every model and polygon outline in draw order.
func (a *App) Scene() []MeshData {
	out := []MeshData{}
	i := 0
	for _, m := range a.coord.Models() {
		tm := mesh.FromModel(m)
		out = append(out, MeshData{
			Vertices: tm.Vertices,
			Normals:  tm.Normals,
			Indices:  tm.Indices,
			Name:     tm.Name,
			ID:       string(m.ID),
			Color:    colorPalette[i%len(colorPalette)],
		})
		i++
	}
	for _, p := range a.coord.Polygons() {
		om := mesh.FromPolygon(p)
		out = append(out, MeshData{
			Vertices: om.Vertices,
			Normals:  om.Normals,
			Indices:  om.Indices,
			Name:     om.Name,
			ID:       string(p.ID),
			Color:    outlineColor,
			Outline:  true,
		})
	}
	return out
}

// Evaluate runs Lisp console source against the scene. Fatal errors
// (panic, timeout) are reported as a position-less eval error.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	out, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	result.Output = out
	return result
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toFloat32s(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toChain(in []FilterPayload) (filter.Chain, error) {
	var chain filter.Chain
	for _, f := range in {
		switch f.Kind {
		case "height-below":
			chain = append(chain, filter.NewHeightBelow(float32(f.Limit)))
		case "height-above":
			chain = append(chain, filter.NewHeightAbove(float32(f.Limit)))
		case "inside":
			chain = append(chain, filter.NewInside(geometry.PolygonID(f.Polygon)))
		case "outside":
			chain = append(chain, filter.NewOutside(geometry.PolygonID(f.Polygon)))
		default:
			return nil, fmt.Errorf("unknown filter kind %q", f.Kind)
		}
	}
	return chain, nil
}
