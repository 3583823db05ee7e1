// Package mesh converts grid models and polygons into flat triangle
// meshes for the frontend viewport. All arrays are flat: vertices and
// normals have 3 floats per vertex, indices have 3 uint32s per
// triangle.
package mesh

import (
	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/terrain"
)

// Mesh is a triangle mesh suitable for rendering.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// FromModel triangulates a grid model into a height surface: one vertex
// per cell, two triangles per quad. Quads touching a missing cell are
// skipped, leaving holes where the grid has no data.
func FromModel(m *terrain.Model) *Mesh {
	g := m.Grid
	rows, cols := g.Rows(), g.Cols()
	out := &Mesh{Name: m.Name}

	out.Vertices = make([]float32, 0, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			h := g.Height(r, c)
			if terrain.IsMissing(h) {
				// Placeholder vertex; never referenced by an index.
				h = 0
			}
			out.Vertices = append(out.Vertices, g.X(c), g.Y(r), h)
		}
	}
	out.Normals = normals(g)

	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			if terrain.IsMissing(g.Height(r, c)) ||
				terrain.IsMissing(g.Height(r, c+1)) ||
				terrain.IsMissing(g.Height(r+1, c)) ||
				terrain.IsMissing(g.Height(r+1, c+1)) {
				continue
			}
			i := uint32(r*cols + c)
			j := uint32((r+1)*cols + c)
			out.Indices = append(out.Indices,
				i, i+1, j,
				i+1, j+1, j,
			)
		}
	}
	return out
}

// normals estimates per-vertex normals from central height differences,
// falling back to one-sided differences at the edges and to straight up
// next to missing cells.
func normals(g *terrain.Grid) []float32 {
	rows, cols := g.Rows(), g.Cols()
	out := make([]float32, 0, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dx, okX := slope(g.Height(r, clamp(c-1, cols)), g.Height(r, clamp(c+1, cols)),
				g.X(clamp(c+1, cols))-g.X(clamp(c-1, cols)))
			dy, okY := slope(g.Height(clamp(r-1, rows), c), g.Height(clamp(r+1, rows), c),
				g.Y(clamp(r+1, rows))-g.Y(clamp(r-1, rows)))
			if !okX || !okY {
				out = append(out, 0, 0, 1)
				continue
			}
			nx, ny, nz := -dx, -dy, float32(1)
			length := math32.Sqrt(nx*nx + ny*ny + nz*nz)
			out = append(out, nx/length, ny/length, nz/length)
		}
	}
	return out
}

func slope(a, b, span float32) (float32, bool) {
	if terrain.IsMissing(a) || terrain.IsMissing(b) || span == 0 {
		return 0, false
	}
	return (b - a) / span, true
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// FromPolygon emits a polygon outline as a line strip: vertices only,
// in draw order, closed back to the first point by the renderer.
func FromPolygon(p *geometry.Polygon) *Mesh {
	out := &Mesh{Name: p.Name}
	for _, v := range p.Vertices() {
		out.Vertices = append(out.Vertices, v.X, v.Y, v.Z)
	}
	return out
}
