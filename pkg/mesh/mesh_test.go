package mesh_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/mesh"
	"github.com/mjard/relief/pkg/terrain"
)

func model(t *testing.T, rows, cols int, heights []float32) *terrain.Model {
	t.Helper()
	x := make([]float32, cols)
	y := make([]float32, rows)
	for i := range x {
		x[i] = float32(i)
	}
	for i := range y {
		y[i] = float32(i)
	}
	if heights == nil {
		heights = make([]float32, rows*cols)
	}
	g, err := terrain.NewGrid(x, y, heights)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return &terrain.Model{ID: terrain.NewModelID(), Name: "m", Grid: g}
}

func TestFromModelCounts(t *testing.T) {
	m := mesh.FromModel(model(t, 3, 4, nil))
	if m.VertexCount() != 12 {
		t.Errorf("VertexCount = %d, want 12", m.VertexCount())
	}
	// 2x3 quads, two triangles each.
	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", m.TriangleCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	if m.IsEmpty() {
		t.Error("IsEmpty on a populated mesh")
	}
}

func TestFromModelVertexLayout(t *testing.T) {
	heights := []float32{1, 2, 3, 4} // 2x2
	m := mesh.FromModel(model(t, 2, 2, heights))
	// Vertex for cell (r=1, c=0) is (x=0, y=1, h=3).
	i := (1*2 + 0) * 3
	if m.Vertices[i] != 0 || m.Vertices[i+1] != 1 || m.Vertices[i+2] != 3 {
		t.Errorf("vertex = (%g, %g, %g), want (0, 1, 3)",
			m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2])
	}
}

func TestFromModelSkipsMissingQuads(t *testing.T) {
	heights := make([]float32, 9) // 3x3, 4 quads
	heights[4] = terrain.Missing() // center cell touches all 4 quads
	m := mesh.FromModel(model(t, 3, 3, heights))

	if m.TriangleCount() != 0 {
		t.Errorf("TriangleCount = %d, want 0 with center missing", m.TriangleCount())
	}
	// The placeholder vertex exists but must never be indexed.
	if m.VertexCount() != 9 {
		t.Errorf("VertexCount = %d, want 9", m.VertexCount())
	}
	for _, idx := range m.Indices {
		if idx == 4 {
			t.Error("missing cell's vertex is referenced by an index")
		}
	}
}

func TestFromModelFlatNormalsPointUp(t *testing.T) {
	m := mesh.FromModel(model(t, 3, 3, nil))
	for v := 0; v < m.VertexCount(); v++ {
		nx, ny, nz := m.Normals[v*3], m.Normals[v*3+1], m.Normals[v*3+2]
		if nx != 0 || ny != 0 || math32.Abs(nz-1) > 1e-6 {
			t.Errorf("vertex %d normal = (%g, %g, %g), want (0, 0, 1)", v, nx, ny, nz)
		}
	}
}

func TestFromModelSlopedNormals(t *testing.T) {
	// Plane h = x: normals tilt against +x and stay unit length.
	heights := []float32{0, 1, 2, 0, 1, 2, 0, 1, 2}
	m := mesh.FromModel(model(t, 3, 3, heights))
	for v := 0; v < m.VertexCount(); v++ {
		nx, ny, nz := m.Normals[v*3], m.Normals[v*3+1], m.Normals[v*3+2]
		if nx >= 0 {
			t.Errorf("vertex %d: nx = %g, want negative on an uphill-x plane", v, nx)
		}
		if ny != 0 {
			t.Errorf("vertex %d: ny = %g, want 0", v, ny)
		}
		length := math32.Sqrt(nx*nx + ny*ny + nz*nz)
		if math32.Abs(length-1) > 1e-5 {
			t.Errorf("vertex %d: |n| = %g, want 1", v, length)
		}
	}
}

func TestFromPolygon(t *testing.T) {
	p := geometry.New("outline", 0.1)
	for _, pt := range [][2]float32{{0, 0}, {4, 0}, {4, 4}} {
		if err := p.Add(pt[0], pt[1]); err != nil {
			t.Fatal(err)
		}
	}
	m := mesh.FromPolygon(p)
	if m.Name != "outline" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount = %d, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 0 {
		t.Error("outline mesh should carry no triangles")
	}
	if m.Vertices[2] != 0.1 {
		t.Errorf("draw height = %g, want 0.1", m.Vertices[2])
	}
}
