package shapes

import "github.com/anthropics/go-tracer-core/pkg/core"

// Vertex is one corner of a triangle mesh: position plus the
// interpolated shading attributes spec §4.C attaches to a SurfaceInteraction.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
	UV       core.Vec2
}

// Mesh is an indexed triangle mesh: a flat vertex buffer and a flat
// index buffer read in triples, per spec §3's mesh data model. Triangle
// values reference a Mesh rather than copying its vertices, so loaders
// (pkg/loaders) can build one Mesh and hand out many lightweight
// Triangle shapes over it.
type Mesh struct {
	Vertices []Vertex
	Indices  []int32
}

// NewMesh creates a Mesh from vertex and index buffers. len(indices)
// must be a multiple of 3.
func NewMesh(vertices []Vertex, indices []int32) *Mesh {
	return &Mesh{Vertices: vertices, Indices: indices}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Triangles returns a Triangle shape for every face in the mesh.
func (m *Mesh) Triangles() []Shape {
	tris := make([]Shape, m.TriangleCount())
	for i := range tris {
		tris[i] = &Triangle{mesh: m, face: i}
	}
	return tris
}
