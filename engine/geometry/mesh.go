package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/tessera/engine/core"
)

// ComponentsPerVertex is the number of floats stored per position or normal.
const ComponentsPerVertex = 4

// Mesh is an indexed triangle list. Positions are homogeneous points
// (w=1), normals are directions (w=0).
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// Shape produces a Mesh from its own parameters. Implementations are pure:
// generating twice yields identical arrays.
type Shape interface {
	Name() string
	Generate() (*Mesh, error)
}

func newMesh(vertexCount, indexCount int) *Mesh {
	return &Mesh{
		Positions: make([]float32, vertexCount*ComponentsPerVertex),
		Normals:   make([]float32, vertexCount*ComponentsPerVertex),
		Indices:   make([]uint32, indexCount),
	}
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / ComponentsPerVertex
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) setVertex(i int, position, normal mgl32.Vec3) {
	j := i * ComponentsPerVertex
	m.Positions[j] = position.X()
	m.Positions[j+1] = position.Y()
	m.Positions[j+2] = position.Z()
	m.Positions[j+3] = 1

	m.Normals[j] = normal.X()
	m.Normals[j+1] = normal.Y()
	m.Normals[j+2] = normal.Z()
	m.Normals[j+3] = 0
}

// Position returns the xyz part of vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	j := i * ComponentsPerVertex
	return mgl32.Vec3{m.Positions[j], m.Positions[j+1], m.Positions[j+2]}
}

// Normal returns the xyz part of the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	j := i * ComponentsPerVertex
	return mgl32.Vec3{m.Normals[j], m.Normals[j+1], m.Normals[j+2]}
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (uint32, uint32, uint32) {
	return m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
}

// Validate checks the structural invariants every uploaded mesh must hold.
func (m *Mesh) Validate() error {
	if m == nil {
		return core.InvalidParameter("mesh is nil")
	}
	if len(m.Positions)%ComponentsPerVertex != 0 {
		return core.InvalidParameter("positions length %d is not a multiple of %d", len(m.Positions), ComponentsPerVertex)
	}
	if len(m.Normals) != len(m.Positions) {
		return core.InvalidParameter("normals length %d does not match positions length %d", len(m.Normals), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return core.InvalidParameter("index count %d is not a multiple of 3", len(m.Indices))
	}
	vertexCount := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= vertexCount {
			return core.InvalidParameter("index %d at %d out of range (vertices=%d)", idx, i, vertexCount)
		}
	}
	return nil
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh{vertices=%d triangles=%d}", m.VertexCount(), m.TriangleCount())
}
