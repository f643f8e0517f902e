package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/tessera/engine/core"
)

// MaxSubdivisions bounds the icosphere tessellation level.
const MaxSubdivisions = 8

// Icosphere is an icosahedron recursively subdivided and projected onto a
// sphere.
type Icosphere struct {
	Center       mgl32.Vec3
	Radius       float32
	Subdivisions int
}

func NewIcosphere(center mgl32.Vec3, radius float32, subdivisions int) *Icosphere {
	return &Icosphere{
		Center:       center,
		Radius:       radius,
		Subdivisions: subdivisions,
	}
}

func (s *Icosphere) Name() string {
	return "icosphere"
}

// IcosphereCounts returns the vertex and index counts for a subdivision level.
func IcosphereCounts(subdivisions int) (vertices, indices int) {
	faces := 20 << (2 * subdivisions)
	return faces/2 + 2, faces * 3
}

var (
	icosahedronT = (1 + math32.Sqrt(5)) / 2

	icosahedronVertices = [12]mgl32.Vec3{
		{-1, icosahedronT, 0}, {1, icosahedronT, 0}, {-1, -icosahedronT, 0}, {1, -icosahedronT, 0},
		{0, -1, icosahedronT}, {0, 1, icosahedronT}, {0, -1, -icosahedronT}, {0, 1, -icosahedronT},
		{icosahedronT, 0, -1}, {icosahedronT, 0, 1}, {-icosahedronT, 0, -1}, {-icosahedronT, 0, 1},
	}

	// counter-clockwise seen from outside
	icosahedronFaces = [20][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

type edgeKey struct {
	a, b uint32
}

func (s *Icosphere) Generate() (*Mesh, error) {
	if s.Subdivisions < 0 || s.Subdivisions > MaxSubdivisions {
		return nil, core.InvalidParameter("icosphere subdivisions must be in [0, %d], got %d", MaxSubdivisions, s.Subdivisions)
	}
	if !(s.Radius > 0) || math32.IsInf(s.Radius, 0) {
		return nil, core.InvalidParameter("icosphere radius must be > 0, got %v", s.Radius)
	}

	vertexCount, indexCount := IcosphereCounts(s.Subdivisions)
	unit := make([]mgl32.Vec3, 0, vertexCount)
	for _, v := range icosahedronVertices {
		unit = append(unit, v.Normalize())
	}
	faces := make([][3]uint32, 0, indexCount/3)
	faces = append(faces, icosahedronFaces[:]...)

	for level := 0; level < s.Subdivisions; level++ {
		midpoints := make(map[edgeKey]uint32, len(faces)*3/2)
		midpoint := func(a, b uint32) uint32 {
			key := edgeKey{a, b}
			if b < a {
				key = edgeKey{b, a}
			}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			idx := uint32(len(unit))
			unit = append(unit, unit[a].Add(unit[b]).Normalize())
			midpoints[key] = idx
			return idx
		}

		next := make([][3]uint32, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]uint32{f[0], ab, ca},
				[3]uint32{f[1], bc, ab},
				[3]uint32{f[2], ca, bc},
				[3]uint32{ab, bc, ca},
			)
		}
		faces = next
	}

	mesh := newMesh(len(unit), len(faces)*3)
	for i, n := range unit {
		mesh.setVertex(i, s.Center.Add(n.Mul(s.Radius)), n)
	}
	for i, f := range faces {
		copy(mesh.Indices[i*3:i*3+3], f[:])
	}
	return mesh, nil
}
