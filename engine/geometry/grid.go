package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/tessera/engine/core"
)

// Grid is a square lattice in the XZ plane facing +Y.
type Grid struct {
	Center     mgl32.Vec3
	SideLength float32
	// Resolution is the number of cells along one side.
	Resolution int
}

func NewGrid(center mgl32.Vec3, sideLength float32, resolution int) *Grid {
	return &Grid{
		Center:     center,
		SideLength: sideLength,
		Resolution: resolution,
	}
}

func (g *Grid) Name() string {
	return "grid"
}

func (g *Grid) Generate() (*Mesh, error) {
	if g.Resolution <= 0 {
		return nil, core.InvalidParameter("grid resolution must be >= 1, got %d", g.Resolution)
	}
	if !(g.SideLength > 0) || math32.IsInf(g.SideLength, 0) {
		return nil, core.InvalidParameter("grid side length must be > 0, got %v", g.SideLength)
	}

	vertsPerSide := g.Resolution + 1
	totalVerts := vertsPerSide * vertsPerSide
	corner := mgl32.Vec3{
		g.Center.X() - g.SideLength/2,
		g.Center.Y(),
		g.Center.Z() - g.SideLength/2,
	}
	dx := g.SideLength / float32(g.Resolution)
	up := mgl32.Vec3{0, 1, 0}

	mesh := newMesh(totalVerts, g.Resolution*g.Resolution*6)
	for i := 0; i < totalVerts; i++ {
		position := mgl32.Vec3{
			corner.X() + float32(i%vertsPerSide)*dx,
			corner.Y(),
			corner.Z() + float32(i/vertsPerSide)*dx,
		}
		mesh.setVertex(i, position, up)
	}

	idx := func(x, z int) uint32 {
		return uint32(z*vertsPerSide + x)
	}
	next := 0
	// up to but not including last vertex on a side
	for x := 0; x < g.Resolution; x++ {
		for z := 0; z < g.Resolution; z++ {
			mesh.Indices[next] = idx(x, z)
			mesh.Indices[next+1] = idx(x, z+1)
			mesh.Indices[next+2] = idx(x+1, z)

			mesh.Indices[next+3] = idx(x+1, z)
			mesh.Indices[next+4] = idx(x, z+1)
			mesh.Indices[next+5] = idx(x+1, z+1)
			next += 6
		}
	}
	return mesh, nil
}
