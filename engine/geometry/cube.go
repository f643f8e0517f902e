package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/tessera/engine/core"
)

// Cube is an axis aligned box with flat shaded faces.
type Cube struct {
	Center     mgl32.Vec3
	SideLength float32
}

func NewCube(center mgl32.Vec3, sideLength float32) *Cube {
	return &Cube{
		Center:     center,
		SideLength: sideLength,
	}
}

func (c *Cube) Name() string {
	return "cube"
}

// cubeFace is described by its outward normal and two in-plane axes with
// u x v == normal, so corners walked -u-v, +u-v, +u+v, -u+v wind
// counter-clockwise from outside.
type cubeFace struct {
	normal, u, v mgl32.Vec3
}

var cubeFaces = [6]cubeFace{
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},   // front
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}}, // back
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},  // right
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},  // left
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},  // top
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},  // bottom
}

func (c *Cube) Generate() (*Mesh, error) {
	if !(c.SideLength > 0) || math32.IsInf(c.SideLength, 0) {
		return nil, core.InvalidParameter("cube side length must be > 0, got %v", c.SideLength)
	}

	half := c.SideLength / 2
	mesh := newMesh(4*6, 6*6)
	for f, face := range cubeFaces {
		base := c.Center.Add(face.normal.Mul(half))
		corners := [4]mgl32.Vec3{
			base.Sub(face.u.Mul(half)).Sub(face.v.Mul(half)),
			base.Add(face.u.Mul(half)).Sub(face.v.Mul(half)),
			base.Add(face.u.Mul(half)).Add(face.v.Mul(half)),
			base.Sub(face.u.Mul(half)).Add(face.v.Mul(half)),
		}
		for i, p := range corners {
			mesh.setVertex(f*4+i, p, face.normal)
		}
		writeQuad(mesh, f*6, uint32(f*4))
	}
	return mesh, nil
}

// writeQuad emits the two triangles of a quad whose four corners start at
// vertex `first`, into the index slots starting at `at`.
func writeQuad(mesh *Mesh, at int, first uint32) {
	mesh.Indices[at] = first
	mesh.Indices[at+1] = first + 1
	mesh.Indices[at+2] = first + 2
	mesh.Indices[at+3] = first
	mesh.Indices[at+4] = first + 2
	mesh.Indices[at+5] = first + 3
}
