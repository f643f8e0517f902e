package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/tessera/engine/core"
)

// Square is a single quad in the XY plane facing +Z.
type Square struct {
	Center     mgl32.Vec3
	SideLength float32
}

func NewSquare(center mgl32.Vec3, sideLength float32) *Square {
	return &Square{
		Center:     center,
		SideLength: sideLength,
	}
}

func (s *Square) Name() string {
	return "square"
}

func (s *Square) Generate() (*Mesh, error) {
	if !(s.SideLength > 0) || math32.IsInf(s.SideLength, 0) {
		return nil, core.InvalidParameter("square side length must be > 0, got %v", s.SideLength)
	}

	h := s.SideLength / 2
	normal := mgl32.Vec3{0, 0, 1}
	mesh := newMesh(4, 6)
	mesh.setVertex(0, s.Center.Add(mgl32.Vec3{-h, -h, 0}), normal)
	mesh.setVertex(1, s.Center.Add(mgl32.Vec3{h, -h, 0}), normal)
	mesh.setVertex(2, s.Center.Add(mgl32.Vec3{h, h, 0}), normal)
	mesh.setVertex(3, s.Center.Add(mgl32.Vec3{-h, h, 0}), normal)
	writeQuad(mesh, 0, 0)
	return mesh, nil
}
