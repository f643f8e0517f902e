package math

import "github.com/go-gl/mathgl/mgl32"

// FaceNormal returns the unnormalized normal of the triangle (p0, p1, p2)
// assuming counter-clockwise front faces.
func FaceNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	return edge1.Cross(edge2)
}

// FacesAlong reports whether the triangle (p0, p1, p2) winds counter-clockwise
// when seen from the side `dir` points to.
func FacesAlong(p0, p1, p2, dir mgl32.Vec3) bool {
	return FaceNormal(p0, p1, p2).Dot(dir) > 0
}
