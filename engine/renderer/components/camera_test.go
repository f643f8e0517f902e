package components

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	assert.Equal(t, float32(DefaultFovY), c.FovY)
	assert.Equal(t, float32(DefaultNear), c.Near)
	assert.Equal(t, float32(DefaultFar), c.Far)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up)
	assert.Equal(t, mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), c.View())
}

func TestCameraViewProjOrder(t *testing.T) {
	c := NewCamera(mgl32.Vec3{3, 2, 5}, mgl32.Vec3{})
	c.SetAspectRatio(16.0 / 9.0)
	c.UpdateProjectionMatrix()

	// the target projects to the center of clip space
	p := c.ViewProj().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X()/p.W(), 1e-5)
	assert.InDelta(t, 0, p.Y()/p.W(), 1e-5)
	assert.Equal(t, c.Projection().Mul4(c.View()), c.ViewProj())
}

func TestCameraAspectRatioIgnoresInvalid(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	c.SetAspectRatio(2)
	c.SetAspectRatio(0)
	c.SetAspectRatio(-1)
	assert.Equal(t, float32(2), c.AspectRatio)
}

func TestCameraSetPositionMarksDirty(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	c.SetPosition(mgl32.Vec3{0, 0, 10})
	assert.True(t, c.IsDirty)
	assert.Equal(t, mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), c.View())
	assert.False(t, c.IsDirty)
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	c.Orbit(mgl32.DegToRad(90), 0)
	assert.InDelta(t, 5, c.Distance(), 1e-4)
	assert.InDelta(t, 5, c.Position.X(), 1e-4)
	assert.InDelta(t, 0, c.Position.Z(), 1e-4)
}

func TestCameraOrbitClampsPitch(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	c.Orbit(0, mgl32.DegToRad(180))
	elevation := mgl32.RadToDeg(math32.Asin(c.Position.Y() / c.Distance()))
	assert.InDelta(t, 89, elevation, 1e-2)
	assert.InDelta(t, 5, c.Distance(), 1e-4)
}

func TestCameraZoomStopsBeforeTarget(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	c.Zoom(2)
	assert.InDelta(t, 3, c.Distance(), 1e-5)
	c.Zoom(100)
	assert.InDelta(t, 2*DefaultNear, c.Distance(), 1e-5)
	c.Zoom(-10)
	assert.InDelta(t, 10+2*DefaultNear, c.Distance(), 1e-4)
}
