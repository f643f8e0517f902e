package components

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/math"
)

const (
	DefaultFovY = 45.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// pitchLimit is 89 degrees; LookAt degenerates at the poles.
var pitchLimit = mgl32.DegToRad(89)

/**
 * @brief A look-at perspective camera. The view matrix is derived from
 * Position, Target and Up; the projection from FovY, AspectRatio, Near and Far.
 */
type Camera struct {
	/**
	 * @brief The eye position.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	// FovY is the vertical field of view in degrees.
	FovY        float32
	AspectRatio float32
	Near        float32
	Far         float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty          bool
	ViewMatrix       mgl32.Mat4
	ProjectionMatrix mgl32.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera(position, target mgl32.Vec3) *Camera {
	c := &Camera{
		Position:    position,
		Target:      target,
		Up:          mgl32.Vec3{0, 1, 0},
		FovY:        DefaultFovY,
		AspectRatio: 1,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
	c.Update()
	c.UpdateProjectionMatrix()
	return c
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// SetAspectRatio does not rebuild the projection; call
// UpdateProjectionMatrix afterwards.
func (c *Camera) SetAspectRatio(aspect float32) {
	if aspect > 0 && !math32.IsInf(aspect, 0) {
		c.AspectRatio = aspect
	}
}

func (c *Camera) UpdateProjectionMatrix() {
	c.ProjectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.AspectRatio, c.Near, c.Far)
}

// Update rebuilds the view matrix from the eye, target and up vectors.
func (c *Camera) Update() {
	c.ViewMatrix = mgl32.LookAtV(c.Position, c.Target, c.Up)
	c.IsDirty = false
}

func (c *Camera) View() mgl32.Mat4 {
	if c.IsDirty {
		c.Update()
	}
	return c.ViewMatrix
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.ProjectionMatrix
}

// ViewProj is projection * view, the order shaders expect for
// u_ViewProj * u_Model * vs_Pos.
func (c *Camera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

func (c *Camera) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}

// Orbit rotates the eye around the target by yaw and pitch radians. The
// resulting elevation is clamped to +-89 degrees.
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}

	azimuth := math32.Atan2(offset.X(), offset.Z()) + yaw
	elevation := math32.Asin(math.Clamp(offset.Y()/radius, -1, 1)) + pitch
	elevation = math.Clamp(elevation, -pitchLimit, pitchLimit)

	cosE := math32.Cos(elevation)
	c.Position = c.Target.Add(mgl32.Vec3{
		radius * cosE * math32.Sin(azimuth),
		radius * math32.Sin(elevation),
		radius * cosE * math32.Cos(azimuth),
	})
	c.IsDirty = true
}

// Zoom moves the eye toward the target by amount. The eye never gets
// closer than the near plane.
func (c *Camera) Zoom(amount float32) {
	offset := c.Position.Sub(c.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}
	minRadius := c.Near * 2
	next := radius - amount
	if next < minRadius {
		next = minRadius
	}
	c.Position = c.Target.Add(offset.Mul(next / radius))
	c.IsDirty = true
}
