package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer/components"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	WebGL
	Headless
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case WebGL:
		return "webgl"
	case Headless:
		return "headless"
	default:
		return "unknown"
	}
}

type FrameState uint8

const (
	FrameStateIdle FrameState = iota
	FrameStateInFrame
)

func (s FrameState) String() string {
	if s == FrameStateInFrame {
		return "in-frame"
	}
	return "idle"
}

// Pass is one program switch: the program and everything it draws.
type Pass struct {
	Program   *ShaderProgram
	Drawables []Drawable
}

// Renderer owns the per-frame state: clear color, uniform color, the
// accumulated shader time and the viewport size.
type Renderer struct {
	ctx   Context
	clock *core.Clock

	state      FrameState
	clearColor mgl32.Vec4
	color      mgl32.Vec4

	time        float64
	lastElapsed float64

	width, height int
}

type Option func(r *Renderer)

// WithClock replaces the wall clock used to advance the time uniform.
func WithClock(clock *core.Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

func WithClearColor(c mgl32.Vec4) Option {
	return func(r *Renderer) {
		r.clearColor = c
	}
}

func New(ctx Context, opts ...Option) *Renderer {
	r := &Renderer{
		ctx:        ctx,
		clock:      core.NewClock(),
		clearColor: mgl32.Vec4{0.2, 0.2, 0.2, 1},
		color:      math.ColorFrom255([3]int{255, 0, 0}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.clock.Start()
	ctx.EnableDepthTest()
	return r
}

func (r *Renderer) Context() Context {
	return r.ctx
}

func (r *Renderer) State() FrameState {
	return r.state
}

// Time is the accumulated frame time in seconds pushed to u_Time.
func (r *Renderer) Time() float32 {
	return float32(r.time)
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	r.clearColor = mgl32.Vec4{red, green, blue, alpha}
}

func (r *Renderer) ClearColor() mgl32.Vec4 {
	return r.clearColor
}

// SetUniformColor sets the color pushed to u_Color from 8-bit channels.
// Only uniform state changes; no buffer is touched.
func (r *Renderer) SetUniformColor(rgb [3]int) {
	r.color = math.ColorFrom255(rgb)
}

func (r *Renderer) UniformColor() mgl32.Vec4 {
	return r.color
}

// Resize sets the viewport and the camera projection. It is applied
// immediately so the next BeginFrame clears at the new size.
func (r *Renderer) Resize(width, height int, camera *components.Camera) error {
	if width <= 0 || height <= 0 {
		return core.InvalidParameter("resize to %dx%d", width, height)
	}
	r.width, r.height = width, height
	r.ctx.Viewport(0, 0, width, height)
	if camera != nil {
		camera.SetAspectRatio(float32(width) / float32(height))
		camera.UpdateProjectionMatrix()
	}
	core.LogDebug("renderer resized to %dx%d", width, height)
	return nil
}

// BeginFrame advances the time accumulator by the wall clock delta since
// the previous frame and clears color and depth.
func (r *Renderer) BeginFrame() error {
	if r.state != FrameStateIdle {
		return fmt.Errorf("%w: BeginFrame while %s", core.ErrFrameState, r.state)
	}

	r.clock.Update()
	elapsed := r.clock.Elapsed()
	if delta := elapsed - r.lastElapsed; delta > 0 {
		r.time += delta
	}
	r.lastElapsed = elapsed

	r.ctx.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	r.ctx.Clear()
	r.state = FrameStateInFrame
	return nil
}

// Render draws every pass with the camera's view projection. Each pass
// receives identity model, viewProj, color and time once, then draws its
// drawables in order.
func (r *Renderer) Render(camera *components.Camera, passes ...Pass) error {
	if r.state != FrameStateInFrame {
		return fmt.Errorf("%w: Render while %s", core.ErrFrameState, r.state)
	}
	if camera == nil {
		return core.InvalidParameter("render without a camera")
	}

	viewProj := camera.ViewProj()
	model := mgl32.Ident4()
	t := r.Time()

	for _, pass := range passes {
		if pass.Program == nil {
			return core.InvalidParameter("pass without a program")
		}
		pass.Program.SetModelMatrix(model)
		pass.Program.SetViewProjMatrix(viewProj)
		pass.Program.SetGeometryColor(r.color)
		pass.Program.SetTime(t)
		for _, d := range pass.Drawables {
			if err := pass.Program.Draw(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) EndFrame() error {
	if r.state != FrameStateInFrame {
		return fmt.Errorf("%w: EndFrame while %s", core.ErrFrameState, r.state)
	}
	r.state = FrameStateIdle
	return nil
}

// DrawFrame runs BeginFrame, Render and EndFrame.
func (r *Renderer) DrawFrame(camera *components.Camera, passes ...Pass) error {
	if err := r.BeginFrame(); err != nil {
		core.LogError("%s", err)
		return err
	}
	if err := r.Render(camera, passes...); err != nil {
		core.LogError("render failed: %s", err)
		// leave the state machine usable for the next frame
		_ = r.EndFrame()
		return err
	}
	if err := r.EndFrame(); err != nil {
		core.LogError("EndFrame failed: %s", err)
		return err
	}
	return nil
}
