package testbed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/components"
	"github.com/spaghettifunk/tessera/engine/systems"
)

const (
	orbitSpeed = 0.01
	zoomSpeed  = 0.5
)

// Names of the drawables registered with the geometry system.
const (
	CubeName      = "cube"
	IcosphereName = "icosphere"
	SquareName    = "square"
	GridName      = "grid"
)

var (
	cubeCenter      = mgl32.Vec3{0, 0, 0}
	icosphereCenter = mgl32.Vec3{3, 0, 0}
	squareCenter    = mgl32.Vec3{-2, 0, 0}
	gridCenter      = mgl32.Vec3{0, -1.5, 0}
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	Controls    *Controls
	WorldCamera *components.Camera

	prevTessellation int
	width            int
	height           int

	sm     *systems.SystemManager
	input  *core.Input
	events *core.EventBus

	cube      *renderer.Geometry
	icosphere *renderer.Geometry
	square    *renderer.Geometry
	grid      *renderer.Geometry
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State: &gameState{
				Controls: NewControls(cfg.Controls),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func icosphereShape(subdivisions int) geometry.Shape {
	return geometry.NewIcosphere(icosphereCenter, 1, subdivisions)
}

func (g *TestGame) Initialize(sm *systems.SystemManager, input *core.Input, events *core.EventBus) error {
	core.LogDebug("TestGame Initialize fn....")

	if sm == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	state := g.state()
	state.sm = sm
	state.input = input
	state.events = events
	state.WorldCamera = sm.CameraSystem.GetDefault()

	if err := sm.ShaderSystem.SetActive(state.Controls.Shader); err != nil {
		return err
	}

	var err error
	gs := sm.GeometrySystem
	if state.cube, err = gs.Acquire(CubeName, geometry.NewCube(cubeCenter, 1)); err != nil {
		return err
	}
	if state.icosphere, err = gs.Acquire(IcosphereName, icosphereShape(state.Controls.Tessellation)); err != nil {
		return err
	}
	if state.square, err = gs.Acquire(SquareName, geometry.NewSquare(squareCenter, 1)); err != nil {
		return err
	}
	if state.grid, err = gs.Acquire(GridName, geometry.NewGrid(gridCenter, 10, 16)); err != nil {
		return err
	}
	state.prevTessellation = state.Controls.Tessellation

	events.Register(core.EVENT_CODE_KEY_PRESSED, g, g.gameOnKey)
	events.Register(core.EVENT_CODE_MOUSE_MOVED, g, g.gameOnMouseMove)
	events.Register(core.EVENT_CODE_MOUSE_WHEEL, g, g.gameOnMouseWheel)
	return nil
}

// Update replaces the icosphere when the tessellation level changed since
// the previous frame. The whole mesh is swapped before anything is drawn.
func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	if state.Controls.Tessellation != state.prevTessellation {
		if err := state.sm.GeometrySystem.Rebuild(IcosphereName, icosphereShape(state.Controls.Tessellation)); err != nil {
			return err
		}
		core.LogDebug("icosphere tessellation %d -> %d", state.prevTessellation, state.Controls.Tessellation)
		state.prevTessellation = state.Controls.Tessellation
	}
	state.sm.Renderer.SetUniformColor(state.Controls.Color)
	if state.Controls.Shader != state.sm.ShaderSystem.ActiveName() {
		if err := state.sm.ShaderSystem.SetActive(state.Controls.Shader); err != nil {
			return err
		}
	}
	state.WorldCamera.Update()
	return nil
}

// Render draws with the active shader only.
func (g *TestGame) Render(deltaTime float64) ([]renderer.Pass, error) {
	state := g.state()
	program := state.sm.ShaderSystem.Active()
	if program == nil {
		return nil, fmt.Errorf("%w: no active shader", core.ErrShader)
	}

	var drawables []renderer.Drawable
	switch state.sm.ShaderSystem.ActiveName() {
	case "Lambert":
		drawables = []renderer.Drawable{state.cube, state.icosphere, state.square, state.grid}
	case "Perlin Noise":
		drawables = []renderer.Drawable{state.cube, state.icosphere}
	case "Transform":
		drawables = []renderer.Drawable{state.cube}
	default:
		drawables = []renderer.Drawable{state.cube}
	}
	return []renderer.Pass{{Program: program, Drawables: drawables}}, nil
}

func (g *TestGame) OnResize(width, height int) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	if state.events != nil {
		state.events.Unregister(core.EVENT_CODE_KEY_PRESSED, g)
		state.events.Unregister(core.EVENT_CODE_MOUSE_MOVED, g)
		state.events.Unregister(core.EVENT_CODE_MOUSE_WHEEL, g)
	}
	return nil
}

func (g *TestGame) gameOnKey(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	state := g.state()
	key := core.KeyCode(context.Data.U16[0])
	switch key {
	case core.KEY_UP, core.KEY_PLUS:
		state.Controls.StepTessellation(1)
	case core.KEY_DOWN, core.KEY_MINUS:
		state.Controls.StepTessellation(-1)
	case core.KEY_1, core.KEY_2, core.KEY_3:
		names := state.sm.ShaderSystem.Names()
		if i := int(key - core.KEY_1); i < len(names) {
			state.Controls.Shader = names[i]
			core.LogInfo("shader: %s", names[i])
		}
	case core.KEY_R:
		state.Controls.StepColorChannel(0)
	case core.KEY_G:
		state.Controls.StepColorChannel(1)
	case core.KEY_B:
		state.Controls.StepColorChannel(2)
	default:
		return false
	}
	return true
}

func (g *TestGame) gameOnMouseMove(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	state := g.state()
	if !state.input.IsButtonDown(core.BUTTON_LEFT) {
		return false
	}
	dx, dy := context.Data.F32[2], context.Data.F32[3]
	state.WorldCamera.Orbit(-dx*orbitSpeed, dy*orbitSpeed)
	return true
}

func (g *TestGame) gameOnMouseWheel(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	g.state().WorldCamera.Zoom(context.Data.F32[0] * zoomSpeed)
	return true
}
