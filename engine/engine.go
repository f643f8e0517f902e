package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	stopRequested atomic.Bool
	isSuspended   bool
	platform      Platform
	ctx           renderer.Context
	events        *core.EventBus
	input         *core.Input
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	rendererOpts  []renderer.Option
	width         int
	height        int
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastReport    float64
}

// New prepares an engine for g on platform p. Nothing touches the GPU
// until Initialize.
func New(g *Game, p Platform, opts ...renderer.Option) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, core.InvalidParameter("engine needs a game with a configuration")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	events := core.NewEventBus()
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		platform:     p,
		events:       events,
		input:        core.NewInput(events),
		assetManager: assets.NewAssetManager(g.ApplicationConfig.Assets.ShaderDir),
		rendererOpts: opts,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        g.ApplicationConfig.Application.StartWidth,
		height:       g.ApplicationConfig.Application.StartHeight,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) IsRunning() bool {
	return e.isRunning
}

func (e *Engine) IsSuspended() bool {
	return e.isSuspended
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

func (e *Engine) Input() *core.Input {
	return e.input
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("%w: engine initialize while %s", core.ErrFrameState, e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	ctx, err := e.platform.Startup(&cfg.Application, e.input, e.events)
	if err != nil {
		core.LogError("platform startup failed: %s", err)
		return err
	}
	e.ctx = ctx

	if cfg.Assets.Watch && cfg.Assets.ShaderDir != "" {
		if err := e.assetManager.Watch(); err != nil {
			// hot reload is optional
			core.LogWarn("shader watcher disabled: %s", err)
		}
	}

	sm, err := systems.NewSystemManager(ctx, cfg, e.assetManager, e.rendererOpts...)
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if err := e.gameInstance.FnInitialize(sm, e.input, e.events); err != nil {
		return err
	}

	if w, h := e.platform.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}
	if err := e.resize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run ticks until the platform closes, a quit event arrives or a frame
// fails. Frame errors are returned to the caller.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("%w: engine run while %s", core.ErrFrameState, e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if e.stopRequested.Load() || !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}
		if err := e.Tick(); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			e.isRunning = false
			return err
		}
	}
	return nil
}

// Stop asks Run to return after the current frame. It may be called from
// any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

// Tick runs one frame: shader hot reload, game update, draw, swap.
func (e *Engine) Tick() error {
	if e.isSuspended || e.systemManager == nil {
		return nil
	}
	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime
	frameStartTime := e.platform.GetAbsoluteTime()

	if changed := e.assetManager.Drain(); len(changed) > 0 {
		e.systemManager.ShaderSystem.Reload(changed)
	}

	if err := e.gameInstance.FnUpdate(delta); err != nil {
		return fmt.Errorf("game update: %w", err)
	}

	r := e.systemManager.Renderer
	if err := r.BeginFrame(); err != nil {
		return err
	}
	passes, err := e.gameInstance.FnRender(delta)
	if err != nil {
		_ = r.EndFrame()
		return fmt.Errorf("game render: %w", err)
	}
	if err := r.Render(e.systemManager.CameraSystem.GetDefault(), passes...); err != nil {
		_ = r.EndFrame()
		return err
	}
	if err := r.EndFrame(); err != nil {
		return err
	}
	e.platform.SwapBuffers()

	e.metrics.Update(e.platform.GetAbsoluteTime() - frameStartTime)
	if currentTime-e.lastReport >= 5 {
		fps, ms := e.metrics.Frame()
		core.LogDebug("%.0f fps, %.3f ms/frame", fps, ms)
		e.lastReport = currentTime
	}

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	e.input.Update()
	e.lastTime = currentTime
	return nil
}

// Shutdown releases everything in reverse acquisition order. Safe to call
// more than once and after a failed Initialize.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageUninitialized {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.gameInstance.FnShutdown != nil {
		keep(e.gameInstance.FnShutdown())
	}
	if e.systemManager != nil {
		keep(e.systemManager.Shutdown())
	}
	keep(e.assetManager.Shutdown())
	if e.ctx != nil {
		if d, ok := e.ctx.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
	keep(e.events.Shutdown())
	keep(e.platform.Shutdown())
	return firstErr
}

func (e *Engine) resize(width, height int) error {
	if err := e.systemManager.Resize(width, height); err != nil {
		return err
	}
	return e.gameInstance.FnOnResize(width, height)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	if core.KeyCode(context.Data.U16[0]) == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	width := int(context.Data.U32[0])
	height := int(context.Data.U32[1])

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height && !e.isSuspended {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.systemManager == nil {
		return false
	}
	if err := e.resize(width, height); err != nil {
		core.LogError("%s", err)
	}
	return false
}
