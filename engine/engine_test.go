package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/rendertest"
	"github.com/spaghettifunk/tessera/engine/systems"
)

type fakePlatform struct {
	ctx      *rendertest.Context
	events   *core.EventBus
	input    *core.Input
	frames   int
	maxPumps int
	swaps    int
	closed   bool
	now      float64
}

func (p *fakePlatform) Startup(cfg *config.ApplicationConfig, input *core.Input, events *core.EventBus) (renderer.Context, error) {
	p.input, p.events = input, events
	return p.ctx, nil
}

func (p *fakePlatform) PumpMessages() bool {
	p.frames++
	return p.maxPumps == 0 || p.frames <= p.maxPumps
}

func (p *fakePlatform) SwapBuffers() { p.swaps++ }
func (p *fakePlatform) FramebufferSize() (int, int) { return 640, 480 }
func (p *fakePlatform) GetAbsoluteTime() float64 { p.now += 0.016; return p.now }
func (p *fakePlatform) Shutdown() error { p.closed = true; return nil }

func (p *fakePlatform) resize(w, h uint32) {
	ctx := core.EventContext{}
	ctx.Data.U32[0] = w
	ctx.Data.U32[1] = h
	p.events.Fire(core.EVENT_CODE_RESIZED, p, ctx)
}

type recordingGame struct {
	updates  int
	renders  int
	resizes  [][2]int
	shutdown int
	sm       *systems.SystemManager
}

func newGame(cfg *config.Config, rg *recordingGame) *Game {
	return &Game{
		ApplicationConfig: cfg,
		FnInitialize: func(sm *systems.SystemManager, input *core.Input, events *core.EventBus) error {
			rg.sm = sm
			return nil
		},
		FnUpdate: func(float64) error { rg.updates++; return nil },
		FnRender: func(float64) ([]renderer.Pass, error) {
			rg.renders++
			return []renderer.Pass{{Program: rg.sm.ShaderSystem.Active()}}, nil
		},
		FnOnResize: func(w, h int) error { rg.resizes = append(rg.resizes, [2]int{w, h}); return nil },
		FnShutdown: func() error { rg.shutdown++; return nil },
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakePlatform, *recordingGame) {
	t.Helper()
	p := &fakePlatform{ctx: rendertest.NewContext()}
	rg := &recordingGame{}
	e, err := New(newGame(config.Default(), rg), p)
	require.NoError(t, err)
	return e, p, rg
}

func TestEngineLifecycle(t *testing.T) {
	e, p, rg := newTestEngine(t)
	assert.Equal(t, EngineStageUninitialized, e.Stage())

	require.ErrorIs(t, e.Run(), core.ErrFrameState)
	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	require.ErrorIs(t, e.Initialize(), core.ErrFrameState)

	w, h := e.GetFramebufferSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, [][2]int{{640, 480}}, rg.resizes)

	p.maxPumps = 3
	require.NoError(t, e.Run())
	assert.Equal(t, 3, rg.updates)
	assert.Equal(t, 3, rg.renders)
	assert.Equal(t, 3, p.swaps)
	assert.Equal(t, renderer.FrameStateIdle, e.SystemManager().Renderer.State())

	require.NoError(t, e.Shutdown())
	require.NoError(t, e.Shutdown())
	assert.Equal(t, 1, rg.shutdown)
	assert.True(t, p.closed)
	assert.Zero(t, p.ctx.LivePrograms())
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Controls.Tessellation = 42
	_, err := New(&Game{ApplicationConfig: cfg}, &fakePlatform{})
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestEngineResizeBeforeNextClear(t *testing.T) {
	e, p, rg := newTestEngine(t)
	require.NoError(t, e.Initialize())
	p.ctx.Reset()

	p.resize(1024, 256)
	require.NoError(t, e.Tick())

	ops := p.ctx.Ops()
	viewport, clear := -1, -1
	for i, op := range ops {
		if op == "Viewport" && viewport < 0 {
			viewport = i
		}
		if op == "Clear" && clear < 0 {
			clear = i
		}
	}
	require.NotEqual(t, -1, viewport)
	assert.Less(t, viewport, clear)
	assert.Equal(t, [2]int{1024, 256}, rg.resizes[len(rg.resizes)-1])
	assert.Equal(t, float32(4), e.SystemManager().CameraSystem.GetDefault().AspectRatio)
}

func TestEngineSuspendsWhenMinimized(t *testing.T) {
	e, p, rg := newTestEngine(t)
	require.NoError(t, e.Initialize())

	p.resize(0, 0)
	assert.True(t, e.IsSuspended())
	require.NoError(t, e.Tick())
	assert.Zero(t, rg.updates)

	p.resize(800, 600)
	assert.False(t, e.IsSuspended())
	require.NoError(t, e.Tick())
	assert.Equal(t, 1, rg.updates)
}

func TestEngineQuitsOnEscape(t *testing.T) {
	e, p, rg := newTestEngine(t)
	require.NoError(t, e.Initialize())

	quitAfter := 2
	p.maxPumps = 100
	rgUpdate := e.gameInstance.FnUpdate
	e.gameInstance.FnUpdate = func(dt float64) error {
		if err := rgUpdate(dt); err != nil {
			return err
		}
		if rg.updates == quitAfter {
			e.Input().ProcessKey(core.KEY_ESCAPE, true)
		}
		return nil
	}
	require.NoError(t, e.Run())
	assert.Equal(t, quitAfter, rg.updates)
	assert.False(t, e.IsRunning())
}

func TestEngineStopsOnFrameError(t *testing.T) {
	e, p, _ := newTestEngine(t)
	require.NoError(t, e.Initialize())
	e.gameInstance.FnRender = func(float64) ([]renderer.Pass, error) {
		return nil, core.ErrGpuResource
	}
	p.maxPumps = 10
	err := e.Run()
	require.ErrorIs(t, err, core.ErrGpuResource)
	assert.Equal(t, renderer.FrameStateIdle, e.SystemManager().Renderer.State())
}

func TestEngineStopFromAnotherGoroutine(t *testing.T) {
	e, p, rg := newTestEngine(t)
	require.NoError(t, e.Initialize())
	p.maxPumps = 1000
	e.gameInstance.FnUpdate = func(float64) error {
		rg.updates++
		if rg.updates == 3 {
			done := make(chan struct{})
			go func() { e.Stop(); close(done) }()
			<-done
		}
		return nil
	}
	require.NoError(t, e.Run())
	assert.Equal(t, 3, rg.updates)
	require.NoError(t, e.Shutdown())
	assert.True(t, p.closed)
}
