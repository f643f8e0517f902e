package engine

import (
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/systems"
)

// Game is the set of callbacks the engine drives every frame.
type Game struct {
	ApplicationConfig *config.Config
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(sm *systems.SystemManager, input *core.Input, events *core.EventBus) error
type Update func(deltaTime float64) error

// Render returns the passes to draw this frame.
type Render func(deltaTime float64) ([]renderer.Pass, error)
type OnResize func(width, height int) error
type Shutdown func() error
