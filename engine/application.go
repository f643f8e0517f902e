package engine

import (
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

// Platform is the host the engine runs on: a desktop window or a browser
// canvas. It owns the graphics context and forwards input and resize
// notifications through input and events.
type Platform interface {
	// Startup creates the window (or binds the canvas) and returns the
	// graphics context made current on the calling thread.
	Startup(cfg *config.ApplicationConfig, input *core.Input, events *core.EventBus) (renderer.Context, error)
	// PumpMessages processes pending window events and waits for the next
	// frame if the host paces frames. It returns false once the host asked
	// to close.
	PumpMessages() bool
	SwapBuffers()
	FramebufferSize() (int, int)
	// GetAbsoluteTime returns seconds since an arbitrary fixed point.
	GetAbsoluteTime() float64
	Shutdown() error
}
