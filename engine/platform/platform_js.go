//go:build js && wasm

package platform

import (
	"strings"
	"syscall/js"

	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/webgl"
)

// Platform is the browser host: a canvas sized to the window, frames
// paced by requestAnimationFrame.
type Platform struct {
	CanvasID string

	canvas js.Value
	input  *core.Input
	events *core.EventBus

	frame     chan struct{}
	closed    bool
	callbacks []js.Func
	rafFunc   js.Func
}

func New() *Platform {
	return &Platform{CanvasID: "canvas"}
}

func (p *Platform) Startup(cfg *config.ApplicationConfig, input *core.Input, events *core.EventBus) (renderer.Context, error) {
	p.input = input
	p.events = events
	p.frame = make(chan struct{}, 1)

	doc := js.Global().Get("document")
	p.canvas = doc.Call("getElementById", p.CanvasID)
	if p.canvas.IsNull() || p.canvas.IsUndefined() {
		return nil, core.GpuResource("canvas #%s not found", p.CanvasID)
	}
	doc.Set("title", cfg.Name)
	p.fitCanvas()

	ctx, err := webgl.New(p.canvas)
	if err != nil {
		return nil, err
	}

	win := js.Global().Get("window")
	p.listen(win, "resize", func(this js.Value, args []js.Value) interface{} {
		w, h := p.fitCanvas()
		ev := core.EventContext{}
		ev.Data.U32[0] = uint32(w)
		ev.Data.U32[1] = uint32(h)
		p.events.Fire(core.EVENT_CODE_RESIZED, p, ev)
		return nil
	})
	p.listen(win, "keydown", func(this js.Value, args []js.Value) interface{} {
		if code, ok := translateKey(args[0].Get("key").String()); ok {
			p.input.ProcessKey(code, true)
		}
		return nil
	})
	p.listen(win, "keyup", func(this js.Value, args []js.Value) interface{} {
		if code, ok := translateKey(args[0].Get("key").String()); ok {
			p.input.ProcessKey(code, false)
		}
		return nil
	})
	p.listen(p.canvas, "mousedown", func(this js.Value, args []js.Value) interface{} {
		p.input.ProcessButton(translateButton(args[0].Get("button").Int()), true)
		return nil
	})
	p.listen(win, "mouseup", func(this js.Value, args []js.Value) interface{} {
		p.input.ProcessButton(translateButton(args[0].Get("button").Int()), false)
		return nil
	})
	p.listen(win, "mousemove", func(this js.Value, args []js.Value) interface{} {
		p.input.ProcessMouseMove(float32(args[0].Get("clientX").Float()), float32(args[0].Get("clientY").Float()))
		return nil
	})
	p.listen(p.canvas, "wheel", func(this js.Value, args []js.Value) interface{} {
		// browsers report positive deltaY when scrolling down
		p.input.ProcessMouseWheel(float32(-args[0].Get("deltaY").Float() / 100))
		return nil
	})

	p.rafFunc = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		select {
		case p.frame <- struct{}{}:
		default:
		}
		return nil
	})
	js.Global().Call("requestAnimationFrame", p.rafFunc)
	return ctx, nil
}

func (p *Platform) listen(target js.Value, event string, fn func(this js.Value, args []js.Value) interface{}) {
	f := js.FuncOf(fn)
	target.Call("addEventListener", event, f)
	p.callbacks = append(p.callbacks, f)
}

func (p *Platform) fitCanvas() (int, int) {
	win := js.Global().Get("window")
	w, h := win.Get("innerWidth").Int(), win.Get("innerHeight").Int()
	p.canvas.Set("width", w)
	p.canvas.Set("height", h)
	return w, h
}

// PumpMessages blocks until the browser grants the next animation frame.
func (p *Platform) PumpMessages() bool {
	if p.closed {
		return false
	}
	<-p.frame
	return !p.closed
}

// SwapBuffers schedules the next frame; the browser presents on its own.
func (p *Platform) SwapBuffers() {
	js.Global().Call("requestAnimationFrame", p.rafFunc)
}

func (p *Platform) FramebufferSize() (int, int) {
	return p.canvas.Get("width").Int(), p.canvas.Get("height").Int()
}

func (p *Platform) GetAbsoluteTime() float64 {
	return js.Global().Get("performance").Call("now").Float() / 1000
}

func (p *Platform) Shutdown() error {
	p.closed = true
	for _, f := range p.callbacks {
		f.Release()
	}
	p.callbacks = nil
	p.rafFunc.Release()
	return nil
}

func translateKey(key string) (core.KeyCode, bool) {
	if len(key) == 1 {
		c := strings.ToUpper(key)[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return core.KEY_A + core.KeyCode(c-'A'), true
		case c >= '0' && c <= '9':
			return core.KEY_0 + core.KeyCode(c-'0'), true
		case c == '+' || c == '=':
			return core.KEY_PLUS, true
		case c == '-':
			return core.KEY_MINUS, true
		case c == ' ':
			return core.KEY_SPACE, true
		}
		return 0, false
	}
	switch key {
	case "Escape":
		return core.KEY_ESCAPE, true
	case "ArrowUp":
		return core.KEY_UP, true
	case "ArrowDown":
		return core.KEY_DOWN, true
	case "ArrowLeft":
		return core.KEY_LEFT, true
	case "ArrowRight":
		return core.KEY_RIGHT, true
	case "Enter":
		return core.KEY_ENTER, true
	case "Tab":
		return core.KEY_TAB, true
	case "Backspace":
		return core.KEY_BACKSPACE, true
	case "Shift":
		return core.KEY_LSHIFT, true
	}
	return 0, false
}

// DOM numbers buttons left, middle, right.
func translateButton(b int) core.Button {
	switch b {
	case 0:
		return core.BUTTON_LEFT
	case 1:
		return core.BUTTON_MIDDLE
	case 2:
		return core.BUTTON_RIGHT
	}
	return core.BUTTON_MAX_BUTTONS
}
