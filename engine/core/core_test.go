package core

import (
	"bytes"
	"errors"
	"os"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusRegisterFire(t *testing.T) {
	bus := NewEventBus()
	var order []string

	first, second := "first", "second"
	require.True(t, bus.Register(EVENT_CODE_RESIZED, first, func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		order = append(order, listener.(string))
		return false
	}))
	require.True(t, bus.Register(EVENT_CODE_RESIZED, second, func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		order = append(order, listener.(string))
		return ctx.Data.U32[0] > 100
	}))
	assert.False(t, bus.Register(EVENT_CODE_RESIZED, first, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))
	assert.False(t, bus.Register(MAX_MESSAGE_CODES, first, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))

	ctx := EventContext{}
	ctx.Data.U32[0] = 640
	assert.True(t, bus.Fire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, []string{"first", "second"}, order)

	require.True(t, bus.Unregister(EVENT_CODE_RESIZED, first))
	assert.False(t, bus.Unregister(EVENT_CODE_RESIZED, first))

	order = nil
	assert.False(t, bus.Fire(EVENT_CODE_RESIZED, nil, EventContext{}))
	assert.Equal(t, []string{"second"}, order)

	require.NoError(t, bus.Shutdown())
	assert.False(t, bus.Fire(EVENT_CODE_RESIZED, nil, ctx))
}

func TestInputFiresOnChangeOnly(t *testing.T) {
	bus := NewEventBus()
	in := NewInput(bus)
	pressed := 0
	bus.Register(EVENT_CODE_KEY_PRESSED, t, func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		assert.Equal(t, uint16(KEY_R), ctx.Data.U16[0])
		pressed++
		return true
	})

	in.ProcessKey(KEY_R, true)
	in.ProcessKey(KEY_R, true)
	assert.Equal(t, 1, pressed)
	assert.True(t, in.IsKeyDown(KEY_R))
	assert.False(t, in.WasKeyDown(KEY_R))

	in.Update()
	assert.True(t, in.WasKeyDown(KEY_R))

	in.ProcessKey(KEYS_MAX_KEYS, true)
	assert.False(t, in.IsKeyDown(KEYS_MAX_KEYS))
}

func TestInputMouse(t *testing.T) {
	bus := NewEventBus()
	in := NewInput(bus)
	var deltas [][2]float32
	bus.Register(EVENT_CODE_MOUSE_MOVED, t, func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		deltas = append(deltas, [2]float32{ctx.Data.F32[2], ctx.Data.F32[3]})
		return true
	})
	var wheel float32
	bus.Register(EVENT_CODE_MOUSE_WHEEL, t, func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		wheel = ctx.Data.F32[0]
		return true
	})

	in.ProcessMouseMove(10, 20)
	in.ProcessMouseMove(10, 20)
	in.ProcessMouseMove(15, 18)
	assert.Equal(t, [][2]float32{{10, 20}, {5, -2}}, deltas)
	x, y := in.MousePosition()
	assert.Equal(t, float32(15), x)
	assert.Equal(t, float32(18), y)

	in.ProcessButton(BUTTON_LEFT, true)
	assert.True(t, in.IsButtonDown(BUTTON_LEFT))
	assert.False(t, in.IsButtonDown(BUTTON_MAX_BUTTONS))

	in.ProcessMouseWheel(-1)
	assert.Equal(t, float32(-1), wheel)
}

func TestClock(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClockWithSource(func() time.Time { return now })

	now = now.Add(time.Second)
	c.Update()
	assert.Zero(t, c.Elapsed(), "unstarted clock does not advance")

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 61; i++ {
		m.Update(1.0 / 60.0)
	}
	fps, ms := m.Frame()
	assert.InDelta(t, 60, fps, 1)
	assert.InDelta(t, 16.67, ms, 0.01)

	// the rolling average forgets frames older than AVG_COUNT
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10, m.FrameTime(), 1e-9)
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("building: %w", &ShaderError{Program: "Lambert", Stage: "vertex", Log: "0:1: syntax error\x00\n"})
	assert.ErrorIs(t, err, ErrShader)

	var se *ShaderError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "vertex", se.Stage)
	assert.Equal(t, `shader "Lambert" failed at vertex: 0:1: syntax error`, se.Error())

	assert.ErrorIs(t, InvalidParameter("side %v", -1), ErrInvalidParameter)
	assert.EqualError(t, GpuResource("no buffer"), "gpu resource error: no buffer")
}

func TestLogLevels(t *testing.T) {
	for _, lvl := range []LogLevel{DebugLevel, InfoLevel} {
		assert.True(t, ValidLogLevel(lvl))
	}
	assert.False(t, ValidLogLevel("loud"))
}

func TestLogErrorKeepsPercentSigns(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(os.Stderr) })

	err := fmt.Errorf("watch /tmp/100%%d/shaders: %w", ErrGpuResource)
	LogError("%s", err)
	assert.Contains(t, buf.String(), "watch /tmp/100%d/shaders: gpu resource error")
}
