//go:build js && wasm

// Package webgl implements renderer.Context on a WebGL2 rendering context.
package webgl

import (
	"encoding/binary"
	"math"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

const shaderHeader = "#version 300 es\nprecision highp float;\n"

type glConsts struct {
	arrayBuffer        int
	elementArrayBuffer int
	staticDraw         int
	floatType          int
	unsignedInt        int
	triangles          int
	vertexShader       int
	fragmentShader     int
	compileStatus      int
	linkStatus         int
	colorBufferBit     int
	depthBufferBit     int
	depthTest          int
}

// Context maps WebGL objects to integer handles so the rest of the
// renderer never sees a js.Value.
type Context struct {
	gl     js.Value
	consts glConsts

	handles *handles[js.Value]
	current renderer.ProgramHandle
}

// New requests a "webgl2" context from canvas.
func New(canvas js.Value) (*Context, error) {
	gl := canvas.Call("getContext", "webgl2")
	if gl.IsUndefined() || gl.IsNull() {
		return nil, core.GpuResource("webgl2 is not available")
	}
	c := &Context{
		gl:      gl,
		handles: newHandles[js.Value](),
	}
	c.consts = glConsts{
		arrayBuffer:        gl.Get("ARRAY_BUFFER").Int(),
		elementArrayBuffer: gl.Get("ELEMENT_ARRAY_BUFFER").Int(),
		staticDraw:         gl.Get("STATIC_DRAW").Int(),
		floatType:          gl.Get("FLOAT").Int(),
		unsignedInt:        gl.Get("UNSIGNED_INT").Int(),
		triangles:          gl.Get("TRIANGLES").Int(),
		vertexShader:       gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:     gl.Get("FRAGMENT_SHADER").Int(),
		compileStatus:      gl.Get("COMPILE_STATUS").Int(),
		linkStatus:         gl.Get("LINK_STATUS").Int(),
		colorBufferBit:     gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit:     gl.Get("DEPTH_BUFFER_BIT").Int(),
		depthTest:          gl.Get("DEPTH_TEST").Int(),
	}
	core.LogInfo("WebGL version: %s", gl.Call("getParameter", gl.Get("VERSION")).String())
	return c, nil
}

func (c *Context) store(v js.Value) uint32 {
	return c.handles.store(v)
}

func (c *Context) object(h uint32) js.Value {
	if v, ok := c.handles.object(h); ok {
		return v
	}
	return js.Null()
}

// location returns null for unknown handles, which WebGL ignores.
func (c *Context) location(loc renderer.UniformLocation) js.Value {
	if v, ok := c.handles.uniform(int32(loc)); ok {
		return v
	}
	return js.Null()
}

func (c *Context) ShaderHeader() string {
	return shaderHeader
}

func (c *Context) target(t renderer.BufferTarget) int {
	if t == renderer.ElementArrayBuffer {
		return c.consts.elementArrayBuffer
	}
	return c.consts.arrayBuffer
}

func (c *Context) CreateBuffer() (renderer.Buffer, error) {
	b := c.gl.Call("createBuffer")
	if b.IsNull() || b.IsUndefined() {
		return 0, core.GpuResource("webgl: createBuffer returned null")
	}
	return renderer.Buffer(c.store(b)), nil
}

func (c *Context) DeleteBuffer(b renderer.Buffer) {
	c.gl.Call("deleteBuffer", c.object(uint32(b)))
	c.handles.remove(uint32(b))
}

func (c *Context) BindBuffer(t renderer.BufferTarget, b renderer.Buffer) {
	c.gl.Call("bindBuffer", c.target(t), c.object(uint32(b)))
}

func (c *Context) upload(t renderer.BufferTarget, b renderer.Buffer, raw []byte) error {
	buf := js.Global().Get("Uint8Array").New(len(raw))
	js.CopyBytesToJS(buf, raw)
	c.gl.Call("bindBuffer", c.target(t), c.object(uint32(b)))
	c.gl.Call("bufferData", c.target(t), buf, c.consts.staticDraw)
	if code := c.gl.Call("getError").Int(); code != 0 {
		return core.GpuResource("webgl: bufferData error 0x%x", code)
	}
	return nil
}

func (c *Context) BufferFloat32(t renderer.BufferTarget, b renderer.Buffer, data []float32) error {
	raw := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
	}
	return c.upload(t, b, raw)
}

func (c *Context) BufferUint32(t renderer.BufferTarget, b renderer.Buffer, data []uint32) error {
	raw := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	return c.upload(t, b, raw)
}

func (c *Context) CompileShader(s renderer.ShaderStage, source string) (renderer.ShaderStageHandle, string, error) {
	kind := c.consts.vertexShader
	if s == renderer.ShaderStageFragment {
		kind = c.consts.fragmentShader
	}
	shader := c.gl.Call("createShader", kind)
	if shader.IsNull() {
		return 0, "", core.GpuResource("webgl: createShader returned null")
	}
	c.gl.Call("shaderSource", shader, source)
	c.gl.Call("compileShader", shader)
	if !c.gl.Call("getShaderParameter", shader, c.consts.compileStatus).Bool() {
		log := c.gl.Call("getShaderInfoLog", shader).String()
		c.gl.Call("deleteShader", shader)
		return 0, log, core.ErrShader
	}
	return renderer.ShaderStageHandle(c.store(shader)), "", nil
}

func (c *Context) DeleteShader(s renderer.ShaderStageHandle) {
	c.gl.Call("deleteShader", c.object(uint32(s)))
	c.handles.remove(uint32(s))
}

func (c *Context) LinkProgram(stages ...renderer.ShaderStageHandle) (renderer.ProgramHandle, string, error) {
	program := c.gl.Call("createProgram")
	if program.IsNull() {
		return 0, "", core.GpuResource("webgl: createProgram returned null")
	}
	for _, s := range stages {
		c.gl.Call("attachShader", program, c.object(uint32(s)))
	}
	c.gl.Call("linkProgram", program)
	if !c.gl.Call("getProgramParameter", program, c.consts.linkStatus).Bool() {
		log := c.gl.Call("getProgramInfoLog", program).String()
		c.gl.Call("deleteProgram", program)
		return 0, log, core.ErrShader
	}
	return renderer.ProgramHandle(c.store(program)), "", nil
}

func (c *Context) DetachShader(p renderer.ProgramHandle, s renderer.ShaderStageHandle) {
	c.gl.Call("detachShader", c.object(uint32(p)), c.object(uint32(s)))
}

func (c *Context) DeleteProgram(p renderer.ProgramHandle) {
	if c.current == p {
		c.gl.Call("useProgram", js.Null())
		c.current = 0
	}
	c.gl.Call("deleteProgram", c.object(uint32(p)))
	c.handles.remove(uint32(p))
}

func (c *Context) UseProgram(p renderer.ProgramHandle) {
	if c.current == p {
		return
	}
	c.gl.Call("useProgram", c.object(uint32(p)))
	c.current = p
}

func (c *Context) UniformLocation(p renderer.ProgramHandle, name string) (renderer.UniformLocation, bool) {
	loc := c.gl.Call("getUniformLocation", c.object(uint32(p)), name)
	if loc.IsNull() || loc.IsUndefined() {
		return -1, false
	}
	return renderer.UniformLocation(c.handles.storeUniform(uint32(p), loc)), true
}

func (c *Context) AttribLocation(p renderer.ProgramHandle, name string) (renderer.AttribLocation, bool) {
	loc := c.gl.Call("getAttribLocation", c.object(uint32(p)), name).Int()
	return renderer.AttribLocation(loc), loc >= 0
}

func (c *Context) UniformMatrix4(loc renderer.UniformLocation, m mgl32.Mat4) {
	arr := js.Global().Get("Float32Array").New(16)
	for i, v := range m {
		arr.SetIndex(i, v)
	}
	c.gl.Call("uniformMatrix4fv", c.location(loc), false, arr)
}

func (c *Context) Uniform4(loc renderer.UniformLocation, v mgl32.Vec4) {
	c.gl.Call("uniform4f", c.location(loc), v[0], v[1], v[2], v[3])
}

func (c *Context) Uniform1(loc renderer.UniformLocation, v float32) {
	c.gl.Call("uniform1f", c.location(loc), v)
}

func (c *Context) EnableVertexAttrib(loc renderer.AttribLocation) {
	c.gl.Call("enableVertexAttribArray", int(loc))
}

func (c *Context) DisableVertexAttrib(loc renderer.AttribLocation) {
	c.gl.Call("disableVertexAttribArray", int(loc))
}

func (c *Context) VertexAttribPointer(loc renderer.AttribLocation, size int, b renderer.Buffer) {
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, c.object(uint32(b)))
	c.gl.Call("vertexAttribPointer", int(loc), size, c.consts.floatType, false, 0, 0)
}

func (c *Context) DrawElements(count int) {
	c.gl.Call("drawElements", c.consts.triangles, count, c.consts.unsignedInt, 0)
}

func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.gl.Call("clearColor", r, g, b, a)
}

func (c *Context) Clear() {
	c.gl.Call("clear", c.consts.colorBufferBit|c.consts.depthBufferBit)
}

func (c *Context) EnableDepthTest() {
	c.gl.Call("enable", c.consts.depthTest)
}

var _ renderer.Context = (*Context)(nil)
