// Package rendertest provides a recording renderer.Context for tests.
package rendertest

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

// Call is one recorded context call.
type Call struct {
	Op   string
	Args []interface{}
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

// Context records every call and keeps the uploaded data so tests can
// inspect it. Failures are injected through the exported fields.
type Context struct {
	Calls []Call

	// FailBufferAfter makes CreateBuffer fail once this many buffers have
	// been created. Negative disables the failure.
	FailBufferAfter int
	// FailUpload makes BufferFloat32/BufferUint32 fail.
	FailUpload bool
	// CompileLogs makes compiling a source containing the key fail with
	// the value as the driver log.
	CompileLogs map[string]string
	// LinkLog makes linking fail with this log when not empty.
	LinkLog string
	// FailShaderObjects makes CompileShader fail to allocate a stage object.
	FailShaderObjects bool
	// FailProgramObjects makes LinkProgram fail to allocate a program object.
	FailProgramObjects bool
	// Hidden names are reported as missing by the location lookups.
	Hidden map[string]bool

	FloatData map[renderer.Buffer][]float32
	IndexData map[renderer.Buffer][]uint32
	Uniforms  map[string]interface{}

	nextHandle uint32
	buffers    map[renderer.Buffer]bool
	shaders    map[renderer.ShaderStageHandle]bool
	programs   map[renderer.ProgramHandle]bool
	locations  map[int32]string
	current    renderer.ProgramHandle
}

func NewContext() *Context {
	return &Context{
		FailBufferAfter: -1,
		CompileLogs:     map[string]string{},
		Hidden:          map[string]bool{},
		FloatData:       map[renderer.Buffer][]float32{},
		IndexData:       map[renderer.Buffer][]uint32{},
		Uniforms:        map[string]interface{}{},
		buffers:         map[renderer.Buffer]bool{},
		shaders:         map[renderer.ShaderStageHandle]bool{},
		programs:        map[renderer.ProgramHandle]bool{},
		locations:       map[int32]string{},
	}
}

func (c *Context) record(op string, args ...interface{}) {
	c.Calls = append(c.Calls, Call{Op: op, Args: args})
}

func (c *Context) handle() uint32 {
	c.nextHandle++
	return c.nextHandle
}

// Ops returns the operation names recorded so far.
func (c *Context) Ops() []string {
	ops := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		ops[i] = call.Op
	}
	return ops
}

// Count returns how many times op was recorded.
func (c *Context) Count(op string) int {
	n := 0
	for _, call := range c.Calls {
		if call.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls; live objects are kept.
func (c *Context) Reset() {
	c.Calls = nil
}

func (c *Context) LiveBuffers() int  { return len(c.buffers) }
func (c *Context) LiveShaders() int  { return len(c.shaders) }
func (c *Context) LivePrograms() int { return len(c.programs) }

func (c *Context) ShaderHeader() string {
	return "#version test\n"
}

func (c *Context) CreateBuffer() (renderer.Buffer, error) {
	c.record("CreateBuffer")
	if c.FailBufferAfter >= 0 && c.Count("CreateBuffer") > c.FailBufferAfter {
		return 0, core.GpuResource("test context: buffer allocation refused")
	}
	b := renderer.Buffer(c.handle())
	c.buffers[b] = true
	return b, nil
}

func (c *Context) DeleteBuffer(b renderer.Buffer) {
	c.record("DeleteBuffer", b)
	delete(c.buffers, b)
	delete(c.FloatData, b)
	delete(c.IndexData, b)
}

func (c *Context) BindBuffer(target renderer.BufferTarget, b renderer.Buffer) {
	c.record("BindBuffer", target, b)
}

func (c *Context) BufferFloat32(target renderer.BufferTarget, b renderer.Buffer, data []float32) error {
	c.record("BufferFloat32", target, b, len(data))
	if c.FailUpload {
		return core.GpuResource("test context: upload refused")
	}
	c.FloatData[b] = append([]float32(nil), data...)
	return nil
}

func (c *Context) BufferUint32(target renderer.BufferTarget, b renderer.Buffer, data []uint32) error {
	c.record("BufferUint32", target, b, len(data))
	if c.FailUpload {
		return core.GpuResource("test context: upload refused")
	}
	c.IndexData[b] = append([]uint32(nil), data...)
	return nil
}

func (c *Context) CompileShader(stage renderer.ShaderStage, source string) (renderer.ShaderStageHandle, string, error) {
	c.record("CompileShader", stage)
	if c.FailShaderObjects {
		return 0, "", core.GpuResource("could not create %s shader object", stage)
	}
	for needle, log := range c.CompileLogs {
		if strings.Contains(source, needle) {
			return 0, log, core.ErrShader
		}
	}
	s := renderer.ShaderStageHandle(c.handle())
	c.shaders[s] = true
	return s, "", nil
}

func (c *Context) DeleteShader(s renderer.ShaderStageHandle) {
	c.record("DeleteShader", s)
	delete(c.shaders, s)
}

func (c *Context) LinkProgram(stages ...renderer.ShaderStageHandle) (renderer.ProgramHandle, string, error) {
	c.record("LinkProgram", len(stages))
	if c.FailProgramObjects {
		return 0, "", core.GpuResource("could not create program object")
	}
	if c.LinkLog != "" {
		return 0, c.LinkLog, core.ErrShader
	}
	p := renderer.ProgramHandle(c.handle())
	c.programs[p] = true
	return p, "", nil
}

func (c *Context) DetachShader(p renderer.ProgramHandle, s renderer.ShaderStageHandle) {
	c.record("DetachShader", p, s)
}

func (c *Context) DeleteProgram(p renderer.ProgramHandle) {
	c.record("DeleteProgram", p)
	delete(c.programs, p)
}

func (c *Context) UseProgram(p renderer.ProgramHandle) {
	if c.current == p {
		return
	}
	c.current = p
	c.record("UseProgram", p)
}

func (c *Context) location(name string) (int32, bool) {
	if c.Hidden[name] {
		return -1, false
	}
	loc := int32(c.handle())
	c.locations[loc] = name
	return loc, true
}

func (c *Context) UniformLocation(p renderer.ProgramHandle, name string) (renderer.UniformLocation, bool) {
	loc, ok := c.location(name)
	return renderer.UniformLocation(loc), ok
}

func (c *Context) AttribLocation(p renderer.ProgramHandle, name string) (renderer.AttribLocation, bool) {
	loc, ok := c.location(name)
	return renderer.AttribLocation(loc), ok
}

func (c *Context) uniform(op string, loc renderer.UniformLocation, v interface{}) {
	name := c.locations[int32(loc)]
	c.record(op, name)
	c.Uniforms[name] = v
}

func (c *Context) UniformMatrix4(loc renderer.UniformLocation, m mgl32.Mat4) {
	c.uniform("UniformMatrix4", loc, m)
}

func (c *Context) Uniform4(loc renderer.UniformLocation, v mgl32.Vec4) {
	c.uniform("Uniform4", loc, v)
}

func (c *Context) Uniform1(loc renderer.UniformLocation, v float32) {
	c.uniform("Uniform1", loc, v)
}

func (c *Context) EnableVertexAttrib(loc renderer.AttribLocation) {
	c.record("EnableVertexAttrib", c.locations[int32(loc)])
}

func (c *Context) DisableVertexAttrib(loc renderer.AttribLocation) {
	c.record("DisableVertexAttrib", c.locations[int32(loc)])
}

func (c *Context) VertexAttribPointer(loc renderer.AttribLocation, size int, b renderer.Buffer) {
	c.record("VertexAttribPointer", c.locations[int32(loc)], size, b)
}

func (c *Context) DrawElements(count int) {
	c.record("DrawElements", count)
}

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport", x, y, width, height)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor", r, g, b, a)
}

func (c *Context) Clear() {
	c.record("Clear")
}

func (c *Context) EnableDepthTest() {
	c.record("EnableDepthTest")
}

var _ renderer.Context = (*Context)(nil)
