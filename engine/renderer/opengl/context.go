//go:build !js

// Package opengl implements renderer.Context on OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

const shaderHeader = "#version 410 core\n"

// Context wraps the GL function pointers loaded for the current window.
// Core profile requires a bound vertex array object; one is created at
// startup and stays bound for the lifetime of the context.
type Context struct {
	vao     uint32
	current uint32
}

// New loads the GL entry points. The window's context must be current on
// the calling thread.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, core.GpuResource("opengl init: %s", err)
	}
	core.LogInfo("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	core.LogInfo("OpenGL renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	if c.vao == 0 {
		return nil, core.GpuResource("opengl: vertex array allocation failed")
	}
	gl.BindVertexArray(c.vao)
	return c, nil
}

func (c *Context) Destroy() {
	if c.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

func (c *Context) ShaderHeader() string {
	return shaderHeader
}

func target(t renderer.BufferTarget) uint32 {
	if t == renderer.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (c *Context) CreateBuffer() (renderer.Buffer, error) {
	var b uint32
	gl.GenBuffers(1, &b)
	if b == 0 {
		return 0, core.GpuResource("opengl: glGenBuffers returned 0")
	}
	return renderer.Buffer(b), nil
}

func (c *Context) DeleteBuffer(b renderer.Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

func (c *Context) BindBuffer(t renderer.BufferTarget, b renderer.Buffer) {
	gl.BindBuffer(target(t), uint32(b))
}

func (c *Context) BufferFloat32(t renderer.BufferTarget, b renderer.Buffer, data []float32) error {
	gl.BindBuffer(target(t), uint32(b))
	gl.BufferData(target(t), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return checkError("glBufferData")
}

func (c *Context) BufferUint32(t renderer.BufferTarget, b renderer.Buffer, data []uint32) error {
	gl.BindBuffer(target(t), uint32(b))
	gl.BufferData(target(t), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return checkError("glBufferData")
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		if code == gl.OUT_OF_MEMORY {
			return core.GpuResource("%s: out of memory", op)
		}
		return fmt.Errorf("%w: %s: GL error 0x%x", core.ErrGpuResource, op, code)
	}
	return nil
}

func stage(s renderer.ShaderStage) uint32 {
	if s == renderer.ShaderStageFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (c *Context) CompileShader(s renderer.ShaderStage, source string) (renderer.ShaderStageHandle, string, error) {
	shader := gl.CreateShader(stage(s))
	if shader == 0 {
		return 0, "", core.GpuResource("opengl: glCreateShader returned 0")
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, log, core.ErrShader
	}
	return renderer.ShaderStageHandle(shader), "", nil
}

func (c *Context) DeleteShader(s renderer.ShaderStageHandle) {
	gl.DeleteShader(uint32(s))
}

func (c *Context) LinkProgram(stages ...renderer.ShaderStageHandle) (renderer.ProgramHandle, string, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, "", core.GpuResource("opengl: glCreateProgram returned 0")
	}
	for _, s := range stages {
		gl.AttachShader(program, uint32(s))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, log, core.ErrShader
	}
	return renderer.ProgramHandle(program), "", nil
}

func (c *Context) DetachShader(p renderer.ProgramHandle, s renderer.ShaderStageHandle) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (c *Context) DeleteProgram(p renderer.ProgramHandle) {
	if c.current == uint32(p) {
		gl.UseProgram(0)
		c.current = 0
	}
	gl.DeleteProgram(uint32(p))
}

func (c *Context) UseProgram(p renderer.ProgramHandle) {
	if c.current == uint32(p) {
		return
	}
	gl.UseProgram(uint32(p))
	c.current = uint32(p)
}

func (c *Context) UniformLocation(p renderer.ProgramHandle, name string) (renderer.UniformLocation, bool) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	return renderer.UniformLocation(loc), loc >= 0
}

func (c *Context) AttribLocation(p renderer.ProgramHandle, name string) (renderer.AttribLocation, bool) {
	loc := gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
	return renderer.AttribLocation(loc), loc >= 0
}

func (c *Context) UniformMatrix4(loc renderer.UniformLocation, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (c *Context) Uniform4(loc renderer.UniformLocation, v mgl32.Vec4) {
	gl.Uniform4f(int32(loc), v[0], v[1], v[2], v[3])
}

func (c *Context) Uniform1(loc renderer.UniformLocation, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (c *Context) EnableVertexAttrib(loc renderer.AttribLocation) {
	gl.EnableVertexAttribArray(uint32(loc))
}

func (c *Context) DisableVertexAttrib(loc renderer.AttribLocation) {
	gl.DisableVertexAttribArray(uint32(loc))
}

func (c *Context) VertexAttribPointer(loc renderer.AttribLocation, size int, b renderer.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointer(uint32(loc), int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (c *Context) DrawElements(count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (c *Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *Context) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

var _ renderer.Context = (*Context)(nil)
