package renderer

import "github.com/go-gl/mathgl/mgl32"

type (
	// Buffer is a GPU buffer object handle. Zero is never a valid buffer.
	Buffer uint32
	// ShaderStageHandle is a compiled, unlinked shader stage.
	ShaderStageHandle uint32
	// ProgramHandle is a linked GPU program. Zero is never a valid program.
	ProgramHandle uint32
	// UniformLocation locates a uniform inside a linked program.
	UniformLocation int32
	// AttribLocation locates a vertex attribute inside a linked program.
	AttribLocation int32
)

type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

type ShaderStage uint8

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Context is the graphics API handle. It is passed explicitly to every
// object that issues GPU calls and must only be used from the thread that
// owns it.
type Context interface {
	// ShaderHeader is prepended to every shader source (version and
	// precision lines differ between GL 4.1 core and WebGL2).
	ShaderHeader() string

	CreateBuffer() (Buffer, error)
	DeleteBuffer(b Buffer)
	BindBuffer(target BufferTarget, b Buffer)
	BufferFloat32(target BufferTarget, b Buffer, data []float32) error
	BufferUint32(target BufferTarget, b Buffer, data []uint32) error

	// CompileShader returns the driver info log as the error text on failure.
	CompileShader(stage ShaderStage, source string) (ShaderStageHandle, string, error)
	DeleteShader(s ShaderStageHandle)
	// LinkProgram returns the driver info log as the error text on failure.
	LinkProgram(stages ...ShaderStageHandle) (ProgramHandle, string, error)
	DetachShader(p ProgramHandle, s ShaderStageHandle)
	DeleteProgram(p ProgramHandle)
	UseProgram(p ProgramHandle)
	UniformLocation(p ProgramHandle, name string) (UniformLocation, bool)
	AttribLocation(p ProgramHandle, name string) (AttribLocation, bool)

	UniformMatrix4(loc UniformLocation, m mgl32.Mat4)
	Uniform4(loc UniformLocation, v mgl32.Vec4)
	Uniform1(loc UniformLocation, v float32)

	EnableVertexAttrib(loc AttribLocation)
	DisableVertexAttrib(loc AttribLocation)
	// VertexAttribPointer binds b as the array buffer and sources `size`
	// float components per vertex from it, tightly packed.
	VertexAttribPointer(loc AttribLocation, size int, b Buffer)
	// DrawElements issues an indexed triangle list draw of count uint32
	// indices from the bound element array buffer.
	DrawElements(count int)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear()
	EnableDepthTest()
}
