package renderer_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/rendertest"
)

func testSources() []renderer.ShaderSource {
	return []renderer.ShaderSource{
		{Stage: renderer.ShaderStageVertex, File: "test-vert.glsl", Source: "void main() { /* vertex */ }"},
		{Stage: renderer.ShaderStageFragment, File: "test-frag.glsl", Source: "void main() { /* fragment */ }"},
	}
}

func TestShaderProgramLinks(t *testing.T) {
	ctx := rendertest.NewContext()
	p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.NoError(t, err)

	assert.NotZero(t, p.Handle())
	assert.Equal(t, 1, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveShaders(), "stage objects must be deleted after linking")
	assert.Equal(t, 2, ctx.Count("DetachShader"))
	assert.True(t, p.UsesFile("test-frag.glsl"))
	assert.False(t, p.UsesFile("other.glsl"))

	p.Destroy()
	p.Destroy()
	assert.Zero(t, ctx.LivePrograms())
	assert.Equal(t, 1, ctx.Count("DeleteProgram"))
}

func TestShaderProgramPrependsHeader(t *testing.T) {
	ctx := rendertest.NewContext()
	ctx.CompileLogs["#version test\nvoid main() { /* fragment */ }"] = "header missing"
	_, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.Error(t, err)
}

func TestShaderProgramCompileFailure(t *testing.T) {
	ctx := rendertest.NewContext()
	ctx.CompileLogs["fragment"] = "0:1(15): error: syntax error"

	p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.Nil(t, p)
	require.ErrorIs(t, err, core.ErrShader)

	var shaderErr *core.ShaderError
	require.True(t, errors.As(err, &shaderErr))
	assert.Equal(t, "Lambert", shaderErr.Program)
	assert.Equal(t, "fragment", shaderErr.Stage)
	assert.Contains(t, shaderErr.Log, "syntax error")

	assert.Zero(t, ctx.LiveShaders())
	assert.Zero(t, ctx.LivePrograms())
	assert.Zero(t, ctx.Count("LinkProgram"))
}

func TestShaderProgramLinkFailure(t *testing.T) {
	ctx := rendertest.NewContext()
	ctx.LinkLog = "error: vs_Nor is not written"

	_, err := renderer.NewShaderProgram(ctx, "Transform", testSources()...)
	var shaderErr *core.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, "link", shaderErr.Stage)
	assert.Contains(t, shaderErr.Log, "vs_Nor")
	assert.Zero(t, ctx.LiveShaders())
	assert.Zero(t, ctx.LivePrograms())
}

func TestShaderProgramObjectAllocationFailure(t *testing.T) {
	for name, fail := range map[string]func(*rendertest.Context){
		"stage":   func(ctx *rendertest.Context) { ctx.FailShaderObjects = true },
		"program": func(ctx *rendertest.Context) { ctx.FailProgramObjects = true },
	} {
		t.Run(name, func(t *testing.T) {
			ctx := rendertest.NewContext()
			fail(ctx)

			p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
			require.Nil(t, p)
			require.ErrorIs(t, err, core.ErrGpuResource)
			assert.NotErrorIs(t, err, core.ErrShader)
			var shaderErr *core.ShaderError
			assert.False(t, errors.As(err, &shaderErr))

			assert.Zero(t, ctx.LiveShaders())
			assert.Zero(t, ctx.LivePrograms())
		})
	}
}

func TestShaderProgramWithoutStages(t *testing.T) {
	_, err := renderer.NewShaderProgram(rendertest.NewContext(), "empty")
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestShaderProgramSettersTolerateMissingSlots(t *testing.T) {
	ctx := rendertest.NewContext()
	ctx.Hidden[renderer.UniformTime] = true
	ctx.Hidden[renderer.UniformModelInvTr] = true
	ctx.Hidden[renderer.AttributeNormal] = true

	p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.NoError(t, err)

	p.SetTime(3)
	p.SetModelMatrix(mgl32.Translate3D(1, 2, 3))
	p.SetGeometryColor(mgl32.Vec4{1, 0, 0, 1})
	p.SetViewProjMatrix(mgl32.Ident4())

	assert.NotContains(t, ctx.Uniforms, renderer.UniformTime)
	assert.NotContains(t, ctx.Uniforms, renderer.UniformModelInvTr)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), ctx.Uniforms[renderer.UniformModel])
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, ctx.Uniforms[renderer.UniformColor])
	assert.Equal(t, mgl32.Ident4(), ctx.Uniforms[renderer.UniformViewProj])

	g := renderer.NewGeometry(ctx, geometry.NewSquare(mgl32.Vec3{}, 1))
	require.NoError(t, g.Create())
	ctx.Reset()
	require.NoError(t, p.Draw(g))
	assert.Equal(t, []string{
		"EnableVertexAttrib",
		"VertexAttribPointer",
		"BindBuffer",
		"DrawElements",
		"DisableVertexAttrib",
	}, ctx.Ops())
}

func TestShaderProgramModelInverseTranspose(t *testing.T) {
	ctx := rendertest.NewContext()
	p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.NoError(t, err)

	model := mgl32.Scale3D(2, 4, 8)
	p.SetModelMatrix(model)
	invTr := ctx.Uniforms[renderer.UniformModelInvTr].(mgl32.Mat4)
	assert.True(t, invTr.ApproxEqual(mgl32.Scale3D(0.5, 0.25, 0.125)))
}

func TestShaderProgramDraw(t *testing.T) {
	ctx := rendertest.NewContext()
	p, err := renderer.NewShaderProgram(ctx, "Lambert", testSources()...)
	require.NoError(t, err)
	g := renderer.NewGeometry(ctx, geometry.NewCube(mgl32.Vec3{}, 1))
	require.NoError(t, g.Create())

	ctx.Reset()
	require.NoError(t, p.Draw(g))
	assert.Equal(t, 2, ctx.Count("EnableVertexAttrib"))
	assert.Equal(t, 2, ctx.Count("VertexAttribPointer"))
	assert.Equal(t, 2, ctx.Count("DisableVertexAttrib"))
	require.Equal(t, 1, ctx.Count("DrawElements"))
	for _, call := range ctx.Calls {
		if call.Op == "DrawElements" {
			assert.Equal(t, 36, call.Args[0])
		}
		if call.Op == "VertexAttribPointer" {
			assert.Equal(t, geometry.ComponentsPerVertex, call.Args[1])
		}
	}

	p.Destroy()
	require.ErrorIs(t, p.Draw(g), core.ErrGpuResource)
}
