package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/renderer/rendertest"
)

func TestShaderSystemBuildsAllVariants(t *testing.T) {
	ctx := rendertest.NewContext()
	ss, err := NewShaderSystem(ctx, assets.NewAssetManager(""), "Lambert")
	require.NoError(t, err)

	assert.Equal(t, []string{"Lambert", "Perlin Noise", "Transform"}, ss.Names())
	assert.Equal(t, 3, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveShaders())
	assert.Equal(t, "Lambert", ss.ActiveName())
	assert.Same(t, ss.Lookup["Lambert"], ss.Active())

	require.NoError(t, ss.SetActive("Transform"))
	assert.Equal(t, "Transform", ss.ActiveName())
	require.ErrorIs(t, ss.SetActive("Phong"), core.ErrInvalidParameter)
	assert.Equal(t, "Transform", ss.ActiveName())

	require.NoError(t, ss.Shutdown())
	assert.Zero(t, ctx.LivePrograms())
}

func TestShaderSystemStartupFailureReleasesEverything(t *testing.T) {
	ctx := rendertest.NewContext()
	// only the perlin fragment stage computes surflets
	ctx.CompileLogs["surflet"] = "0:12: error"

	_, err := NewShaderSystem(ctx, assets.NewAssetManager(""), "Lambert")
	require.ErrorIs(t, err, core.ErrShader)
	assert.Zero(t, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveShaders())
}

func TestShaderSystemUnknownActive(t *testing.T) {
	ctx := rendertest.NewContext()
	_, err := NewShaderSystem(ctx, assets.NewAssetManager(""), "Phong")
	require.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Zero(t, ctx.LivePrograms())
}

func TestShaderSystemReload(t *testing.T) {
	dir := t.TempDir()
	ctx := rendertest.NewContext()
	ss, err := NewShaderSystem(ctx, assets.NewAssetManager(dir), "Lambert")
	require.NoError(t, err)
	lambert, perlin := ss.Lookup["Lambert"], ss.Lookup["Perlin Noise"]

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lambert-frag.glsl"), []byte("void main() { /* v2 */ }"), 0o644))
	reloaded := ss.Reload([]string{"lambert-frag.glsl"})

	assert.ElementsMatch(t, []string{"Lambert", "Transform"}, reloaded)
	assert.NotSame(t, lambert, ss.Lookup["Lambert"])
	assert.Same(t, perlin, ss.Lookup["Perlin Noise"])
	assert.Zero(t, lambert.Handle(), "replaced program must be destroyed")
	assert.Equal(t, 3, ctx.LivePrograms())
}

func TestShaderSystemFailedReloadKeepsProgram(t *testing.T) {
	dir := t.TempDir()
	ctx := rendertest.NewContext()
	ss, err := NewShaderSystem(ctx, assets.NewAssetManager(dir), "Lambert")
	require.NoError(t, err)
	perlin := ss.Lookup["Perlin Noise"]

	require.NoError(t, os.WriteFile(filepath.Join(dir, "perlin-frag.glsl"), []byte("void main() { BROKEN }"), 0o644))
	ctx.CompileLogs["BROKEN"] = "0:1: syntax error"

	assert.Empty(t, ss.Reload([]string{"perlin-frag.glsl", "unrelated.glsl"}))
	assert.Same(t, perlin, ss.Lookup["Perlin Noise"])
	assert.NotZero(t, perlin.Handle())
	assert.Equal(t, 3, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveShaders())
}

func TestGeometrySystemLifecycle(t *testing.T) {
	ctx := rendertest.NewContext()
	gs := NewGeometrySystem(ctx)

	cube, err := gs.Acquire("cube", geometry.NewCube(mgl32.Vec3{}, 1))
	require.NoError(t, err)
	again, err := gs.Acquire("cube", geometry.NewCube(mgl32.Vec3{}, 2))
	require.NoError(t, err)
	assert.Same(t, cube, again)
	assert.Equal(t, 3, ctx.LiveBuffers())

	_, err = gs.Acquire("sphere", geometry.NewIcosphere(mgl32.Vec3{3, 0, 0}, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 6, ctx.LiveBuffers())

	require.NoError(t, gs.Rebuild("sphere", geometry.NewIcosphere(mgl32.Vec3{3, 0, 0}, 1, 4)))
	sphere, ok := gs.Get("sphere")
	require.True(t, ok)
	_, indices := geometry.IcosphereCounts(4)
	assert.Equal(t, indices, sphere.ElementCount())
	require.ErrorIs(t, gs.Rebuild("missing", geometry.NewSquare(mgl32.Vec3{}, 1)), core.ErrInvalidParameter)

	gs.Release("cube")
	assert.Equal(t, 6, ctx.LiveBuffers(), "cube still referenced once")
	gs.Release("cube")
	assert.Equal(t, 3, ctx.LiveBuffers())
	_, ok = gs.Get("cube")
	assert.False(t, ok)

	require.NoError(t, gs.Shutdown())
	assert.Zero(t, ctx.LiveBuffers())
}

func TestGeometrySystemAcquireInvalidShape(t *testing.T) {
	ctx := rendertest.NewContext()
	gs := NewGeometrySystem(ctx)
	_, err := gs.Acquire("grid", geometry.NewGrid(mgl32.Vec3{}, -1, 4))
	require.ErrorIs(t, err, core.ErrInvalidParameter)
	_, ok := gs.Get("grid")
	assert.False(t, ok)
}

func TestCameraSystem(t *testing.T) {
	cfg := config.Default().Camera
	cfg.FovY = 60
	cs := NewCameraSystem(cfg)

	def := cs.GetDefault()
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, def.Position)
	assert.Equal(t, float32(60), def.FovY)
	assert.Same(t, def, cs.Acquire("default"))

	side := cs.Acquire("side")
	assert.Same(t, side, cs.Acquire("side"))
	cs.Resize(200, 100)
	assert.Equal(t, float32(2), side.AspectRatio)
	assert.Equal(t, float32(2), def.AspectRatio)

	cs.Release("side")
	cs.Release("side")
	assert.NotContains(t, cs.Lookup, "side")
}

func TestSystemManager(t *testing.T) {
	ctx := rendertest.NewContext()
	cfg := config.Default()
	cfg.Controls.Shader = "Perlin Noise"
	sm, err := NewSystemManager(ctx, cfg, assets.NewAssetManager(""))
	require.NoError(t, err)

	assert.Equal(t, "Perlin Noise", sm.ShaderSystem.ActiveName())
	assert.Equal(t, mgl32.Vec4{0.2, 0.2, 0.2, 1}, sm.Renderer.ClearColor())
	assert.Equal(t, mgl32.Vec4{0, 128.0 / 255, 1, 1}, sm.Renderer.UniformColor())

	require.NoError(t, sm.Resize(1280, 720))
	w, h := sm.Renderer.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	require.ErrorIs(t, sm.Resize(0, 0), core.ErrInvalidParameter)

	_, err = sm.GeometrySystem.Acquire("cube", geometry.NewCube(mgl32.Vec3{}, 1))
	require.NoError(t, err)
	require.NoError(t, sm.Shutdown())
	assert.Zero(t, ctx.LiveBuffers())
	assert.Zero(t, ctx.LivePrograms())
}
