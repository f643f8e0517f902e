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

func TestGeometryCreateUploadsAllStreams(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewGrid(mgl32.Vec3{}, 2, 2))
	require.NoError(t, g.Create())

	assert.True(t, g.Uploaded())
	assert.Equal(t, 24, g.ElementCount())
	assert.Equal(t, 3, ctx.LiveBuffers())
	assert.Equal(t, uint32(1), g.Generation)

	var floats, indices int
	for _, data := range ctx.FloatData {
		assert.Len(t, data, 9*4)
		floats++
	}
	for _, data := range ctx.IndexData {
		assert.Len(t, data, 24)
		indices++
	}
	assert.Equal(t, 2, floats)
	assert.Equal(t, 1, indices)
}

func TestGeometryRebuildReplacesBuffers(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewIcosphere(mgl32.Vec3{}, 1, 1))
	require.NoError(t, g.Create())
	require.NoError(t, g.Rebuild(geometry.NewIcosphere(mgl32.Vec3{}, 1, 3)))

	_, indices := geometry.IcosphereCounts(3)
	assert.Equal(t, indices, g.ElementCount())
	assert.Equal(t, 3, ctx.LiveBuffers(), "previous buffers must be released")
	assert.Equal(t, 3, ctx.Count("DeleteBuffer"))
	assert.Equal(t, 3, g.Shape().(*geometry.Icosphere).Subdivisions)
}

func TestGeometryFailedAllocationKeepsPreviousMesh(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewCube(mgl32.Vec3{}, 1))
	require.NoError(t, g.Create())

	// two more buffers succeed, the third is refused
	ctx.FailBufferAfter = ctx.Count("CreateBuffer") + 2
	err := g.Rebuild(geometry.NewSquare(mgl32.Vec3{}, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrGpuResource))

	assert.Equal(t, 36, g.ElementCount())
	assert.Equal(t, "cube", g.Shape().Name())
	assert.Equal(t, 3, ctx.LiveBuffers(), "partially created buffers leaked")
	assert.Equal(t, uint32(1), g.Generation)
}

func TestGeometryFailedUploadKeepsPreviousMesh(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewSquare(mgl32.Vec3{}, 1))
	require.NoError(t, g.Create())

	ctx.FailUpload = true
	err := g.Rebuild(geometry.NewCube(mgl32.Vec3{}, 1))
	require.ErrorIs(t, err, core.ErrGpuResource)
	assert.Equal(t, 6, g.ElementCount())
	assert.Equal(t, 3, ctx.LiveBuffers())
}

func TestGeometryInvalidShapeAllocatesNothing(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewGrid(mgl32.Vec3{}, 1, 0))
	err := g.Create()
	require.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Zero(t, ctx.Count("CreateBuffer"))
	assert.False(t, g.Uploaded())

	require.ErrorIs(t, g.Rebuild(nil), core.ErrInvalidParameter)
}

func TestGeometryDestroyIsIdempotent(t *testing.T) {
	ctx := rendertest.NewContext()
	g := renderer.NewGeometry(ctx, geometry.NewCube(mgl32.Vec3{}, 1))
	require.NoError(t, g.Create())

	g.Destroy()
	g.Destroy()
	assert.Zero(t, ctx.LiveBuffers())
	assert.Equal(t, 3, ctx.Count("DeleteBuffer"))
	assert.False(t, g.BindIndices())
	assert.Zero(t, g.ElementCount())
}
