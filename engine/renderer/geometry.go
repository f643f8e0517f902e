package renderer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
)

// Drawable is what a ShaderProgram needs to draw something: an element
// count and the ability to bind its streams.
type Drawable interface {
	ElementCount() int
	BindIndices() bool
	BindPositions(loc AttribLocation) bool
	BindNormals(loc AttribLocation) bool
}

// Geometry is a generated mesh resident in GPU buffers. The buffers are
// replaced as a unit: either all three reflect the latest mesh or the
// previous ones are still in place.
type Geometry struct {
	ID    uuid.UUID
	ctx   Context
	shape geometry.Shape

	indices   Buffer
	positions Buffer
	normals   Buffer
	count     int
	// Generation increments on every successful upload.
	Generation uint32
}

func NewGeometry(ctx Context, shape geometry.Shape) *Geometry {
	return &Geometry{
		ID:    uuid.New(),
		ctx:   ctx,
		shape: shape,
	}
}

func (g *Geometry) Name() string {
	if g.shape == nil {
		return "geometry"
	}
	return g.shape.Name()
}

func (g *Geometry) Shape() geometry.Shape {
	return g.shape
}

// Create generates the mesh from the shape and uploads it.
func (g *Geometry) Create() error {
	return g.Rebuild(g.shape)
}

// Rebuild replaces the shape and its buffers. On error the geometry keeps
// the previous shape and buffers.
func (g *Geometry) Rebuild(shape geometry.Shape) error {
	if shape == nil {
		return core.InvalidParameter("geometry %s: nil shape", g.ID)
	}
	mesh, err := shape.Generate()
	if err != nil {
		return fmt.Errorf("geometry %s: generate %s: %w", g.ID, shape.Name(), err)
	}
	if err := g.Upload(mesh); err != nil {
		return err
	}
	g.shape = shape
	return nil
}

// Upload copies mesh into three freshly allocated buffers and then releases
// the previous ones.
func (g *Geometry) Upload(mesh *geometry.Mesh) (err error) {
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("geometry %s: %w", g.ID, err)
	}

	var created []Buffer
	defer func() {
		if err != nil {
			for _, b := range created {
				g.ctx.DeleteBuffer(b)
			}
		}
	}()
	alloc := func() (Buffer, error) {
		b, err := g.ctx.CreateBuffer()
		if err != nil {
			return 0, fmt.Errorf("geometry %s: %w", g.ID, err)
		}
		created = append(created, b)
		return b, nil
	}

	idx, err := alloc()
	if err != nil {
		return err
	}
	pos, err := alloc()
	if err != nil {
		return err
	}
	nor, err := alloc()
	if err != nil {
		return err
	}

	if err = g.ctx.BufferUint32(ElementArrayBuffer, idx, mesh.Indices); err != nil {
		return fmt.Errorf("geometry %s: upload indices: %w", g.ID, err)
	}
	if err = g.ctx.BufferFloat32(ArrayBuffer, nor, mesh.Normals); err != nil {
		return fmt.Errorf("geometry %s: upload normals: %w", g.ID, err)
	}
	if err = g.ctx.BufferFloat32(ArrayBuffer, pos, mesh.Positions); err != nil {
		return fmt.Errorf("geometry %s: upload positions: %w", g.ID, err)
	}

	g.release()
	g.indices, g.positions, g.normals = idx, pos, nor
	g.count = len(mesh.Indices)
	g.Generation++
	core.LogDebug("geometry %s (%s) uploaded: %s", g.ID, g.Name(), mesh)
	return nil
}

func (g *Geometry) release() {
	for _, b := range []Buffer{g.indices, g.positions, g.normals} {
		if b != 0 {
			g.ctx.DeleteBuffer(b)
		}
	}
	g.indices, g.positions, g.normals = 0, 0, 0
	g.count = 0
}

// Destroy releases the GPU buffers. Safe to call more than once.
func (g *Geometry) Destroy() {
	g.release()
}

func (g *Geometry) Uploaded() bool {
	return g.indices != 0
}

func (g *Geometry) ElementCount() int {
	return g.count
}

func (g *Geometry) BindIndices() bool {
	if g.indices == 0 {
		return false
	}
	g.ctx.BindBuffer(ElementArrayBuffer, g.indices)
	return true
}

func (g *Geometry) BindPositions(loc AttribLocation) bool {
	if g.positions == 0 {
		return false
	}
	g.ctx.VertexAttribPointer(loc, geometry.ComponentsPerVertex, g.positions)
	return true
}

func (g *Geometry) BindNormals(loc AttribLocation) bool {
	if g.normals == 0 {
		return false
	}
	g.ctx.VertexAttribPointer(loc, geometry.ComponentsPerVertex, g.normals)
	return true
}
