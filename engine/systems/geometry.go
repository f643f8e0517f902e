package systems

import (
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type geometryReference struct {
	ReferenceCount uint32
	Geometry       *renderer.Geometry
}

// GeometrySystem is a registry of named GPU geometries with reference
// counting. Geometries are released in reverse acquisition order.
type GeometrySystem struct {
	ctx    renderer.Context
	Lookup map[string]*geometryReference
	order  []string
}

func NewGeometrySystem(ctx renderer.Context) *GeometrySystem {
	return &GeometrySystem{
		ctx:    ctx,
		Lookup: make(map[string]*geometryReference),
	}
}

// Acquire returns the geometry registered under name, creating and
// uploading it from shape if it does not exist yet.
func (gs *GeometrySystem) Acquire(name string, shape geometry.Shape) (*renderer.Geometry, error) {
	if ref, ok := gs.Lookup[name]; ok {
		ref.ReferenceCount++
		return ref.Geometry, nil
	}
	g := renderer.NewGeometry(gs.ctx, shape)
	if err := g.Create(); err != nil {
		core.LogError("geometry %q: %s", name, err)
		return nil, err
	}
	gs.Lookup[name] = &geometryReference{ReferenceCount: 1, Geometry: g}
	gs.order = append(gs.order, name)
	core.LogDebug("geometry %q created (%s)", name, g.ID)
	return g, nil
}

func (gs *GeometrySystem) Get(name string) (*renderer.Geometry, bool) {
	ref, ok := gs.Lookup[name]
	if !ok {
		return nil, false
	}
	return ref.Geometry, true
}

// Rebuild replaces the mesh of a registered geometry. On failure the
// geometry keeps its previous mesh.
func (gs *GeometrySystem) Rebuild(name string, shape geometry.Shape) error {
	ref, ok := gs.Lookup[name]
	if !ok {
		return core.InvalidParameter("geometry %q is not registered", name)
	}
	return ref.Geometry.Rebuild(shape)
}

// Release decrements the reference count and destroys the geometry when
// it reaches zero.
func (gs *GeometrySystem) Release(name string) {
	ref, ok := gs.Lookup[name]
	if !ok {
		core.LogWarn("geometry %q release failed lookup. Nothing was done.", name)
		return
	}
	ref.ReferenceCount--
	if ref.ReferenceCount > 0 {
		return
	}
	ref.Geometry.Destroy()
	delete(gs.Lookup, name)
	for i, n := range gs.order {
		if n == name {
			gs.order = append(gs.order[:i], gs.order[i+1:]...)
			break
		}
	}
}

func (gs *GeometrySystem) Shutdown() error {
	for i := len(gs.order) - 1; i >= 0; i-- {
		name := gs.order[i]
		gs.Lookup[name].Geometry.Destroy()
		delete(gs.Lookup, name)
	}
	gs.order = nil
	return nil
}
