package webgl

// handles maps WebGL objects to the integer handles the renderer works
// with. Uniform locations are owned by their program and are dropped with
// it.
type handles[V any] struct {
	next     uint32
	objects  map[uint32]V
	uniforms map[int32]V
	owned    map[uint32][]int32
}

func newHandles[V any]() *handles[V] {
	return &handles[V]{
		objects:  map[uint32]V{},
		uniforms: map[int32]V{},
		owned:    map[uint32][]int32{},
	}
}

func (h *handles[V]) store(v V) uint32 {
	h.next++
	h.objects[h.next] = v
	return h.next
}

func (h *handles[V]) object(id uint32) (V, bool) {
	v, ok := h.objects[id]
	return v, ok
}

// remove forgets the object and every uniform location stored for it.
func (h *handles[V]) remove(id uint32) {
	delete(h.objects, id)
	for _, loc := range h.owned[id] {
		delete(h.uniforms, loc)
	}
	delete(h.owned, id)
}

func (h *handles[V]) storeUniform(program uint32, v V) int32 {
	h.next++
	loc := int32(h.next)
	h.uniforms[loc] = v
	h.owned[program] = append(h.owned[program], loc)
	return loc
}

func (h *handles[V]) uniform(loc int32) (V, bool) {
	v, ok := h.uniforms[loc]
	return v, ok
}

func (h *handles[V]) size() (objects, uniforms int) {
	return len(h.objects), len(h.uniforms)
}
