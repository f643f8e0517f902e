package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer/components"
)

type cameraReference struct {
	ReferenceCount uint16
	Camera         *components.Camera
}

type CameraSystem struct {
	config config.CameraConfig
	Lookup map[string]*cameraReference
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

func NewCameraSystem(cfg config.CameraConfig) *CameraSystem {
	cs := &CameraSystem{
		config: cfg,
		Lookup: make(map[string]*cameraReference),
	}
	cs.DefaultCamera = cs.newCamera()
	return cs
}

func (cs *CameraSystem) newCamera() *components.Camera {
	c := components.NewCamera(mgl32.Vec3(cs.config.Position), mgl32.Vec3(cs.config.Target))
	if cs.config.FovY > 0 {
		c.FovY = cs.config.FovY
	}
	if cs.config.Near > 0 && cs.config.Far > cs.config.Near {
		c.Near, c.Far = cs.config.Near, cs.config.Far
	}
	c.UpdateProjectionMatrix()
	return c
}

/**
 * @brief Acquires a pointer to a camera by name.
 * If one is not found, a new one is created and retuned.
 * Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) *components.Camera {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera
	}
	ref, ok := cs.Lookup[name]
	if !ok {
		core.LogDebug("Creating new camera named '%s'...", name)
		ref = &cameraReference{Camera: cs.newCamera()}
		cs.Lookup[name] = ref
	}
	ref.ReferenceCount++
	return ref.Camera
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	ref, ok := cs.Lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	ref.ReferenceCount--
	if ref.ReferenceCount < 1 {
		delete(cs.Lookup, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

// Resize updates the aspect ratio of every camera.
func (cs *CameraSystem) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	for _, c := range cs.all() {
		c.SetAspectRatio(aspect)
		c.UpdateProjectionMatrix()
	}
}

func (cs *CameraSystem) all() []*components.Camera {
	cams := []*components.Camera{cs.DefaultCamera}
	for _, ref := range cs.Lookup {
		cams = append(cams, ref.Camera)
	}
	return cams
}

func (cs *CameraSystem) Shutdown() error {
	cs.Lookup = make(map[string]*cameraReference)
	return nil
}
