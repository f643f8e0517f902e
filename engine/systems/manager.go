package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type SystemManager struct {
	Renderer       *renderer.Renderer
	ShaderSystem   *ShaderSystem
	GeometrySystem *GeometrySystem
	CameraSystem   *CameraSystem
}

func NewSystemManager(ctx renderer.Context, cfg *config.Config, am *assets.AssetManager, opts ...renderer.Option) (*SystemManager, error) {
	opts = append([]renderer.Option{renderer.WithClearColor(mgl32.Vec4(cfg.Renderer.ClearColor))}, opts...)
	r := renderer.New(ctx, opts...)
	r.SetUniformColor(cfg.Controls.Color)

	ss, err := NewShaderSystem(ctx, am, cfg.Controls.Shader)
	if err != nil {
		core.LogError("shader system failed to start: %s", err)
		return nil, err
	}
	return &SystemManager{
		Renderer:       r,
		ShaderSystem:   ss,
		GeometrySystem: NewGeometrySystem(ctx),
		CameraSystem:   NewCameraSystem(cfg.Camera),
	}, nil
}

// Resize applies a new framebuffer size to the viewport and every camera.
func (sm *SystemManager) Resize(width, height int) error {
	if err := sm.Renderer.Resize(width, height, sm.CameraSystem.GetDefault()); err != nil {
		return err
	}
	sm.CameraSystem.Resize(width, height)
	return nil
}

// Shutdown releases GPU resources in reverse acquisition order.
func (sm *SystemManager) Shutdown() error {
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
