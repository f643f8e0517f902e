package systems

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

// ShaderSystem owns one linked program per manifest variant and tracks
// which one is active. Exactly one variant is active at a time.
type ShaderSystem struct {
	ctx      renderer.Context
	assets   *assets.AssetManager
	manifest *loaders.ShaderManifest
	// A lookup table for variant name->program
	Lookup map[string]*renderer.ShaderProgram
	active string
}

// NewShaderSystem builds every variant of the manifest. Any failure
// destroys the programs already linked and is returned to the caller;
// there is no fallback shader.
func NewShaderSystem(ctx renderer.Context, am *assets.AssetManager, active string) (*ShaderSystem, error) {
	manifest, err := am.LoadShaderManifest()
	if err != nil {
		return nil, err
	}
	ss := &ShaderSystem{
		ctx:      ctx,
		assets:   am,
		manifest: manifest,
		Lookup:   make(map[string]*renderer.ShaderProgram, len(manifest.Variants)),
	}
	for _, v := range manifest.Variants {
		p, err := ss.build(v)
		if err != nil {
			ss.Shutdown()
			return nil, err
		}
		ss.Lookup[v.Name] = p
	}
	if err := ss.SetActive(active); err != nil {
		ss.Shutdown()
		return nil, err
	}
	core.LogInfo("shader system ready: %v (active %q)", manifest.Names(), active)
	return ss, nil
}

func (ss *ShaderSystem) build(v loaders.ShaderVariant) (*renderer.ShaderProgram, error) {
	vert, err := ss.assets.ReadShader(v.Vertex)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", v.Name, err)
	}
	frag, err := ss.assets.ReadShader(v.Fragment)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", v.Name, err)
	}
	return renderer.NewShaderProgram(ss.ctx, v.Name,
		renderer.ShaderSource{Stage: renderer.ShaderStageVertex, File: v.Vertex, Source: vert},
		renderer.ShaderSource{Stage: renderer.ShaderStageFragment, File: v.Fragment, Source: frag},
	)
}

// Names lists the variants in manifest order.
func (ss *ShaderSystem) Names() []string {
	return ss.manifest.Names()
}

func (ss *ShaderSystem) Get(name string) (*renderer.ShaderProgram, bool) {
	p, ok := ss.Lookup[name]
	return p, ok
}

func (ss *ShaderSystem) Active() *renderer.ShaderProgram {
	return ss.Lookup[ss.active]
}

func (ss *ShaderSystem) ActiveName() string {
	return ss.active
}

func (ss *ShaderSystem) SetActive(name string) error {
	if _, ok := ss.Lookup[name]; !ok {
		return core.InvalidParameter("unknown shader %q", name)
	}
	if ss.active != name {
		core.LogDebug("active shader: %q", name)
	}
	ss.active = name
	return nil
}

// Reload relinks every variant that uses one of the changed files. A
// variant is only replaced once its new program linked; on failure the
// previous program stays in use and the error is logged. It returns the
// names of the variants that were replaced.
func (ss *ShaderSystem) Reload(changed []string) []string {
	if len(changed) == 0 {
		return nil
	}
	files := make(map[string]bool, len(changed))
	for _, f := range changed {
		files[f] = true
	}

	if files[assets.ManifestFile] {
		core.LogWarn("%s changed; variants are only rebuilt from their stage files until restart", assets.ManifestFile)
	}

	var reloaded []string
	for _, v := range ss.manifest.Variants {
		if !files[v.Vertex] && !files[v.Fragment] {
			continue
		}
		p, err := ss.build(v)
		if err != nil {
			core.LogError("shader %q reload failed, keeping previous program: %s", v.Name, err)
			continue
		}
		if old := ss.Lookup[v.Name]; old != nil {
			old.Destroy()
		}
		ss.Lookup[v.Name] = p
		reloaded = append(reloaded, v.Name)
		core.LogInfo("shader %q reloaded", v.Name)
	}
	return reloaded
}

func (ss *ShaderSystem) Shutdown() error {
	for name, p := range ss.Lookup {
		p.Destroy()
		delete(ss.Lookup, name)
	}
	return nil
}
