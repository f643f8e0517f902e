package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/tessera/engine/core"
)

// ShaderVariant names the two stage files of one selectable program.
type ShaderVariant struct {
	Name     string `toml:"name"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

// Files returns the stage files in link order.
func (v ShaderVariant) Files() []string {
	return []string{v.Vertex, v.Fragment}
}

type ShaderManifest struct {
	Variants []ShaderVariant `toml:"variant"`
}

// Variant looks a variant up by name.
func (m *ShaderManifest) Variant(name string) (ShaderVariant, bool) {
	for _, v := range m.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return ShaderVariant{}, false
}

func (m *ShaderManifest) Names() []string {
	names := make([]string, len(m.Variants))
	for i, v := range m.Variants {
		names[i] = v.Name
	}
	return names
}

// ParseShaderManifest decodes a shaders.toml document. Every variant needs
// a unique name and both stage files with a .glsl extension.
func ParseShaderManifest(data []byte) (*ShaderManifest, error) {
	var m ShaderManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: shader manifest: %s", core.ErrInvalidParameter, err)
	}
	if len(m.Variants) == 0 {
		return nil, core.InvalidParameter("shader manifest declares no variants")
	}

	seen := make(map[string]bool, len(m.Variants))
	for i, v := range m.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return nil, core.InvalidParameter("shader variant #%d has no name", i)
		}
		if seen[v.Name] {
			return nil, core.InvalidParameter("shader variant %q declared twice", v.Name)
		}
		seen[v.Name] = true
		for _, f := range v.Files() {
			if filepath.Ext(f) != ".glsl" {
				return nil, core.InvalidParameter("shader variant %q: %q is not a .glsl file", v.Name, f)
			}
		}
	}
	return &m, nil
}

// ShaderLoader turns raw GLSL bytes into source text.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(name string, data []byte) (string, error) {
	src := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(src) == "" {
		return "", core.InvalidParameter("shader %s is empty", name)
	}
	// the backend supplies its own version line
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return "", core.InvalidParameter("shader %s must not declare #version", name)
	}
	return src, nil
}
