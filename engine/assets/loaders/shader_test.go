package loaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tessera/engine/core"
)

const manifest = `
[[variant]]
name = "Lambert"
vertex = "lambert-vert.glsl"
fragment = "lambert-frag.glsl"

[[variant]]
name = "Transform"
vertex = "transform-vert.glsl"
fragment = "lambert-frag.glsl"
`

func TestParseShaderManifest(t *testing.T) {
	m, err := ParseShaderManifest([]byte(manifest))
	require.NoError(t, err)
	require.Len(t, m.Variants, 2)

	v, ok := m.Variant("Transform")
	require.True(t, ok)
	assert.Equal(t, []string{"transform-vert.glsl", "lambert-frag.glsl"}, v.Files())

	_, ok = m.Variant("Phong")
	assert.False(t, ok)
}

func TestParseShaderManifestRejects(t *testing.T) {
	cases := map[string]string{
		"empty":     ``,
		"syntax":    `[[variant]` + "\n",
		"no name":   "[[variant]]\nvertex = \"a.glsl\"\nfragment = \"b.glsl\"\n",
		"duplicate": manifest + "\n[[variant]]\nname = \"Lambert\"\nvertex = \"a.glsl\"\nfragment = \"b.glsl\"\n",
		"extension": "[[variant]]\nname = \"x\"\nvertex = \"a.vert\"\nfragment = \"b.glsl\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseShaderManifest([]byte(doc))
			require.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestShaderLoader(t *testing.T) {
	l := &ShaderLoader{}
	src, err := l.Load("a.glsl", []byte("\ufeffvoid main() {}"))
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)

	_, err = l.Load("a.glsl", []byte("  \n"))
	require.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = l.Load("a.glsl", []byte("#version 300 es\nvoid main() {}"))
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}
