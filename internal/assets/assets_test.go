package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	m := NewManager(t.TempDir())

	for _, path := range []string{QuadVertexShader, QuadFragmentShader, CubeVertexShader, CubeFragmentShader} {
		data, err := m.Load(path)
		require.NoError(t, err, path)
		assert.Contains(t, string(data), "#version 410 core", path)
	}
}

func TestLoadEmbeddedMissing(t *testing.T) {
	m := NewManager("")
	_, err := m.Load(EmbeddedPrefix + "shaders/nope.vert")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFromRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "a.vert"), []byte("void main() {}"), 0644))

	m := NewManager(root)
	data, err := m.Load("shaders/a.vert")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", string(data))

	_, err = m.Load("shaders/missing.vert")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestResolve(t *testing.T) {
	m := NewManager("/srv/demo")

	assert.Equal(t, filepath.Join("/srv/demo", "textures", "a.png"), m.Resolve("textures/a.png"))
	assert.Equal(t, "/abs/a.png", m.Resolve("/abs/a.png"))
	assert.Equal(t, QuadVertexShader, m.Resolve(QuadVertexShader))
	assert.Equal(t, "rel.png", NewManager("").Resolve("rel.png"))
}
