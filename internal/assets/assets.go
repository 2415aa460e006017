// Package assets resolves shader and texture files for the demo scenes.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EmbeddedPrefix marks a path that is served from the binary instead of disk.
const EmbeddedPrefix = "embed:"

//go:embed shaders/*.vert shaders/*.frag
var embedded embed.FS

// Embedded shader paths for the built-in scenes.
const (
	QuadVertexShader   = EmbeddedPrefix + "shaders/quad.vert"
	QuadFragmentShader = EmbeddedPrefix + "shaders/quad.frag"
	CubeVertexShader   = EmbeddedPrefix + "shaders/cube.vert"
	CubeFragmentShader = EmbeddedPrefix + "shaders/cube.frag"
)

// Manager loads files relative to a root directory, with embedded fallbacks
// for paths carrying EmbeddedPrefix.
type Manager struct {
	root string
	fsys fs.FS
}

// NewManager creates a manager rooted at dir. An empty dir means the
// working directory.
func NewManager(dir string) *Manager {
	return &Manager{root: dir, fsys: embedded}
}

// Root returns the directory relative paths are resolved against.
func (m *Manager) Root() string {
	return m.root
}

// Resolve returns the on-disk path for path. Absolute and embedded paths are
// returned unchanged.
func (m *Manager) Resolve(path string) string {
	if strings.HasPrefix(path, EmbeddedPrefix) || filepath.IsAbs(path) || m.root == "" {
		return path
	}
	return filepath.Join(m.root, path)
}

// Load reads a whole file.
func (m *Manager) Load(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, EmbeddedPrefix); ok {
		data, err := fs.ReadFile(m.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("embedded asset %s: %w", name, err)
		}
		return data, nil
	}
	return os.ReadFile(m.Resolve(path))
}
