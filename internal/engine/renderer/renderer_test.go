package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/gpu/gputest"
	"github.com/glround/glround/internal/engine/mesh"
)

type memSource map[string]string

func (m memSource) Load(path string) ([]byte, error) {
	return []byte(m[path]), nil
}

func newRenderer(depth bool) (*Renderer, *gputest.Device) {
	dev := gputest.New()
	r := New(dev, Config{
		Width:      600,
		Height:     600,
		ClearColor: [4]float32{0.2, 0.7, 0.2, 1},
		DepthTest:  depth,
	})
	return r, dev
}

func TestNewAppliesInitialState(t *testing.T) {
	_, dev := newRenderer(true)

	assert.Equal(t, [4]float32{0.2, 0.7, 0.2, 1}, dev.ClearColor)
	assert.True(t, dev.DepthTest)
	assert.Equal(t, [][4]int32{{0, 0, 600, 600}}, dev.Viewports)
}

func TestBeginClearMask(t *testing.T) {
	r, dev := newRenderer(false)
	r.Begin()
	r.End()

	d, ddev := newRenderer(true)
	d.Begin()

	assert.Equal(t, []gpu.ClearMask{gpu.ClearColor}, dev.Clears)
	assert.Equal(t, []gpu.ClearMask{gpu.ClearColor | gpu.ClearDepth}, ddev.Clears)
}

func TestResize(t *testing.T) {
	dev := gputest.New()
	r := New(dev, Config{Width: 600, Height: 600, ResizeOffset: 100})

	r.Resize(800, 500)
	w, h := r.Size()
	assert.Equal(t, 700, w)
	assert.Equal(t, 400, h)
	assert.Equal(t, [4]int32{0, 0, 700, 400}, dev.Viewports[len(dev.Viewports)-1])

	r.Resize(50, 50)
	assert.Equal(t, [4]int32{0, 0, 1, 1}, dev.Viewports[len(dev.Viewports)-1])
}

func TestCloseReleasesEverythingOnce(t *testing.T) {
	r, dev := newRenderer(false)

	p := r.Program(memSource{"v": "void main(){}", "f": "void main(){}"}, "v", "f")
	require.True(t, p.Result().OK())
	m := r.Mesh(mesh.Quad())

	r.Bind(m, p)
	m.Draw()
	require.Len(t, dev.Draws, 1)

	r.Close()
	r.Close()

	assert.Empty(t, dev.Live(), "live objects: %s", dev.Summary())
	assert.Empty(t, dev.DoubleFreed())
	assert.Empty(t, dev.Misuse)
}

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Delete() { *r.log = append(*r.log, r.name) }

func TestCloseOrder(t *testing.T) {
	r, _ := newRenderer(false)
	var log []string
	r.Track(recorder{"first", &log})
	r.Track(recorder{"second", &log})
	r.Track(recorder{"third", &log})

	r.Close()
	r.Close()

	assert.Equal(t, []string{"third", "second", "first"}, log)
}
