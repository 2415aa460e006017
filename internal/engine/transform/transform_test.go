package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/glround/glround/internal/engine/input"
)

var steps = input.Steps{Distance: 0.05, Degrees: 1}

func TestHeldKeyAccumulatesOneDeltaPerFrame(t *testing.T) {
	const frames = 30
	s := NewScene3D(1)
	start := *s

	kb := input.KeySet{input.KeyA: true, input.KeyW: true}
	var in input.State
	for i := 0; i < frames; i++ {
		input.Poll(kb, &in, steps)
		s.Apply(&in)
		assert.False(t, in.Moved(), "deltas are consumed every frame")
	}

	wantModel, wantView := start.Model, start.View
	for i := 0; i < frames; i++ {
		wantView = wantView.Mul4(mgl32.Translate3D(0, 0, steps.Distance))
		wantModel = wantModel.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(steps.Degrees), start.Axis))
	}
	assert.Equal(t, wantView, s.View)
	assert.Equal(t, wantModel, s.Model)

	assert.InDelta(t, -3+frames*0.05, s.View[14], 1e-4)
	assert.True(t, s.Model.ApproxEqualThreshold(
		start.Model.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(frames), start.Axis)), 1e-4))
}

func TestReleasedKeysLeaveTransformUnchanged(t *testing.T) {
	s := NewScene3D(1)
	var in input.State

	input.Poll(input.KeySet{input.KeyD: true, input.KeyS: true}, &in, steps)
	s.Apply(&in)
	moved := *s

	for i := 0; i < 10; i++ {
		input.Poll(input.KeySet{}, &in, steps)
		s.Apply(&in)
	}
	assert.Equal(t, moved.Model, s.Model)
	assert.Equal(t, moved.View, s.View)
	assert.Equal(t, moved.Projection, s.Projection)
}

func TestScene3DStartPose(t *testing.T) {
	s := NewScene3D(800.0 / 600.0)

	assert.InDelta(t, -3, s.View[14], 1e-6)
	assert.InDelta(t, 1, s.Axis.Len(), 1e-6)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100), s.Projection)

	s.SetAspect(0)
	assert.Equal(t, Perspective(1), s.Projection)
}

func TestScene2DStartPose(t *testing.T) {
	s := NewScene2D()

	// Quad corner (0.5, 0) turned 90 degrees lands on (0, 0.5), then shifts.
	p := s.First.Mul4x1(mgl32.Vec4{0.5, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{-0.4, 0.1, 0, 1}, 1e-5), "got %v", p)

	q := s.Second.Mul4x1(mgl32.Vec4{0.5, 0.5, 0.7, 1})
	assert.True(t, q.ApproxEqualThreshold(mgl32.Vec4{1.15, 1.15, 0, 1}, 1e-5), "got %v", q)
}

func TestScene2DApply(t *testing.T) {
	s := NewScene2D()
	start := *s
	in := input.State{Degrees: 90, Distance: 0.1}

	s.Apply(&in)

	assert.False(t, in.Moved())
	assert.Equal(t, start.First.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})), s.First)
	assert.Equal(t, start.Second.Mul4(mgl32.Translate3D(0, 0.1, 0)), s.Second)

	before := *s
	s.Apply(&input.State{})
	assert.Equal(t, before, *s)
}
