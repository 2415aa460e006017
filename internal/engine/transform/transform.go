// Package transform holds the per-frame matrices of the demo scenes.
//
// Updates are incremental: each frame's delta is multiplied onto the matrix
// accumulated so far rather than rebuilt from scratch, so the result depends
// on the path taken and drifts slowly over very long runs.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glround/glround/internal/engine/input"
)

// Projection defaults.
const (
	FieldOfView = 45.0 // degrees
	Near        = 0.1
	Far         = 100.0
)

// Scene3D is the model/view/projection triple of the cube scene.
type Scene3D struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4

	// Axis is the model rotation axis for the A/D keys.
	Axis mgl32.Vec3
}

// NewScene3D returns the starting pose: the model tilted back 55 degrees,
// the camera 3 units out, and a 45 degree perspective for the aspect ratio.
func NewScene3D(aspect float32) *Scene3D {
	return &Scene3D{
		Model:      mgl32.HomogRotate3D(mgl32.DegToRad(-55), mgl32.Vec3{1, 0, 0}),
		View:       mgl32.Translate3D(0, 0, -3),
		Projection: Perspective(aspect),
		Axis:       mgl32.Vec3{0.5, 1, 0}.Normalize(),
	}
}

// Perspective returns the scene projection for an aspect ratio.
func Perspective(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, Near, Far)
}

// SetAspect rebuilds the projection after a resize.
func (s *Scene3D) SetAspect(aspect float32) {
	s.Projection = Perspective(aspect)
}

// Apply composes the pending deltas: distance translates the view along
// its depth axis and degrees rotate the model about Axis. The deltas are
// reset afterwards. With no pending delta the matrices are left untouched.
func (s *Scene3D) Apply(in *input.State) {
	if in.Distance != 0 {
		s.View = s.View.Mul4(mgl32.Translate3D(0, 0, in.Distance))
	}
	if in.Degrees != 0 {
		s.Model = s.Model.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(in.Degrees), s.Axis))
	}
	in.Reset()
}

// Scene2D is the pair of independent instance transforms of the quad scene.
type Scene2D struct {
	First  mgl32.Mat4
	Second mgl32.Mat4
}

// NewScene2D returns the two instance poses: the first shifted down-left and
// turned 90 degrees, the second shifted up-right and scaled by 1.5.
func NewScene2D() *Scene2D {
	return &Scene2D{
		First: mgl32.Translate3D(-0.4, -0.4, 0).
			Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})),
		Second: mgl32.Translate3D(0.4, 0.4, 0).
			Mul4(mgl32.Scale3D(1.5, 1.5, 0)),
	}
}

// Apply rotates the first instance about Z by the pending degrees and moves
// the second along Y by the pending distance, then resets the deltas.
func (s *Scene2D) Apply(in *input.State) {
	if in.Degrees != 0 {
		s.First = s.First.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(in.Degrees), mgl32.Vec3{0, 0, 1}))
	}
	if in.Distance != 0 {
		s.Second = s.Second.Mul4(mgl32.Translate3D(0, in.Distance, 0))
	}
	in.Reset()
}
