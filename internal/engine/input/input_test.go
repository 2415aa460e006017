package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var steps = Steps{Distance: 0.05, Degrees: 1}

func TestPollHeldKeyAccumulatesPerFrame(t *testing.T) {
	kb := KeySet{KeyA: true}
	var s State

	for i := 0; i < 7; i++ {
		Poll(kb, &s, steps)
	}
	assert.Equal(t, float32(7), s.Degrees)
	assert.Zero(t, s.Distance)
	assert.False(t, s.Exit)
}

func TestPollDirections(t *testing.T) {
	tests := []struct {
		name     string
		keys     KeySet
		distance float32
		degrees  float32
	}{
		{"none", KeySet{}, 0, 0},
		{"forward", KeySet{KeyW: true}, 0.05, 0},
		{"back", KeySet{KeyS: true}, -0.05, 0},
		{"left", KeySet{KeyA: true}, 0, 1},
		{"right", KeySet{KeyD: true}, 0, -1},
		{"opposites cancel", KeySet{KeyW: true, KeyS: true, KeyA: true, KeyD: true}, 0, 0},
		{"diagonal", KeySet{KeyW: true, KeyD: true}, 0.05, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			Poll(tt.keys, &s, steps)
			assert.Equal(t, tt.distance, s.Distance)
			assert.Equal(t, tt.degrees, s.Degrees)
		})
	}
}

func TestPollExit(t *testing.T) {
	var s State
	Poll(KeySet{KeyEscape: true}, &s, steps)
	assert.True(t, s.Exit)

	s.Reset()
	Poll(KeySet{}, &s, steps)
	assert.True(t, s.Exit, "exit request survives reset")
}

func TestResetAndMoved(t *testing.T) {
	s := State{Distance: 1, Degrees: 2}
	assert.True(t, s.Moved())

	s.Reset()
	assert.False(t, s.Moved())
	assert.Zero(t, s.Distance)
	assert.Zero(t, s.Degrees)
}

func TestKeySetApply(t *testing.T) {
	ks := KeySet{}
	ks.Apply([]Event{
		{Type: EventKeyDown, Key: KeyW},
		{Type: EventKeyDown, Key: KeyA},
		{Type: EventWindowResize, Width: 10, Height: 10},
		{Type: EventKeyUp, Key: KeyA},
	})

	assert.True(t, ks.KeyDown(KeyW))
	assert.False(t, ks.KeyDown(KeyA))
	assert.False(t, ks.KeyDown(KeyEscape))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "W", KeyW.String())
	assert.Equal(t, "F12", KeyF12.String())
	assert.Equal(t, "Unknown", Key(99).String())
}
