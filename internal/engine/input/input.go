// Package input turns window events and keyboard state into per-frame
// movement deltas.
package input

// EventType classifies window events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Key is a backend-independent key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeyF12
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyF12:
		return "F12"
	default:
		return "Unknown"
	}
}

// Event represents a processed window event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Keyboard reports whether a key is held right now.
type Keyboard interface {
	KeyDown(k Key) bool
}

// Steps is the amount added per frame while a movement key is held.
type Steps struct {
	Distance float32
	Degrees  float32
}

// State accumulates one frame's worth of input. It is filled by Poll,
// consumed by a transform update and then Reset.
type State struct {
	Distance float32
	Degrees  float32

	// Exit is set once the exit key has been seen. Reset leaves it alone.
	Exit bool
}

// Poll reads the held keys and adds one step per held movement key.
// Opposite keys held together cancel out.
func Poll(kb Keyboard, s *State, steps Steps) {
	if kb.KeyDown(KeyEscape) {
		s.Exit = true
	}
	if kb.KeyDown(KeyW) {
		s.Distance += steps.Distance
	}
	if kb.KeyDown(KeyS) {
		s.Distance -= steps.Distance
	}
	if kb.KeyDown(KeyA) {
		s.Degrees += steps.Degrees
	}
	if kb.KeyDown(KeyD) {
		s.Degrees -= steps.Degrees
	}
}

// Moved reports whether any delta is pending.
func (s *State) Moved() bool {
	return s.Distance != 0 || s.Degrees != 0
}

// Reset zeroes the pending deltas.
func (s *State) Reset() {
	s.Distance = 0
	s.Degrees = 0
}

// KeySet is a Keyboard backed by a set of held keys. It tracks KeyDown and
// KeyUp events, which is what backends without a polling API use.
type KeySet map[Key]bool

// KeyDown implements Keyboard.
func (ks KeySet) KeyDown(k Key) bool {
	return ks[k]
}

// Apply updates the set from key events.
func (ks KeySet) Apply(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventKeyDown:
			ks[e.Key] = true
		case EventKeyUp:
			delete(ks, e.Key)
		}
	}
}
