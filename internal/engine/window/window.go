// Package window handles window and OpenGL context creation.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/glround/glround/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backend names accepted by New.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown window backend")

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Backend    string
}

// Window is an on-screen window owning a current OpenGL 4.1 core context.
type Window interface {
	input.Keyboard

	// PollEvents processes pending window system events and returns them.
	// The returned slice is only valid until the next call.
	PollEvents() []input.Event

	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()

	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)

	// Close destroys the context and the window. Further calls are no-ops.
	Close()
}

// New creates a window with the configured backend. An empty backend
// selects SDL.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case "", BackendSDL:
		return newSDL(cfg)
	case BackendGLFW:
		return newGLFW(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
