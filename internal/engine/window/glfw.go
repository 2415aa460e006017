package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/input"
	"github.com/glround/glround/internal/logger"
)

var glfwKeys = map[input.Key]glfw.Key{
	input.KeyEscape: glfw.KeyEscape,
	input.KeyW:      glfw.KeyW,
	input.KeyA:      glfw.KeyA,
	input.KeyS:      glfw.KeyS,
	input.KeyD:      glfw.KeyD,
	input.KeyF12:    glfw.KeyF12,
}

func glfwKey(key glfw.Key) input.Key {
	for k, v := range glfwKeys {
		if v == key {
			return k
		}
	}
	return input.KeyUnknown
}

// glfwWindow wraps a GLFW window. Callbacks queue events which PollEvents
// hands out after glfw.PollEvents returns.
type glfwWindow struct {
	config Config
	window *glfw.Window

	pending []input.Event
	events  []input.Event
	closed  bool
}

func newGLFW(cfg Config) (*glfwWindow, error) {
	logger.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwInit failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwCreateWindow failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindow{
		config: cfg,
		window: win,
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pending = append(w.pending, input.Event{
			Type:   input.EventWindowResize,
			Width:  width,
			Height: height,
		})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.pending = append(w.pending, input.Event{Type: input.EventQuit})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		var typ input.EventType
		switch action {
		case glfw.Press:
			typ = input.EventKeyDown
		case glfw.Release:
			typ = input.EventKeyUp
		default:
			return
		}
		w.pending = append(w.pending, input.Event{Type: typ, Key: glfwKey(key)})
	})

	logger.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func (w *glfwWindow) PollEvents() []input.Event {
	glfw.PollEvents()
	w.events = append(w.events[:0], w.pending...)
	w.pending = w.pending[:0]
	return w.events
}

func (w *glfwWindow) KeyDown(k input.Key) bool {
	key, ok := glfwKeys[k]
	if !ok {
		return false
	}
	return w.window.GetKey(key) == glfw.Press
}

func (w *glfwWindow) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *glfwWindow) SetShouldClose(v bool) {
	w.window.SetShouldClose(v)
}

func (w *glfwWindow) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *glfwWindow) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

func (w *glfwWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	logger.Info("closing window", zap.String("backend", BackendGLFW))

	w.window.Destroy()
	glfw.Terminate()
}
