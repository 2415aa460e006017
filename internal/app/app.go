// Package app implements the render loop.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glround/glround/internal/assets"
	"github.com/glround/glround/internal/config"
	"github.com/glround/glround/internal/engine/debug"
	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/gpu/glcore"
	"github.com/glround/glround/internal/engine/input"
	"github.com/glround/glround/internal/engine/renderer"
	"github.com/glround/glround/internal/engine/texture"
	"github.com/glround/glround/internal/engine/window"
	"github.com/glround/glround/internal/logger"
	"github.com/glround/glround/internal/scene"
)

// State is the loop state. Closing is terminal.
type State int

const (
	// StateIdle means Run has not started yet.
	StateIdle State = iota
	StateRunning
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// App is the main demo instance.
type App struct {
	config   *config.Config
	state    State
	window   window.Window
	renderer *renderer.Renderer
	scene    scene.Scene

	input  input.State
	steps  input.Steps
	frames uint64
	closed bool

	screenshots *debug.Screenshots
	capture     bool
}

// New creates the window and GL device, then sets up the configured scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing app",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("scene", cfg.Scene.Name),
	)

	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Backend:    cfg.Graphics.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Load GL functions (AFTER window, since OpenGL context must exist)
	dev, err := glcore.New()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	a, err := NewWithDevice(cfg, win, dev)
	if err != nil {
		win.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDevice sets up the configured scene on an existing window and
// device. The app takes ownership of win only on success.
func NewWithDevice(cfg *config.Config, win window.Window, dev gpu.Device) (*App, error) {
	sc, err := scene.New(cfg.Scene.Name)
	if err != nil {
		return nil, err
	}

	format, err := texture.ParseFormat(cfg.Textures.Format)
	if err != nil {
		return nil, err
	}

	settings := sc.Settings()
	if c := cfg.Graphics.ClearColor; len(c) >= 3 {
		settings.ClearColor = [4]float32{c[0], c[1], c[2], 1}
		if len(c) == 4 {
			settings.ClearColor[3] = c[3]
		}
	}

	width, height := win.FramebufferSize()
	r := renderer.New(dev, renderer.Config{
		Width:        width,
		Height:       height,
		ResizeOffset: cfg.Graphics.ResizeOffset,
		ClearColor:   settings.ClearColor,
		DepthTest:    settings.DepthTest,
	})

	opts := scene.Options{
		Assets:         assets.NewManager(cfg.Scene.AssetRoot),
		VertexShader:   cfg.Shaders.Vertex,
		FragmentShader: cfg.Shaders.Fragment,
		Textures:       cfg.Textures.Paths,
		FlipVertically: cfg.Textures.FlipVertically,
		Format:         format,
		Wrap:           cfg.Textures.Wrap,
	}
	if err := sc.Setup(r, opts); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to set up scene %s: %w", sc.Name(), err)
	}

	logger.Info("app initialized successfully", zap.String("scene", sc.Name()))
	return &App{
		config:   cfg,
		window:   win,
		renderer: r,
		scene:    sc,
		steps: input.Steps{
			Distance: cfg.Input.DistanceStep,
			Degrees:  cfg.Input.DegreeStep,
		},
		screenshots: debug.NewScreenshots(cfg.Graphics.ScreenshotDir, sc.Name()),
	}, nil
}

// Run executes the render loop until the window is asked to close, the exit
// key is held, or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.state != StateIdle {
		return fmt.Errorf("run in state %s", a.state)
	}
	a.state = StateRunning

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for a.state == StateRunning {
		if err := ctx.Err(); err != nil {
			logger.Info("render loop cancelled", zap.Error(err))
			a.state = StateClosing
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Window events
		for _, event := range a.window.PollEvents() {
			switch event.Type {
			case input.EventQuit:
				a.window.SetShouldClose(true)
			case input.EventWindowResize:
				a.renderer.Resize(event.Width, event.Height)
				a.scene.Resize(a.renderer.Size())
			case input.EventKeyDown:
				if event.Key == input.KeyF12 {
					a.capture = true
				}
			}
		}

		// 2. Keyboard state
		input.Poll(a.window, &a.input, a.steps)
		if a.input.Exit {
			a.window.SetShouldClose(true)
		}
		if a.window.ShouldClose() {
			a.state = StateClosing
			break
		}

		// 3. Update
		a.scene.Update(&a.input)

		// 4. Render
		a.renderer.Begin()
		a.scene.Draw(a.renderer)
		a.renderer.End()

		if a.capture {
			a.capture = false
			a.screenshot()
		}

		// 5. Present
		a.window.SwapBuffers()
		a.frames++

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	logger.Info("render loop finished", zap.Uint64("frames", a.frames))
	return nil
}

// screenshot saves the frame just drawn. Failures are logged only.
func (a *App) screenshot() {
	w, h := a.renderer.Size()
	pixels := a.renderer.Device().ReadPixels(0, 0, int32(w), int32(h))
	path, err := a.screenshots.SaveRGBA(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// State returns the loop state.
func (a *App) State() State {
	return a.state
}

// Frames returns the number of frames presented so far.
func (a *App) Frames() uint64 {
	return a.frames
}

// Scene returns the active scene.
func (a *App) Scene() scene.Scene {
	return a.scene
}

// Close releases GPU resources, then the window. Further calls are no-ops.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.state = StateClosing
	logger.Info("closing app")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
