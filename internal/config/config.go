// Package config handles demo configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Scene    SceneConfig    `yaml:"scene" toml:"scene"`
	Shaders  ShaderConfig   `yaml:"shaders" toml:"shaders"`
	Textures TextureConfig  `yaml:"textures" toml:"textures"`
	Input    InputConfig    `yaml:"input" toml:"input"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds window and context settings.
type GraphicsConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Backend    string `yaml:"backend" toml:"backend"` // sdl or glfw

	// ResizeOffset is subtracted from both framebuffer dimensions before the
	// viewport is applied on resize.
	ResizeOffset int `yaml:"resize_offset" toml:"resize_offset"`

	// ClearColor overrides the scene's background (RGBA, 0..1).
	ClearColor []float32 `yaml:"clear_color" toml:"clear_color"`

	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// SceneConfig selects what is drawn.
type SceneConfig struct {
	Name      string `yaml:"name" toml:"name"`             // quad or cube
	AssetRoot string `yaml:"asset_root" toml:"asset_root"` // base directory for relative paths
}

// ShaderConfig holds shader source paths. Empty paths select the scene's
// embedded shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex" toml:"vertex"`
	Fragment string `yaml:"fragment" toml:"fragment"`
}

// TextureConfig holds texture sources and upload settings.
type TextureConfig struct {
	// Paths overrides the scene's texture files, one per texture unit.
	Paths          []string `yaml:"paths" toml:"paths"`
	FlipVertically bool     `yaml:"flip_vertically" toml:"flip_vertically"`
	Format         string   `yaml:"format" toml:"format"` // auto, rgb or rgba
	Wrap           string   `yaml:"wrap" toml:"wrap"`     // empty for the scene default
}

// InputConfig holds per-frame movement steps.
type InputConfig struct {
	DistanceStep float32 `yaml:"distance_step" toml:"distance_step"`
	DegreeStep   float32 `yaml:"degree_step" toml:"degree_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns a Config with the stock demo values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:   "LearnOpenGLRound2",
			Width:   600,
			Height:  600,
			VSync:   true,
			Backend: "sdl",

			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			Name:      "quad",
			AssetRoot: ".",
		},
		Textures: TextureConfig{
			FlipVertically: true,
			Format:         "auto",
		},
		Input: InputConfig{
			DistanceStep: 0.05,
			DegreeStep:   1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
