package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/glround/glround/internal/scene"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search list
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./glround.yaml",
		"./glround.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "glround")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "glround")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "glround")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "glround")
	}
}

// loadFromFile merges a YAML or TOML file into cfg. The format is picked
// from the extension; anything that is not .toml is read as YAML.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Validation errors.
var (
	ErrInvalidSize    = errors.New("window size must be positive")
	ErrUnknownScene   = errors.New("unknown scene")
	ErrUnknownBackend = errors.New("unknown window backend")
	ErrUnknownFormat  = errors.New("unknown texture format")
	ErrUnknownWrap    = errors.New("unknown texture wrap mode")
	ErrClearColor     = errors.New("clear_color needs 3 or 4 components")
)

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Graphics.Width, c.Graphics.Height)
	}
	if !contains(scene.Names, c.Scene.Name) {
		return fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene.Name)
	}
	switch c.Graphics.Backend {
	case "sdl", "glfw":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Graphics.Backend)
	}
	switch c.Textures.Format {
	case "", "auto", "rgb", "rgba":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Textures.Format)
	}
	switch c.Textures.Wrap {
	case "", "repeat", "clamp_to_border", "clamp_to_edge":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWrap, c.Textures.Wrap)
	}
	if n := len(c.Graphics.ClearColor); n != 0 && n != 3 && n != 4 {
		return fmt.Errorf("%w: got %d", ErrClearColor, n)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
