// Package config provides TOML-based application configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mcuadros/go-defaults"
)

const configFile = "config.toml"

// Config holds the tunable application settings. Missing keys fall back to
// the struct defaults, so a partial file is fine.
type Config struct {
	View     ViewConfig     `toml:"view"`
	Blink    BlinkConfig    `toml:"blink"`
	Export   ExportConfig   `toml:"export"`
	Overlay  OverlayConfig  `toml:"overlay"`
	Resample ResampleConfig `toml:"resample"`
	Log      LogConfig      `toml:"log"`
}

// ViewConfig bounds the per-pane view controls.
type ViewConfig struct {
	MinZoom  float64 `toml:"min_zoom" default:"0.1"`
	MaxZoom  float64 `toml:"max_zoom" default:"10.0"`
	ZoomStep float64 `toml:"zoom_step" default:"1.25"`
}

// BlinkConfig controls the flicker comparison mode.
type BlinkConfig struct {
	IntervalMS int `toml:"interval_ms" default:"500"`
}

// ExportConfig controls the side-by-side capture.
type ExportConfig struct {
	GapPixels int    `toml:"gap_pixels" default:"10"`
	Dir       string `toml:"dir"`
}

// OverlayConfig controls the blended overlay view.
type OverlayConfig struct {
	Opacity float64 `toml:"opacity" default:"0.5"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Dir         string `toml:"dir"`
	MaxAgeDays  int    `toml:"max_age_days" default:"14"`
	RotateHours int    `toml:"rotate_hours" default:"24"`
}

// ResampleConfig controls the resample dialog.
type ResampleConfig struct {
	// 500 dpi is the common standard for scanned impressions.
	TargetDPI float64 `toml:"target_dpi" default:"500"`
}

// Path returns the config file location under the user config directory.
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "ridgecompare", configFile)
}

// Default returns a Config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads the config file, returning defaults when it does not exist.
// A malformed file is an error rather than silently reverting settings.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its default location.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to an explicit path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
