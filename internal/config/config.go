// Package config loads the LocalInk settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"LocalInk/internal/state"

	"github.com/BurntSushi/toml"
)

// Config is the TOML settings file.
type Config struct {
	// PenSize scales raw pressure into stroke width.
	// Default: 7
	PenSize int `toml:"pen_size"`

	// Theme is "light" or "dark" and selects the color of every alias.
	// Default: "light"
	Theme string `toml:"theme"`

	// MinScale is the smallest zoom factor.
	// Default: 0.1
	MinScale float64 `toml:"min_scale"`

	// DataDir holds the saved drawings.
	DataDir string `toml:"data_dir"`

	Canvas Canvas `toml:"canvas"`
	Eraser Eraser `toml:"eraser"`
	Share  Share  `toml:"share"`
}

// Canvas is the fixed document size in model units.
type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Eraser struct {
	// Margin widens the eraser motion box.
	Margin float64 `toml:"margin"`
	// MinRadius is the smallest hit tolerance.
	MinRadius float64 `toml:"min_radius"`
}

// Share publishes drawing snapshots to the local network.
type Share struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
	MDNS    bool   `toml:"mdns"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		PenSize:  7,
		Theme:    "light",
		MinScale: 0.1,
		DataDir:  defaultDataDir(),
		Canvas:   Canvas{Width: 2125, Height: 2750},
		Eraser:   Eraser{Margin: 20, MinRadius: 5},
		Share:    Share{Listen: ":8080", MDNS: true},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "drawings"
	}
	return filepath.Join(dir, "localink", "drawings")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating its directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("save config: %w", err)
	}
	return f.Close()
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.PenSize < 1 || c.PenSize > 100 {
		return &Error{Field: "pen_size", Reason: "must be in [1, 100]"}
	}
	if _, err := c.ThemeMode(); err != nil {
		return err
	}
	if !(c.MinScale > 0) {
		return &Error{Field: "min_scale", Reason: "must be positive"}
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return &Error{Field: "canvas", Reason: "width and height must be positive"}
	}
	if c.Eraser.Margin < 0 {
		return &Error{Field: "eraser.margin", Reason: "must not be negative"}
	}
	if !(c.Eraser.MinRadius > 0) {
		return &Error{Field: "eraser.min_radius", Reason: "must be positive"}
	}
	if c.Share.Enabled && c.Share.Listen == "" {
		return &Error{Field: "share.listen", Reason: "required when sharing is enabled"}
	}
	return nil
}

// ThemeMode maps the theme name onto a UI mode.
func (c *Config) ThemeMode() (state.Mode, error) {
	switch c.Theme {
	case "", "light":
		return state.Light, nil
	case "dark":
		return state.Dark, nil
	}
	return state.Light, &Error{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", c.Theme)}
}

// Error is a validation failure of one setting.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return "config: invalid " + e.Field + ": " + e.Reason
}
