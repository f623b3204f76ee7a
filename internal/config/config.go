// Package config loads stitching settings from an optional YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, image-stitch.yml (or
// image-stitch.yaml) in the working directory or the file named by
// IMAGE_STITCH_CONFIG, then IMAGE_STITCH_LOG_LEVEL. A missing file is not an
// error.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

const (
	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "IMAGE_STITCH_CONFIG"
	// EnvLogLevel overrides log_level.
	EnvLogLevel = "IMAGE_STITCH_LOG_LEVEL"
)

// Config holds all tunable settings.
type Config struct {
	// MinOverlap is the smallest overlap the estimator will accept.
	MinOverlap int `yaml:"min_overlap,omitempty"`

	// Threshold is the mean RGB difference below which an overlap is accepted.
	Threshold float64 `yaml:"threshold,omitempty"`

	// Background is the fill colour for uncovered pixels: "transparent" or a
	// hex colour such as "#ffffff".
	Background string `yaml:"background,omitempty"`

	// DecodeWorkers bounds concurrent decodes; 0 means one per image.
	DecodeWorkers int `yaml:"decode_workers,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// DefaultAxis is used when a request does not name one.
	DefaultAxis string `yaml:"default_axis,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MinOverlap:    stitch.MinOverlap,
		Threshold:     stitch.Threshold,
		Background:    "transparent",
		DecodeWorkers: 4,
		LogLevel:      "warn",
		DefaultAxis:   "horizontal",
	}
}

// Load reads configuration from dir (or IMAGE_STITCH_CONFIG) on top of the
// defaults and applies environment overrides. The result is validated.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	} else {
		for _, name := range []string{"image-stitch.yml", "image-stitch.yaml"} {
			err := cfg.mergeFile(filepath.Join(dir, name))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			break
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the fields set in the YAML file at path.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if fileCfg.MinOverlap != 0 {
		c.MinOverlap = fileCfg.MinOverlap
	}
	if fileCfg.Threshold != 0 {
		c.Threshold = fileCfg.Threshold
	}
	if fileCfg.Background != "" {
		c.Background = fileCfg.Background
	}
	if fileCfg.DecodeWorkers != 0 {
		c.DecodeWorkers = fileCfg.DecodeWorkers
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.DefaultAxis != "" {
		c.DefaultAxis = fileCfg.DefaultAxis
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.MinOverlap < 1 {
		return fmt.Errorf("min_overlap must be at least 1, got %d", c.MinOverlap)
	}
	if c.Threshold <= 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be in (0, 255], got %g", c.Threshold)
	}
	if c.DecodeWorkers < 0 {
		return fmt.Errorf("decode_workers must not be negative, got %d", c.DecodeWorkers)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.Axis(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor parses Background.
func (c *Config) BackgroundColor() (color.NRGBA, error) {
	return ParseColor(c.Background)
}

// ParseColor accepts "transparent", "" or a #rrggbb / #rgb hex colour. Hex
// colours are fully opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Axis parses DefaultAxis.
func (c *Config) Axis() (stitch.Axis, error) {
	return stitch.ParseAxis(c.DefaultAxis)
}

// StitchOptions converts the configuration into engine options.
func (c *Config) StitchOptions() stitch.Options {
	bg, _ := c.BackgroundColor()
	return stitch.Options{
		MinOverlap: c.MinOverlap,
		Threshold:  c.Threshold,
		Background: bg,
	}
}
