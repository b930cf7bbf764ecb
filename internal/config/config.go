package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/philipparndt/planeview/pkg/camera"
)

// Config holds the viewer settings read from PLANEVIEW_* environment variables
type Config struct {
	PanSensitivity      float64       `envconfig:"PAN_SENSITIVITY" default:"0.003"`
	ZoomDragSensitivity float64       `envconfig:"ZOOM_DRAG_SENSITIVITY" default:"0.005"`
	FieldOfView         float64       `envconfig:"FIELD_OF_VIEW" default:"1.047197551196598"`
	Near                float64       `envconfig:"NEAR" default:"0.001"`
	Far                 float64       `envconfig:"FAR" default:"100"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	WatchDebounce       time.Duration `envconfig:"WATCH_DEBOUNCE" default:"300ms"`
	SnapshotWidth       int           `envconfig:"SNAPSHOT_WIDTH" default:"800"`
	SnapshotHeight      int           `envconfig:"SNAPSHOT_HEIGHT" default:"600"`
	Supersample         int           `envconfig:"SUPERSAMPLE" default:"2"`
}

// Flags are command line overrides; zero values leave the config alone
type Flags struct {
	LogLevel    string
	Width       int
	Height      int
	Supersample int
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("planeview", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Resolve applies command line overrides
func (c *Config) Resolve(flags Flags) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Width > 0 {
		c.SnapshotWidth = flags.Width
	}
	if flags.Height > 0 {
		c.SnapshotHeight = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if c.Supersample < 1 {
		c.Supersample = 1
	}
}

// Level maps LogLevel to a slog level, falling back to info
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// CameraOptions returns controller options for a viewport of the given size
func (c *Config) CameraOptions(width, height float64, logger *slog.Logger) camera.Options {
	return camera.Options{
		PanSensitivity:      c.PanSensitivity,
		ZoomDragSensitivity: c.ZoomDragSensitivity,
		FieldOfView:         c.FieldOfView,
		Near:                c.Near,
		Far:                 c.Far,
		Width:               width,
		Height:              height,
		Logger:              logger,
	}
}
