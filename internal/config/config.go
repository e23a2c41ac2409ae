package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/taigrr/cgwork/pkg/render"
)

// Config holds viewer defaults read from CGWORK_* environment variables.
// Command-line flags override them.
type Config struct {
	FPS                int     `envconfig:"FPS" default:"30"`
	Width              int     `envconfig:"WIDTH" default:"0"`
	Height             int     `envconfig:"HEIGHT" default:"0"`
	ProjectionDistance float64 `envconfig:"PROJECTION_DISTANCE" default:"4"`
	EyeDistance        float64 `envconfig:"EYE_DISTANCE" default:"4"`
	Perspective        bool    `envconfig:"PERSPECTIVE" default:"true"`
	Background         Color   `envconfig:"BACKGROUND" default:"0,0,0"`
	WireColor          Color   `envconfig:"WIRE_COLOR" default:"255,255,255"`
	NormalScale        float64 `envconfig:"NORMAL_SCALE" default:"0.1"`
	LogPath            string  `envconfig:"LOG_PATH"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CGWORK", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("config: negative size %dx%d", c.Width, c.Height)
	case c.ProjectionDistance <= 0:
		return fmt.Errorf("config: projection distance must be positive, got %v", c.ProjectionDistance)
	case c.EyeDistance <= 0:
		return fmt.Errorf("config: eye distance must be positive, got %v", c.EyeDistance)
	case c.NormalScale <= 0:
		return fmt.Errorf("config: normal scale must be positive, got %v", c.NormalScale)
	}
	return nil
}

// Color is an opaque color decoded from "r,g,b".
type Color render.Color

// Decode implements envconfig.Decoder.
func (c *Color) Decode(value string) error {
	rgba, err := ParseColor(value)
	if err != nil {
		return err
	}
	*c = Color(rgba)
	return nil
}

// Set implements flag.Value.
func (c *Color) Set(value string) error {
	return c.Decode(value)
}

// String implements flag.Value.
func (c *Color) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Value returns the color for drawing.
func (c Color) Value() render.Color {
	return render.Color(c)
}

// ParseColor parses "r,g,b" with components in 0-255.
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("color %q: want r,g,b", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}
