// Package config loads the window, camera and tuning settings for the point field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/pointfield"
	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Density range of the tuning controls; keyboard adjustments clamp to it.
const (
	MinDensity = 0.01
	MaxDensity = 0.2
)

type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Tuning TuningConfig `yaml:"tuning"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex colour, e.g. "#fff"
}

type CameraConfig struct {
	Projection string  `yaml:"projection"` // orthographic | perspective
	Zoom       float32 `yaml:"zoom"`
	FovY       float32 `yaml:"fov_y"`    // degrees
	Distance   float32 `yaml:"distance"` // camera height above the grid plane
}

// TuningConfig is the pixel-space effect tuning.
type TuningConfig struct {
	Strength    float32 `yaml:"strength"`     // px
	RadiusInner float32 `yaml:"radius_inner"` // px
	RadiusOuter float32 `yaml:"radius_outer"` // px
	Density     float64 `yaml:"density"`      // points per world unit
	Direction   string  `yaml:"direction"`    // repel | attract
	Falloff     string  `yaml:"falloff"`      // linear | smooth
	PointSize   float32 `yaml:"point_size"`   // px
	SizeBoost   float32 `yaml:"size_boost"`
	Color       string  `yaml:"color"`
}

type DerivedConfig struct {
	Background [4]float32
	Color      [4]float32
	Direction  core.Direction
	Falloff    core.FalloffShape
	Projection core.Projection
}

// Load reads configuration from a YAML file merged over the embedded defaults.
// If path is empty, only the defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the field cannot render. An inner radius larger
// than the outer one is allowed; see Warnings.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Tuning.Density <= 0 {
		errs = append(errs, fmt.Errorf("tuning.density must be > 0, got %v", c.Tuning.Density))
	}
	if c.Tuning.Strength < 0 {
		errs = append(errs, fmt.Errorf("tuning.strength must be >= 0, got %v", c.Tuning.Strength))
	}
	if c.Tuning.RadiusInner < 0 || c.Tuning.RadiusOuter < 0 {
		errs = append(errs, fmt.Errorf("tuning radii must be >= 0, got %v/%v", c.Tuning.RadiusInner, c.Tuning.RadiusOuter))
	}
	if c.Tuning.PointSize <= 0 {
		errs = append(errs, fmt.Errorf("tuning.point_size must be > 0, got %v", c.Tuning.PointSize))
	}
	if c.Camera.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("camera.zoom must be > 0, got %v", c.Camera.Zoom))
	}
	return errors.Join(errs...)
}

// Warnings lists accepted but suspicious settings.
func (c *Config) Warnings() []string {
	var w []string
	if c.Tuning.RadiusInner > c.Tuning.RadiusOuter {
		w = append(w, fmt.Sprintf("tuning.radius_inner (%v) > radius_outer (%v): falloff becomes a hard step", c.Tuning.RadiusInner, c.Tuning.RadiusOuter))
	}
	if c.Tuning.Density < MinDensity || c.Tuning.Density > MaxDensity {
		w = append(w, fmt.Sprintf("tuning.density %v outside [%v, %v]", c.Tuning.Density, MinDensity, MaxDensity))
	}
	return w
}

func (c *Config) computeDerived() error {
	var err error
	if c.Derived.Background, err = ParseColor(c.Window.Background); err != nil {
		return fmt.Errorf("window.background: %w", err)
	}
	if c.Derived.Color, err = ParseColor(c.Tuning.Color); err != nil {
		return fmt.Errorf("tuning.color: %w", err)
	}

	switch strings.ToLower(c.Tuning.Direction) {
	case "", "repel":
		c.Derived.Direction = core.Repel
	case "attract":
		c.Derived.Direction = core.Attract
	default:
		return fmt.Errorf("tuning.direction: unknown value %q", c.Tuning.Direction)
	}

	switch strings.ToLower(c.Tuning.Falloff) {
	case "", "linear":
		c.Derived.Falloff = core.FalloffLinear
	case "smooth", "smoothstep":
		c.Derived.Falloff = core.FalloffSmooth
	default:
		return fmt.Errorf("tuning.falloff: unknown value %q", c.Tuning.Falloff)
	}

	switch strings.ToLower(c.Camera.Projection) {
	case "", "orthographic", "ortho":
		c.Derived.Projection = core.ProjectionOrthographic
	case "perspective":
		c.Derived.Projection = core.ProjectionPerspective
	default:
		return fmt.Errorf("camera.projection: unknown value %q", c.Camera.Projection)
	}
	return nil
}

// FieldTuning converts the loaded settings into the per-frame tuning values.
func (c *Config) FieldTuning() pointfield.Tuning {
	return pointfield.Tuning{
		StrengthPx:    c.Tuning.Strength,
		RadiusInnerPx: c.Tuning.RadiusInner,
		RadiusOuterPx: c.Tuning.RadiusOuter,
		Density:       c.Tuning.Density,
		Direction:     c.Derived.Direction,
		Falloff:       c.Derived.Falloff,
		PointSize:     c.Tuning.PointSize,
		SizeBoost:     c.Tuning.SizeBoost,
		Color:         c.Derived.Color,
	}
}

func (c *Config) NewCamera() *core.CameraState {
	cam := core.NewCameraState()
	cam.Projection = c.Derived.Projection
	cam.Zoom = c.Camera.Zoom
	if c.Camera.FovY > 0 {
		cam.FovY = c.Camera.FovY
	}
	if c.Camera.Distance > 0 {
		cam.Position = mgl32.Vec3{0, 0, c.Camera.Distance}
	}
	return cam
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa, plus black and white.
func ParseColor(s string) ([4]float32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if named, ok := namedColors[s]; ok {
		s = named
	}
	if !strings.HasPrefix(s, "#") {
		return [4]float32{}, fmt.Errorf("colour %q must start with #", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return [4]float32{}, fmt.Errorf("colour %q has bad length", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return [4]float32{
		float32((v>>24)&0xff) / 255,
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
