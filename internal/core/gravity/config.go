package gravity

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gravityfield/internal/core/observability/log"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRAVITY_"

// SelectionMode decides where the priority threshold lives between queries.
type SelectionMode string

const (
	// ModeFresh starts every query from the priority floor.
	ModeFresh SelectionMode = "fresh"
	// ModeSticky keeps the threshold and selection per actor across queries.
	ModeSticky SelectionMode = "sticky"
)

// Categories maps each kind to the category name it is looked up under.
type Categories [kindCount]string

// DefaultCategories returns the standard category names.
func DefaultCategories() Categories {
	var c Categories
	for _, k := range Kinds {
		c[k] = k.Category()
	}
	return c
}

// Config holds director configuration. Precedence is defaults, then file, then environment.
type Config struct {
	PriorityFloor int           `json:"priority_floor" yaml:"priority_floor" env:"PRIORITY_FLOOR"`
	Epsilon       float64       `json:"epsilon" yaml:"epsilon" env:"EPSILON"`
	SelectionMode SelectionMode `json:"selection_mode" yaml:"selection_mode" env:"SELECTION_MODE"`

	// LocalFrameDisplacement rotates the displacement into the area frame
	// before evaluating a shape. Off by default.
	LocalFrameDisplacement bool `json:"local_frame_displacement" yaml:"local_frame_displacement" env:"LOCAL_FRAME_DISPLACEMENT"`

	// Fallback, when set, is returned for empty or degenerate resolutions.
	Fallback []float64 `json:"fallback,omitempty" yaml:"fallback,omitempty" env:"FALLBACK" envSeparator:","`

	Workers int `json:"workers" yaml:"workers" env:"WORKERS"`
	Shards  int `json:"shards" yaml:"shards" env:"SHARDS"`

	// Categories overrides category names by kind name, e.g. segment: GravitySegmentGroup.
	Categories map[string]string `json:"categories,omitempty" yaml:"categories,omitempty" env:"CATEGORIES"`

	Log log.Config `json:"log" yaml:"log" envPrefix:"LOG_"`
}

// DefaultConfig returns the configuration used when nothing is supplied.
func DefaultConfig() Config {
	return Config{
		PriorityFloor: DefaultPriorityFloor,
		Epsilon:       DefaultEpsilon,
		SelectionMode: ModeFresh,
		Workers:       4,
		Shards:        16,
		Log: log.Config{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// LoadConfig decodes YAML over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode gravity config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile loads a YAML file, applies environment overrides and validates.
// An empty path yields the defaults with environment overrides.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open gravity config: %w", err)
		}
		defer f.Close()
		if cfg, err = LoadConfig(f); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from GRAVITY_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Epsilon <= 0 || math.IsNaN(c.Epsilon) {
		return fmt.Errorf("%w: epsilon must be positive", ErrInvalidConfig)
	}
	switch c.SelectionMode {
	case ModeFresh, ModeSticky:
	default:
		return fmt.Errorf("%w: selection_mode %q", ErrInvalidConfig, c.SelectionMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Shards < 1 {
		return fmt.Errorf("%w: shards must be at least 1", ErrInvalidConfig)
	}
	if _, _, err := c.fallback(); err != nil {
		return err
	}
	if _, err := c.categories(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) fallback() (mgl64.Vec3, bool, error) {
	switch len(c.Fallback) {
	case 0:
		return mgl64.Vec3{}, false, nil
	case 3:
		v := mgl64.Vec3{c.Fallback[0], c.Fallback[1], c.Fallback[2]}
		l := v.Len()
		if l < c.Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
			return mgl64.Vec3{}, false, fmt.Errorf("%w: fallback must be a non-zero finite vector", ErrInvalidConfig)
		}
		return v.Mul(1 / l), true, nil
	default:
		return mgl64.Vec3{}, false, fmt.Errorf("%w: fallback needs 3 components, got %d", ErrInvalidConfig, len(c.Fallback))
	}
}

func (c Config) categories() (Categories, error) {
	cats := DefaultCategories()
	for name, category := range c.Categories {
		k, err := ParseKind(name)
		if err != nil {
			return Categories{}, fmt.Errorf("%w: categories: %v", ErrInvalidConfig, err)
		}
		if category == "" {
			return Categories{}, fmt.Errorf("%w: empty category for %s", ErrInvalidConfig, k)
		}
		cats[k] = category
	}
	return cats, nil
}
