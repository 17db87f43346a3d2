// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Behavior modes.
const (
	ModeColony = "colony"
	ModeSlime  = "slime"
)

// Boundary policies.
const (
	BoundaryWrap   = "wrap"
	BoundaryBounce = "bounce"
)

// Emission scaling rules.
const (
	EmissionClock = "clock" // deposit value scaled by the agent's internal clock
	EmissionFixed = "fixed" // deposit value used as-is
)

// Seeding rules.
const (
	SeedingRing = "ring" // all agents on the nest circle, all searching
	SeedingDisk = "disk" // agents uniformly in a disk, first half returning
)

// Deposit modes.
const (
	DepositSaturate = "saturate"
	DepositAdditive = "additive"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Mode       string           `yaml:"mode"`
	Seed       int64            `yaml:"seed"`
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Population PopulationConfig `yaml:"population"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Nest       NestConfig       `yaml:"nest"`
	Clock      ClockConfig      `yaml:"clock"`
	Emission   EmissionConfig   `yaml:"emission"`
	Fields     FieldsConfig     `yaml:"fields"`
	Brush      BrushConfig      `yaml:"brush"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Presets are partial configs applied over the defaults when Mode names them.
	Presets map[string]yaml.Node `yaml:"presets,omitempty"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Size      int `yaml:"size"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the grid resolution shared by every field.
type WorldConfig struct {
	Resolution int `yaml:"resolution"` // Grid edge length in cells
}

// BehaviorConfig selects the rules that distinguish colony and slime runs.
type BehaviorConfig struct {
	Boundary  string `yaml:"boundary"`  // wrap | bounce
	Emission  string `yaml:"emission"`  // clock | fixed
	Seeding   string `yaml:"seeding"`   // ring | disk
	Foraging  bool   `yaml:"foraging"`  // nest/food state triggers and nearest-food fallback
	Obstacles bool   `yaml:"obstacles"` // obstacle sensing and collision
}

// PopulationConfig holds agent population parameters.
type PopulationConfig struct {
	Count      int     `yaml:"count"`
	Speed      float64 `yaml:"speed"`       // Domain units per tick
	SeedRadius float64 `yaml:"seed_radius"` // Disk radius for disk seeding
}

// SensorsConfig holds sector sensing and steering parameters.
type SensorsConfig struct {
	DetectRadius  int     `yaml:"detect_radius"`   // Cells
	DetectAngle   float64 `yaml:"detect_angle"`    // Full sensing cone, radians
	Sensitivity   float64 `yaml:"sensitivity"`     // Scent gradient gain
	MaxTurnRate   float64 `yaml:"max_turn_rate"`   // Bound of the random turn per tick, radians
	ObstacleBias  float64 `yaml:"obstacle_bias"`   // Fixed repulsive turn from a side obstacle
	FoodSearchCap float64 `yaml:"food_search_cap"` // Max distance in cells for the nearest-food snap
}

// NestConfig holds the initial nest placement.
type NestConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// ClockConfig holds the internal clock that scales emitted scent.
type ClockConfig struct {
	Max   float64 `yaml:"max"`
	Decay float64 `yaml:"decay"` // Subtracted after every emission
}

// EmissionConfig holds scent release scheduling.
type EmissionConfig struct {
	Period int `yaml:"period"` // Ticks between emission passes
}

// FieldConfig holds per-field scalar parameters.
type FieldConfig struct {
	DecayRate    float64 `yaml:"decay_rate"`
	DepositValue float64 `yaml:"deposit_value"`
	MaxValue     float64 `yaml:"max_value"`
	Deposit      string  `yaml:"deposit"` // saturate | additive
}

// FieldsConfig holds the four simulation grids.
type FieldsConfig struct {
	HomeScent   FieldConfig `yaml:"home_scent"`
	FoodScent   FieldConfig `yaml:"food_scent"`
	Food        FieldConfig `yaml:"food"`
	Obstacle    FieldConfig `yaml:"obstacle"`
	EraseRadius float64     `yaml:"erase_radius"` // Scent scrub radius around a rejected move
	Blur        bool        `yaml:"blur"`         // Box-blur scent fields after decay
}

// BrushConfig holds initial paint brush sizes in cells.
type BrushConfig struct {
	Food     float64 `yaml:"food"`
	Obstacle float64 `yaml:"obstacle"`
	MaxSize  float64 `yaml:"max_size"`
}

// FoodPatchesConfig describes a noise-generated food layout.
type FoodPatchesConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      int64   `yaml:"seed"`
	Scale     float64 `yaml:"scale"`     // Noise frequency across the domain
	Threshold float64 `yaml:"threshold"` // Normalized noise above this becomes food
	Units     float64 `yaml:"units"`     // Food units per cell
}

// ScenarioConfig holds startup layouts for headless runs.
type ScenarioConfig struct {
	Maze        bool              `yaml:"maze"`
	FoodPatches FoodPatchesConfig `yaml:"food_patches"`
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Minimum agents before work is split
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellSize    float64 // 1 / resolution
	OuterRing   float64 // Nest radius plus detection radius in domain units
	HalfAngle   float64 // DetectAngle / 2
	Cells       int     // resolution²
	Slime       bool    // Mode == slime
	ClockScaled bool    // Behavior.Emission == clock
	Bounce      bool    // Behavior.Boundary == bounce
}

// Default returns the embedded defaults for the given mode ("" keeps the default mode).
func Default(mode string) (*Config, error) {
	return LoadMode("", mode)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	return LoadMode(path, "")
}

// LoadMode is Load with a mode override that takes precedence over the file.
// The mode's preset is applied between the defaults and the user file, so values
// set explicitly in the file still win.
func LoadMode(path, mode string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if mode == "" {
			var peek struct {
				Mode string `yaml:"mode"`
			}
			if err := yaml.Unmarshal(data, &peek); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
			mode = peek.Mode
		}
	}

	if mode != "" {
		if err := cfg.applyPreset(mode); err != nil {
			return nil, err
		}
	}

	if data != nil {
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if mode != "" {
		cfg.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// applyPreset overlays the named preset. The default mode has no preset.
func (c *Config) applyPreset(mode string) error {
	if mode != ModeColony && mode != ModeSlime {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, mode)
	}
	node, ok := c.Presets[mode]
	if !ok {
		c.Mode = mode
		return nil
	}
	if err := node.Decode(c); err != nil {
		return fmt.Errorf("applying %s preset: %w", mode, err)
	}
	c.Mode = mode
	return nil
}

// Validate rejects configurations that cannot be made safe at runtime.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	switch c.Mode {
	case ModeColony, ModeSlime:
	default:
		return invalid("unknown mode %q", c.Mode)
	}
	switch c.Behavior.Boundary {
	case BoundaryWrap, BoundaryBounce:
	default:
		return invalid("unknown boundary %q", c.Behavior.Boundary)
	}
	switch c.Behavior.Emission {
	case EmissionClock, EmissionFixed:
	default:
		return invalid("unknown emission rule %q", c.Behavior.Emission)
	}
	switch c.Behavior.Seeding {
	case SeedingRing, SeedingDisk:
	default:
		return invalid("unknown seeding rule %q", c.Behavior.Seeding)
	}

	if c.World.Resolution <= 0 {
		return invalid("world.resolution must be positive, got %d", c.World.Resolution)
	}
	if c.Population.Count <= 0 {
		return invalid("population.count must be positive, got %d", c.Population.Count)
	}
	if c.Population.Speed < 0 || math.IsNaN(c.Population.Speed) {
		return invalid("population.speed must be non-negative, got %v", c.Population.Speed)
	}
	if c.Emission.Period <= 0 {
		return invalid("emission.period must be positive, got %d", c.Emission.Period)
	}
	if c.Nest.Radius <= 0 {
		return invalid("nest.radius must be positive, got %v", c.Nest.Radius)
	}
	if c.Clock.Max < 0 || c.Clock.Decay < 0 {
		return invalid("clock values must be non-negative")
	}
	if err := c.Sensors.validate(); err != nil {
		return err
	}

	fields := []struct {
		name string
		f    FieldConfig
	}{
		{"home_scent", c.Fields.HomeScent},
		{"food_scent", c.Fields.FoodScent},
		{"food", c.Fields.Food},
		{"obstacle", c.Fields.Obstacle},
	}
	for _, fc := range fields {
		if err := fc.f.Validate(); err != nil {
			return fmt.Errorf("fields.%s: %w", fc.name, err)
		}
	}
	if c.Fields.EraseRadius < 0 {
		return invalid("fields.erase_radius must be non-negative")
	}
	if c.Brush.Food < 0 || c.Brush.Obstacle < 0 {
		return invalid("brush sizes must be non-negative")
	}
	return nil
}

func (s SensorsConfig) validate() error {
	if s.DetectRadius < 1 {
		return fmt.Errorf("%w: sensors.detect_radius must be at least 1, got %d", ErrInvalid, s.DetectRadius)
	}
	if s.DetectAngle <= 0 || s.DetectAngle > 2*math.Pi {
		return fmt.Errorf("%w: sensors.detect_angle must be in (0, 2pi], got %v", ErrInvalid, s.DetectAngle)
	}
	if s.MaxTurnRate < 0 {
		return fmt.Errorf("%w: sensors.max_turn_rate must be non-negative", ErrInvalid)
	}
	if s.FoodSearchCap < 0 {
		return fmt.Errorf("%w: sensors.food_search_cap must be non-negative", ErrInvalid)
	}
	return nil
}

// Validate checks a single field's parameters.
func (f FieldConfig) Validate() error {
	if f.MaxValue <= 0 {
		return fmt.Errorf("%w: max_value must be positive, got %v", ErrInvalid, f.MaxValue)
	}
	if f.DepositValue <= 0 {
		return fmt.Errorf("%w: deposit_value must be positive, got %v", ErrInvalid, f.DepositValue)
	}
	if f.DecayRate < 0 {
		return fmt.Errorf("%w: decay_rate must be non-negative, got %v", ErrInvalid, f.DecayRate)
	}
	switch f.Deposit {
	case DepositSaturate, DepositAdditive:
	default:
		return fmt.Errorf("%w: unknown deposit mode %q", ErrInvalid, f.Deposit)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	res := float64(c.World.Resolution)
	c.Derived.CellSize = 1 / res
	c.Derived.Cells = c.World.Resolution * c.World.Resolution
	c.Derived.OuterRing = c.Nest.Radius + float64(c.Sensors.DetectRadius)/res
	c.Derived.HalfAngle = c.Sensors.DetectAngle / 2
	c.Derived.Slime = c.Mode == ModeSlime
	c.Derived.ClockScaled = c.Behavior.Emission == EmissionClock
	c.Derived.Bounce = c.Behavior.Boundary == BoundaryBounce
}

// Refresh re-validates and recomputes derived values after in-place edits.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	out := *c
	out.Presets = nil
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
