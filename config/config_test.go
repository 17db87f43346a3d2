package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != ModeColony {
		t.Errorf("mode = %q, want %q", cfg.Mode, ModeColony)
	}
	if cfg.World.Resolution != 512 {
		t.Errorf("resolution = %d, want 512", cfg.World.Resolution)
	}
	if cfg.Population.Count != 1500 {
		t.Errorf("population = %d, want 1500", cfg.Population.Count)
	}
	if cfg.Emission.Period != 30 {
		t.Errorf("emission period = %d, want 30", cfg.Emission.Period)
	}
	if cfg.Derived.CellSize != 1.0/512 {
		t.Errorf("cell size = %v, want %v", cfg.Derived.CellSize, 1.0/512)
	}
	want := cfg.Nest.Radius + 14.0/512
	if cfg.Derived.OuterRing != want {
		t.Errorf("outer ring = %v, want %v", cfg.Derived.OuterRing, want)
	}
}

func TestSlimePreset(t *testing.T) {
	cfg, err := Default(ModeSlime)
	if err != nil {
		t.Fatalf("Default(slime): %v", err)
	}

	if cfg.Behavior.Boundary != BoundaryBounce {
		t.Errorf("boundary = %q, want bounce", cfg.Behavior.Boundary)
	}
	if cfg.Behavior.Emission != EmissionFixed {
		t.Errorf("emission = %q, want fixed", cfg.Behavior.Emission)
	}
	if cfg.Behavior.Foraging {
		t.Error("slime preset should disable foraging triggers")
	}
	if cfg.Population.Count != 50000 {
		t.Errorf("population = %d, want 50000", cfg.Population.Count)
	}
	if cfg.Fields.HomeScent.MaxValue != 1 {
		t.Errorf("home scent max = %v, want 1", cfg.Fields.HomeScent.MaxValue)
	}
	// Untouched by the preset
	if cfg.Fields.HomeScent.Deposit != DepositSaturate {
		t.Errorf("home scent deposit = %q, want saturate", cfg.Fields.HomeScent.Deposit)
	}
	if cfg.Sensors.DetectRadius != 14 {
		t.Errorf("detect radius = %d, want 14", cfg.Sensors.DetectRadius)
	}
	if !cfg.Derived.Slime || !cfg.Derived.Bounce || cfg.Derived.ClockScaled {
		t.Errorf("derived flags wrong: %+v", cfg.Derived)
	}
}

func TestUserFileOverridesPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := []byte("mode: slime\npopulation:\n  count: 200\nfields:\n  food_scent:\n    deposit: additive\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeSlime {
		t.Errorf("mode = %q, want slime", cfg.Mode)
	}
	if cfg.Population.Count != 200 {
		t.Errorf("count = %d, want 200 (file beats preset)", cfg.Population.Count)
	}
	if cfg.World.Resolution != 600 {
		t.Errorf("resolution = %d, want 600 from preset", cfg.World.Resolution)
	}
	if cfg.Fields.FoodScent.Deposit != DepositAdditive {
		t.Errorf("food scent deposit = %q, want additive", cfg.Fields.FoodScent.Deposit)
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero population", func(c *Config) { c.Population.Count = 0 }},
		{"negative resolution", func(c *Config) { c.World.Resolution = -4 }},
		{"zero max value", func(c *Config) { c.Fields.FoodScent.MaxValue = 0 }},
		{"zero deposit", func(c *Config) { c.Fields.HomeScent.DepositValue = 0 }},
		{"negative decay", func(c *Config) { c.Fields.HomeScent.DecayRate = -1 }},
		{"zero emission period", func(c *Config) { c.Emission.Period = 0 }},
		{"unknown boundary", func(c *Config) { c.Behavior.Boundary = "mirror" }},
		{"unknown deposit", func(c *Config) { c.Fields.Food.Deposit = "sum" }},
		{"unknown mode", func(c *Config) { c.Mode = "bees" }},
		{"zero detect radius", func(c *Config) { c.Sensors.DetectRadius = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestLoadModeUnknown(t *testing.T) {
	if _, err := LoadMode("", "bees"); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadMode(bees) err = %v, want ErrInvalid", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Default(ModeSlime)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Population.Count != cfg.Population.Count || back.Behavior != cfg.Behavior {
		t.Errorf("written config differs: got %+v / %+v", back.Population, back.Behavior)
	}
}
