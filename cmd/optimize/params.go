// Package main provides CMA-ES optimization of colony foraging parameters.
package main

import (
	"math"

	"github.com/pthm-cable/antcolony/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults are taken from base so the search starts at the current config.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// Sensing
			{Name: "detect_radius", Path: "sensors.detect_radius", Min: 3, Max: 30, Integer: true},
			{Name: "detect_angle", Path: "sensors.detect_angle", Min: 0.3, Max: 2.5},
			{Name: "sensitivity", Path: "sensors.sensitivity", Min: 0.02, Max: 1.0},
			{Name: "max_turn_rate", Path: "sensors.max_turn_rate", Min: 0.01, Max: 0.5},
			// Scent
			{Name: "home_decay", Path: "fields.home_scent.decay_rate", Min: 0.0002, Max: 0.01},
			{Name: "food_decay", Path: "fields.food_scent.decay_rate", Min: 0.0002, Max: 0.01},
			// Emission
			{Name: "clock_decay", Path: "clock.decay", Min: 0.001, Max: 0.05},
			{Name: "emit_period", Path: "emission.period", Min: 1, Max: 60, Integer: true},
		},
	}
	for i, v := range pv.ExtractFromConfig(base) {
		pv.Specs[i].Default = pv.clampOne(i, v)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i := range pv.Specs {
		clamped[i] = pv.clampOne(i, v[i])
	}
	return clamped
}

func (pv *ParamVector) clampOne(i int, val float64) float64 {
	spec := pv.Specs[i]
	if math.IsNaN(val) {
		val = spec.Min
	}
	val = math.Max(spec.Min, math.Min(spec.Max, val))
	if spec.Integer {
		val = math.Round(val)
	}
	return val
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	next := func() float64 {
		v := clamped[i]
		i++
		return v
	}

	cfg.Sensors.DetectRadius = int(next())
	cfg.Sensors.DetectAngle = next()
	cfg.Sensors.Sensitivity = next()
	cfg.Sensors.MaxTurnRate = next()

	cfg.Fields.HomeScent.DecayRate = next()
	cfg.Fields.FoodScent.DecayRate = next()

	cfg.Clock.Decay = next()
	cfg.Emission.Period = int(next())
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Sensors.DetectRadius),
		cfg.Sensors.DetectAngle,
		cfg.Sensors.Sensitivity,
		cfg.Sensors.MaxTurnRate,
		cfg.Fields.HomeScent.DecayRate,
		cfg.Fields.FoodScent.DecayRate,
		cfg.Clock.Decay,
		float64(cfg.Emission.Period),
	}
}
