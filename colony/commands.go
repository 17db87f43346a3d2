package colony

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/systems"
)

var (
	// ErrUnknownField is returned for a FieldID outside the colony's grids.
	ErrUnknownField = errors.New("unknown field")
	// ErrNotPaintable is returned when painting a scent field.
	ErrNotPaintable = errors.New("field is not paintable")
	// ErrInvalidBrush is returned for a negative or non-finite brush size.
	ErrInvalidBrush = errors.New("invalid brush size")
)

// paintable checks that id names a grid the user may paint.
func paintable(id systems.FieldID) error {
	switch id {
	case systems.Food, systems.Obstacle:
		return nil
	case systems.HomeScent, systems.FoodScent:
		return fmt.Errorf("%v: %w", id, ErrNotPaintable)
	default:
		return fmt.Errorf("field %d: %w", id, ErrUnknownField)
	}
}

func validBrush(size float64) error {
	if size < 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("%v: %w", size, ErrInvalidBrush)
	}
	return nil
}

// RelocateNest moves the nest centre to (x, y), wrapped into the domain. With
// ring seeding the agents are moved onto the new nest circle as well.
func (c *Colony) RelocateNest(x, y float64) {
	x, y = x-math.Floor(x), y-math.Floor(y)
	c.env.NestX, c.env.NestY = x, y

	if c.cfg.Behavior.Seeding == config.SeedingRing {
		c.pop.Gather(c.swarm)
		for i := 0; i < c.swarm.Len(); i++ {
			c.swarm.PlaceOnRing(i, x, y, c.env.NestRadius)
		}
		c.pop.Scatter(c.swarm)
	}
	slog.Debug("nest relocated", "x", x, "y", y, "tick", c.tick)
}

// PaintField sets every cell of a paintable grid within radius cells of the
// cell containing (x, y) to value, clamped to the grid's range. A value of
// zero erases.
func (c *Colony) PaintField(id systems.FieldID, x, y, value, radius float64) error {
	if err := paintable(id); err != nil {
		return fmt.Errorf("paint: %w", err)
	}
	if err := validBrush(radius); err != nil {
		return fmt.Errorf("paint: %w", err)
	}
	f := c.env.Fields[id]
	value = math.Max(0, math.Min(value, f.MaxValue))
	f.Paint(f.CellOf(x, y), radius, value)
	return nil
}

// Brush paints id at (x, y) with the grid's current brush size.
func (c *Colony) Brush(id systems.FieldID, x, y, value float64) error {
	if err := paintable(id); err != nil {
		return fmt.Errorf("brush: %w", err)
	}
	return c.PaintField(id, x, y, value, c.brush[id])
}

// SetBrushSize sets the brush radius for a paintable grid, capped at the
// configured maximum.
func (c *Colony) SetBrushSize(id systems.FieldID, size float64) error {
	if err := paintable(id); err != nil {
		return fmt.Errorf("brush size: %w", err)
	}
	if err := validBrush(size); err != nil {
		return fmt.Errorf("brush size: %w", err)
	}
	if limit := c.cfg.Brush.MaxSize; limit > 0 && size > limit {
		size = limit
	}
	c.brush[id] = size
	return nil
}

// BrushSize returns the brush radius for id, zero for grids without a brush.
func (c *Colony) BrushSize(id systems.FieldID) float64 {
	if id >= systems.NumFields {
		return 0
	}
	return c.brush[id]
}

// Pause stops Tick from advancing the simulation.
func (c *Colony) Pause() { c.paused = true }

// Resume undoes Pause.
func (c *Colony) Resume() { c.paused = false }

// Paused reports whether the colony is paused.
func (c *Colony) Paused() bool { return c.paused }

// Reset zeroes every grid, re-seeds the agents around the current nest,
// restarts their random streams, rewinds the tick counter and pauses the
// colony until Resume.
func (c *Colony) Reset() {
	c.env.Fields.Reset()
	c.seedAgents()
	c.tick = 0
	c.paused = true
	c.collector.Reset(0)
	slog.Info("colony reset", "nest_x", c.env.NestX, "nest_y", c.env.NestY)
}

// GenerateMaze replaces the obstacle grid with the fixed maze layout.
func (c *Colony) GenerateMaze() {
	obstacle := c.env.Fields[systems.Obstacle]
	obstacle.Reset()
	walls := obstacle.Stamp(systems.Maze(obstacle.Res), obstacle.MaxValue)
	slog.Info("maze generated", "walls", walls)
}

// ScatterFood places units of food on every free cell selected by a seeded
// noise pattern and returns the number of cells filled.
func (c *Colony) ScatterFood(seed int64, scale, threshold, units float64) int {
	food, obstacle := c.env.Fields[systems.Food], c.env.Fields[systems.Obstacle]
	mask := systems.FoodPatches(food.Res, seed, scale, threshold)
	for i, on := range mask {
		if on && obstacle.Data[i] != 0 {
			mask[i] = false
		}
	}
	units = math.Max(0, math.Min(units, food.MaxValue))
	cells := food.Stamp(mask, units)
	slog.Info("food scattered", "seed", seed, "cells", cells, "units", units)
	return cells
}

// ApplyScenario builds the startup layout selected in the config.
func (c *Colony) ApplyScenario() {
	sc := c.cfg.Scenario
	if sc.Maze {
		c.GenerateMaze()
	}
	if fp := sc.FoodPatches; fp.Enabled {
		c.ScatterFood(fp.Seed, fp.Scale, fp.Threshold, fp.Units)
	}
}

// Tuning holds the parameters that may change while the colony runs.
type Tuning struct {
	DetectRadius   int
	DetectAngle    float64
	Sensitivity    float64
	MaxTurnRate    float64
	HomeScentDecay float64
	FoodScentDecay float64
}

// Tuning returns the current live parameters.
func (c *Colony) Tuning() Tuning {
	return Tuning{
		DetectRadius:   c.cfg.Sensors.DetectRadius,
		DetectAngle:    c.cfg.Sensors.DetectAngle,
		Sensitivity:    c.cfg.Sensors.Sensitivity,
		MaxTurnRate:    c.cfg.Sensors.MaxTurnRate,
		HomeScentDecay: c.cfg.Fields.HomeScent.DecayRate,
		FoodScentDecay: c.cfg.Fields.FoodScent.DecayRate,
	}
}

// Tune applies new live parameters. They are validated like the config; on
// error nothing changes.
func (c *Colony) Tune(t Tuning) error {
	next := *c.cfg
	next.Sensors.DetectRadius = t.DetectRadius
	next.Sensors.DetectAngle = t.DetectAngle
	next.Sensors.Sensitivity = t.Sensitivity
	next.Sensors.MaxTurnRate = t.MaxTurnRate
	next.Fields.HomeScent.DecayRate = t.HomeScentDecay
	next.Fields.FoodScent.DecayRate = t.FoodScentDecay
	if err := next.Refresh(); err != nil {
		return fmt.Errorf("tune: %w", err)
	}

	*c.cfg = next
	c.params = systems.NewParams(c.cfg)
	c.env.Fields[systems.HomeScent].DecayRate = t.HomeScentDecay
	c.env.Fields[systems.FoodScent].DecayRate = t.FoodScentDecay
	slog.Debug("colony tuned",
		"detect_radius", t.DetectRadius,
		"detect_angle", t.DetectAngle,
		"sensitivity", t.Sensitivity,
		"max_turn_rate", t.MaxTurnRate,
	)
	return nil
}
