// Package colony runs the foraging simulation: agents, scent fields, the nest
// and the per-tick pipeline that couples them.
package colony

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// Colony owns the complete simulation state. Its methods are not safe for
// concurrent use; callers serialize commands and ticks.
type Colony struct {
	cfg    *config.Config
	params systems.Params
	env    systems.Env

	pop   *Population
	swarm *systems.Swarm
	pool  *systems.Pool

	trigger, sense, reorient, advance, boundary, emit systems.Kernel

	brush [systems.NumFields]float64

	tick   int32
	paused bool

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	census    []float64

	// OnStats, if set, receives every flushed telemetry window.
	OnStats func(telemetry.WindowStats, telemetry.PerfStats)
}

// New builds a colony from cfg. The config is validated and copied; later
// changes to cfg do not affect the colony.
func New(cfg *config.Config) (*Colony, error) {
	own := *cfg
	if err := own.Refresh(); err != nil {
		return nil, fmt.Errorf("creating colony: %w", err)
	}

	n := own.Population.Count
	c := &Colony{
		cfg:    &own,
		params: systems.NewParams(&own),
		env: systems.Env{
			Fields:     systems.NewFields(&own),
			NestX:      own.Nest.X,
			NestY:      own.Nest.Y,
			NestRadius: own.Nest.Radius,
		},
		pop:       NewPopulation(n),
		swarm:     systems.NewSwarm(n, own.Seed),
		pool:      systems.NewPool(own.Parallel.Workers, own.Parallel.Threshold),
		collector: telemetry.NewCollector(own.Telemetry.StatsWindow),
		perf:      telemetry.NewPerfCollector(own.Telemetry.PerfCollectorWindow),
	}
	c.brush[systems.Food] = own.Brush.Food
	c.brush[systems.Obstacle] = own.Brush.Obstacle
	c.pool.OnKernel = c.perf.StartPhase
	c.buildKernels()

	c.seedAgents()
	c.ApplyScenario()

	slog.Info("colony created",
		"mode", own.Mode,
		"agents", n,
		"resolution", own.World.Resolution,
		"workers", c.pool.Workers(),
		"seed", own.Seed,
	)
	return c, nil
}

// buildKernels declares the per-agent phases and the fields each one touches.
func (c *Colony) buildKernels() {
	s, p, env := c.swarm, &c.params, &c.env

	c.trigger = systems.Kernel{
		Name:   telemetry.PhaseTrigger,
		Fields: []systems.FieldAccess{{Field: systems.Food, Mode: systems.WriteOrdered}},
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Trigger(i, p, env)
			}
		},
	}
	c.sense = systems.Kernel{
		Name: telemetry.PhaseSense,
		Fields: []systems.FieldAccess{
			{Field: systems.HomeScent, Mode: systems.Read},
			{Field: systems.FoodScent, Mode: systems.Read},
			{Field: systems.Food, Mode: systems.Read},
			{Field: systems.Obstacle, Mode: systems.Read},
		},
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Sense(i, p, env)
			}
		},
	}
	c.reorient = systems.Kernel{
		Name: telemetry.PhaseReorient,
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Reorient(i, p)
			}
		},
	}
	c.advance = systems.Kernel{
		Name: telemetry.PhaseAdvance,
		Fields: []systems.FieldAccess{
			{Field: systems.Obstacle, Mode: systems.Read},
			{Field: systems.HomeScent, Mode: systems.WriteIdempotent},
			{Field: systems.FoodScent, Mode: systems.WriteIdempotent},
		},
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Advance(i, p, env)
			}
		},
	}
	c.boundary = systems.Kernel{
		Name: telemetry.PhaseBoundary,
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Boundary(i, p)
			}
		},
	}
	c.emit = systems.Kernel{
		Name: telemetry.PhaseEmit,
		Fields: []systems.FieldAccess{
			{Field: systems.HomeScent, Mode: systems.WriteOrdered},
			{Field: systems.FoodScent, Mode: systems.WriteOrdered},
		},
		Run: func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				s.Emit(i, p, env)
			}
		},
	}
}

// seedAgents places every agent according to the seeding rule and restarts
// their random streams.
func (c *Colony) seedAgents() {
	c.swarm.Reseed(c.cfg.Seed)
	switch c.cfg.Behavior.Seeding {
	case config.SeedingDisk:
		c.swarm.SeedDisk(c.env.NestX, c.env.NestY, c.cfg.Population.SeedRadius, c.cfg.Clock.Max)
	default:
		c.swarm.SeedRing(c.env.NestX, c.env.NestY, c.env.NestRadius, c.cfg.Clock.Max)
	}
	c.pop.Scatter(c.swarm)
}

// Tick advances the simulation by one step unless paused.
func (c *Colony) Tick() {
	if c.paused {
		return
	}

	c.perf.StartTick()

	c.perf.StartPhase(telemetry.PhaseGather)
	c.pop.Gather(c.swarm)

	n := c.swarm.Len()
	c.pool.For(n, c.trigger)
	c.pool.For(n, c.sense)
	c.pool.For(n, c.reorient)
	c.pool.For(n, c.advance)
	c.pool.For(n, c.boundary)
	if c.tick%int32(c.cfg.Emission.Period) == 0 {
		c.pool.For(n, c.emit)
	}

	c.perf.StartPhase(telemetry.PhaseScatter)
	c.pop.Scatter(c.swarm)

	c.perf.StartPhase(telemetry.PhaseDecay)
	for _, id := range [...]systems.FieldID{systems.HomeScent, systems.FoodScent} {
		f := c.env.Fields[id]
		f.Decay()
		if c.cfg.Fields.Blur {
			f.Blur()
		}
	}

	c.tick++

	c.perf.StartPhase(telemetry.PhaseTelemetry)
	c.recordEvents()
	c.flushTelemetry()

	c.perf.EndTick()
}

// recordEvents folds this tick's per-agent event flags into the collector.
func (c *Colony) recordEvents() {
	var counts telemetry.EventCounts
	for _, ev := range c.swarm.Events {
		if ev == 0 {
			continue
		}
		if ev&systems.EventPickup != 0 {
			counts[telemetry.EventPickup]++
		}
		if ev&systems.EventDelivery != 0 {
			counts[telemetry.EventDelivery]++
		}
		if ev&systems.EventBounce != 0 {
			counts[telemetry.EventBounce]++
		}
		if ev&systems.EventEscape != 0 {
			counts[telemetry.EventEscape]++
		}
	}
	c.collector.RecordCounts(counts)
}

// flushTelemetry closes the stats window when it is due.
func (c *Colony) flushTelemetry() {
	if !c.collector.ShouldFlush(c.tick) {
		return
	}
	stats := c.collector.Flush(c.tick, c.sample())
	if c.OnStats != nil {
		c.OnStats(stats, c.perf.Stats())
	}
}

// sample observes the colony for a telemetry window.
func (c *Colony) sample() telemetry.Sample {
	var s telemetry.Sample
	s.Searching, s.Returning, c.census = c.pop.Census(c.census)
	s.Clocks = c.census

	food, obstacle := c.env.Fields[systems.Food], c.env.Fields[systems.Obstacle]
	home, scent := c.env.Fields[systems.HomeScent], c.env.Fields[systems.FoodScent]
	s.FoodRemaining = food.Sum()
	s.FoodCells = food.CountPositive()
	s.ObstacleCells = obstacle.CountPositive()
	s.HomeScentTotal = home.Sum()
	s.FoodScentTotal = scent.Sum()
	s.HomeScentMax = home.Max()
	s.FoodScentMax = scent.Max()
	return s
}

// Close stops the worker pool.
func (c *Colony) Close() {
	c.pool.Stop()
}

// Ticks returns the number of completed ticks since creation or the last Reset.
func (c *Colony) Ticks() int32 { return c.tick }

// Len returns the number of agents.
func (c *Colony) Len() int { return c.pop.Len() }

// Workers returns the number of pool workers.
func (c *Colony) Workers() int { return c.pool.Workers() }

// Config returns the colony's configuration. Callers must not modify it.
func (c *Colony) Config() *config.Config { return c.cfg }

// Nest returns the nest centre and radius.
func (c *Colony) Nest() (x, y, radius float64) {
	return c.env.NestX, c.env.NestY, c.env.NestRadius
}

// Agent returns a copy of agent i.
func (c *Colony) Agent(i int) components.Agent { return c.pop.Agent(i) }

// Field returns the live grid for id, or nil for an unknown id. The grid must
// only be read between ticks.
func (c *Colony) Field(id systems.FieldID) *systems.ScalarField {
	if id >= systems.NumFields {
		return nil
	}
	return c.env.Fields[id]
}

// PerfStats returns timing statistics over the perf window.
func (c *Colony) PerfStats() telemetry.PerfStats { return c.perf.Stats() }


// TotalDeliveries returns the number of food deliveries since the last Reset.
func (c *Colony) TotalDeliveries() int { return c.collector.TotalDeliveries() }
