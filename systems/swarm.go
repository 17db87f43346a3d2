package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Event flags recorded per agent during a tick.
type Event uint8

const (
	EventPickup   Event = 1 << iota // Took a food unit and turned for home
	EventDelivery                   // Reached the nest while returning
	EventBounce                     // Move rejected by an obstacle
	EventEscape                     // Hard random turn from an obstacle dead ahead
)

// Swarm is the structure-of-arrays working set for one tick of agent updates.
//
// Index i across all slices describes the same agent. Each agent owns a PCG
// stream seeded from (seed, i), so results do not depend on how agents are
// split across workers. Bias is scratch: it is reset at the start of every
// trigger pass and only read by Reorient.
type Swarm struct {
	X, Y   []float64
	Theta  []float64
	State  []components.ForageState
	Clock  []float64
	Bias   []float64
	Events []Event

	rng []rand.PCG
}

// NewSwarm allocates n agents at the origin with seeded random streams.
func NewSwarm(n int, seed int64) *Swarm {
	s := &Swarm{
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Theta:  make([]float64, n),
		State:  make([]components.ForageState, n),
		Clock:  make([]float64, n),
		Bias:   make([]float64, n),
		Events: make([]Event, n),
		rng:    make([]rand.PCG, n),
	}
	s.Reseed(seed)
	return s
}

// Len returns the number of agents.
func (s *Swarm) Len() int { return len(s.X) }

// Reseed restarts every agent's random stream.
func (s *Swarm) Reseed(seed int64) {
	for i := range s.rng {
		s.rng[i].Seed(uint64(seed), uint64(i))
	}
}

// Rand returns agent i's next uniform value in [0, 1).
func (s *Swarm) Rand(i int) float64 {
	return float64(s.rng[i].Uint64()>>11) / (1 << 53)
}

func (s *Swarm) randUnit(i int) (float64, float64) {
	a := s.Rand(i) * 2 * math.Pi
	return math.Cos(a), math.Sin(a)
}

// Agent returns a copy of agent i's persistent state.
func (s *Swarm) Agent(i int) components.Agent {
	return components.Agent{
		Position: components.Position{X: s.X[i], Y: s.Y[i]},
		Heading:  components.Heading{Theta: s.Theta[i]},
		Forager:  components.Forager{State: s.State[i], Clock: s.Clock[i]},
	}
}

// SetAgent overwrites agent i's persistent state.
func (s *Swarm) SetAgent(i int, a components.Agent) {
	s.X[i], s.Y[i] = a.X, a.Y
	s.Theta[i] = a.Theta
	s.State[i] = a.State
	s.Clock[i] = a.Clock
}

// SeedRing places every agent on the circle of radius r around (cx, cy) with
// a random heading, a full clock and the searching state.
func (s *Swarm) SeedRing(cx, cy, r, clockMax float64) {
	for i := range s.X {
		s.PlaceOnRing(i, cx, cy, r)
		s.Theta[i] = s.Rand(i) * 2 * math.Pi
		s.State[i] = components.Searching
		s.Clock[i] = clockMax
		s.Bias[i] = 0
	}
}

// PlaceOnRing moves agent i onto the circle of radius r around (cx, cy),
// wrapped onto the unit torus.
func (s *Swarm) PlaceOnRing(i int, cx, cy, r float64) {
	ux, uy := s.randUnit(i)
	s.X[i] = wrapUnit(cx + ux*r)
	s.Y[i] = wrapUnit(cy + uy*r)
}

// SeedDisk scatters agents inside the disk of radius r around (cx, cy) with
// random headings. The first half of the population starts returning.
func (s *Swarm) SeedDisk(cx, cy, r, clockMax float64) {
	half := len(s.X) / 2
	for i := range s.X {
		ux, uy := s.randUnit(i)
		d := s.Rand(i) * r
		s.X[i] = wrapUnit(cx + ux*d)
		s.Y[i] = wrapUnit(cy + uy*d)
		s.Theta[i] = s.Rand(i) * 2 * math.Pi
		s.State[i] = components.Searching
		if i < half {
			s.State[i] = components.Returning
		}
		s.Clock[i] = clockMax
		s.Bias[i] = 0
	}
}

// Params holds the per-tick behaviour constants derived from config.
type Params struct {
	Speed         float64
	DetectRadius  int
	DetectAngle   float64
	Sensitivity   float64
	MaxTurnRate   float64
	ObstacleBias  float64
	FoodSearchCap float64
	EraseRadius   float64
	ClockMax      float64
	ClockDecay    float64

	Bounce      bool
	ClockScaled bool
	Foraging    bool
	Obstacles   bool
}

// NewParams extracts behaviour constants from a validated config.
func NewParams(cfg *config.Config) Params {
	return Params{
		Speed:         cfg.Population.Speed,
		DetectRadius:  cfg.Sensors.DetectRadius,
		DetectAngle:   cfg.Sensors.DetectAngle,
		Sensitivity:   cfg.Sensors.Sensitivity,
		MaxTurnRate:   cfg.Sensors.MaxTurnRate,
		ObstacleBias:  cfg.Sensors.ObstacleBias,
		FoodSearchCap: cfg.Sensors.FoodSearchCap,
		EraseRadius:   cfg.Fields.EraseRadius,
		ClockMax:      cfg.Clock.Max,
		ClockDecay:    cfg.Clock.Decay,
		Bounce:        cfg.Derived.Bounce,
		ClockScaled:   cfg.Derived.ClockScaled,
		Foraging:      cfg.Behavior.Foraging,
		Obstacles:     cfg.Behavior.Obstacles,
	}
}

// Env is the shared state agents read and write during a tick.
type Env struct {
	Fields     Fields
	NestX      float64
	NestY      float64
	NestRadius float64
}
