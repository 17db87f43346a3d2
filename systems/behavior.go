package systems

import (
	"math"

	"github.com/pthm-cable/antcolony/components"
)

// Per-agent phase operations. Each touches only agent i's slots in the swarm,
// so a phase may run over disjoint index ranges on separate workers. Shared
// state is limited to the fields in env.

// Trigger clears agent i's scratch and runs the state machine checks.
//
// A returning agent inside the nest turns searching and reverses. Any agent
// inside the nest gets a full clock. A returning agent inside the outer ring
// (nest radius plus detection radius) is pointed straight at the nest. A
// searching agent on a food cell takes one unit, turns returning and reverses.
func (s *Swarm) Trigger(i int, p *Params, env *Env) {
	s.Bias[i] = 0
	s.Events[i] = 0
	if !p.Foraging {
		return
	}

	food := env.Fields[Food]
	dx, dy := env.NestX-s.X[i], env.NestY-s.Y[i]
	if !p.Bounce {
		dx -= math.Round(dx)
		dy -= math.Round(dy)
	}
	dist := math.Hypot(dx, dy)
	outer := env.NestRadius + float64(p.DetectRadius)/float64(food.Res)

	switch {
	case dist <= env.NestRadius:
		s.Clock[i] = p.ClockMax
		if s.State[i] == components.Returning {
			s.State[i] = components.Searching
			s.Theta[i] += math.Pi
			s.Events[i] |= EventDelivery
		}
	case dist <= outer && s.State[i] == components.Returning:
		s.Theta[i] = math.Atan2(dy, dx)
	}

	if s.State[i] == components.Searching {
		if food.ConsumeOne(food.CellOf(s.X[i], s.Y[i])) {
			s.State[i] = components.Returning
			s.Theta[i] += math.Pi
			s.Clock[i] = p.ClockMax
			s.Events[i] |= EventPickup
		}
	}
}

// Sense steers agent i from its surroundings.
//
// Scent sensing reads the field matching the agent's state and adds a smooth,
// clamped bias. A searching agent that finds no usable gradient snaps toward
// the nearest food cell in range. Obstacle sensing always runs last and
// overrides: a side obstacle replaces the bias with a fixed repulsion, an
// obstacle dead ahead forces an immediate random escape turn.
func (s *Swarm) Sense(i int, p *Params, env *Env) {
	scent := env.Fields[FoodScent]
	if s.State[i] == components.Returning {
		scent = env.Fields[HomeScent]
	}
	center := scent.CellOf(s.X[i], s.Y[i])

	reading := DetectSectors(scent, center, s.Theta[i], p.DetectRadius, p.DetectAngle)
	s.Bias[i] += ScentBias(reading, p.Sensitivity, p.DetectAngle/2)

	if p.Foraging && s.State[i] == components.Searching {
		if resp := reading.Classify(); resp != RespondTurnLeft && resp != RespondTurnRight {
			if theta, ok := NearestOccupied(env.Fields[Food], center, p.DetectRadius, p.FoodSearchCap); ok {
				s.Theta[i] = theta
			}
		}
	}

	if !p.Obstacles {
		return
	}
	obstacle := DetectSectors(env.Fields[Obstacle], center, s.Theta[i], p.DetectRadius, p.DetectAngle)
	switch obstacle.Classify() {
	case RespondTurnLeft:
		s.Bias[i] = -p.ObstacleBias
	case RespondTurnRight:
		s.Bias[i] = p.ObstacleBias
	case RespondBlockedFwd:
		s.escapeTurn(i)
		s.Events[i] |= EventEscape
	}
}

// Reorient applies the bounded random turn plus the accumulated bias.
func (s *Swarm) Reorient(i int, p *Params) {
	s.Theta[i] += (s.Rand(i)-0.5)*2*p.MaxTurnRate + s.Bias[i]
}

// Advance moves agent i one step along its heading. A step into an obstacle
// cell is rejected: scent around both the rejected and the original cell is
// scrubbed, the agent stays put and takes a random escape turn. An agent whose
// own cell has been painted over is put back on the nest circle.
func (s *Swarm) Advance(i int, p *Params, env *Env) {
	x0, y0 := s.X[i], s.Y[i]
	x := x0 + math.Cos(s.Theta[i])*p.Speed
	y := y0 + math.Sin(s.Theta[i])*p.Speed

	if p.Obstacles {
		obstacle := env.Fields[Obstacle]
		dest := obstacle.CellOf(x, y)
		if obstacle.At(dest) != 0 {
			from := obstacle.CellOf(x0, y0)
			for _, id := range [...]FieldID{HomeScent, FoodScent} {
				env.Fields[id].EraseArea(dest, p.EraseRadius)
				env.Fields[id].EraseArea(from, p.EraseRadius)
			}
			s.escapeTurn(i)
			s.Events[i] |= EventBounce
			if obstacle.At(from) != 0 {
				s.PlaceOnRing(i, env.NestX, env.NestY, env.NestRadius)
			}
			return
		}
	}
	s.X[i], s.Y[i] = x, y
}

// Boundary brings agent i back into the domain: onto the torus [0,1)², or,
// when bouncing, clamped into [0,1)² with the heading mirrored on each axis
// that was crossed.
func (s *Swarm) Boundary(i int, p *Params) {
	if !p.Bounce {
		s.X[i] = wrapUnit(s.X[i])
		s.Y[i] = wrapUnit(s.Y[i])
		return
	}
	if s.X[i] < 0 || s.X[i] >= 1 {
		s.X[i] = clampUnit(s.X[i])
		s.Theta[i] = math.Pi - s.Theta[i]
	}
	if s.Y[i] < 0 || s.Y[i] >= 1 {
		s.Y[i] = clampUnit(s.Y[i])
		s.Theta[i] = -s.Theta[i]
	}
}

// Emit deposits scent at agent i's cell. Searchers mark the way home, returners
// mark the way to food. With clock scaling the deposit fades with the time since
// the agent last visited the nest or food.
func (s *Swarm) Emit(i int, p *Params, env *Env) {
	target := env.Fields[HomeScent]
	if s.State[i] == components.Returning {
		target = env.Fields[FoodScent]
	}
	value := target.DepositValue
	if p.ClockScaled {
		value *= s.Clock[i]
	}
	target.Deposit(target.CellOf(s.X[i], s.Y[i]), value)

	if s.Clock[i] > 0 {
		s.Clock[i] = math.Max(0, s.Clock[i]-p.ClockDecay)
	}
}

func (s *Swarm) escapeTurn(i int) {
	s.Theta[i] -= math.Pi/2 - s.Rand(i)*math.Pi
}

func wrapUnit(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1 {
		// v was a tiny negative number that rounded up
		v = 0
	}
	return v
}

// lastUnit is the largest float64 below 1, so a clamped coordinate still maps
// to the last cell instead of wrapping to the first.
var lastUnit = math.Nextafter(1, 0)

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > lastUnit {
		return lastUnit
	}
	return v
}
