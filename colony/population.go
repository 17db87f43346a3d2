package colony

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// Population stores agents as ECS entities. It is the canonical agent state
// between ticks; each tick gathers it into a Swarm, runs the phases and
// scatters the result back.
type Population struct {
	world *ecs.World

	mapper *ecs.Map3[components.Position, components.Heading, components.Forager]
	filter *ecs.Filter3[components.Position, components.Heading, components.Forager]

	// Entities in agent index order
	entities []ecs.Entity
}

// NewPopulation creates n agents with zeroed components.
func NewPopulation(n int) *Population {
	world := ecs.NewWorld()
	p := &Population{
		world:    world,
		mapper:   ecs.NewMap3[components.Position, components.Heading, components.Forager](world),
		filter:   ecs.NewFilter3[components.Position, components.Heading, components.Forager](world),
		entities: make([]ecs.Entity, n),
	}
	for i := range p.entities {
		var (
			pos components.Position
			hd  components.Heading
			fg  components.Forager
		)
		p.entities[i] = p.mapper.NewEntity(&pos, &hd, &fg)
	}
	return p
}

// Len returns the number of agents.
func (p *Population) Len() int { return len(p.entities) }

// Agent returns a copy of agent i.
func (p *Population) Agent(i int) components.Agent {
	pos, hd, fg := p.mapper.Get(p.entities[i])
	return components.Agent{Position: *pos, Heading: *hd, Forager: *fg}
}

// SetAgent overwrites agent i.
func (p *Population) SetAgent(i int, a components.Agent) {
	pos, hd, fg := p.mapper.Get(p.entities[i])
	*pos, *hd, *fg = a.Position, a.Heading, a.Forager
}

// Gather copies every agent into the swarm working set.
func (p *Population) Gather(s *systems.Swarm) {
	for i, e := range p.entities {
		pos, hd, fg := p.mapper.Get(e)
		s.X[i], s.Y[i] = pos.X, pos.Y
		s.Theta[i] = hd.Theta
		s.State[i] = fg.State
		s.Clock[i] = fg.Clock
	}
}

// Scatter writes the swarm working set back to the entities.
func (p *Population) Scatter(s *systems.Swarm) {
	for i, e := range p.entities {
		pos, hd, fg := p.mapper.Get(e)
		pos.X, pos.Y = s.X[i], s.Y[i]
		hd.Theta = s.Theta[i]
		fg.State = s.State[i]
		fg.Clock = s.Clock[i]
	}
}

// Census counts agents per state and collects their clocks into clocks,
// which is returned resliced.
func (p *Population) Census(clocks []float64) (searching, returning int, out []float64) {
	out = clocks[:0]
	query := p.filter.Query()
	for query.Next() {
		_, _, fg := query.Get()
		if fg.State == components.Returning {
			returning++
		} else {
			searching++
		}
		out = append(out, fg.Clock)
	}
	return searching, returning, out
}

// Positions appends every agent position and state to the given slices in
// index order.
func (p *Population) Positions(pos []components.Position, states []components.ForageState) ([]components.Position, []components.ForageState) {
	pos, states = pos[:0], states[:0]
	for _, e := range p.entities {
		ps, _, fg := p.mapper.Get(e)
		pos = append(pos, *ps)
		states = append(states, fg.State)
	}
	return pos, states
}
