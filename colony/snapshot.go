package colony

import (
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// Snapshot is an immutable copy of the colony state for renderers and tests.
type Snapshot struct {
	Tick   int32
	Paused bool

	NestX, NestY, NestRadius float64
	Resolution               int

	// Agent positions and states in index order
	Positions []components.Position
	States    []components.ForageState

	// Grid copies indexed by FieldID, row-major
	Fields [systems.NumFields][]float64
}

// Snapshot returns a freshly allocated copy of the colony state.
func (c *Colony) Snapshot() Snapshot {
	var s Snapshot
	c.SnapshotInto(&s)
	return s
}

// SnapshotInto copies the colony state into dst, reusing its slices.
func (c *Colony) SnapshotInto(dst *Snapshot) {
	dst.Tick = c.tick
	dst.Paused = c.paused
	dst.NestX, dst.NestY, dst.NestRadius = c.env.NestX, c.env.NestY, c.env.NestRadius
	dst.Resolution = c.cfg.World.Resolution
	dst.Positions, dst.States = c.pop.Positions(dst.Positions, dst.States)
	for id, f := range c.env.Fields {
		dst.Fields[id] = append(dst.Fields[id][:0], f.Data...)
	}
}

// Field returns the grid copy for id, or nil for an unknown id.
func (s *Snapshot) Field(id systems.FieldID) []float64 {
	if id >= systems.NumFields {
		return nil
	}
	return s.Fields[id]
}

// Counts returns the number of searching and returning agents.
func (s *Snapshot) Counts() (searching, returning int) {
	for _, st := range s.States {
		if st == components.Returning {
			returning++
		} else {
			searching++
		}
	}
	return searching, returning
}
