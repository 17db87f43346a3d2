// Package components defines ECS components for the simulation.
package components

// ForageState is an agent's position in the foraging state machine.
type ForageState uint8

const (
	Searching ForageState = iota // No food carried; follows food scent
	Returning                    // Carrying food; follows home scent
)

func (s ForageState) String() string {
	switch s {
	case Searching:
		return "searching"
	case Returning:
		return "returning"
	default:
		return "unknown"
	}
}

// Position represents an agent's position in domain-normalized coordinates.
type Position struct {
	X, Y float64
}

// Heading represents an agent's direction of travel in radians.
type Heading struct {
	Theta float64
}

// Forager holds the state machine flag and the internal clock that scales
// emitted scent. The clock is reset to its maximum on every state transition
// and whenever the agent stands in the nest.
type Forager struct {
	State ForageState
	Clock float64
}

// Agent is a flattened view of one agent's components.
type Agent struct {
	Position
	Heading
	Forager
}
