// Package telemetry provides colony activity tracking, performance timing and
// CSV output for experiment runs.
package telemetry

// EventType identifies a counted colony event.
type EventType uint8

const (
	EventPickup   EventType = iota // A searcher took a food unit
	EventDelivery                  // A returner reached the nest
	EventBounce                    // A move was rejected by an obstacle
	EventEscape                    // An obstacle dead ahead forced a hard turn
	NumEventTypes
)

func (e EventType) String() string {
	switch e {
	case EventPickup:
		return "pickup"
	case EventDelivery:
		return "delivery"
	case EventBounce:
		return "bounce"
	case EventEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// EventCounts holds per-type event totals.
type EventCounts [NumEventTypes]int

// Add merges other into c.
func (c *EventCounts) Add(other EventCounts) {
	for i, n := range other {
		c[i] += n
	}
}

// Total returns the sum over all event types.
func (c EventCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
