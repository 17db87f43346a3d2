package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	counts EventCounts

	// Running totals since the last reset
	totalDeliveries int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// Record adds n events of the given type to the current window.
func (c *Collector) Record(e EventType, n int) {
	if e >= NumEventTypes || n <= 0 {
		return
	}
	c.counts[e] += n
	if e == EventDelivery {
		c.totalDeliveries += n
	}
}

// RecordCounts adds a batch of per-type counts to the current window.
func (c *Collector) RecordCounts(counts EventCounts) {
	for e, n := range counts {
		c.Record(EventType(e), n)
	}
}

// Pending returns the counts accumulated in the current window.
func (c *Collector) Pending() EventCounts {
	return c.counts
}

// TotalDeliveries returns the number of deliveries since the last Reset.
func (c *Collector) TotalDeliveries() int {
	return c.totalDeliveries
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample holds colony state observed at the end of a window.
type Sample struct {
	Searching int
	Returning int

	// Clock values of every agent
	Clocks []float64

	FoodRemaining float64
	FoodCells     int
	ObstacleCells int

	HomeScentTotal float64
	FoodScentTotal float64
	HomeScentMax   float64
	FoodScentMax   float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	ticks := currentTick - c.windowStartTick
	var deliveryRate float64
	if ticks > 0 {
		deliveryRate = float64(c.counts[EventDelivery]) / float64(ticks)
	}

	clockMean, clockStd, clockP10, clockP50, clockP90 := ComputeDistribution(s.Clocks)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Searching: s.Searching,
		Returning: s.Returning,

		Pickups:      c.counts[EventPickup],
		Deliveries:   c.counts[EventDelivery],
		Bounces:      c.counts[EventBounce],
		Escapes:      c.counts[EventEscape],
		DeliveryRate: deliveryRate,

		TotalDeliveries: c.totalDeliveries,

		ClockMean: clockMean,
		ClockStd:  clockStd,
		ClockP10:  clockP10,
		ClockP50:  clockP50,
		ClockP90:  clockP90,

		FoodRemaining: s.FoodRemaining,
		FoodCells:     s.FoodCells,
		ObstacleCells: s.ObstacleCells,

		HomeScentTotal: s.HomeScentTotal,
		FoodScentTotal: s.FoodScentTotal,
		HomeScentMax:   s.HomeScentMax,
		FoodScentMax:   s.FoodScentMax,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.counts = EventCounts{}

	return stats
}

// Reset discards the current window and running totals and restarts at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.counts = EventCounts{}
	c.totalDeliveries = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
