package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step. The agent phases match the kernel
// names the colony runs on its worker pool.
const (
	PhaseGather    = "gather"
	PhaseTrigger   = "trigger"
	PhaseSense     = "sense"
	PhaseReorient  = "reorient"
	PhaseAdvance   = "advance"
	PhaseBoundary  = "boundary"
	PhaseEmit      = "emit"
	PhaseScatter   = "scatter"
	PhaseDecay     = "decay"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseGather, PhaseTrigger, PhaseSense, PhaseReorient, PhaseAdvance,
	PhaseBoundary, PhaseEmit, PhaseScatter, PhaseDecay, PhaseTelemetry,
}

// tickTiming is one tick's wall time split by phase.
type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps tick timings for the last windowSize ticks. Window sums
// are updated as ticks enter and leave, so Stats does not rescan the ring.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	sumTotal  time.Duration
	sumPhases map[string]time.Duration

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:      make([]tickTiming, windowSize),
		sumPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{phases: make(map[string]time.Duration, len(Phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" && p.current.phases != nil {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the tick and moves it into the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.current.total = now.Sub(p.tickStart)

	if p.count == len(p.ring) {
		old := p.ring[p.next]
		p.sumTotal -= old.total
		for name, d := range old.phases {
			if p.sumPhases[name] -= d; p.sumPhases[name] <= 0 {
				delete(p.sumPhases, name)
			}
		}
	} else {
		p.count++
	}

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.sumTotal += p.current.total
	for name, d := range p.current.phases {
		p.sumPhases[name] += d
	}
}

// PerfStats holds window-averaged timings.
type PerfStats struct {
	AvgTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg map[string]time.Duration // Mean time per tick
	PhasePct map[string]float64       // Share of the mean tick, in percent
}

// Stats averages the current window. An empty window gives zero timings and
// empty maps.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration, len(p.sumPhases)),
		PhasePct: make(map[string]float64, len(p.sumPhases)),
	}
	if p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = p.sumTotal / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for name, sum := range p.sumPhases {
		avg := sum / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the tick rate and the phases that take a visible share.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	Workers      int     `csv:"workers"`
	GatherPct    float64 `csv:"gather_pct"`
	TriggerPct   float64 `csv:"trigger_pct"`
	SensePct     float64 `csv:"sense_pct"`
	ReorientPct  float64 `csv:"reorient_pct"`
	AdvancePct   float64 `csv:"advance_pct"`
	BoundaryPct  float64 `csv:"boundary_pct"`
	EmitPct      float64 `csv:"emit_pct"`
	ScatterPct   float64 `csv:"scatter_pct"`
	DecayPct     float64 `csv:"decay_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32, workers int) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		Workers:      workers,
		GatherPct:    pct[PhaseGather],
		TriggerPct:   pct[PhaseTrigger],
		SensePct:     pct[PhaseSense],
		ReorientPct:  pct[PhaseReorient],
		AdvancePct:   pct[PhaseAdvance],
		BoundaryPct:  pct[PhaseBoundary],
		EmitPct:      pct[PhaseEmit],
		ScatterPct:   pct[PhaseScatter],
		DecayPct:     pct[PhaseDecay],
		TelemetryPct: pct[PhaseTelemetry],
	}
}
