package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSense)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseAdvance)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseSense]; !ok {
		t.Error("expected sense phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseAdvance]; !ok {
		t.Error("expected advance phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSense)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_WindowDropsOldTicks(t *testing.T) {
	pc := NewPerfCollector(3)

	pc.StartTick()
	pc.StartPhase(PhaseDecay)
	time.Sleep(time.Millisecond)
	pc.EndTick()

	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSense)
		pc.EndTick()
	}

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg[PhaseDecay]; ok {
		t.Error("phase from an evicted tick still reported")
	}
	if _, ok := stats.PhaseAvg[PhaseSense]; !ok {
		t.Error("expected sense phase in the window")
	}
	if stats.AvgTickDuration >= time.Millisecond {
		t.Errorf("avg tick = %v, want the slow evicted tick excluded", stats.AvgTickDuration)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseSense: 40, PhaseEmit: 5},
		TicksPerSecond:  500,
	}

	row := stats.ToCSV(300, 4)

	if row.WindowEnd != 300 || row.Workers != 4 {
		t.Errorf("window/workers = %d/%d, want 300/4", row.WindowEnd, row.Workers)
	}
	if row.AvgTickUS != 2000 {
		t.Errorf("avg tick = %dus, want 2000", row.AvgTickUS)
	}
	if row.SensePct != 40 || row.EmitPct != 5 || row.DecayPct != 0 {
		t.Errorf("phase pct = sense %v emit %v decay %v", row.SensePct, row.EmitPct, row.DecayPct)
	}
}
