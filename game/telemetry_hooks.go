package game

import (
	"log/slog"

	"github.com/pthm-cable/antcolony/telemetry"
)

// flushTelemetry receives every closed stats window from the colony.
func (g *Game) flushTelemetry(stats telemetry.WindowStats, perfStats telemetry.PerfStats) {
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, g.colony.Workers()); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
