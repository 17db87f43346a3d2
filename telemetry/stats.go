package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Agent states at window end
	Searching int `csv:"searching"`
	Returning int `csv:"returning"`

	// Events during window
	Pickups      int     `csv:"pickups"`
	Deliveries   int     `csv:"deliveries"`
	Bounces      int     `csv:"bounces"`
	Escapes      int     `csv:"escapes"`
	DeliveryRate float64 `csv:"delivery_rate"` // deliveries per tick

	TotalDeliveries int `csv:"total_deliveries"`

	// Clock distribution (sampled at window end)
	ClockMean float64 `csv:"clock_mean"`
	ClockStd  float64 `csv:"clock_std"`
	ClockP10  float64 `csv:"clock_p10"`
	ClockP50  float64 `csv:"clock_p50"`
	ClockP90  float64 `csv:"clock_p90"`

	// Grid state
	FoodRemaining float64 `csv:"food_remaining"`
	FoodCells     int     `csv:"food_cells"`
	ObstacleCells int     `csv:"obstacle_cells"`

	HomeScentTotal float64 `csv:"home_scent_total"`
	FoodScentTotal float64 `csv:"food_scent_total"`
	HomeScentMax   float64 `csv:"home_scent_max"`
	FoodScentMax   float64 `csv:"food_scent_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles of values. All results are zero for an empty slice; std is zero
// for a single value.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = stat.Mean(values, nil)
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("searching", s.Searching),
		slog.Int("returning", s.Returning),
		slog.Int("pickups", s.Pickups),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("bounces", s.Bounces),
		slog.Int("escapes", s.Escapes),
		slog.Float64("delivery_rate", s.DeliveryRate),
		slog.Int("total_deliveries", s.TotalDeliveries),
		slog.Float64("clock_mean", s.ClockMean),
		slog.Float64("clock_std", s.ClockStd),
		slog.Float64("clock_p50", s.ClockP50),
		slog.Float64("food_remaining", s.FoodRemaining),
		slog.Int("food_cells", s.FoodCells),
		slog.Float64("home_scent_total", s.HomeScentTotal),
		slog.Float64("food_scent_total", s.FoodScentTotal),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"searching", s.Searching,
		"returning", s.Returning,
		"pickups", s.Pickups,
		"deliveries", s.Deliveries,
		"bounces", s.Bounces,
		"escapes", s.Escapes,
		"delivery_rate", s.DeliveryRate,
		"total_deliveries", s.TotalDeliveries,
		"clock_mean", s.ClockMean,
		"clock_std", s.ClockStd,
		"clock_p10", s.ClockP10,
		"clock_p50", s.ClockP50,
		"clock_p90", s.ClockP90,
		"food_remaining", s.FoodRemaining,
		"food_cells", s.FoodCells,
		"obstacle_cells", s.ObstacleCells,
		"home_scent_total", s.HomeScentTotal,
		"food_scent_total", s.FoodScentTotal,
		"home_scent_max", s.HomeScentMax,
		"food_scent_max", s.FoodScentMax,
	)
}
