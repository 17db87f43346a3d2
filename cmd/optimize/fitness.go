package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/telemetry"
)

// FitnessEvaluator runs headless colonies and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastRate    float64 // mean delivery rate from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastRate returns the mean deliveries per tick from the most recent evaluation.
func (fe *FitnessEvaluator) LastRate() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastRate
}

// runResult holds the results from a single colony run.
type runResult struct {
	deliveries  int
	ticks       int32
	windowStats []telemetry.WindowStats // collected via OnStats each window
	err         error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	rate    float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative delivery rate: more food home per tick = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			if r.err != nil {
				// Invalid parameter sets score worst.
				results[idx] = seedResult{fitness: 0}
				return
			}
			quality := fe.computeQuality(r.windowStats)
			rate := float64(r.deliveries) / float64(max(1, r.ticks))
			results[idx] = seedResult{
				fitness: computeFitness(rate, quality),
				quality: quality,
				rate:    rate,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalRate float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalRate += r.rate
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastRate = totalRate / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless colony run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.runConfig(x, seed)
	result := &runResult{}

	c, err := colony.New(cfg)
	if err != nil {
		result.err = err
		return result
	}
	defer c.Close()

	c.OnStats = func(stats telemetry.WindowStats, _ telemetry.PerfStats) {
		result.windowStats = append(result.windowStats, stats)
	}

	for c.Ticks() < fe.maxTicks {
		c.Tick()
	}

	result.deliveries = c.TotalDeliveries()
	result.ticks = c.Ticks()
	return result
}

// runConfig copies the base config and applies parameters for one run.
// Seeds run concurrently, so each colony gets a single worker.
func (fe *FitnessEvaluator) runConfig(x []float64, seed int64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	cfg.Seed = seed
	cfg.Parallel.Workers = 1
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(rate × (1.0 + 0.2 × quality))
// Throughput dominates; quality adds up to 20% bonus to differentiate
// configs with similar rates.
func computeFitness(rate, quality float64) float64 {
	return -(rate * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightSteady   = 0.6
	qualityWeightCoverage = 0.4

	qualityWarmupWindows = 2 // skip first N windows while trails form
)

// computeQuality computes trail quality in [0, 1] from window stats: steady
// delivery counts across windows and a large share of windows that deliver.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	delivering := 0
	for _, w := range valid {
		counts = append(counts, float64(w.Deliveries))
		if w.Deliveries > 0 {
			delivering++
		}
	}
	if delivering == 0 {
		return 0
	}

	steadyScore := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			steadyScore = math.Exp(-cv * cv)
		}
	}
	coverageScore := float64(delivering) / float64(len(valid))

	return clamp01(qualityWeightSteady*steadyScore + qualityWeightCoverage*coverageScore)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
