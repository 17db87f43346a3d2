// Package game drives a colony from the interactive viewer or a headless loop.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/renderer"
	"github.com/pthm-cable/antcolony/telemetry"
	"github.com/pthm-cable/antcolony/ui"
)

// PanelWidth is the width of the side panel to the right of the viewport.
const PanelWidth = 250

// Options configures a Game.
type Options struct {
	Config         *config.Config
	LogStats       bool   // Output window stats via slog
	OutputDir      string // Directory for CSV logs and config snapshot (empty = disabled)
	Headless       bool   // No raylib resources are created
	StepsPerUpdate int    // Simulation ticks per Update call
}

// Game holds the colony and everything needed to show and steer it.
type Game struct {
	colony *colony.Colony
	cfg    *config.Config

	stepsPerUpdate int
	logStats       bool
	outputManager  *telemetry.OutputManager
	lastStats      telemetry.WindowStats

	// Rendering (nil when headless)
	snap     colony.Snapshot
	camera   *camera.Camera
	fields   *renderer.FieldRenderer
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	commands *ui.CommandPanel
	stats    *ui.StatsPanel
	controls *ui.ControlsPanel
	perf     *ui.PerfPanel
	brush    ui.BrushSizes

	viewSize int32 // Edge of the square field viewport in pixels
}

// NewGameWithOptions creates a game. In graphical mode the raylib window must
// already be open and the colony starts paused until the user starts it.
func NewGameWithOptions(opts Options) (*Game, error) {
	c, err := colony.New(opts.Config)
	if err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		c.Close()
		return nil, err
	}

	g := &Game{
		colony:         c,
		cfg:            c.Config(),
		stepsPerUpdate: max(1, opts.StepsPerUpdate),
		logStats:       opts.LogStats,
		outputManager:  om,
	}
	c.OnStats = g.flushTelemetry

	if err := om.WriteConfig(g.cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	if om != nil {
		slog.Info("writing output", "dir", om.Dir())
	}

	if !opts.Headless {
		g.initView()
		c.Pause()
	}
	return g, nil
}

// initView creates the camera, renderers and panels.
func (g *Game) initView() {
	size := int32(g.cfg.Screen.Size)
	g.viewSize = size

	g.camera = camera.New(0, 0, float32(size))
	g.fields = renderer.NewFieldRenderer(g.cfg.Fields.HomeScent.MaxValue, g.cfg.Fields.FoodScent.MaxValue)
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()

	panelX := size + 10
	panelW := int32(PanelWidth - 20)
	g.commands = ui.NewCommandPanel(panelX, 10, panelW)
	g.stats = ui.NewStatsPanel(panelX, 0, panelW)
	g.controls = ui.NewControlsPanel(panelX, 0, panelW)
	g.perf = ui.NewPerfPanel(panelX, 0, panelW)

	g.brush = ui.BrushSizes{
		Food:     float32(g.cfg.Brush.Food),
		Obstacle: float32(g.cfg.Brush.Obstacle),
	}
}

// Update handles input and advances the simulation (graphical mode).
func (g *Game) Update() {
	g.handleInput()
	g.step()
}

// UpdateHeadless advances the simulation without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step runs stepsPerUpdate ticks. Paused colonies do not advance.
func (g *Game) step() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.colony.Tick()
	}
}

// Tick returns the colony's tick counter.
func (g *Game) Tick() int32 {
	return g.colony.Ticks()
}

// Colony returns the driven colony.
func (g *Game) Colony() *colony.Colony {
	return g.colony
}

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Unload releases GPU resources, output files and worker goroutines.
func (g *Game) Unload() {
	if g.fields != nil {
		g.fields.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.colony.Close()
}
