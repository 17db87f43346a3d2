package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/renderer"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/ui"
)

const (
	colonyControls = "SPACE start | P pause | H+LMB nest | F/D+LMB paint, RMB erase | </> speed | wheel zoom"
	slimeControls  = "SPACE start | P pause | </> speed | arrows pan | wheel zoom | HOME reset view"
)

// Draw renders the game.
func (g *Game) Draw() {
	g.colony.SnapshotInto(&g.snap)
	g.fields.Update(&g.snap, g.overlays.IsEnabled(ui.OverlayPheromone))

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.fields.Draw(g.camera)
	if g.overlays.IsEnabled(ui.OverlayNest) {
		renderer.DrawNest(g.camera, &g.snap)
	}
	if g.overlays.IsEnabled(ui.OverlayAnts) {
		renderer.DrawAgents(g.camera, &g.snap)
	}
	g.drawBrush()

	g.hud.Draw(0, 0, ui.HUDData{
		Title:   title(g.cfg.Derived.Slime),
		Agents:  g.colony.Len(),
		Tick:    g.snap.Tick,
		Speed:   g.stepsPerUpdate,
		FPS:     rl.GetFPS(),
		Paused:  g.snap.Paused,
		Started: g.snap.Tick > 0 || !g.snap.Paused,
	})
	controls := colonyControls
	if g.cfg.Derived.Slime {
		controls = slimeControls
	}
	g.hud.DrawControls(0, g.viewSize, controls)

	// Side panel
	rl.DrawRectangle(g.viewSize, 0, PanelWidth, g.viewSize, rl.Color{R: 12, G: 14, B: 18, A: 255})
	y := g.drawCommandPanel()
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.stats.SetPosition(g.viewSize+10, y+10)
		y = g.stats.Draw(g.colonyStats())
	}
	g.controls.SetPosition(g.viewSize+10, y+10)
	y = g.controls.Draw(g.overlays)
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perf.SetPosition(g.viewSize+10, y+10)
		g.perf.Draw(g.colony.PerfStats(), g.colony.Workers())
	}

	rl.EndDrawing()
}

// drawCommandPanel draws the raygui controls and applies what they changed.
// It returns the Y below the panel.
func (g *Game) drawCommandPanel() int32 {
	c := g.colony

	if g.cfg.Derived.Slime {
		next, changed, y := g.commands.DrawSlime(c.Tuning(), g.overlays)
		if changed {
			if err := c.Tune(next); err != nil {
				slog.Warn("tuning rejected", "error", err)
			}
		}
		return y
	}

	before := g.brush
	act, y := g.commands.DrawColony(&g.brush, float32(g.cfg.Brush.MaxSize), g.overlays)
	if g.brush.Food != before.Food {
		g.setBrush(systems.Food, g.brush.Food)
	}
	if g.brush.Obstacle != before.Obstacle {
		g.setBrush(systems.Obstacle, g.brush.Obstacle)
	}

	switch {
	case act.Restart:
		c.Reset()
	case act.Start:
		c.Resume()
	case act.Puzzle:
		c.GenerateMaze()
	}
	return y
}

func (g *Game) setBrush(id systems.FieldID, size float32) {
	if err := g.colony.SetBrushSize(id, float64(size)); err != nil {
		slog.Warn("brush size rejected", "field", id, "error", err)
	}
}

// drawBrush outlines the brush under the cursor while a paint key is held.
func (g *Game) drawBrush() {
	if g.cfg.Derived.Slime || !g.overlays.IsEnabled(ui.OverlayBrush) {
		return
	}
	id, ok := g.activeBrush()
	if !ok {
		return
	}
	mouse := rl.GetMousePosition()
	if !g.camera.Contains(mouse.X, mouse.Y) {
		return
	}
	renderer.DrawBrush(g.camera, mouse.X, mouse.Y, g.colony.BrushSize(id), g.snap.Resolution)
}

// colonyStats gathers the live numbers for the stats panel.
func (g *Game) colonyStats() ui.ColonyStatsData {
	searching, returning := g.snap.Counts()
	food := g.colony.Field(systems.Food)
	return ui.ColonyStatsData{
		Searching:     searching,
		Returning:     returning,
		Deliveries:    g.colony.TotalDeliveries(),
		FoodRemaining: food.Sum(),
		FoodCells:     food.CountPositive(),
		ObstacleCells: g.colony.Field(systems.Obstacle).CountPositive(),
	}
}

func title(slime bool) string {
	if slime {
		return "Slime"
	}
	return "Ant Colony"
}
