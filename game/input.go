package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/systems"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	c := g.colony

	if rl.IsKeyPressed(rl.KeySpace) {
		c.Resume()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		if c.Paused() {
			c.Resume()
		} else {
			c.Pause()
		}
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 20 {
		g.stepsPerUpdate++
	}

	g.overlays.HandleKeys()
	g.handleCameraInput()
	g.handlePointer()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pixels per frame
	const panSpeed = 8

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	mouse := rl.GetMousePosition()

	// Zoom toward/away from cursor position
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && g.camera.Contains(mouse.X, mouse.Y) {
		g.camera.ZoomAt(mouse.X, mouse.Y, 1+float64(wheel)*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handlePointer applies the held-key mouse commands inside the viewport.
// Holding H moves the nest. Holding F or D paints food or obstacles with the
// left button and erases with the right.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	if !g.camera.Contains(mouse.X, mouse.Y) {
		return
	}
	x, y := g.camera.ToDomain(mouse.X, mouse.Y)
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	right := rl.IsMouseButtonDown(rl.MouseButtonRight)

	if rl.IsKeyDown(rl.KeyH) && left {
		g.colony.RelocateNest(x, y)
		return
	}

	if g.cfg.Derived.Slime {
		return
	}

	id, ok := g.activeBrush()
	if !ok || !(left || right) {
		return
	}
	value := 0.0
	if left {
		value = g.colony.Field(id).MaxValue
	}
	if err := g.colony.Brush(id, x, y, value); err != nil {
		slog.Warn("paint failed", "field", id, "error", err)
	}
}

// activeBrush returns the grid selected by the held key, if any.
func (g *Game) activeBrush() (systems.FieldID, bool) {
	switch {
	case rl.IsKeyDown(rl.KeyF):
		return systems.Food, true
	case rl.IsKeyDown(rl.KeyD):
		return systems.Obstacle, true
	default:
		return 0, false
	}
}
