package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/colony"
)

const (
	buttonHeight = 26
	sliderHeight = 18
	sliderBlock  = 18 + sliderHeight + 10 // label, bar, gap
)

// ColonyActions reports which colony buttons were pressed this frame.
type ColonyActions struct {
	Restart bool
	Start   bool
	Puzzle  bool
}

// BrushSizes holds the paint brush radii in cells.
type BrushSizes struct {
	Food     float32
	Obstacle float32
}

// CommandPanel renders the raygui widgets that drive the colony.
type CommandPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewCommandPanel creates a new command panel.
func NewCommandPanel(x, y, width int32) *CommandPanel {
	return &CommandPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *CommandPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// DrawColony draws the foraging controls and returns the buttons pressed.
// Brush sizes are edited in place. The second result is the Y below the panel.
func (p *CommandPanel) DrawColony(brush *BrushSizes, maxSize float32, overlays *OverlayRegistry) (ColonyActions, int32) {
	var act ColonyActions
	r := p.renderer
	pad := r.Theme.Padding

	height := pad*2 + 24 + (buttonHeight + 8) + 2*sliderBlock + (buttonHeight + 4)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := float32(p.x + pad)
	y := float32(p.y + pad)
	inner := float32(p.width - 2*pad)

	rl.DrawText("Ant Colony", int32(x), int32(y), 16, rl.White)
	y += 24

	// Restart / Start / Puzzle
	bw := (inner - 16) / 3
	act.Restart = gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: buttonHeight}, "Restart")
	act.Start = gui.Button(rl.Rectangle{X: x + bw + 8, Y: y, Width: bw, Height: buttonHeight}, "Start")
	act.Puzzle = gui.Button(rl.Rectangle{X: x + 2*(bw+8), Y: y, Width: bw, Height: buttonHeight}, "Puzzle?")
	y += buttonHeight + 8

	brush.Food, y = p.slider(x, y, inner, "Food Brush Size", brush.Food, 1, maxSize, "%.0f")
	brush.Obstacle, y = p.slider(x, y, inner, "Obstacle Brush Size", brush.Obstacle, 1, maxSize, "%.0f")

	p.drawShowToggles(x, y, inner, overlays)

	return act, p.y + height
}

// DrawSlime draws the live tuning sliders. It returns the edited tuning,
// whether any value changed, and the Y below the panel.
func (p *CommandPanel) DrawSlime(t colony.Tuning, overlays *OverlayRegistry) (colony.Tuning, bool, int32) {
	r := p.renderer
	pad := r.Theme.Padding

	height := pad*2 + 24 + 6*sliderBlock + (buttonHeight + 4)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := float32(p.x + pad)
	y := float32(p.y + pad)
	inner := float32(p.width - 2*pad)

	rl.DrawText("Slime!", int32(x), int32(y), 16, rl.White)
	y += 24

	next := t
	var v float32

	v, y = p.slider(x, y, inner, "det_r", float32(t.DetectRadius), 1, 40, "%.0f")
	next.DetectRadius = int(v + 0.5)
	v, y = p.slider(x, y, inner, "det_a", float32(t.DetectAngle), 0.05, 3.1416, "%.2f")
	next.DetectAngle = keep(t.DetectAngle, v)
	v, y = p.slider(x, y, inner, "sens", float32(t.Sensitivity), -10, 10, "%.2f")
	next.Sensitivity = keep(t.Sensitivity, v)
	v, y = p.slider(x, y, inner, "omgm", float32(t.MaxTurnRate), 0, 1, "%.3f")
	next.MaxTurnRate = keep(t.MaxTurnRate, v)
	v, y = p.slider(x, y, inner, "dec_r_1", float32(t.FoodScentDecay), 0, 0.02, "%.4f")
	next.FoodScentDecay = keep(t.FoodScentDecay, v)
	v, y = p.slider(x, y, inner, "dec_r_2", float32(t.HomeScentDecay), 0, 0.02, "%.4f")
	next.HomeScentDecay = keep(t.HomeScentDecay, v)

	p.drawShowToggles(x, y, inner, overlays)

	return next, next != t, p.y + height
}

// slider draws a labelled raygui slider and returns the new value and Y.
func (p *CommandPanel) slider(x, y, width float32, label string, value, lo, hi float32, format string) (float32, float32) {
	r := p.renderer
	rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 18

	value = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: width - 60, Height: sliderHeight},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+width-52), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
	return value, y + sliderHeight + 10
}

// drawShowToggles draws the ant and pheromone visibility buttons.
func (p *CommandPanel) drawShowToggles(x, y, width float32, overlays *OverlayRegistry) {
	bw := (width - 8) / 2
	ants := overlays.IsEnabled(OverlayAnts)
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: buttonHeight}, toggleText(ants, "Hide ants", "Show ants")) {
		overlays.Toggle(OverlayAnts)
	}
	scent := overlays.IsEnabled(OverlayPheromone)
	if gui.Button(rl.Rectangle{X: x + bw + 8, Y: y, Width: bw, Height: buttonHeight}, toggleText(scent, "Hide pheromone", "Show pheromone")) {
		overlays.Toggle(OverlayPheromone)
	}
}

// keep returns old unless the slider moved it by more than float32 rounding.
func keep(old float64, v float32) float64 {
	if v == float32(old) {
		return old
	}
	return float64(v)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
