package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Agents  int
	Tick    int32
	Speed   int
	FPS     int32
	Paused  bool
	Started bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-left corner of the viewport at (x, y).
func (h *HUD) Draw(x, y int32, data HUDData) {
	rl.DrawText(data.Title, x+10, y+10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Agents: %d | Speed: %dx | FPS: %d", data.Tick, data.Agents, data.Speed, data.FPS),
		x+10, y+35, 16, rl.LightGray,
	)

	statusText := "Running"
	switch {
	case !data.Started:
		statusText = "Press SPACE to start"
	case data.Paused:
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, x+10, y+55, 16, rl.Yellow)
}

// DrawControls renders the control legend along the bottom of the viewport.
func (h *HUD) DrawControls(x, bottom int32, controls string) {
	rl.DrawText(controls, x+10, bottom-25, 14, rl.Gray)
}

// ColonyStatsData holds data for the colony stats panel.
type ColonyStatsData struct {
	Searching     int
	Returning     int
	Deliveries    int
	FoodRemaining float64
	FoodCells     int
	ObstacleCells int
}

// StatsPanel renders colony statistics.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the stats panel and returns the Y below it.
func (s *StatsPanel) Draw(data ColonyStatsData) int32 {
	r := s.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*7 + padding*2 + 2
	r.DrawPanel(s.x, s.y, s.width, panelHeight)

	y := s.y + padding
	rl.DrawText("Colony", s.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	x := s.x + padding
	total := data.Searching + data.Returning
	carrying := float32(0)
	if total > 0 {
		carrying = float32(data.Returning) / float32(total)
	}
	y = r.DrawLabelValue(x, y, "Searching", fmt.Sprintf("%d", data.Searching))
	y = r.DrawLabelValue(x, y, "Returning", fmt.Sprintf("%d", data.Returning))
	y = r.DrawBar(x, y, "Carrying", carrying, fmt.Sprintf("%.0f%%", carrying*100), s.width-padding*2)
	y = r.DrawLabelValue(x, y, "Deliveries", fmt.Sprintf("%d", data.Deliveries))
	y = r.DrawLabelValue(x, y, "Food", fmt.Sprintf("%.0f in %d cells", data.FoodRemaining, data.FoodCells))
	r.DrawLabelValue(x, y, "Walls", fmt.Sprintf("%d cells", data.ObstacleCells))

	return s.y + panelHeight
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel and returns the Y below it.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, workers int) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*int32(len(telemetry.Phases)+2) + padding*2 + 2*int32(len(telemetry.Phases)) + 4
	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	x := p.x + padding
	y := p.y + padding

	rl.DrawText("Phase Timing", x, y, 14, rl.White)
	y += lineHeight + 2

	rl.DrawText(
		fmt.Sprintf("Tick: %s  (%.0f/s, %d workers)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, workers),
		x, y, r.Theme.FontSize, rl.Yellow,
	)
	y += lineHeight

	for _, phase := range telemetry.Phases {
		y = r.DrawPercentBar(x, y, phase, stats.PhasePct[phase], p.width-padding*2)
	}

	return p.y + panelHeight
}
