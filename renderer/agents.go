package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
)

var (
	searchingColor = rl.Color{R: 230, G: 230, B: 230, A: 255}
	returningColor = rl.Color{R: 255, G: 210, B: 120, A: 255}
	nestColor      = rl.Color{R: 128, G: 128, B: 255, A: 255}
	brushColor     = rl.Color{R: 255, G: 255, B: 255, A: 120}
)

// DrawAgents draws every visible agent as a small square.
func DrawAgents(cam *camera.Camera, snap *colony.Snapshot) {
	size := int32(cam.Zoom)
	if size < 2 {
		size = 2
	}
	for i, p := range snap.Positions {
		if !cam.IsVisible(p.X, p.Y, 0) {
			continue
		}
		col := searchingColor
		if snap.States[i] == components.Returning {
			col = returningColor
		}
		sx, sy := cam.ToScreen(p.X, p.Y)
		rl.DrawRectangle(int32(sx)-size/2, int32(sy)-size/2, size, size, col)
	}
}

// DrawNest draws the nest circle.
func DrawNest(cam *camera.Camera, snap *colony.Snapshot) {
	sx, sy := cam.ToScreen(snap.NestX, snap.NestY)
	radius := float32(snap.NestRadius) * cam.Scale()
	rl.DrawCircle(int32(sx), int32(sy), radius, nestColor)
}

// DrawBrush outlines a brush of the given radius in cells at a screen point.
func DrawBrush(cam *camera.Camera, sx, sy float32, cells float64, res int) {
	radius := float32(cells/float64(res)) * cam.Scale()
	if radius < 1 {
		radius = 1
	}
	rl.DrawCircleLines(int32(sx), int32(sy), radius, brushColor)
}
