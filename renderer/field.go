// Package renderer draws colony snapshots with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/systems"
)

// FieldRenderer draws the four grids as one texture, one texel per cell.
type FieldRenderer struct {
	tex    rl.Texture2D
	res    int
	pixels []color.RGBA

	// Scent values at or above these map to full intensity
	HomeScale, FoodScale float64

	initialized bool
}

// NewFieldRenderer creates a field renderer. Scent values are divided by
// the given scales before shading.
func NewFieldRenderer(homeScale, foodScale float64) *FieldRenderer {
	return &FieldRenderer{HomeScale: homeScale, FoodScale: foodScale}
}

// Init creates the grid texture (must be called after raylib window is created).
func (r *FieldRenderer) Init(res int) {
	if r.initialized && r.res == res {
		return
	}
	r.Unload()

	r.res = res
	r.pixels = make([]color.RGBA, res*res)

	img := rl.GenImageColor(res, res, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update shades every cell of snap and uploads the result.
func (r *FieldRenderer) Update(snap *colony.Snapshot, scents bool) {
	r.Init(snap.Resolution)

	home := snap.Field(systems.HomeScent)
	scent := snap.Field(systems.FoodScent)
	food := snap.Field(systems.Food)
	obstacle := snap.Field(systems.Obstacle)
	if len(home) != len(r.pixels) {
		return
	}

	hs, fs := inverse(r.HomeScale), inverse(r.FoodScale)
	for i := range r.pixels {
		r.pixels[i] = Shade(CellLayers{
			Home:     home[i] * hs,
			Scent:    scent[i] * fs,
			Food:     food[i] > 0,
			Obstacle: obstacle[i] >= 1,
		}, scents)
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the visible part of the grid into the camera viewport.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x, y, w, h := cam.SourceRect(r.res)
	srcRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	dstRect := rl.Rectangle{X: cam.OriginX, Y: cam.OriginY, Width: cam.Size, Height: cam.Size}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

func inverse(scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return 1 / scale
}
