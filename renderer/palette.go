package renderer

import "image/color"

// Layer colors as RGB fractions.
var (
	obstacleRGB  = [3]float64{0.4, 0.4, 0.4}
	foodRGB      = [3]float64{0.7, 0.8, 0.2}
	homeScentRGB = [3]float64{0.8, 0.8, 0.0}
	foodScentRGB = [3]float64{0.0, 0.5, 0.9}
)

// CellLayers holds the normalized grid values of one cell.
type CellLayers struct {
	Home, Scent float64 // Scent intensities in [0, 1]
	Food        bool
	Obstacle    bool
}

// Shade returns the pixel color for a cell. Obstacles and food are opaque
// base colors; scents are added on top when scents is set.
func Shade(l CellLayers, scents bool) color.RGBA {
	var rgb [3]float64
	switch {
	case l.Food:
		rgb = foodRGB
	case l.Obstacle:
		rgb = obstacleRGB
	}
	if scents {
		h, s := clamp01(l.Home), clamp01(l.Scent)
		for k := range rgb {
			rgb[k] += h*homeScentRGB[k] + s*foodScentRGB[k]
		}
	}
	return color.RGBA{R: channel(rgb[0]), G: channel(rgb[1]), B: channel(rgb[2]), A: 255}
}

func channel(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
