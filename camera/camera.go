// Package camera maps the unit torus onto a square screen viewport.
package camera

import "math"

// Camera controls which part of the domain is shown.
// Supports pan and zoom; the domain wraps in both axes.
type Camera struct {
	// Domain point at the viewport centre
	X, Y float64

	// Zoom level (1.0 = whole domain fills the viewport)
	Zoom float64

	// Viewport origin and edge length in pixels
	OriginX, OriginY float32
	Size             float32

	MaxZoom float64
}

// New creates a camera showing the whole domain in a size×size viewport at
// (originX, originY).
func New(originX, originY, size float32) *Camera {
	return &Camera{
		X:       0.5,
		Y:       0.5,
		Zoom:    1.0,
		OriginX: originX,
		OriginY: originY,
		Size:    size,
		MaxZoom: 8.0,
	}
}

// Scale returns pixels per domain unit at the current zoom.
func (c *Camera) Scale() float32 {
	return c.Size * float32(c.Zoom)
}

// ToScreen converts a domain point to screen coordinates, taking the
// shortest way around the torus from the camera centre.
func (c *Camera) ToScreen(x, y float64) (sx, sy float32) {
	dx := toroidalDelta(x, c.X)
	dy := toroidalDelta(y, c.Y)
	s := c.Scale()
	sx = c.OriginX + c.Size/2 + float32(dx)*s
	sy = c.OriginY + c.Size/2 + float32(dy)*s
	return sx, sy
}

// ToDomain converts screen coordinates to a domain point in [0,1)².
func (c *Camera) ToDomain(sx, sy float32) (x, y float64) {
	s := float64(c.Scale())
	dx := float64(sx-c.OriginX-c.Size/2) / s
	dy := float64(sy-c.OriginY-c.Size/2) / s
	return wrap(c.X + dx), wrap(c.Y + dy)
}

// Contains reports whether a screen point lies inside the viewport.
func (c *Camera) Contains(sx, sy float32) bool {
	return sx >= c.OriginX && sx < c.OriginX+c.Size &&
		sy >= c.OriginY && sy < c.OriginY+c.Size
}

// IsVisible returns true if a point within margin domain units of (x, y)
// could be on screen.
func (c *Camera) IsVisible(x, y, margin float64) bool {
	half := 0.5/c.Zoom + margin
	return math.Abs(toroidalDelta(x, c.X)) <= half && math.Abs(toroidalDelta(y, c.Y)) <= half
}

// SourceRect returns the texel rectangle of a res×res grid texture that
// covers the viewport. The rectangle may extend past the texture edges;
// a repeating texture fills it with the wrapped grid.
func (c *Camera) SourceRect(res int) (x, y, w, h float32) {
	span := 1 / c.Zoom
	x = float32((c.X - span/2) * float64(res))
	y = float32((c.Y - span/2) * float64(res))
	w = float32(span * float64(res))
	return x, y, w, w
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around the domain.
func (c *Camera) Pan(dx, dy float32) {
	s := float64(c.Scale())
	c.X = wrap(c.X + float64(dx)/s)
	c.Y = wrap(c.Y + float64(dy)/s)
}

// SetZoom sets the zoom level, clamped to [1, MaxZoom].
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the domain point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy float32, factor float64) {
	x, y := c.ToDomain(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ToDomain(sx, sy)
	c.X = wrap(c.X + toroidalDelta(x, nx))
	c.Y = wrap(c.Y + toroidalDelta(y, ny))
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// on the unit circle.
func toroidalDelta(to, from float64) float64 {
	d := to - from
	if d > 0.5 {
		d -= 1
	} else if d < -0.5 {
		d += 1
	}
	return d
}

// wrap maps x into [0, 1).
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		return 0
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
