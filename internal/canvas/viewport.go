package canvas

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Move pans the camera by (dx, dy) viewport pixels.
func (c *Canvas) Move(dx, dy float64) {
	c.pos[0] += dx
	c.pos[1] += dy
	c.keepVisible()
}

// SetViewport records the size of the visible surface. The first call
// centres the canvas; later calls shift it by half the size change so it
// keeps its distance to the window edges. Repeating a call with the same
// size is a no-op.
func (c *Canvas) SetViewport(vw, vh int) {
	if c.viewport.X == 0 || c.viewport.Y == 0 {
		c.pos = f64.Vec2{float64(vw-c.width) / 2, float64(vh-c.height) / 2}
	} else {
		c.pos[0] += float64(vw-c.viewport.X) / 2
		c.pos[1] += float64(vh-c.viewport.Y) / 2
	}
	c.viewport = image.Pt(vw, vh)
	c.keepVisible()
}

// keepVisible clamps the position so the canvas never fully leaves the
// viewport.
func (c *Canvas) keepVisible() {
	c.pos[0] = clamp(c.pos[0], -float64(c.width), float64(c.viewport.X))
	c.pos[1] = clamp(c.pos[1], -float64(c.height), float64(c.viewport.Y))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Position returns the offset of the canvas origin inside the viewport.
func (c *Canvas) Position() f64.Vec2 { return c.pos }

// Viewport returns the last size passed to SetViewport.
func (c *Canvas) Viewport() image.Point { return c.viewport }

// Origin is Position snapped to whole pixels.
func (c *Canvas) Origin() image.Point {
	return image.Pt(int(math.Floor(c.pos[0])), int(math.Floor(c.pos[1])))
}

// ViewportToCanvas maps a viewport coordinate to canvas space.
func (c *Canvas) ViewportToCanvas(vx, vy int) (int, int) {
	o := c.Origin()
	return vx - o.X, vy - o.Y
}

// CanvasToViewport maps a canvas coordinate to viewport space.
func (c *Canvas) CanvasToViewport(x, y int) (int, int) {
	o := c.Origin()
	return x + o.X, y + o.Y
}
