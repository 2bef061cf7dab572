package canvas

import (
	"image"

	"github.com/example/apint/internal/color"
)

// Render brings the composited buffer up to date for the damaged region and
// then, when a surface is attached, clears the viewport margins around the
// canvas and uploads the visible part of it.
func (c *Canvas) Render() error {
	dirty := c.damage
	c.composite()
	if c.surface == nil || c.buffer == nil {
		return nil
	}
	if m, ok := c.buffer.(DirtyMarker); ok && !dirty.Empty() {
		m.MarkDirty(dirty)
	}
	vp := image.Rectangle{Max: c.viewport}
	if vp.Empty() {
		return nil
	}
	origin := c.Origin()
	dst := c.Bounds().Add(origin)
	for _, m := range margins(vp, dst) {
		if err := c.surface.Clear(m); err != nil {
			return err
		}
	}
	visible := dst.Intersect(vp)
	if visible.Empty() {
		return nil
	}
	return c.buffer.Upload(visible.Min, visible.Sub(origin))
}

// margins returns the parts of vp not covered by dst, top and bottom first.
func margins(vp, dst image.Rectangle) []image.Rectangle {
	var out []image.Rectangle
	if dst.Min.Y > vp.Min.Y {
		out = append(out, image.Rect(vp.Min.X, vp.Min.Y, vp.Max.X, dst.Min.Y))
	}
	if dst.Max.Y < vp.Max.Y {
		out = append(out, image.Rect(vp.Min.X, dst.Max.Y, vp.Max.X, vp.Max.Y))
	}
	if dst.Min.X > vp.Min.X {
		out = append(out, image.Rect(vp.Min.X, vp.Min.Y, dst.Min.X, vp.Max.Y))
	}
	if dst.Max.X < vp.Max.X {
		out = append(out, image.Rect(dst.Max.X, vp.Min.Y, vp.Max.X, vp.Max.Y))
	}
	for i := range out {
		out[i] = out[i].Intersect(vp)
	}
	return out
}

// composite recomputes the visual pixels inside the damage rectangle and
// clears it.
func (c *Canvas) composite() {
	r := c.damage
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ri := c.raw.PixOffset(r.Min.X, y)
		vi := c.visual.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := c.raw.Pix[ri : ri+4 : ri+4]
			raw := color.Pack(s[0], s[1], s[2], s[3])
			out := color.Mix(c.checker(x, y), raw, s[3])
			cr, cg, cb, _ := out.Unpack()
			d := c.visual.Pix[vi : vi+4 : vi+4]
			d[0], d[1], d[2], d[3] = cr, cg, cb, 0xff
			ri += 4
			vi += 4
		}
	}
	c.damage = image.Rectangle{}
}

func (c *Canvas) checker(x, y int) color.Color {
	if (x/CheckerSize+y/CheckerSize)%2 == 0 {
		return c.checkerDark
	}
	return c.checkerLight
}
