// Package picker implements the hue/saturation/lightness color chooser that
// pops up over the canvas.
package picker

import (
	"image"
	stdcolor "image/color"
	"image/draw"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/theme"
)

// Layout, in picker-local pixels.
const (
	Padding    = 10
	SquareSize = 200
	HueWidth   = 12

	labelHeight = 13
	markerLen   = 4
	cacheSize   = 32
)

var (
	squareRect = image.Rect(Padding, Padding, Padding+SquareSize, Padding+SquareSize)
	hueRect    = image.Rect(squareRect.Max.X+Padding, Padding, squareRect.Max.X+Padding+HueWidth, Padding+SquareSize)
	labelTop   = squareRect.Max.Y + Padding

	// Size is the extent of the picker.
	Size = image.Pt(hueRect.Max.X+Padding, labelTop+labelHeight+Padding)
)

// Picker holds the selected color in HSL space and where it is shown.
type Picker struct {
	hsl       color.HSL
	origin    image.Point
	visible   bool
	selecting bool

	background stdcolor.RGBA
	marker     stdcolor.RGBA
	text       stdcolor.RGBA

	squares *lru.Cache
	hues    *image.RGBA
	frame   *image.RGBA
}

// New returns a hidden picker styled by th.
func New(th *theme.Theme) *Picker {
	if th == nil {
		th = theme.Default()
	}
	cache, _ := lru.New(cacheSize)
	return &Picker{
		background: th.PickerBackground,
		marker:     th.PickerMarker,
		text:       th.PickerText,
		squares:    cache,
		frame:      image.NewRGBA(image.Rectangle{Max: Size}),
	}
}

// Set moves the selection to c.
func (p *Picker) Set(c color.Color) { p.hsl = color.ToHSL(c) }

// Color returns the selection. Picked colors are always opaque.
func (p *Picker) Color() color.Color { return p.hsl.Color() }

// HSL returns the selection in HSL space.
func (p *Picker) HSL() color.HSL { return p.hsl }

// Show places the top-left corner of the picker at at. When area is not
// empty the picker is shifted to stay inside it.
func (p *Picker) Show(at image.Point, area image.Rectangle) {
	if !area.Empty() {
		if at.X+Size.X > area.Max.X {
			at.X = area.Max.X - Size.X
		}
		if at.Y+Size.Y > area.Max.Y {
			at.Y = area.Max.Y - Size.Y
		}
		if at.X < area.Min.X {
			at.X = area.Min.X
		}
		if at.Y < area.Min.Y {
			at.Y = area.Min.Y
		}
	}
	p.origin = at
	p.visible = true
}

// Hide removes the picker and ends any drag.
func (p *Picker) Hide() {
	p.visible = false
	p.selecting = false
}

// Visible reports whether the picker is shown.
func (p *Picker) Visible() bool { return p.visible }

// Bounds is the area the picker covers.
func (p *Picker) Bounds() image.Rectangle {
	return image.Rectangle{Min: p.origin, Max: p.origin.Add(Size)}
}

// Press handles a button press at pt. Button 1 starts a selection, buttons 2
// and 3 close the picker. handled is false when the event belongs to the
// canvas.
func (p *Picker) Press(pt image.Point, button int) (c color.Color, changed, handled bool) {
	if !p.visible || !pt.In(p.Bounds()) {
		return 0, false, false
	}
	switch button {
	case 1:
		p.selecting = true
		changed = p.selectAt(pt.Sub(p.origin))
	case 2, 3:
		p.Hide()
	}
	return p.Color(), changed, true
}

// Motion continues a selection started by Press.
func (p *Picker) Motion(pt image.Point) (c color.Color, changed, handled bool) {
	if !p.visible {
		return 0, false, false
	}
	if p.selecting {
		changed = p.selectAt(pt.Sub(p.origin))
		return p.Color(), changed, true
	}
	return p.Color(), false, pt.In(p.Bounds())
}

// Release ends a selection.
func (p *Picker) Release(pt image.Point, button int) (c color.Color, changed, handled bool) {
	if !p.visible {
		return 0, false, false
	}
	if p.selecting && button == 1 {
		p.selecting = false
		return p.Color(), false, true
	}
	return p.Color(), false, pt.In(p.Bounds())
}

func (p *Picker) selectAt(local image.Point) bool {
	switch {
	case local.In(squareRect):
		p.hsl.S = 1 - float64(local.X-squareRect.Min.X)/SquareSize
		p.hsl.L = 1 - float64(local.Y-squareRect.Min.Y)/SquareSize
	case local.In(hueRect):
		p.hsl.H = float64(local.Y-hueRect.Min.Y) / SquareSize
	default:
		return false
	}
	return true
}

// Image renders the picker in local coordinates.
func (p *Picker) Image() *image.RGBA {
	f := p.frame
	draw.Draw(f, f.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)
	draw.Draw(f, squareRect, p.square(p.hsl.H), image.Point{}, draw.Src)
	draw.Draw(f, hueRect, p.hueBar(), image.Point{}, draw.Src)

	sx := squareRect.Min.X + int((1-p.hsl.S)*SquareSize)
	for y := Padding - 5; y < Padding-5+markerLen; y++ {
		f.SetRGBA(sx, y, p.marker)
	}
	ly := squareRect.Min.Y + int((1-p.hsl.L)*SquareSize)
	for x := Padding - 5; x < Padding-5+markerLen; x++ {
		f.SetRGBA(x, ly, p.marker)
	}
	hy := hueRect.Min.Y + int(p.hsl.H*SquareSize)
	for x := hueRect.Max.X + 1; x <= hueRect.Max.X+markerLen; x++ {
		f.SetRGBA(x, hy, p.marker)
	}

	sel := p.Color()
	d := &font.Drawer{Dst: f, Src: image.NewUniform(p.text), Face: basicfont.Face7x13}
	d.Dot = fixed.P(Padding, labelTop+basicfont.Face7x13.Ascent)
	d.DrawString(sel.String())
	swatch := image.Rect(d.Dot.X.Ceil()+Padding, labelTop, hueRect.Max.X, labelTop+labelHeight)
	draw.Draw(f, swatch, image.NewUniform(sel), image.Point{}, draw.Src)
	return f
}

// Draw composes the picker onto dst at its position.
func (p *Picker) Draw(dst draw.Image) {
	if !p.visible {
		return
	}
	draw.Draw(dst, p.Bounds(), p.Image(), image.Point{}, draw.Src)
}

// square returns the saturation/lightness plane for hue h.
func (p *Picker) square(h float64) *image.RGBA {
	if v, ok := p.squares.Get(h); ok {
		return v.(*image.RGBA)
	}
	img := image.NewRGBA(image.Rect(0, 0, SquareSize, SquareSize))
	for dy := 0; dy < SquareSize; dy++ {
		for dx := 0; dx < SquareSize; dx++ {
			c := color.HSL{H: h, S: 1 - float64(dx)/SquareSize, L: 1 - float64(dy)/SquareSize}.Color()
			r, g, b, _ := c.Unpack()
			i := img.PixOffset(dx, dy)
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, 0xff
		}
	}
	p.squares.Add(h, img)
	return img
}

func (p *Picker) hueBar() *image.RGBA {
	if p.hues != nil {
		return p.hues
	}
	img := image.NewRGBA(image.Rect(0, 0, HueWidth, SquareSize))
	for dy := 0; dy < SquareSize; dy++ {
		c := color.HSL{H: float64(dy) / SquareSize, S: 1, L: 0.5}.Color()
		draw.Draw(img, image.Rect(0, dy, HueWidth, dy+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
	p.hues = img
	return img
}

// CachedSquares reports how many rendered planes are held.
func (p *Picker) CachedSquares() int { return p.squares.Len() }
