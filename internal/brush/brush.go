// Package brush rasterizes circular dabs onto a pixel target.
package brush

import (
	stdcolor "image/color"
	"math"

	"github.com/example/apint/internal/color"
)

// Radius limits applied by Grow and Shrink.
const (
	MinRadius     = 2
	MaxRadius     = 30
	DefaultRadius = 5
)

// Target is a clipped pixel store. Pixel reports false and SetPixel does
// nothing for coordinates outside the target.
type Target interface {
	Pixel(x, y int) (stdcolor.Color, bool)
	SetPixel(x, y int, c stdcolor.Color)
}

// Options tunes how a dab is applied.
type Options struct {
	// Rough disables edge blending and paints a hard disc.
	Rough bool
}

// Stamp paints a disc of the given radius centred on (cx, cy). A pixel at
// offset (dx, dy) is painted iff dx²+dy² < radius². Unless opts.Rough is set
// the brush color is mixed towards the previous pixel by the distance from
// the centre, so the centre pixel receives c exactly and the rim fades into
// what was underneath.
func Stamp(dst Target, cx, cy int, c stdcolor.Color, radius int, opts Options) {
	if radius <= 0 {
		return
	}
	col := color.FromColor(c)
	r2 := radius * radius
	for dy := -radius; dy < radius; dy++ {
		for dx := -radius; dx < radius; dx++ {
			d2 := dx*dx + dy*dy
			if d2 >= r2 {
				continue
			}
			prev, ok := dst.Pixel(cx+dx, cy+dy)
			if !ok {
				continue
			}
			if opts.Rough {
				dst.SetPixel(cx+dx, cy+dy, col)
				continue
			}
			dst.SetPixel(cx+dx, cy+dy, color.Mix(col, color.FromColor(prev), Weight(d2, radius)))
		}
	}
}

// Weight returns the blend weight for a pixel at squared distance d2 from the
// centre of a dab with the given radius.
func Weight(d2, radius int) uint8 {
	w := math.Round(math.Sqrt(float64(d2)) * 255 / float64(radius))
	if w > 255 {
		return 255
	}
	return uint8(w)
}

// Brush holds the interactive brush settings.
type Brush struct {
	Radius int
	Rough  bool
}

// New returns a brush with the default radius.
func New() Brush {
	return Brush{Radius: DefaultRadius}
}

// Options returns the stamping options for b.
func (b Brush) Options() Options {
	return Options{Rough: b.Rough}
}

// Grow increases the radius by one up to MaxRadius. It reports whether the
// radius changed.
func (b *Brush) Grow() bool {
	if b.Radius >= MaxRadius {
		return false
	}
	b.Radius++
	return true
}

// Shrink decreases the radius by one down to MinRadius. It reports whether
// the radius changed.
func (b *Brush) Shrink() bool {
	if b.Radius <= MinRadius {
		return false
	}
	b.Radius--
	return true
}

// Clamp limits r to the supported radius range.
func Clamp(r int) int {
	if r < MinRadius {
		return MinRadius
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}
