// Package canvas implements the drawing surface of the painter: an
// authoritative straight-alpha pixel store, a composited copy of it that is
// shown on screen, the camera offset mapping it into the window and the
// damage rectangle that keeps the two in sync lazily.
package canvas

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"

	"golang.org/x/image/math/f64"

	"github.com/example/apint/internal/codec"
	"github.com/example/apint/internal/color"
)

// DefaultMaxPlainBytes is the largest pixel buffer a surface without shared
// memory can transfer in one request.
const DefaultMaxPlainBytes = 16 * 1024 * 1024

// CheckerSize is the edge length of one checkerboard cell.
const CheckerSize = 9

var (
	// ErrImageTooLarge is returned when a canvas exceeds what a non shared
	// memory surface can display.
	ErrImageTooLarge = errors.New("image too big for a single transfer")
	// ErrInvalidSize is returned for non-positive dimensions.
	ErrInvalidSize = errors.New("invalid canvas size")

	errReleased = errors.New("buffer used after release")
)

// Canvas is a fixed-size pixel store shown through a movable viewport.
type Canvas struct {
	width, height int

	raw      *image.NRGBA
	visual   *image.RGBA
	snapshot []uint8
	bg       color.Color

	damage   image.Rectangle
	pos      f64.Vec2
	viewport image.Point

	surface  Surface
	buffer   Buffer
	maxPlain int

	checkerLight color.Color
	checkerDark  color.Color
}

// Option configures a Canvas at creation.
type Option func(*Canvas)

// WithSurface attaches a display surface the canvas renders to.
func WithSurface(s Surface) Option { return func(c *Canvas) { c.surface = s } }

// WithMaxPlainBytes overrides DefaultMaxPlainBytes.
func WithMaxPlainBytes(n int) Option { return func(c *Canvas) { c.maxPlain = n } }

// WithChecker sets the two checkerboard tones shown behind transparent
// pixels.
func WithChecker(light, dark stdcolor.Color) Option {
	return func(c *Canvas) {
		c.checkerLight = color.FromColor(light).Opaque()
		c.checkerDark = color.FromColor(dark).Opaque()
	}
}

func newCanvas(w, h int, opts []Option) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	c := &Canvas{
		width:        w,
		height:       h,
		maxPlain:     DefaultMaxPlainBytes,
		checkerLight: 0xffffffff,
		checkerDark:  0xffe6e6e6,
	}
	for _, o := range opts {
		o(c)
	}
	size := image.Pt(w, h)
	if c.surface != nil && !c.surface.Shared() && c.maxPlain > 0 && w*h*4 > c.maxPlain {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, limit %d", ErrImageTooLarge, w, h, w*h*4, c.maxPlain)
	}
	c.raw = image.NewNRGBA(image.Rectangle{Max: size})
	if c.surface != nil {
		buf, err := c.surface.NewBuffer(size)
		if err != nil {
			return nil, fmt.Errorf("allocate display buffer: %w", err)
		}
		c.buffer = buf
		c.visual = buf.RGBA()
	} else {
		c.visual = image.NewRGBA(image.Rectangle{Max: size})
	}
	return c, nil
}

// New creates a w×h canvas filled with bg and snapshots the fill as the
// state restored by Clear.
func New(w, h int, bg stdcolor.Color, opts ...Option) (*Canvas, error) {
	c, err := newCanvas(w, h, opts)
	if err != nil {
		return nil, err
	}
	c.bg = color.FromColor(bg)
	c.fill(c.bg)
	c.Snapshot()
	c.DamageFull()
	return c, nil
}

// FromImage creates a canvas holding a copy of img and snapshots it.
func FromImage(img image.Image, opts ...Option) (*Canvas, error) {
	b := img.Bounds()
	c, err := newCanvas(b.Dx(), b.Dy(), opts)
	if err != nil {
		return nil, err
	}
	if src, ok := img.(*image.NRGBA); ok {
		// Row copy keeps the color of fully transparent pixels.
		for y := 0; y < c.height; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(c.raw.Pix[y*c.raw.Stride:y*c.raw.Stride+c.width*4], src.Pix[si:si+c.width*4])
		}
	} else {
		draw.Draw(c.raw, c.raw.Bounds(), img, b.Min, draw.Src)
	}
	c.Snapshot()
	c.DamageFull()
	return c, nil
}

// Load decodes the image at path into a new canvas.
func Load(path string, opts ...Option) (*Canvas, error) {
	img, err := codec.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromImage(img, opts...)
}

// Save encodes the raw pixels to path, choosing the format by extension.
func (c *Canvas) Save(path string) error {
	if err := codec.EncodeFile(path, c.raw); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Close releases the display buffer.
func (c *Canvas) Close() {
	if c.buffer != nil {
		c.buffer.Release()
		c.buffer = nil
	}
}

// Snapshot records the current pixels as the state restored by Clear.
func (c *Canvas) Snapshot() {
	c.snapshot = append(c.snapshot[:0], c.raw.Pix...)
}

// Clear restores the snapshot, or the background fill when none was taken,
// and damages the whole canvas.
func (c *Canvas) Clear() {
	if c.snapshot != nil {
		copy(c.raw.Pix, c.snapshot)
	} else {
		c.fill(c.bg)
	}
	c.DamageFull()
}

func (c *Canvas) fill(col color.Color) {
	r, g, b, a := col.Unpack()
	pix := c.raw.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
}

// Pixel returns the raw color at (x, y). It reports false outside the
// canvas.
func (c *Canvas) Pixel(x, y int) (stdcolor.Color, bool) {
	col, ok := c.At(x, y)
	if !ok {
		return nil, false
	}
	return col, true
}

// At is Pixel returning the packed color.
func (c *Canvas) At(x, y int) (color.Color, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, false
	}
	i := c.raw.PixOffset(x, y)
	s := c.raw.Pix[i : i+4 : i+4]
	return color.Pack(s[0], s[1], s[2], s[3]), true
}

// SetPixel writes col at (x, y) and damages it. Coordinates outside the
// canvas are ignored.
func (c *Canvas) SetPixel(x, y int, col stdcolor.Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	r, g, b, a := color.FromColor(col).Unpack()
	i := c.raw.PixOffset(x, y)
	s := c.raw.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = r, g, b, a
	c.Damage(x, y)
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point { return image.Pt(c.width, c.height) }

// Bounds returns the canvas rectangle in canvas coordinates.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// Image exposes the raw pixels. Writes through it bypass damage tracking.
func (c *Canvas) Image() *image.NRGBA { return c.raw }

// Visual exposes the composited pixels as of the last Render.
func (c *Canvas) Visual() *image.RGBA { return c.visual }
