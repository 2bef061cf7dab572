// Package shinyui runs the painter in a window created through
// golang.org/x/exp/shiny. It trades MIT-SHM tuning and cursor shapes for
// portability across the shiny drivers.
package shinyui

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/canvas"
)

var errReleased = errors.New("buffer used after release")

// Options configures the window.
type Options struct {
	Title  string
	Width  int
	Height int
	// Margin fills the window around the canvas.
	Margin stdcolor.Color
}

// Window is a shiny window. It implements app.Screen and app.Source.
type Window struct {
	s      screen.Screen
	w      screen.Window
	size   image.Point
	margin stdcolor.Color
	cursor app.Cursor

	dead     bool
	released bool
}

var (
	_ app.Screen = (*Window)(nil)
	_ app.Source = (*Window)(nil)
)

// Main starts the shiny driver, opens a window and calls fn with it. It must
// be called from the main goroutine and returns once fn has returned.
func Main(opts Options, fn func(w *Window) error) error {
	var err error
	driver.Main(func(s screen.Screen) {
		var win *Window
		win, err = open(s, opts)
		if err != nil {
			return
		}
		defer win.Release()
		err = fn(win)
	})
	return err
}

func open(s screen.Screen, opts Options) (*Window, error) {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.Margin == nil {
		opts.Margin = stdcolor.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: opts.Width, Height: opts.Height, Title: opts.Title})
	if err != nil {
		return nil, fmt.Errorf("new window: %w", err)
	}
	return newWindow(s, w, opts), nil
}

func newWindow(s screen.Screen, w screen.Window, opts Options) *Window {
	return &Window{
		s:      s,
		w:      w,
		size:   image.Pt(opts.Width, opts.Height),
		margin: opts.Margin,
		cursor: app.CursorCrosshair,
	}
}

// Release closes the window.
func (w *Window) Release() {
	if w.released {
		return
	}
	w.released = true
	w.dead = true
	w.w.Release()
}

func (w *Window) Size() image.Point { return w.size }

// Shared is true: shiny buffers are uploaded without a request size limit.
func (w *Window) Shared() bool { return true }

func (w *Window) NewBuffer(size image.Point) (canvas.Buffer, error) {
	b, err := w.s.NewBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("new buffer: %w", err)
	}
	return &buffer{w: w, b: b}, nil
}

func (w *Window) Clear(r image.Rectangle) error {
	w.w.Fill(r, w.margin, draw.Src)
	return nil
}

// SetCursor only records the shape; shiny has no cursor API.
func (w *Window) SetCursor(c app.Cursor) error {
	w.cursor = c
	return nil
}

// Cursor returns the last shape passed to SetCursor.
func (w *Window) Cursor() app.Cursor { return w.cursor }

func (w *Window) DrawPreview(center image.Point, radius int, c stdcolor.Color) error {
	for _, p := range ring(center, radius) {
		w.w.Fill(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}, c, draw.Src)
	}
	return nil
}

func (w *Window) DrawOverlay(img image.Image, at image.Point) error {
	r := img.Bounds()
	b, err := w.s.NewBuffer(r.Size())
	if err != nil {
		return fmt.Errorf("overlay buffer: %w", err)
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), img, r.Min, draw.Src)
	w.w.Upload(at, b, b.Bounds())
	return nil
}

func (w *Window) Flush() error {
	w.w.Publish()
	return nil
}

type buffer struct {
	w        *Window
	b        screen.Buffer
	released bool
}

func (b *buffer) RGBA() *image.RGBA { return b.b.RGBA() }

func (b *buffer) Upload(dp image.Point, sr image.Rectangle) error {
	if b.released {
		return errReleased
	}
	b.w.w.Upload(dp, b.b, sr)
	return nil
}

func (b *buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.b.Release()
}

// ring returns the pixels of a one pixel wide circle outline.
func ring(center image.Point, radius int) []image.Point {
	if radius <= 0 {
		return []image.Point{center}
	}
	seen := make(map[image.Point]bool)
	var out []image.Point
	add := func(x, y int) {
		p := center.Add(image.Pt(x, y))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	x, y := radius, 0
	err := 1 - radius
	for x >= y {
		add(x, y)
		add(y, x)
		add(-y, x)
		add(-x, y)
		add(-x, -y)
		add(-y, -x)
		add(y, -x)
		add(x, -y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	return out
}
