// Package app is the painting session: it routes pointer and keyboard
// events into the canvas, the brush and the stroke history, and drives the
// picker, prompts and clipboard around them.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"io"
	"log"
	"unicode"

	"github.com/example/apint/internal/brush"
	"github.com/example/apint/internal/canvas"
	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/history"
	"github.com/example/apint/internal/notify"
	"github.com/example/apint/internal/palette"
	"github.com/example/apint/internal/picker"
	"github.com/example/apint/internal/theme"
)

// Options configures a Painter.
type Options struct {
	// Width, Height and Background describe a blank canvas. They are ignored
	// when Image is set.
	Width, Height int
	Background    stdcolor.Color
	Image         image.Image

	Color   stdcolor.Color
	Brush   brush.Brush
	Theme   *theme.Theme
	Palette *palette.Palette
	// SaveDir resolves relative paths typed into the save and open prompts.
	SaveDir       string
	MaxPlainBytes int

	Screen    Screen
	Prompter  Prompter
	Clipboard Clipboard
	Messenger *notify.Messenger
}

// CanvasOptions returns the canvas options implied by o.
func (o Options) CanvasOptions() []canvas.Option {
	var opts []canvas.Option
	if o.Screen != nil {
		opts = append(opts, canvas.WithSurface(o.Screen))
	}
	if o.MaxPlainBytes > 0 {
		opts = append(opts, canvas.WithMaxPlainBytes(o.MaxPlainBytes))
	}
	th := o.ResolvedTheme()
	return append(opts, canvas.WithChecker(th.CheckerLight, th.CheckerDark))
}

// ResolvedTheme returns the theme o paints with.
func (o Options) ResolvedTheme() *theme.Theme {
	if o.Theme == nil {
		return theme.Default()
	}
	return o.Theme
}

// Painter is one painting session.
type Painter struct {
	opts    Options
	theme   *theme.Theme
	palette *palette.Palette

	canvas  *canvas.Canvas
	history *history.History
	stroke  *history.Stroke

	brush brush.Brush
	color color.Color

	mouse   image.Point
	drawing bool
	panning bool
	panFrom image.Point
	preview bool

	picker    *picker.Picker
	shortcuts map[Shortcut]action
}

// New creates a painter with a fresh canvas.
func New(opts Options) (*Painter, error) {
	p := &Painter{
		opts:    opts,
		theme:   opts.Theme,
		palette: opts.Palette,
		history: history.New(),
		brush:   opts.Brush,
		color:   color.Black,
	}
	if p.theme == nil {
		p.theme = theme.Default()
	}
	if p.palette == nil {
		p.palette = palette.Default()
	}
	if p.brush.Radius == 0 {
		p.brush.Radius = brush.DefaultRadius
	}
	p.brush.Radius = brush.Clamp(p.brush.Radius)
	if opts.Color != nil {
		p.color = color.FromColor(opts.Color)
	}
	p.picker = picker.New(p.theme)

	var err error
	if opts.Image != nil {
		p.canvas, err = canvas.FromImage(opts.Image, opts.CanvasOptions()...)
	} else {
		bg := opts.Background
		if bg == nil {
			bg = stdcolor.White
		}
		p.canvas, err = canvas.New(opts.Width, opts.Height, bg, opts.CanvasOptions()...)
	}
	if err != nil {
		return nil, err
	}
	if opts.Screen != nil {
		sz := opts.Screen.Size()
		p.canvas.SetViewport(sz.X, sz.Y)
	}
	p.registerActions()
	return p, nil
}

// Close releases the canvas display buffer.
func (p *Painter) Close() { p.canvas.Close() }

func (p *Painter) Canvas() *canvas.Canvas    { return p.canvas }
func (p *Painter) History() *history.History { return p.history }
func (p *Painter) Palette() *palette.Palette { return p.palette }
func (p *Painter) Picker() *picker.Picker    { return p.picker }
func (p *Painter) Color() color.Color        { return p.color }
func (p *Painter) Brush() brush.Brush        { return p.brush }
func (p *Painter) Drawing() bool             { return p.drawing }
func (p *Painter) Panning() bool             { return p.panning }

// SetColor changes the brush color.
func (p *Painter) SetColor(c stdcolor.Color) { p.color = color.FromColor(c) }

// SetBrush changes the brush radius and hardness. The radius is clamped.
func (p *Painter) SetBrush(b brush.Brush) {
	b.Radius = brush.Clamp(b.Radius)
	p.brush = b
}

// Run handles events from src until the window closes or ctx is done.
func (p *Painter) Run(ctx context.Context, src Source) error {
	for {
		if err := ctx.Err(); err != nil {
			p.endStroke()
			return err
		}
		ev, err := src.NextEvent()
		if errors.Is(err, io.EOF) {
			p.endStroke()
			return nil
		}
		if err != nil {
			p.endStroke()
			return err
		}
		if p.Handle(ctx, ev) {
			return nil
		}
	}
}

// Handle applies a single event. It reports whether the session is over.
func (p *Painter) Handle(ctx context.Context, ev Event) (quit bool) {
	switch e := ev.(type) {
	case Press:
		p.press(e)
	case Release:
		p.release(e)
	case Motion:
		p.motion(e)
	case Key:
		p.key(ctx, e)
	case Resize:
		p.canvas.SetViewport(e.Size.X, e.Size.Y)
	case Expose:
		p.render()
	case Cancel:
		p.endStroke()
		p.endPan()
	case Close:
		p.endStroke()
		return true
	}
	return false
}

func (p *Painter) press(e Press) {
	if c, changed, handled := p.picker.Press(e.Pos, e.Button); handled {
		if changed {
			p.color = color.FromColor(c)
		}
		p.render()
		return
	}
	switch e.Button {
	case ButtonLeft:
		if p.panning {
			return
		}
		p.picker.Hide()
		p.drawing = true
		p.stamp(e.Pos, true)
		p.render()
	case ButtonMiddle:
		if p.drawing {
			return
		}
		p.panning = true
		p.panFrom = e.Pos
		p.setCursor(CursorFleur)
	case ButtonRight:
		p.picker.Set(p.color)
		p.picker.Show(e.Pos, image.Rectangle{Max: p.canvas.Viewport()})
		p.render()
	case ButtonWheelUp:
		p.mouse = e.Pos
		p.brush.Grow()
		p.preview = true
		p.render()
	case ButtonWheelDown:
		p.mouse = e.Pos
		p.brush.Shrink()
		p.preview = true
		p.render()
	}
}

func (p *Painter) motion(e Motion) {
	p.mouse = e.Pos
	if c, changed, handled := p.picker.Motion(e.Pos); handled {
		if changed {
			p.color = color.FromColor(c)
			p.render()
		}
		return
	}
	if p.panning {
		d := e.Pos.Sub(p.panFrom)
		p.panFrom = e.Pos
		p.canvas.Move(float64(d.X), float64(d.Y))
		p.render()
	}
	if p.drawing {
		p.stamp(e.Pos, true)
		p.render()
	}
}

func (p *Painter) release(e Release) {
	if _, _, handled := p.picker.Release(e.Pos, e.Button); handled {
		return
	}
	switch e.Button {
	case ButtonLeft:
		p.endStroke()
	case ButtonMiddle:
		p.endPan()
	}
}

func (p *Painter) key(ctx context.Context, e Key) {
	if p.picker.Visible() {
		p.picker.Hide()
		p.render()
	}
	r := unicode.ToLower(e.Rune)
	if e.Ctrl {
		if a, ok := p.shortcuts[Shortcut{Rune: r, Ctrl: true}]; ok {
			a.fn(ctx)
			return
		}
	}
	if c, ok := p.palette.Lookup(r); ok {
		p.color = c
	}
}

// endStroke stops drawing and commits whatever was painted so far.
func (p *Painter) endStroke() {
	p.drawing = false
	if p.stroke == nil {
		return
	}
	p.history.Commit(p.stroke)
	p.stroke = nil
}

func (p *Painter) endPan() {
	if !p.panning {
		return
	}
	p.panning = false
	p.setCursor(CursorCrosshair)
}

// stamp paints one dab at a viewport position.
func (p *Painter) stamp(pos image.Point, record bool) {
	x, y := p.canvas.ViewportToCanvas(pos.X, pos.Y)
	p.Dab(history.Dab{X: x, Y: y, Color: p.color, Radius: p.brush.Radius, Rough: p.brush.Rough}, record)
}

// Dab paints d in canvas coordinates, adding it to the open stroke when
// record is set.
func (p *Painter) Dab(d history.Dab, record bool) {
	if record {
		if p.stroke == nil {
			p.stroke = &history.Stroke{}
		}
		p.stroke.Push(d)
	}
	brush.Stamp(p.canvas, d.X, d.Y, d.Color, d.Radius, brush.Options{Rough: d.Rough})
}

// Regenerate rebuilds the canvas from its snapshot and every dab up to the
// history cursor.
func (p *Painter) Regenerate() {
	p.canvas.Clear()
	p.history.Replay(func(d history.Dab) { p.Dab(d, false) })
}

// Undo steps back one stroke. It reports false at the start of the history.
func (p *Painter) Undo() bool {
	if !p.history.Undo() {
		return false
	}
	p.Regenerate()
	p.render()
	return true
}

// Redo reapplies the next stroke. It reports false at the end of the
// history.
func (p *Painter) Redo() bool {
	if !p.history.Redo() {
		return false
	}
	p.Regenerate()
	p.render()
	return true
}

// Render composites and shows the canvas.
func (p *Painter) Render() { p.render() }

func (p *Painter) render() {
	preview := p.preview
	p.preview = false
	if err := p.canvas.Render(); err != nil {
		log.Printf("render: %v", err)
		return
	}
	s := p.opts.Screen
	if s == nil {
		return
	}
	if p.picker.Visible() {
		if err := s.DrawOverlay(p.picker.Image(), p.picker.Bounds().Min); err != nil {
			log.Printf("draw picker: %v", err)
		}
	}
	if preview {
		if err := s.DrawPreview(p.mouse, p.brush.Radius, p.theme.BrushPreview); err != nil {
			log.Printf("draw brush preview: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		log.Printf("flush: %v", err)
	}
}

func (p *Painter) setCursor(c Cursor) {
	s := p.opts.Screen
	if s == nil {
		return
	}
	if err := s.SetCursor(c); err != nil {
		log.Printf("set cursor %s: %v", c, err)
		return
	}
	if err := s.Flush(); err != nil {
		log.Printf("flush: %v", err)
	}
}

// Replace swaps in a new canvas holding img and forgets the history.
func (p *Painter) Replace(img image.Image) error {
	c, err := canvas.FromImage(img, p.opts.CanvasOptions()...)
	if err != nil {
		return fmt.Errorf("replace canvas: %w", err)
	}
	vp := p.canvas.Viewport()
	p.canvas.Close()
	p.canvas = c
	if vp.X > 0 && vp.Y > 0 {
		p.canvas.SetViewport(vp.X, vp.Y)
	}
	p.history.Reset()
	p.stroke = nil
	p.drawing = false
	p.render()
	return nil
}
