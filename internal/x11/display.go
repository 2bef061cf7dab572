// Package x11 is the X11 window the painter runs in. It speaks the core
// protocol through xgb, uploads the canvas through MIT-SHM when the server
// offers it and falls back to batched PutImage requests otherwise.
package x11

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/canvas"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	// Glyphs of the standard "cursor" font.
	glyphCrosshair = 34
	glyphFleur     = 52
)

var (
	// ErrNoShm is returned when the server cannot share memory with us.
	ErrNoShm = errors.New("MIT-SHM unavailable")

	errClosed   = errors.New("display closed")
	errReleased = errors.New("buffer used after release")
)

// Options configures the window.
type Options struct {
	Title      string
	Class      string
	Width      int
	Height     int
	Fullscreen bool
	// Margin fills the window around the canvas.
	Margin stdcolor.Color
	// DisableShm forces plain PutImage uploads.
	DisableShm bool
}

// Display is a connected window. It implements app.Screen and app.Source.
type Display struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
	win    xproto.Window
	gc     xproto.Gcontext
	margin xproto.Gcontext
	ring   xproto.Gcontext

	cursors map[app.Cursor]xproto.Cursor
	keys    keymap
	atoms   atoms

	size   image.Point
	shm    bool
	closed bool
}

type atoms struct {
	protocols    xproto.Atom
	deleteWindow xproto.Atom
}

var _ app.Screen = (*Display)(nil)
var _ app.Source = (*Display)(nil)

// Open connects to $DISPLAY and maps a window.
func Open(opts Options) (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	d, err := newDisplay(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func newDisplay(conn *xgb.Conn, opts Options) (*Display, error) {
	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	scr := setup.DefaultScreen(conn)
	if scr == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	if scr.RootDepth != 24 && scr.RootDepth != 32 {
		return nil, fmt.Errorf("unsupported root depth %d", scr.RootDepth)
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Title == "" {
		opts.Title = "apint"
	}
	if opts.Class == "" {
		opts.Class = opts.Title
	}
	if opts.Margin == nil {
		opts.Margin = stdcolor.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	}
	d := &Display{
		conn:    conn,
		setup:   setup,
		screen:  scr,
		size:    image.Pt(opts.Width, opts.Height),
		cursors: make(map[app.Cursor]xproto.Cursor),
	}
	if !opts.DisableShm {
		d.shm = probeShm(conn)
	}
	if err := d.keys.load(conn, setup); err != nil {
		return nil, fmt.Errorf("keyboard mapping: %w", err)
	}
	if err := d.createWindow(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Display) createWindow(opts Options) error {
	var err error
	if d.win, err = xproto.NewWindowId(d.conn); err != nil {
		return fmt.Errorf("new window id: %w", err)
	}
	margin := pixel(opts.Margin)
	err = xproto.CreateWindowChecked(d.conn, d.screen.RootDepth, d.win, d.screen.Root,
		0, 0, uint16(opts.Width), uint16(opts.Height), 0,
		xproto.WindowClassInputOutput, d.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			margin,
			xproto.EventMaskExposure |
				xproto.EventMaskKeyPress |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskFocusChange,
		}).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	if err := d.setProperties(opts); err != nil {
		return err
	}
	if d.gc, err = d.newGC(0); err != nil {
		return err
	}
	if d.margin, err = d.newGC(margin); err != nil {
		return err
	}
	if d.ring, err = d.newGC(0xcccccc); err != nil {
		return err
	}
	if err := d.loadCursors(); err != nil {
		return err
	}
	if err := d.SetCursor(app.CursorCrosshair); err != nil {
		return err
	}
	xproto.MapWindow(d.conn, d.win)
	return d.sync()
}

func (d *Display) setProperties(opts Options) error {
	a, err := internAtoms(d.conn, "_NET_WM_NAME", "UTF8_STRING", "WM_PROTOCOLS", "WM_DELETE_WINDOW",
		"_NET_WM_WINDOW_OPACITY", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN")
	if err != nil {
		return err
	}
	netName, utf8, protocols, deleteWindow := a[0], a[1], a[2], a[3]
	opacity, state, fullscreen := a[4], a[5], a[6]
	d.atoms = atoms{protocols: protocols, deleteWindow: deleteWindow}

	title := []byte(opts.Title)
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, netName, utf8, 8, uint32(len(title)), title)
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), title)
	class := []byte(opts.Class + "\x00" + opts.Class + "\x00")
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, xproto.AtomWmClass, xproto.AtomString, 8, uint32(len(class)), class)
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, protocols, xproto.AtomAtom, 32, 1, atomBytes(deleteWindow))
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, opacity, xproto.AtomCardinal, 32, 1, []byte{0xff, 0xff, 0xff, 0xff})
	if opts.Fullscreen {
		xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.win, state, xproto.AtomAtom, 32, 1, atomBytes(fullscreen))
	}
	return nil
}

func (d *Display) newGC(foreground uint32) (xproto.Gcontext, error) {
	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return 0, fmt.Errorf("new gc id: %w", err)
	}
	err = xproto.CreateGCChecked(d.conn, gc, xproto.Drawable(d.win),
		xproto.GcForeground|xproto.GcGraphicsExposures, []uint32{foreground, 0}).Check()
	if err != nil {
		return 0, fmt.Errorf("create gc: %w", err)
	}
	return gc, nil
}

func (d *Display) loadCursors() error {
	font, err := xproto.NewFontId(d.conn)
	if err != nil {
		return fmt.Errorf("new font id: %w", err)
	}
	const name = "cursor"
	if err := xproto.OpenFontChecked(d.conn, font, uint16(len(name)), name).Check(); err != nil {
		return fmt.Errorf("open cursor font: %w", err)
	}
	defer xproto.CloseFont(d.conn, font)
	for c, glyph := range map[app.Cursor]uint16{
		app.CursorCrosshair: glyphCrosshair,
		app.CursorFleur:     glyphFleur,
	} {
		id, err := xproto.NewCursorId(d.conn)
		if err != nil {
			return fmt.Errorf("new cursor id: %w", err)
		}
		xproto.CreateGlyphCursor(d.conn, id, font, font, glyph, glyph+1,
			0, 0, 0, 0xffff, 0xffff, 0xffff)
		d.cursors[c] = id
	}
	return nil
}

// Close destroys the window and disconnects.
func (d *Display) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for _, c := range d.cursors {
		xproto.FreeCursor(d.conn, c)
	}
	for _, gc := range []xproto.Gcontext{d.gc, d.margin, d.ring} {
		if gc != 0 {
			xproto.FreeGC(d.conn, gc)
		}
	}
	xproto.DestroyWindow(d.conn, d.win)
	if err := d.sync(); err != nil {
		log.Printf("x11 close: %v", err)
	}
	d.conn.Close()
}

// Size is the current window size.
func (d *Display) Size() image.Point { return d.size }

// Shared reports whether buffers live in MIT-SHM segments.
func (d *Display) Shared() bool { return d.shm }

// NewBuffer allocates a canvas buffer of the given size.
func (d *Display) NewBuffer(size image.Point) (canvas.Buffer, error) {
	if d.shm {
		b, err := newShmBuffer(d, size)
		if err == nil {
			return b, nil
		}
		log.Printf("x11: shared memory buffer: %v, using PutImage", err)
		d.shm = false
	}
	return newPlainBuffer(d, size), nil
}

// Clear fills r with the margin color.
func (d *Display) Clear(r image.Rectangle) error {
	if d.closed {
		return errClosed
	}
	if r.Empty() {
		return nil
	}
	xproto.PolyFillRectangle(d.conn, xproto.Drawable(d.win), d.margin, []xproto.Rectangle{xRect(r)})
	return nil
}

// SetCursor changes the pointer shape over the window.
func (d *Display) SetCursor(c app.Cursor) error {
	id, ok := d.cursors[c]
	if !ok {
		return fmt.Errorf("cursor %s not loaded", c)
	}
	xproto.ChangeWindowAttributes(d.conn, d.win, xproto.CwCursor, []uint32{uint32(id)})
	return nil
}

// DrawPreview outlines the brush.
func (d *Display) DrawPreview(center image.Point, radius int, c stdcolor.Color) error {
	if d.closed {
		return errClosed
	}
	xproto.ChangeGC(d.conn, d.ring, xproto.GcForeground, []uint32{pixel(c)})
	xproto.PolyArc(d.conn, xproto.Drawable(d.win), d.ring, []xproto.Arc{{
		X:      int16(center.X - radius),
		Y:      int16(center.Y - radius),
		Width:  uint16(radius * 2),
		Height: uint16(radius * 2),
		Angle1: 0,
		Angle2: 360 << 6,
	}})
	return nil
}

// DrawOverlay copies img into the window at at.
func (d *Display) DrawOverlay(img image.Image, at image.Point) error {
	if d.closed {
		return errClosed
	}
	rgba := toRGBA(img)
	putImage(d.conn, xproto.Drawable(d.win), d.gc, d.screen.RootDepth, rgba, rgba.Bounds(), at, nil)
	return nil
}

// Flush waits until the server has processed every request sent so far.
func (d *Display) Flush() error {
	if d.closed {
		return errClosed
	}
	return d.sync()
}

func (d *Display) sync() error {
	if _, err := xproto.GetInputFocus(d.conn).Reply(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// pixel converts c to a TrueColor pixel value for depth 24 and 32 visuals.
func pixel(c stdcolor.Color) uint32 {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

func xRect(r image.Rectangle) xproto.Rectangle {
	return xproto.Rectangle{X: int16(r.Min.X), Y: int16(r.Min.Y), Width: uint16(r.Dx()), Height: uint16(r.Dy())}
}

func atomBytes(a xproto.Atom) []byte {
	b := make([]byte, 4)
	xgb.Put32(b, uint32(a))
	return b
}

func internAtoms(conn *xgb.Conn, names ...string) ([]xproto.Atom, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	out := make([]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", names[i], err)
		}
		out[i] = reply.Atom
	}
	return out, nil
}
