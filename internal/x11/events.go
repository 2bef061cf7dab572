package x11

import (
	"image"
	"io"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/apint/internal/app"
)

// NextEvent blocks until the next event the painter cares about. It returns
// io.EOF once the connection is gone.
func (d *Display) NextEvent() (app.Event, error) {
	for {
		if d.closed {
			return nil, io.EOF
		}
		ev, xerr := d.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, io.EOF
		}
		if xerr != nil {
			log.Printf("x11: %v", xerr)
			continue
		}
		if out, ok := d.translate(ev); ok {
			return out, nil
		}
	}
}

func (d *Display) translate(ev xgb.Event) (app.Event, bool) {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		// Only the last of a series of exposures is passed on.
		if e.Count == 0 {
			return app.Expose{}, true
		}
	case xproto.ConfigureNotifyEvent:
		if e.Window != d.win {
			break
		}
		size := image.Pt(int(e.Width), int(e.Height))
		if size == d.size {
			break
		}
		d.size = size
		return app.Resize{Size: size}, true
	case xproto.KeyPressEvent:
		return app.Key{
			Rune: d.keys.rune(e.Detail),
			Ctrl: e.State&xproto.ModMaskControl != 0,
		}, true
	case xproto.ButtonPressEvent:
		return app.Press{Pos: image.Pt(int(e.EventX), int(e.EventY)), Button: int(e.Detail)}, true
	case xproto.ButtonReleaseEvent:
		return app.Release{Pos: image.Pt(int(e.EventX), int(e.EventY)), Button: int(e.Detail)}, true
	case xproto.MotionNotifyEvent:
		return app.Motion{Pos: image.Pt(int(e.EventX), int(e.EventY))}, true
	case xproto.FocusOutEvent:
		if e.Mode == xproto.NotifyModeNormal {
			return app.Cancel{}, true
		}
	case xproto.ClientMessageEvent:
		if e.Type == d.atoms.protocols && e.Format == 32 &&
			xproto.Atom(e.Data.Data32[0]) == d.atoms.deleteWindow {
			return app.Close{}, true
		}
	case xproto.DestroyNotifyEvent:
		if e.Window == d.win {
			return app.Close{}, true
		}
	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingKeyboard {
			if err := d.keys.load(d.conn, d.setup); err != nil {
				log.Printf("x11: reload keyboard mapping: %v", err)
			}
		}
	}
	return nil, false
}
