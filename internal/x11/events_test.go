package x11

import (
	"image"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/apint/internal/app"
)

func testDisplay(t *testing.T) *Display {
	t.Helper()
	d := &Display{win: 7, size: image.Pt(800, 600), atoms: atoms{protocols: 100, deleteWindow: 101}}
	if err := d.keys.set(24, 2, 1, []xproto.Keysym{'z', 's'}); err != nil {
		t.Fatalf("set keymap: %v", err)
	}
	return d
}

func TestTranslatePointer(t *testing.T) {
	d := testDisplay(t)
	tests := []struct {
		ev   xgb.Event
		want app.Event
	}{
		{xproto.ButtonPressEvent{Detail: 1, EventX: 10, EventY: 20}, app.Press{Pos: image.Pt(10, 20), Button: app.ButtonLeft}},
		{xproto.ButtonPressEvent{Detail: 5, EventX: 1, EventY: 2}, app.Press{Pos: image.Pt(1, 2), Button: app.ButtonWheelDown}},
		{xproto.ButtonReleaseEvent{Detail: 2, EventX: 3, EventY: 4}, app.Release{Pos: image.Pt(3, 4), Button: app.ButtonMiddle}},
		{xproto.MotionNotifyEvent{EventX: 5, EventY: 6}, app.Motion{Pos: image.Pt(5, 6)}},
	}
	for _, tt := range tests {
		got, ok := d.translate(tt.ev)
		if !ok || got != tt.want {
			t.Errorf("translate(%T) = %#v, %v; want %#v", tt.ev, got, ok, tt.want)
		}
	}
}

func TestTranslateKeys(t *testing.T) {
	d := testDisplay(t)
	got, ok := d.translate(xproto.KeyPressEvent{Detail: 24, State: xproto.ModMaskControl | xproto.ModMaskShift})
	if !ok || got != (app.Key{Rune: 'z', Ctrl: true}) {
		t.Fatalf("ctrl key = %#v, %v", got, ok)
	}
	got, ok = d.translate(xproto.KeyPressEvent{Detail: 25})
	if !ok || got != (app.Key{Rune: 's'}) {
		t.Fatalf("plain key = %#v, %v", got, ok)
	}
	got, ok = d.translate(xproto.KeyPressEvent{Detail: 90})
	if !ok || got != (app.Key{}) {
		t.Fatalf("unmapped key = %#v, %v", got, ok)
	}
}

func TestTranslateWindowEvents(t *testing.T) {
	d := testDisplay(t)
	if _, ok := d.translate(xproto.ExposeEvent{Count: 2}); ok {
		t.Fatalf("intermediate expose passed on")
	}
	if got, ok := d.translate(xproto.ExposeEvent{}); !ok || got != (app.Expose{}) {
		t.Fatalf("final expose = %#v, %v", got, ok)
	}
	if _, ok := d.translate(xproto.ConfigureNotifyEvent{Window: 7, Width: 800, Height: 600}); ok {
		t.Fatalf("move without resize passed on")
	}
	if _, ok := d.translate(xproto.ConfigureNotifyEvent{Window: 8, Width: 10, Height: 10}); ok {
		t.Fatalf("other window configure passed on")
	}
	got, ok := d.translate(xproto.ConfigureNotifyEvent{Window: 7, Width: 1024, Height: 700})
	if !ok || got != (app.Resize{Size: image.Pt(1024, 700)}) {
		t.Fatalf("resize = %#v, %v", got, ok)
	}
	if d.Size() != image.Pt(1024, 700) {
		t.Fatalf("size = %v", d.Size())
	}
	if _, ok := d.translate(xproto.FocusOutEvent{Mode: xproto.NotifyModeGrab}); ok {
		t.Fatalf("grab focus change passed on")
	}
	if got, ok := d.translate(xproto.FocusOutEvent{Mode: xproto.NotifyModeNormal}); !ok || got != (app.Cancel{}) {
		t.Fatalf("focus out = %#v, %v", got, ok)
	}
	if got, ok := d.translate(xproto.DestroyNotifyEvent{Window: 7}); !ok || got != (app.Close{}) {
		t.Fatalf("destroy = %#v, %v", got, ok)
	}
}

func TestTranslateDeleteWindow(t *testing.T) {
	d := testDisplay(t)
	msg := xproto.ClientMessageEvent{
		Format: 32,
		Type:   100,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{101, 0, 0, 0, 0}),
	}
	if got, ok := d.translate(msg); !ok || got != (app.Close{}) {
		t.Fatalf("delete window = %#v, %v", got, ok)
	}
	msg.Data = xproto.ClientMessageDataUnionData32New([]uint32{55, 0, 0, 0, 0})
	if _, ok := d.translate(msg); ok {
		t.Fatalf("other protocol message passed on")
	}
}
