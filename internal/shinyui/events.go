package shinyui

import (
	"image"
	"io"
	"log"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/apint/internal/app"
)

// NextEvent blocks until the next event the painter cares about. It returns
// io.EOF after the window has died.
func (w *Window) NextEvent() (app.Event, error) {
	for {
		if w.dead {
			return nil, io.EOF
		}
		if out, ok := w.translate(w.w.NextEvent()); ok {
			return out, nil
		}
	}
}

func (w *Window) translate(ev interface{}) (app.Event, bool) {
	switch e := ev.(type) {
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			w.dead = true
			return app.Close{}, true
		}
		if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
			return app.Cancel{}, true
		}
	case size.Event:
		sz := e.Size()
		if sz == w.size {
			break
		}
		w.size = sz
		return app.Resize{Size: sz}, true
	case paint.Event:
		return app.Expose{}, true
	case mouse.Event:
		return mouseEvent(e)
	case key.Event:
		if e.Direction != key.DirPress && e.Direction != key.DirNone {
			break
		}
		ctrl := e.Modifiers&key.ModControl != 0
		r := e.Rune
		if r < 0 {
			r = 0
		}
		if ctrl {
			r = unicode.ToLower(r)
		}
		return app.Key{Rune: r, Ctrl: ctrl}, true
	case error:
		log.Printf("shiny: %v", e)
	}
	return nil, false
}

func mouseEvent(e mouse.Event) (app.Event, bool) {
	pos := image.Pt(int(e.X), int(e.Y))
	switch e.Direction {
	case mouse.DirNone:
		return app.Motion{Pos: pos}, true
	case mouse.DirPress, mouse.DirRelease, mouse.DirStep:
		button := buttons[e.Button]
		if button == 0 {
			return nil, false
		}
		if e.Direction == mouse.DirRelease {
			return app.Release{Pos: pos, Button: button}, true
		}
		return app.Press{Pos: pos, Button: button}, true
	}
	return nil, false
}

var buttons = map[mouse.Button]int{
	mouse.ButtonLeft:      app.ButtonLeft,
	mouse.ButtonMiddle:    app.ButtonMiddle,
	mouse.ButtonRight:     app.ButtonRight,
	mouse.ButtonWheelUp:   app.ButtonWheelUp,
	mouse.ButtonWheelDown: app.ButtonWheelDown,
}
