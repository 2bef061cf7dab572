package app

import "image"

// Pointer buttons as numbered by X11.
const (
	ButtonLeft      = 1
	ButtonMiddle    = 2
	ButtonRight     = 3
	ButtonWheelUp   = 4
	ButtonWheelDown = 5
)

// Event is an input event delivered by a display backend. Positions are in
// viewport coordinates.
type Event interface{}

// Press is a pointer button press.
type Press struct {
	Pos    image.Point
	Button int
}

// Release is a pointer button release.
type Release struct {
	Pos    image.Point
	Button int
}

// Motion reports the pointer position.
type Motion struct {
	Pos image.Point
}

// Key is a key press. Rune is the unshifted character of the key, zero for
// keys without one.
type Key struct {
	Rune rune
	Ctrl bool
}

// Resize reports a new viewport size.
type Resize struct {
	Size image.Point
}

// Expose asks for the window contents to be redrawn.
type Expose struct{}

// Close is sent when the window is closed.
type Close struct{}

// Cancel ends any gesture in progress, for example when the window loses
// focus while a button is held.
type Cancel struct{}

// Cursor selects the pointer shape over the window.
type Cursor int

const (
	CursorCrosshair Cursor = iota
	CursorFleur
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorFleur:
		return "fleur"
	}
	return "unknown"
}
