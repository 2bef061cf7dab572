package app

import (
	"context"
	"image"
	stdcolor "image/color"

	"github.com/example/apint/internal/canvas"
	"github.com/example/apint/internal/clipboard"
)

// Screen is a window the painter draws into.
type Screen interface {
	canvas.Surface
	// Size is the current size of the drawable area.
	Size() image.Point
	SetCursor(c Cursor) error
	// DrawPreview outlines a circle of radius around center.
	DrawPreview(center image.Point, radius int, c stdcolor.Color) error
	// DrawOverlay copies img on top of the canvas with its origin at at.
	DrawOverlay(img image.Image, at image.Point) error
	Flush() error
}

// Source delivers input events. NextEvent returns io.EOF once the window is
// gone.
type Source interface {
	NextEvent() (Event, error)
}

// Prompter asks the user for a line of text.
type Prompter interface {
	Ask(ctx context.Context, label string) (string, error)
}

// Clipboard exchanges images with other programs.
type Clipboard interface {
	WriteImage(img image.Image) error
	ReadImage() (image.Image, error)
}

// SystemClipboard is the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteImage(img image.Image) error { return clipboard.WriteImage(img) }

func (SystemClipboard) ReadImage() (image.Image, error) { return clipboard.ReadImage() }
