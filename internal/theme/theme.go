package theme

import (
	"image/color"
)

// Theme defines the colors the painter draws around and over the canvas.
type Theme struct {
	Name string

	// Window
	Margin color.RGBA // Window background around the canvas

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	BrushPreview color.RGBA // Ring shown while resizing the brush

	// Picker
	PickerBackground color.RGBA
	PickerMarker     color.RGBA
	PickerText       color.RGBA
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Margin:           color.RGBA{0x1e, 0x1e, 0x1e, 255},
		CheckerLight:     color.RGBA{0xff, 0xff, 0xff, 255},
		CheckerDark:      color.RGBA{0xe6, 0xe6, 0xe6, 255},
		BrushPreview:     color.RGBA{0xcc, 0xcc, 0xcc, 255},
		PickerBackground: color.RGBA{0, 0, 0, 255},
		PickerMarker:     color.RGBA{0xff, 0xff, 0xff, 255},
		PickerText:       color.RGBA{0xff, 0xff, 0xff, 255},
	}
}

// Fields lists the color keys a theme file may set, in declaration order.
func Fields() []string {
	return []string{
		"Margin",
		"CheckerLight",
		"CheckerDark",
		"BrushPreview",
		"PickerBackground",
		"PickerMarker",
		"PickerText",
	}
}
