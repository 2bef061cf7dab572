// Package capture takes the screenshots a painting can start from. It reads
// the X11 root window directly and falls back to the desktop screenshot
// portal when the server refuses, as under Wayland compositors.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/example/apint/internal/x11"
)

// Options selects what to capture.
type Options struct {
	// Monitor restricts the capture to one output: "primary", an index or
	// part of the output name.
	Monitor string
	// Interactive lets the user pick a region through the portal.
	Interactive bool
}

var (
	grabX11    = x11.Grab
	monitorsFn = x11.Monitors
	portalFn   = portalScreenshot
)

// Screenshot captures the desktop according to opts.
func Screenshot(opts Options) (*image.RGBA, error) {
	if opts.Interactive {
		return portalFn(true)
	}
	img, directErr := grabX11(opts.Monitor)
	if directErr == nil {
		return img, nil
	}
	shot, err := portalFn(false)
	if err != nil {
		return nil, errors.Join(directErr, fmt.Errorf("fallback screenshot failed: %w", err))
	}
	if opts.Monitor == "" {
		return shot, nil
	}
	monitors, err := monitorsFn()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	mon, err := x11.FindMonitor(monitors, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, mon.Rect)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
