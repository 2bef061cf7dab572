package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/brush"
	"github.com/example/apint/internal/capture"
	"github.com/example/apint/internal/clipboard"
	"github.com/example/apint/internal/codec"
	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/config"
)

// Canvas size limits accepted by -s.
const (
	minCanvasSide = 5
	maxCanvasSide = 5000
)

var (
	grabScreenFn    = capture.Screenshot
	readClipboardFn = clipboard.ReadImage
	decodeFileFn    = codec.DecodeFile
)

var errExclusiveSources = errors.New("-l, -grab and -clipboard are mutually exclusive")

// canvasFlags are the flags every command that opens a canvas shares.
type canvasFlags struct {
	load       string
	size       string
	background string
	grab       bool
	monitor    string
	selectArea bool
	clipboard  bool
	radius     int
	rough      bool
}

func (c *canvasFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		cfg = config.New()
	}
	fs.StringVar(&c.load, "l", "", "load an image (png, ppm, bmp, tiff, webp) instead of a blank canvas")
	fs.StringVar(&c.size, "s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "size of a blank canvas as WxH")
	fs.StringVar(&c.background, "b", cfg.Background, "background color of a blank canvas")
	fs.BoolVar(&c.grab, "grab", false, "start from a screenshot of the screen")
	fs.StringVar(&c.monitor, "monitor", "", "monitor to grab: primary, an index or part of its name")
	fs.BoolVar(&c.selectArea, "select", false, "with -grab, pick the area through the desktop screenshot portal")
	fs.BoolVar(&c.clipboard, "clipboard", false, "start from the image on the clipboard")
	fs.IntVar(&c.radius, "r", cfg.Brush.Size, "brush radius")
	fs.BoolVar(&c.rough, "rough", cfg.Brush.Rough, "paint hard edged dabs")
}

func (c *canvasFlags) validate() error {
	sources := 0
	for _, on := range []bool{c.load != "", c.grab, c.clipboard} {
		if on {
			sources++
		}
	}
	if sources > 1 {
		return errExclusiveSources
	}
	if c.monitor != "" && !c.grab {
		return fmt.Errorf("-monitor requires -grab")
	}
	if c.selectArea && !c.grab {
		return fmt.Errorf("-select requires -grab")
	}
	if c.selectArea && c.monitor != "" {
		return fmt.Errorf("-select and -monitor are mutually exclusive")
	}
	if _, err := parseSize(c.size); err != nil {
		return err
	}
	if _, err := color.Parse(c.background); err != nil {
		return fmt.Errorf("invalid background: %w", err)
	}
	return nil
}

// source returns the image the canvas starts from, or nil for a blank one.
func (c *canvasFlags) source() (image.Image, error) {
	switch {
	case c.grab:
		target := "screen"
		switch {
		case c.monitor != "":
			target = "monitor " + c.monitor
		case c.selectArea:
			target = "selection"
		}
		img, err := grabScreenFn(capture.Options{Monitor: c.monitor, Interactive: c.selectArea})
		if err != nil {
			return nil, fmt.Errorf("failed to grab %s: %w", target, err)
		}
		if err := checkSourceSize(img); err != nil {
			return nil, fmt.Errorf("failed to grab %s: %w (try -monitor)", target, err)
		}
		return img, nil
	case c.clipboard:
		img, err := readClipboardFn()
		if err == nil {
			err = checkSourceSize(img)
		}
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	case c.load != "":
		img, err := decodeFileFn(c.load)
		if err == nil {
			err = checkSourceSize(img)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", c.load, err)
		}
		return img, nil
	}
	return nil, nil
}

// options builds the painter options shared by every command.
func (c *canvasFlags) options(r *root) (app.Options, error) {
	size, err := parseSize(c.size)
	if err != nil {
		return app.Options{}, err
	}
	bg, err := color.Parse(c.background)
	if err != nil {
		return app.Options{}, fmt.Errorf("invalid background: %w", err)
	}
	img, err := c.source()
	if err != nil {
		return app.Options{}, err
	}
	opts := app.Options{
		Width:      size.X,
		Height:     size.Y,
		Background: bg,
		Image:      img,
		Brush:      brush.Brush{Radius: brush.Clamp(c.radius), Rough: c.rough},
		Clipboard:  app.SystemClipboard{},
	}
	if r != nil {
		opts.Theme = r.activeTheme
		opts.Palette = r.palette
		opts.Messenger = r.messenger
		if r.config != nil {
			opts.SaveDir = r.config.SaveDir
			opts.MaxPlainBytes = r.config.MaxPlainBytes
		}
	}
	return opts, nil
}

// parseSize reads a canvas size written as WxH.
// checkSourceSize applies the -s upper bound to images a canvas starts from.
func checkSourceSize(img image.Image) error {
	if img == nil {
		return nil
	}
	size := img.Bounds().Size()
	if size.X > maxCanvasSide || size.Y > maxCanvasSide {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", codec.ErrTooLarge, size.X, size.Y, maxCanvasSide, maxCanvasSide)
	}
	return nil
}

func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if width <= minCanvasSide || height <= minCanvasSide || width > maxCanvasSide || height > maxCanvasSide {
		return image.Point{}, fmt.Errorf("invalid size %q: sides must be in (%d, %d]", s, minCanvasSide, maxCanvasSide)
	}
	return image.Pt(width, height), nil
}
