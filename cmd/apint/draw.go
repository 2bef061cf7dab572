package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/clipboard"
	"github.com/example/apint/internal/config"
)

var writeClipboardFn = clipboard.WriteImage

// drawCmd applies painting operations to a canvas without opening a window
// and writes the result.
type drawCmd struct {
	*root
	fs          *flag.FlagSet
	canvas      canvasFlags
	output      string
	colorSpec   string
	toClipboard bool
	ops         []string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) Program() string {
	return d.root.subcommand("draw")
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	d.canvas.register(fs, cfg)
	fs.StringVar(&d.output, "o", "", "output file; the extension picks the format (png, ppm, bmp, tiff, pdf)")
	fs.StringVar(&d.colorSpec, "color", "", "initial brush color name or hex value")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	d.ops = splitOps(fs.Args())
	if len(d.ops) == 0 {
		return nil, &UsageError{of: d}
	}
	if d.output == "" && !d.toClipboard {
		return nil, fmt.Errorf("an output file (-o) or -to-clipboard is required")
	}
	if err := d.canvas.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// splitOps splits arguments into operations. An argument may hold several
// operations separated by semicolons.
func splitOps(args []string) []string {
	var ops []string
	for _, arg := range args {
		for _, op := range strings.Split(arg, ";") {
			if op = strings.TrimSpace(op); op != "" {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

func (d *drawCmd) Run() error {
	opts, err := d.canvas.options(d.root)
	if err != nil {
		return err
	}
	p, err := app.New(opts)
	if err != nil {
		return err
	}
	defer p.Close()
	if d.colorSpec != "" {
		if err := p.Do("color " + d.colorSpec); err != nil {
			return err
		}
	}
	for _, op := range d.ops {
		if err := p.Do(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if d.output != "" {
		if err := p.Save(d.output); err != nil {
			return err
		}
		saved := d.output
		if abs, err := filepath.Abs(d.output); err == nil {
			saved = abs
		}
		if d.root != nil {
			d.root.messenger.Saved(saved)
		}
	}
	if d.toClipboard {
		if err := writeClipboardFn(p.Canvas().Image()); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		if d.root != nil {
			d.root.messenger.Copied(p.Canvas().Image())
		}
	}
	return nil
}
