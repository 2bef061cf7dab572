package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/config"
	"github.com/example/apint/internal/prompt"
	"github.com/example/apint/internal/shinyui"
	"github.com/example/apint/internal/x11"
)

// paintCmd opens a window and runs an interactive painting session.
type paintCmd struct {
	*root
	fs         *flag.FlagSet
	canvas     canvasFlags
	fullscreen bool
	backend    string
	noShm      bool
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *paintCmd) Program() string {
	return p.root.subcommand("paint")
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	fs := flag.NewFlagSet("paint", flag.ExitOnError)
	p := &paintCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	p.canvas.register(fs, cfg)
	fs.BoolVar(&p.fullscreen, "f", false, "start fullscreen")
	fs.StringVar(&p.backend, "backend", cfg.Backend, "display backend: x11 or shiny")
	fs.BoolVar(&p.noShm, "no-shm", false, "never use MIT-SHM shared memory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	p.backend = strings.ToLower(strings.TrimSpace(p.backend))
	if p.backend != "x11" && p.backend != "shiny" {
		return nil, fmt.Errorf("unknown backend %q: want x11 or shiny", p.backend)
	}
	if err := p.canvas.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Bindings lists the window key and mouse bindings for the help text.
func (p *paintCmd) Bindings() []string {
	out := []string{
		"left button      paint",
		"middle button    pan the canvas",
		"right button     color picker",
		"wheel            grow or shrink the brush",
	}
	opts := app.Options{Width: minCanvasSide + 1, Height: minCanvasSide + 1}
	if p.root != nil {
		opts.Palette = p.root.palette
	}
	pt, err := app.New(opts)
	if err != nil {
		return out
	}
	defer pt.Close()
	for _, b := range pt.Bindings() {
		out = append(out, fmt.Sprintf("%-16s %s", b.Shortcut, b.Action))
	}
	for _, e := range pt.Palette().Entries() {
		out = append(out, fmt.Sprintf("%-16s %s", string(e.Key), strings.ToLower(e.Name)))
	}
	return out
}

func (p *paintCmd) Run() error {
	opts, err := p.canvas.options(p.root)
	if err != nil {
		return err
	}
	opts.Prompter = &prompt.Menu{}
	title := windowTitle(titleOptions{File: p.canvas.load, Backend: p.backend})
	margin := opts.ResolvedTheme().Margin
	if p.backend == "shiny" {
		return shinyui.Main(shinyui.Options{Title: title, Margin: margin}, func(w *shinyui.Window) error {
			opts.Screen = w
			return runPainter(opts, w)
		})
	}
	d, err := x11.Open(x11.Options{
		Title:      title,
		Class:      "apint",
		Fullscreen: p.fullscreen,
		Margin:     margin,
		DisableShm: p.noShm,
	})
	if err != nil {
		return fmt.Errorf("failed to open display: %w", err)
	}
	defer d.Close()
	opts.Screen = d
	return runPainter(opts, d)
}

func runPainter(opts app.Options, src app.Source) error {
	pt, err := app.New(opts)
	if err != nil {
		return err
	}
	defer pt.Close()
	pt.Render()
	return pt.Run(context.Background(), src)
}
