package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/apint/internal/brush"
	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/history"
)

// ErrUnknownOp is returned by Do for an unrecognised operation.
var ErrUnknownOp = errors.New("unknown operation")

// OpHelp describes the operations accepted by Do.
var OpHelp = []string{
	"color <name|#rrggbb[aa]|palette name>",
	"size <radius>",
	"rough on|off",
	"dab <x> <y>",
	"line <x0> <y0> <x1> <y1>",
	"stroke <x0> <y0> <x1> <y1> [<x> <y>]...",
	"pick <x> <y>",
	"undo",
	"redo",
	"clear",
	"copy",
	"paste",
	"save <path>",
	"load <path>",
}

// Do runs one textual operation against the canvas. Coordinates are in
// canvas space. Painting operations are recorded as one stroke each.
func (p *Painter) Do(op string) error {
	fields := strings.Fields(op)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "color", "colour":
		if len(args) != 1 {
			return fmt.Errorf("%s requires a color", name)
		}
		c, err := p.parseColor(args[0])
		if err != nil {
			return err
		}
		p.color = c
	case "size":
		v, err := expectInts(args, 1, name)
		if err != nil {
			return err
		}
		p.brush.Radius = brush.Clamp(v[0])
	case "rough":
		if len(args) != 1 {
			return fmt.Errorf("rough requires on or off")
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		p.brush.Rough = on
	case "dab":
		v, err := expectInts(args, 2, name)
		if err != nil {
			return err
		}
		p.paint(v)
	case "line":
		v, err := expectInts(args, 4, name)
		if err != nil {
			return err
		}
		p.paint(v)
	case "stroke":
		if len(args) < 4 || len(args)%2 != 0 {
			return fmt.Errorf("stroke requires at least two x y pairs")
		}
		v, err := expectInts(args, len(args), name)
		if err != nil {
			return err
		}
		p.paint(v)
	case "pick":
		v, err := expectInts(args, 2, name)
		if err != nil {
			return err
		}
		c, ok := p.canvas.At(v[0], v[1])
		if !ok {
			return fmt.Errorf("pick: %d,%d is outside the canvas", v[0], v[1])
		}
		p.color = c
	case "undo":
		p.Undo()
	case "redo":
		p.Redo()
	case "clear":
		p.endStroke()
		p.history.Reset()
		p.canvas.Clear()
	case "copy":
		p.Copy()
	case "paste":
		p.Paste()
	case "save", "load":
		if len(args) == 0 {
			return fmt.Errorf("%s requires a path", name)
		}
		path := strings.Join(args, " ")
		if name == "save" {
			if err := p.Save(path); err != nil {
				return err
			}
			p.opts.Messenger.Saved(path)
			return nil
		}
		if err := p.Load(path); err != nil {
			return err
		}
		p.opts.Messenger.Loaded(path)
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, fields[0])
	}
	p.render()
	return nil
}

// paint stamps a polyline through the points in v as a single stroke. A
// single point is one dab.
func (p *Painter) paint(v []int) {
	d := history.Dab{Color: p.color, Radius: p.brush.Radius, Rough: p.brush.Rough}
	if len(v) == 2 {
		d.X, d.Y = v[0], v[1]
		p.Dab(d, true)
	}
	step := max(1, p.brush.Radius/2)
	for i := 0; i+3 < len(v); i += 2 {
		pts := brush.Line(v[i], v[i+1], v[i+2], v[i+3], step)
		if i > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		for _, pt := range pts {
			d.X, d.Y = pt.X, pt.Y
			p.Dab(d, true)
		}
	}
	p.endStroke()
}

func (p *Painter) parseColor(s string) (color.Color, error) {
	c, err := color.Parse(s)
	if err == nil {
		return c, nil
	}
	for _, e := range p.palette.Entries() {
		if strings.EqualFold(e.Name, s) {
			return e.Color, nil
		}
	}
	return 0, err
}

func expectInts(args []string, n int, op string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", op, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
